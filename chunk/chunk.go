// Package chunk splits source text into sentence-aligned pieces that fit
// under the translation page's input size limit.
package chunk

import (
	"errors"
	"strings"
	"unicode/utf8"
)

// DefaultMaxSize is just below the 5000 character input limit of the page.
const DefaultMaxSize = 4999

// ErrUnsegmentable is returned when text exceeds the size limit but contains
// no sentence boundary to split at.
var ErrUnsegmentable = errors.New("text exceeds the size limit and has no sentence boundary")

// Split breaks text into chunks of at most maxSize characters, cutting only
// at sentence boundaries. Text that already fits is returned as a single
// chunk. A lone sentence longer than maxSize is emitted oversize rather than
// split mid-sentence; concatenating the chunks always reproduces the input.
func Split(text string, maxSize int) ([]string, error) {
	if maxSize <= 0 {
		maxSize = DefaultMaxSize
	}
	if utf8.RuneCountInString(text) <= maxSize {
		return []string{text}, nil
	}

	sentences := Sentences(text)
	if len(sentences) == 1 && !endsWithTerminator(sentences[0]) {
		// A single oversized sentence is still emitted whole below; only
		// text with no sentence boundary at all is rejected.
		return nil, ErrUnsegmentable
	}

	var chunks []string
	var buf strings.Builder
	size := 0
	for _, sentence := range sentences {
		n := utf8.RuneCountInString(sentence)
		if size > 0 && size+n > maxSize {
			chunks = append(chunks, buf.String())
			buf.Reset()
			size = 0
		}
		buf.WriteString(sentence)
		size += n
	}
	if buf.Len() > 0 {
		chunks = append(chunks, buf.String())
	}
	return chunks, nil
}

// Sentences splits text after each run of '.', '!' or '?'. Runs of
// terminators ("?!", "...") count as a single boundary. Whitespace following
// a boundary stays attached to the next sentence, so concatenating the
// returned slices reproduces text exactly. Trailing text without a
// terminator is returned as a final partial sentence.
func Sentences(text string) []string {
	var out []string
	start := 0
	for i := 0; i < len(text); i++ {
		if isTerminator(text[i]) && (i+1 == len(text) || !isTerminator(text[i+1])) {
			out = append(out, text[start:i+1])
			start = i + 1
		}
	}
	if start < len(text) {
		out = append(out, text[start:])
	}
	return out
}

func isTerminator(c byte) bool {
	return c == '.' || c == '!' || c == '?'
}

func endsWithTerminator(s string) bool {
	return s != "" && isTerminator(s[len(s)-1])
}
