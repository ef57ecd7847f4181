// Package translate turns full clipboard texts into translations. The
// actual translation is delegated to the external page; this package owns
// chunking, strict sequential chunk submission and result assembly.
package translate

import (
	"context"
)

// Result is the outcome of one full translation pass
type Result struct {
	Text string
	// Chunks is the number of pieces the source text was split into
	Chunks int
	// FromDictionary is true when the result came from the stored
	// dictionary instead of the page
	FromDictionary bool
}

// Translator defines the interface for full-text translation
type Translator interface {
	Name() string
	Translate(ctx context.Context, text string) (Result, error)
}
