package translate

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Niedzwiedzw/tlumok/chunk"
)

// ChunkTranslator translates one chunk at a time. page.Driver satisfies it.
type ChunkTranslator interface {
	TranslateChunk(ctx context.Context, text string) (string, error)
}

// PageTranslator implements Translator by driving the external page. The
// page UI serves a single request at a time, so chunks are submitted
// strictly in order and never in parallel.
type PageTranslator struct {
	driver       ChunkTranslator
	maxChunkSize int
}

// NewPageTranslator creates a page-backed translator
func NewPageTranslator(driver ChunkTranslator, maxChunkSize int) *PageTranslator {
	return &PageTranslator{
		driver:       driver,
		maxChunkSize: maxChunkSize,
	}
}

// Name returns the translator name
func (t *PageTranslator) Name() string {
	return "page"
}

// Translate splits text into sentence-aligned chunks, pushes each through
// the page in order, and joins the per-chunk translations with a single
// space before trimming
func (t *PageTranslator) Translate(ctx context.Context, text string) (Result, error) {
	chunks, err := chunk.Split(text, t.maxChunkSize)
	if err != nil {
		return Result{}, fmt.Errorf("splitting text into chunks: %w", err)
	}

	parts := make([]string, 0, len(chunks))
	for i, c := range chunks {
		translated, err := t.driver.TranslateChunk(ctx, c)
		if err != nil {
			return Result{}, fmt.Errorf("translating chunk %d of %d: %w", i+1, len(chunks), err)
		}
		slog.Debug("Chunk translated", "chunk", i+1, "of", len(chunks), "chars", len(c))
		parts = append(parts, translated)
	}

	return Result{
		Text:   strings.TrimSpace(strings.Join(parts, " ")),
		Chunks: len(chunks),
	}, nil
}
