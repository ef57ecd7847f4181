package translate

import (
	"context"
	"log/slog"
)

// Dictionary is the stored original -> translated lookup consulted before
// the page is driven. storage.Dictionary satisfies it.
type Dictionary interface {
	Lookup(original string) (string, bool, error)
	Save(original, translated string) error
}

// DictionaryTranslator wraps another translator with an exact-match
// dictionary: a hit skips the page round trip entirely, and every fresh
// translation is recorded for next time. Dictionary errors never fail a
// pass; the wrapped translator is used instead.
type DictionaryTranslator struct {
	inner Translator
	dict  Dictionary
}

// WithDictionary wraps inner with dict
func WithDictionary(inner Translator, dict Dictionary) *DictionaryTranslator {
	return &DictionaryTranslator{inner: inner, dict: dict}
}

// Name returns the translator name
func (t *DictionaryTranslator) Name() string {
	return t.inner.Name() + "+dictionary"
}

// Translate consults the dictionary, falling back to the wrapped translator
func (t *DictionaryTranslator) Translate(ctx context.Context, text string) (Result, error) {
	if translated, ok, err := t.dict.Lookup(text); err != nil {
		slog.Warn("Dictionary lookup failed", "error", err)
	} else if ok {
		slog.Info("Dictionary hit, skipping page round trip")
		return Result{Text: translated, Chunks: 0, FromDictionary: true}, nil
	}

	result, err := t.inner.Translate(ctx, text)
	if err != nil {
		return Result{}, err
	}

	if err := t.dict.Save(text, result.Text); err != nil {
		slog.Warn("Failed to save dictionary entry", "error", err)
	}
	return result, nil
}
