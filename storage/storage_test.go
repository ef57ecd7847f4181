package storage

import (
	"testing"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestSaveAndGetPasses(t *testing.T) {
	db := openTestDB(t)

	p := &Pass{
		SourceLanguage: "en",
		TargetLanguage: "pl",
		SourceText:     "Hello.",
		TranslatedText: "Cześć.",
		CharacterCount: 6,
		ChunkCount:     1,
		DurationMs:     1200,
		Success:        true,
	}
	if err := db.SavePass(p); err != nil {
		t.Fatalf("SavePass() failed: %v", err)
	}
	if p.ID == 0 {
		t.Error("SavePass() did not set the pass ID")
	}

	failed := &Pass{
		SourceLanguage: "en",
		TargetLanguage: "pl",
		SourceText:     "aaaa",
		CharacterCount: 4,
		ErrorMessage:   "text exceeds the size limit and has no sentence boundary",
	}
	if err := db.SavePass(failed); err != nil {
		t.Fatalf("SavePass() failed: %v", err)
	}

	passes, err := db.GetPasses(10, 0)
	if err != nil {
		t.Fatalf("GetPasses() failed: %v", err)
	}
	if len(passes) != 2 {
		t.Fatalf("GetPasses() returned %d passes, want 2", len(passes))
	}

	// Newest first.
	if passes[0].SourceText != "aaaa" {
		t.Errorf("first pass source = %q, want the newest", passes[0].SourceText)
	}
	if passes[1].TranslatedText != "Cześć." {
		t.Errorf("pass translated text = %q, want %q", passes[1].TranslatedText, "Cześć.")
	}
	if passes[0].Success {
		t.Error("failed pass scanned as successful")
	}
	if passes[0].ErrorMessage == "" {
		t.Error("failed pass lost its error message")
	}

	count, err := db.GetPassCount()
	if err != nil {
		t.Fatalf("GetPassCount() failed: %v", err)
	}
	if count != 2 {
		t.Errorf("GetPassCount() = %d, want 2", count)
	}
}

func TestDeletePass(t *testing.T) {
	db := openTestDB(t)

	p := &Pass{SourceLanguage: "en", TargetLanguage: "pl", SourceText: "x", TranslatedText: "y", Success: true}
	if err := db.SavePass(p); err != nil {
		t.Fatalf("SavePass() failed: %v", err)
	}

	if err := db.DeletePass(p.ID); err != nil {
		t.Fatalf("DeletePass() failed: %v", err)
	}
	if err := db.DeletePass(p.ID); err == nil {
		t.Error("DeletePass() on a missing pass returned nil error")
	}
}

func TestDictionary(t *testing.T) {
	db := openTestDB(t)
	dict := db.Dictionary("en", "pl")

	if _, ok, err := dict.Lookup("Hello."); err != nil {
		t.Fatalf("Lookup() failed: %v", err)
	} else if ok {
		t.Error("Lookup() on empty dictionary reported a hit")
	}

	if err := dict.Save("Hello.", "Cześć."); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}

	translated, ok, err := dict.Lookup("Hello.")
	if err != nil {
		t.Fatalf("Lookup() failed: %v", err)
	}
	if !ok || translated != "Cześć." {
		t.Errorf("Lookup() = %q, %v; want %q, true", translated, ok, "Cześć.")
	}

	// Saving the same pair twice is a no-op.
	if err := dict.Save("Hello.", "Cześć."); err != nil {
		t.Fatalf("duplicate Save() failed: %v", err)
	}
	entries, err := dict.Entries("Hello.")
	if err != nil {
		t.Fatalf("Entries() failed: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("Entries() returned %d entries after duplicate save, want 1", len(entries))
	}

	// A second distinct translation accumulates and wins the lookup.
	if err := dict.Save("Hello.", "Witaj."); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}
	translated, ok, err = dict.Lookup("Hello.")
	if err != nil {
		t.Fatalf("Lookup() failed: %v", err)
	}
	if !ok || translated != "Witaj." {
		t.Errorf("Lookup() = %q, want the most recent translation %q", translated, "Witaj.")
	}
	entries, err = dict.Entries("Hello.")
	if err != nil {
		t.Fatalf("Entries() failed: %v", err)
	}
	if len(entries) != 2 {
		t.Errorf("Entries() returned %d entries, want 2", len(entries))
	}
}

func TestDictionary_LanguagePairsAreIsolated(t *testing.T) {
	db := openTestDB(t)

	if err := db.Dictionary("en", "pl").Save("Hello.", "Cześć."); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}

	if _, ok, err := db.Dictionary("en", "de").Lookup("Hello."); err != nil {
		t.Fatalf("Lookup() failed: %v", err)
	} else if ok {
		t.Error("Lookup() found an entry saved under a different language pair")
	}
}

func TestGetOverallStats_EmptyDatabase(t *testing.T) {
	db := openTestDB(t)

	stats, err := db.GetOverallStats(7)
	if err != nil {
		t.Fatalf("GetOverallStats() on empty database failed: %v", err)
	}
	if stats.TotalPasses != 0 || stats.SuccessCount != 0 || stats.FailureCount != 0 || stats.DictionaryHits != 0 {
		t.Errorf("stats on empty database = %+v, want all zeros", stats)
	}
}

func TestGetOverallStats(t *testing.T) {
	db := openTestDB(t)

	passes := []*Pass{
		{SourceLanguage: "en", TargetLanguage: "pl", SourceText: "a", TranslatedText: "b", CharacterCount: 10, ChunkCount: 1, DurationMs: 100, Success: true},
		{SourceLanguage: "en", TargetLanguage: "pl", SourceText: "c", TranslatedText: "d", CharacterCount: 20, ChunkCount: 2, DurationMs: 300, Success: true, FromDictionary: true},
		{SourceLanguage: "en", TargetLanguage: "pl", SourceText: "e", CharacterCount: 5, ErrorMessage: "boom"},
	}
	for _, p := range passes {
		if err := db.SavePass(p); err != nil {
			t.Fatalf("SavePass() failed: %v", err)
		}
	}

	stats, err := db.GetOverallStats(7)
	if err != nil {
		t.Fatalf("GetOverallStats() failed: %v", err)
	}
	if stats.TotalPasses != 3 {
		t.Errorf("TotalPasses = %d, want 3", stats.TotalPasses)
	}
	if stats.SuccessCount != 2 || stats.FailureCount != 1 {
		t.Errorf("success/failure = %d/%d, want 2/1", stats.SuccessCount, stats.FailureCount)
	}
	if stats.DictionaryHits != 1 {
		t.Errorf("DictionaryHits = %d, want 1", stats.DictionaryHits)
	}
	if stats.TotalCharacters != 35 {
		t.Errorf("TotalCharacters = %d, want 35", stats.TotalCharacters)
	}

	daily, err := db.GetDailyStats(7)
	if err != nil {
		t.Fatalf("GetDailyStats() failed: %v", err)
	}
	if len(daily) != 1 {
		t.Fatalf("GetDailyStats() returned %d days, want 1", len(daily))
	}
	if daily[0].TotalPasses != 3 {
		t.Errorf("daily TotalPasses = %d, want 3", daily[0].TotalPasses)
	}
}
