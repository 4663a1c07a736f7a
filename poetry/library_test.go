package poetry

import (
	"os"
	"path/filepath"
	"testing"

	"poetry-reels/types"
)

func TestNewLibraryHasBuiltinPoems(t *testing.T) {
	lib := NewLibrary("")
	if lib.Len() == 0 {
		t.Fatal("library should be seeded with builtin poems")
	}
	if lib.Len() != len(builtinPoems) {
		t.Errorf("expected %d poems, got %d", len(builtinPoems), lib.Len())
	}
}

func TestAddDeduplicatesByAuthorTitle(t *testing.T) {
	lib := NewLibrary("")
	before := lib.Len()

	poem := types.Poem{
		Lines:  []string{"one", "two", "three", "four"},
		Author: "Test Poet",
		Title:  "Test Poem",
		Source: "reddit",
	}
	if !lib.Add(poem) {
		t.Fatal("first Add should succeed")
	}
	if lib.Add(poem) {
		t.Fatal("duplicate Add should be rejected")
	}
	if lib.Len() != before+1 {
		t.Errorf("library grew by %d, want 1", lib.Len()-before)
	}
}

func TestAddRejectsEmptyPoem(t *testing.T) {
	lib := NewLibrary("")
	if lib.Add(types.Poem{Author: "Nobody", Title: "Blank"}) {
		t.Error("poem without lines should be rejected")
	}
}

func TestForThemePrefersKeywordMatches(t *testing.T) {
	lib := NewLibrary("")

	// "forest" keyword set should never surface an ocean poem over a
	// forest one when both exist
	for i := 0; i < 20; i++ {
		poem, err := lib.ForTheme([]string{"forest", "woods"}, 4, 8)
		if err != nil {
			t.Fatalf("ForTheme failed: %v", err)
		}
		score := keywordScore(poem, []string{"forest", "woods"})
		if score == 0 {
			t.Fatalf("picked poem %q with no keyword overlap", poem.Title)
		}
	}
}

func TestForThemeRespectsLineBounds(t *testing.T) {
	lib := NewLibrary("")
	poem, err := lib.ForTheme([]string{"nature"}, 4, 6)
	if err != nil {
		t.Fatalf("ForTheme failed: %v", err)
	}
	if len(poem.Lines) < 4 || len(poem.Lines) > 6 {
		t.Errorf("poem has %d lines, want 4..6", len(poem.Lines))
	}
}

func TestRandomEmptyLibrary(t *testing.T) {
	lib := &Library{}
	if _, err := lib.Random(); err != ErrEmpty {
		t.Fatalf("expected ErrEmpty, got %v", err)
	}
}

func TestCacheRoundTrip(t *testing.T) {
	cache := filepath.Join(t.TempDir(), "cache", "poems.json")

	lib := NewLibrary(cache)
	added := lib.Add(types.Poem{
		Lines:  []string{"a", "b", "c", "d"},
		Author: "Cached Poet",
		Title:  "Cached Poem",
		Source: "poetrydb",
	})
	if !added {
		t.Fatal("Add failed")
	}
	if _, err := os.Stat(cache); err != nil {
		t.Fatalf("cache file not written: %v", err)
	}

	reloaded := NewLibrary(cache)
	if reloaded.Len() != len(builtinPoems)+1 {
		t.Errorf("reloaded library has %d poems, want %d", reloaded.Len(), len(builtinPoems)+1)
	}
}

func TestLooksLikePoem(t *testing.T) {
	if looksLikePoem([]string{"just one line"}) {
		t.Error("too few lines should not pass")
	}
	verse := []string{"soft rain on the window", "a candle burns low", "night settles in", "and the house goes quiet"}
	if !looksLikePoem(verse) {
		t.Error("short stanza should pass")
	}
	prose := make([]string, 6)
	for i := range prose {
		prose[i] = "this is a very long paragraph of prose that keeps going and going well past the length any reasonable poem line would use in practice, on and on"
	}
	if looksLikePoem(prose) {
		t.Error("prose-length lines should not pass")
	}
}

func TestCleanPoemText(t *testing.T) {
	lines := cleanPoemText("*first line*\n\n  second line  \n\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d: %v", len(lines), lines)
	}
	if lines[0] != "first line" {
		t.Errorf("markdown emphasis not stripped: %q", lines[0])
	}
}
