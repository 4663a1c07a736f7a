// Package poetry curates the poem collection used for video text: a
// built-in public-domain set, a JSON cache of everything fetched since,
// and per-source fetchers that grow it.
package poetry

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"poetry-reels/types"
)

// ErrEmpty means the library holds no poems at all
var ErrEmpty = errors.New("poetry library is empty")

// Library holds the in-memory poem collection, backed by a cache file
type Library struct {
	mu        sync.RWMutex
	poems     []types.Poem
	cacheFile string
}

// NewLibrary seeds the library with the built-in collection and any
// previously cached poems. cacheFile may be empty to disable caching.
func NewLibrary(cacheFile string) *Library {
	lib := &Library{cacheFile: cacheFile}
	lib.poems = append(lib.poems, builtinPoems...)
	lib.loadCache()
	log.Printf("[poetry] library initialized with %d poems", len(lib.poems))
	return lib
}

// Len reports how many poems the library holds
func (l *Library) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.poems)
}

// Sources lists the distinct poem sources present in the library
func (l *Library) Sources() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	seen := make(map[string]bool)
	var out []string
	for _, p := range l.poems {
		if !seen[p.Source] {
			seen[p.Source] = true
			out = append(out, p.Source)
		}
	}
	return out
}

// Add stores a poem unless an entry with the same author and title is
// already present. Reports whether the poem was added.
func (l *Library) Add(poem types.Poem) bool {
	if len(poem.Lines) == 0 {
		return false
	}
	if poem.CreatedAt.IsZero() {
		poem.CreatedAt = time.Now().UTC()
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	for _, existing := range l.poems {
		if sameKey(existing, poem) {
			return false
		}
	}
	l.poems = append(l.poems, poem)
	l.saveCacheLocked()
	return true
}

// ForTheme returns a poem matching the given theme keywords, trimmed to
// the line bounds. Poems scoring best on keyword overlap are preferred;
// ties are broken randomly so repeated requests vary.
func (l *Library) ForTheme(keywords []string, minLines, maxLines int) (types.Poem, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if len(l.poems) == 0 {
		return types.Poem{}, ErrEmpty
	}

	var best []types.Poem
	bestScore := -1
	for _, p := range l.poems {
		if len(p.Lines) < minLines {
			continue
		}
		score := keywordScore(p, keywords)
		switch {
		case score > bestScore:
			bestScore = score
			best = []types.Poem{p}
		case score == bestScore:
			best = append(best, p)
		}
	}
	if len(best) == 0 {
		return types.Poem{}, fmt.Errorf("no poem with at least %d lines", minLines)
	}

	poem := best[rand.Intn(len(best))]
	return trimmed(poem, maxLines), nil
}

// Random returns any poem from the library
func (l *Library) Random() (types.Poem, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if len(l.poems) == 0 {
		return types.Poem{}, ErrEmpty
	}
	return l.poems[rand.Intn(len(l.poems))], nil
}

func sameKey(a, b types.Poem) bool {
	return strings.EqualFold(a.Author, b.Author) && strings.EqualFold(a.Title, b.Title)
}

// keywordScore counts theme keyword hits across a poem's text and tag
func keywordScore(p types.Poem, keywords []string) int {
	text := strings.ToLower(p.Title + " " + p.Theme + " " + strings.Join(p.Lines, " "))
	score := 0
	for _, kw := range keywords {
		if strings.Contains(text, strings.ToLower(kw)) {
			score++
		}
	}
	return score
}

func trimmed(p types.Poem, maxLines int) types.Poem {
	if maxLines > 0 && len(p.Lines) > maxLines {
		p.Lines = p.Lines[:maxLines]
	}
	return p
}

func (l *Library) loadCache() {
	if l.cacheFile == "" {
		return
	}
	data, err := os.ReadFile(l.cacheFile)
	if err != nil {
		return
	}
	var cached []types.Poem
	if err := json.Unmarshal(data, &cached); err != nil {
		log.Printf("[poetry] ignoring unreadable cache %s: %v", l.cacheFile, err)
		return
	}
	loaded := 0
	for _, p := range cached {
		dup := false
		for _, existing := range l.poems {
			if sameKey(existing, p) {
				dup = true
				break
			}
		}
		if !dup {
			l.poems = append(l.poems, p)
			loaded++
		}
	}
	if loaded > 0 {
		log.Printf("[poetry] loaded %d cached poems from %s", loaded, l.cacheFile)
	}
}

func (l *Library) saveCacheLocked() {
	if l.cacheFile == "" {
		return
	}
	var fetched []types.Poem
	for _, p := range l.poems {
		if p.Source != "builtin" {
			fetched = append(fetched, p)
		}
	}
	data, err := json.MarshalIndent(fetched, "", "  ")
	if err != nil {
		return
	}
	if err := os.MkdirAll(filepath.Dir(l.cacheFile), 0755); err != nil {
		return
	}
	if err := os.WriteFile(l.cacheFile, data, 0644); err != nil {
		log.Printf("[poetry] could not save cache %s: %v", l.cacheFile, err)
	}
}
