// Package store is the on-disk content store: themed directories of
// fetched assets under one root, plus the selector that rotates through
// them. Directory listing on each call is the source of truth: there is
// no index beyond the files themselves and a per-directory usage sidecar.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"poetry-reels/types"
)

// ErrNoContent means both the themed directory and the default bundle
// are empty
var ErrNoContent = errors.New("no content available")

// usageFile sits beside the assets in each themed directory and maps
// filename to use count. It is a soft rotation hint only: concurrent
// pickers may race on it and lose an increment, which is accepted.
const usageFile = ".usage.json"

var kindExtensions = map[types.Kind][]string{
	types.KindBackground: {".mp4", ".mov", ".avi"},
	types.KindAudio:      {".mp3", ".wav", ".m4a"},
}

// Store manages themed asset directories under an injectable root,
// with a separate default bundle used when a theme has nothing yet
type Store struct {
	root     string
	defaults string
}

// New creates a Store rooted at root, with defaults as the fallback
// bundle directory (one subdirectory per kind)
func New(root, defaults string) *Store {
	return &Store{root: root, defaults: defaults}
}

// Dir returns the directory for one (kind, theme) pair
func (s *Store) Dir(kind types.Kind, theme string) string {
	return filepath.Join(s.root, string(kind), theme)
}

func (s *Store) defaultsDir(kind types.Kind) string {
	return filepath.Join(s.defaults, string(kind))
}

// List returns the stored items for a theme, oldest first
func (s *Store) List(kind types.Kind, theme string) ([]types.ContentItem, error) {
	items, err := listDir(s.Dir(kind, theme), kind)
	if err != nil {
		return nil, err
	}
	for i := range items {
		items[i].Theme = theme
	}
	return items, nil
}

// Contains reports whether a filename is already stored for the theme
func (s *Store) Contains(kind types.Kind, theme, filename string) bool {
	_, err := os.Stat(filepath.Join(s.Dir(kind, theme), filename))
	return err == nil
}

// Add writes a new asset into the theme's directory. If the filename is
// already taken the existing file is preserved and added reports false.
// The file is written to a temp name and renamed so readers never see a
// partial asset.
func (s *Store) Add(kind types.Kind, theme, filename string, r io.Reader) (string, bool, error) {
	dir := s.Dir(kind, theme)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", false, fmt.Errorf("create store dir: %w", err)
	}

	dest := filepath.Join(dir, filename)
	if _, err := os.Stat(dest); err == nil {
		log.Printf("[store] skipping %s/%s/%s: already stored", kind, theme, filename)
		return dest, false, nil
	}

	tmp, err := os.CreateTemp(dir, ".incoming-*")
	if err != nil {
		return "", false, fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return "", false, fmt.Errorf("write asset: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return "", false, fmt.Errorf("close asset: %w", err)
	}
	if err := os.Rename(tmpName, dest); err != nil {
		os.Remove(tmpName)
		return "", false, fmt.Errorf("store asset: %w", err)
	}
	return dest, true, nil
}

// Count returns how many assets a theme holds for one kind
func (s *Store) Count(kind types.Kind, theme string) int {
	items, err := s.List(kind, theme)
	if err != nil {
		return 0
	}
	return len(items)
}

// Status reports per-theme asset counts for one kind
func (s *Store) Status(kind types.Kind) map[string]int {
	counts := make(map[string]int)
	entries, err := os.ReadDir(filepath.Join(s.root, string(kind)))
	if err != nil {
		return counts
	}
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		counts[e.Name()] = s.Count(kind, e.Name())
	}
	return counts
}

// listDir scans one directory for assets of a kind, oldest first
func listDir(dir string, kind types.Kind) ([]types.ContentItem, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	usage := loadUsage(filepath.Join(dir, usageFile))

	var items []types.ContentItem
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		if !hasKindExtension(kind, e.Name()) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		items = append(items, types.ContentItem{
			Kind:       kind,
			Filename:   e.Name(),
			Path:       filepath.Join(dir, e.Name()),
			FetchedAt:  info.ModTime(),
			UsageCount: usage[e.Name()],
		})
	}

	sort.Slice(items, func(i, j int) bool {
		return items[i].FetchedAt.Before(items[j].FetchedAt)
	})
	return items, nil
}

func hasKindExtension(kind types.Kind, name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, want := range kindExtensions[kind] {
		if ext == want {
			return true
		}
	}
	return false
}

func loadUsage(path string) map[string]int {
	usage := make(map[string]int)
	data, err := os.ReadFile(path)
	if err != nil {
		return usage
	}
	_ = json.Unmarshal(data, &usage)
	return usage
}

func saveUsage(path string, usage map[string]int) {
	data, err := json.MarshalIndent(usage, "", "  ")
	if err != nil {
		return
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		log.Printf("[store] could not save usage log %s: %v", path, err)
	}
}
