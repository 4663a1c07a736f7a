package store

import (
	"log"
	"path/filepath"

	"poetry-reels/types"
)

// Pick returns one local asset path for composition. It chooses the
// item with the lowest usage count, breaking ties by oldest fetch
// timestamp, then increments that item's count, giving a rotation
// that avoids immediate repeats. An empty themed directory
// falls back to the default bundle; if that is empty too, ErrNoContent.
func (s *Store) Pick(kind types.Kind, theme string) (string, error) {
	dir := s.Dir(kind, theme)
	items, err := listDir(dir, kind)
	if err != nil {
		return "", err
	}

	if len(items) == 0 {
		dir = s.defaultsDir(kind)
		items, err = listDir(dir, kind)
		if err != nil {
			return "", err
		}
		if len(items) == 0 {
			return "", ErrNoContent
		}
		log.Printf("[store] no %s stored for theme %q, using default bundle", kind, theme)
	}

	chosen := items[0]
	for _, item := range items[1:] {
		if item.UsageCount < chosen.UsageCount {
			chosen = item
		}
		// items are oldest-first, so on a tie the earlier pick stands
	}

	markUsed(dir, chosen.Filename)
	log.Printf("[store] picked %s/%s: %s (used %d times before)", kind, theme, chosen.Filename, chosen.UsageCount)
	return chosen.Path, nil
}

// markUsed bumps the usage count in the directory's sidecar. A lost
// increment under concurrent picks only skews rotation, never data.
func markUsed(dir, filename string) {
	path := filepath.Join(dir, usageFile)
	usage := loadUsage(path)
	usage[filename]++
	saveUsage(path, usage)
}
