package render

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"poetry-reels/config"
)

// A render that cannot succeed must not leave final.mp4 in the scratch
// dir where a later request could pick it up.
func TestRenderFailureRemovesPartialOutput(t *testing.T) {
	cfg := &config.Config{}
	cfg.Video = config.VideoConfig{Width: 1080, Height: 1920, FPS: 24, DefaultDuration: 18, MinDuration: 10, MaxDuration: 30, AudioFadeSec: 1}
	cfg.Paths.Output = t.TempDir()
	c := NewComposer(cfg)

	scratch := t.TempDir()
	stale := filepath.Join(scratch, "final.mp4")
	if err := os.WriteFile(stale, []byte("partial"), 0o644); err != nil {
		t.Fatal(err)
	}

	// garbage bytes, not a decodable video
	background := filepath.Join(scratch, "bg.mp4")
	if err := os.WriteFile(background, []byte("not a video"), 0o644); err != nil {
		t.Fatal(err)
	}

	theme, err := config.Theme("nature")
	if err != nil {
		t.Fatal(err)
	}
	job := Job{
		VideoID:        "vid1",
		Lines:          []string{"a line"},
		Theme:          theme,
		BackgroundPath: background,
		DurationSec:    12,
		ScratchDir:     scratch,
	}

	if _, err := c.Render(context.Background(), job); err == nil {
		t.Fatal("expected render to fail on undecodable input")
	}
	if _, err := os.Stat(stale); !os.IsNotExist(err) {
		t.Fatalf("final.mp4 still present in scratch after failed render: %v", err)
	}
}
