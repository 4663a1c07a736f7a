// Package render assembles the final poetry video with ffmpeg:
// normalized background, animated drawtext lines, mixed audio.
package render

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"poetry-reels/config"
)

// Job carries everything one render needs. ScratchDir is owned by the
// caller and holds all intermediates; the finished file is moved out
// of it before Render returns.
type Job struct {
	VideoID        string
	Lines          []string
	Theme          config.ThemeConfig
	TextStyle      config.TextStyle
	Animation      config.Animation
	BackgroundPath string
	AudioPath      string
	VoiceoverPath  string
	DurationSec    int
	ScratchDir     string
}

// Composer renders jobs with the ffmpeg binary
type Composer struct {
	video     config.VideoConfig
	outputDir string
}

// NewComposer requires ffmpeg on PATH at render time, not at startup
func NewComposer(cfg *config.Config) *Composer {
	return &Composer{
		video:     cfg.Video,
		outputDir: cfg.Paths.Output,
	}
}

// Render produces one video file and returns its final path. On any
// failure the partial output is deleted from the scratch dir so a
// later request can never pick it up.
func (c *Composer) Render(ctx context.Context, job Job) (string, error) {
	if job.BackgroundPath == "" {
		return "", fmt.Errorf("render: no background clip")
	}
	if len(job.Lines) == 0 {
		return "", fmt.Errorf("render: no poetry lines")
	}

	duration := float64(c.video.ClampDuration(job.DurationSec))
	scratchOut := filepath.Join(job.ScratchDir, "final.mp4")

	args := c.buildArgs(job, duration, scratchOut)
	log.Printf("[render] rendering %s: %d lines, %.0fs, animation %s", job.VideoID, len(job.Lines), duration, job.Animation)

	cmd := exec.CommandContext(ctx, "ffmpeg", args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		os.Remove(scratchOut)
		return "", fmt.Errorf("ffmpeg: %s: %w", lastLine(stderr.String()), err)
	}

	if err := os.MkdirAll(c.outputDir, 0755); err != nil {
		os.Remove(scratchOut)
		return "", fmt.Errorf("create output dir: %w", err)
	}
	finalPath := filepath.Join(c.outputDir, job.VideoID+".mp4")
	if err := os.Rename(scratchOut, finalPath); err != nil {
		os.Remove(scratchOut)
		return "", fmt.Errorf("move output: %w", err)
	}

	log.Printf("[render] finished %s", finalPath)
	return finalPath, nil
}

// buildArgs lays out the full ffmpeg invocation for a job
func (c *Composer) buildArgs(job Job, duration float64, outFile string) []string {
	style := job.Theme.TextStyle
	if job.TextStyle != "" {
		style = job.TextStyle
	}
	anim := job.Theme.Animation
	if job.Animation != "" {
		anim = job.Animation
	}

	args := []string{
		"-y",
		"-stream_loop", "-1",
		"-i", job.BackgroundPath,
	}

	hasMusic := job.AudioPath != ""
	hasVoice := job.VoiceoverPath != ""
	if hasMusic {
		args = append(args, "-stream_loop", "-1", "-i", job.AudioPath)
	}
	if hasVoice {
		args = append(args, "-i", job.VoiceoverPath)
	}

	videoFilter := buildVideoFilter(job.Theme, style, anim, job.Lines, c.video.Width, c.video.Height, duration)
	audioFilter := buildAudioFilter(hasMusic, hasVoice, duration, c.video.AudioFadeSec)

	if audioFilter != "" {
		args = append(args,
			"-filter_complex", fmt.Sprintf("[0:v]%s[v];%s", videoFilter, audioFilter),
			"-map", "[v]", "-map", "[a]",
		)
	} else {
		args = append(args, "-vf", videoFilter, "-an")
	}

	args = append(args,
		"-t", strconv.FormatFloat(duration, 'f', 1, 64),
		"-r", strconv.Itoa(c.video.FPS),
		"-c:v", "libx264",
		"-preset", "fast",
		"-crf", "22",
		"-pix_fmt", "yuv420p",
	)
	if audioFilter != "" {
		args = append(args, "-c:a", "aac", "-b:a", "192k")
	}
	return append(args, outFile)
}

// ProbeDuration asks ffprobe for a media file's length in seconds
func ProbeDuration(path string) (float64, error) {
	out, err := exec.Command("ffprobe",
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		path,
	).Output()
	if err != nil {
		return 0, err
	}
	return strconv.ParseFloat(strings.TrimSpace(string(out)), 64)
}

func lastLine(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	if len(lines) == 0 {
		return "unknown error"
	}
	return strings.TrimSpace(lines[len(lines)-1])
}
