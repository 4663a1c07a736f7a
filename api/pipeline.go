package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"poetry-reels/config"
	"poetry-reels/poetry"
	"poetry-reels/render"
	"poetry-reels/store"
	"poetry-reels/tts"
	"poetry-reels/types"

	"github.com/google/uuid"
)

// Renderer runs one video composition. *render.Composer satisfies it.
type Renderer interface {
	Render(ctx context.Context, job render.Job) (string, error)
}

// Uploader pushes a finished video to object storage. A disabled
// uploader returns a local file URL instead.
type Uploader interface {
	Upload(ctx context.Context, localPath, videoID string) (string, error)
}

// ReelPublisher posts a hosted video to Instagram
type ReelPublisher interface {
	Enabled() bool
	Publish(ctx context.Context, videoURL string, caption []string) (string, error)
}

// VideoPublisher uploads a local video file to YouTube
type VideoPublisher interface {
	Enabled() bool
	Publish(ctx context.Context, videoFile, title string, lines []string) (string, error)
}

// Pipeline runs one generate-video request end to end: pick content,
// synthesize the voiceover, render, publish. It never fetches from
// content providers; generation works only against what is on disk.
type Pipeline struct {
	cfg        *config.Config
	store      *store.Store
	library    *poetry.Library
	voice      *tts.Synthesizer
	renderer   Renderer
	uploader   Uploader
	instagram  ReelPublisher
	youtube    VideoPublisher
	httpClient *http.Client
}

func NewPipeline(cfg *config.Config, st *store.Store, lib *poetry.Library, voice *tts.Synthesizer,
	renderer Renderer, uploader Uploader, instagram ReelPublisher, youtube VideoPublisher) *Pipeline {
	return &Pipeline{
		cfg:        cfg,
		store:      st,
		library:    lib,
		voice:      voice,
		renderer:   renderer,
		uploader:   uploader,
		instagram:  instagram,
		youtube:    youtube,
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
}

// Generate produces one video. The returned result always carries
// whatever progress was made; on failure the error is also returned so
// the handler can map it to a status code.
func (p *Pipeline) Generate(ctx context.Context, req types.GenerationRequest) (types.GenerationResult, error) {
	result := types.GenerationResult{Theme: req.Theme}

	theme, err := config.Theme(req.Theme)
	if err != nil {
		return fail(result, types.StageContent, err)
	}
	if req.VoiceStyle != "" && !tts.Supported(req.VoiceStyle) {
		return fail(result, types.StageContent, fmt.Errorf("%w %q", tts.ErrUnknownVoice, req.VoiceStyle))
	}

	videoID := uuid.NewString()[:8]
	result.VideoID = videoID

	scratch := filepath.Join(p.cfg.Paths.Scratch, videoID)
	if err := os.MkdirAll(scratch, 0755); err != nil {
		return fail(result, types.StageContent, fmt.Errorf("create scratch dir: %w", err))
	}
	defer os.RemoveAll(scratch)

	poem, err := p.poemFor(req, theme)
	if err != nil {
		return fail(result, types.StageContent, err)
	}
	result.PoetryLines = poem.Lines

	background, err := p.backgroundFor(ctx, req, scratch)
	if err != nil {
		return fail(result, types.StageContent, err)
	}

	audioPath := ""
	if path, err := p.store.Pick(types.KindAudio, req.Theme); err == nil {
		audioPath = path
	} else if errors.Is(err, store.ErrNoContent) {
		log.Printf("[pipeline] no music for theme %s, rendering without", req.Theme)
	} else {
		return fail(result, types.StageContent, err)
	}

	voicePath := ""
	if req.EnableVoiceover {
		voicePath = p.synthesize(ctx, poem.Lines, req, scratch, videoID)
	}

	duration := p.cfg.Video.ClampDuration(req.Duration)
	if voicePath != "" {
		// stretch to fit the narration, still inside the clamp
		if sec, err := render.ProbeDuration(voicePath); err == nil && int(sec)+2 > duration {
			duration = p.cfg.Video.ClampDuration(int(sec) + 2)
		}
	}
	result.Duration = duration

	job := render.Job{
		VideoID:        videoID,
		Lines:          poem.Lines,
		Theme:          theme,
		TextStyle:      config.TextStyle(req.TextStyle),
		Animation:      config.Animation(req.Animation),
		BackgroundPath: background,
		AudioPath:      audioPath,
		VoiceoverPath:  voicePath,
		DurationSec:    duration,
		ScratchDir:     scratch,
	}
	localPath, err := p.renderer.Render(ctx, job)
	if err != nil {
		return fail(result, types.StageRender, err)
	}
	result.LocalPath = localPath

	videoURL, err := p.uploader.Upload(ctx, localPath, videoID)
	if err != nil {
		return fail(result, types.StagePublish, err)
	}
	result.VideoURL = videoURL

	if req.PublishInstagram {
		if !p.instagram.Enabled() {
			return fail(result, types.StagePublish, fmt.Errorf("instagram publishing not configured"))
		}
		id, err := p.instagram.Publish(ctx, videoURL, captionFor(poem))
		if err != nil {
			return fail(result, types.StagePublish, fmt.Errorf("instagram: %w", err))
		}
		result.InstagramID = id
	}

	if req.PublishYouTube {
		if !p.youtube.Enabled() {
			return fail(result, types.StagePublish, fmt.Errorf("youtube publishing not configured"))
		}
		watchURL, err := p.youtube.Publish(ctx, localPath, titleFor(poem), poem.Lines)
		if err != nil {
			return fail(result, types.StagePublish, fmt.Errorf("youtube: %w", err))
		}
		result.YouTubeURL = watchURL
	}

	result.Success = true
	return result, nil
}

// poemFor resolves the poem: caller-supplied text wins, otherwise the
// library picks by theme keywords
func (p *Pipeline) poemFor(req types.GenerationRequest, theme config.ThemeConfig) (types.Poem, error) {
	if req.CustomPoetry != "" {
		lines := splitCustomPoetry(req.CustomPoetry, p.cfg.Poetry.MaxLines)
		if len(lines) == 0 {
			return types.Poem{}, fmt.Errorf("custom poetry is empty")
		}
		return types.Poem{Lines: lines, Source: "custom", Theme: theme.ID}, nil
	}
	return p.library.ForTheme(theme.PoetryKeywords, p.cfg.Poetry.MinLines, p.cfg.Poetry.MaxLines)
}

// backgroundFor resolves the clip: a caller-supplied URL is downloaded
// into the scratch dir, otherwise the store picks by rotation
func (p *Pipeline) backgroundFor(ctx context.Context, req types.GenerationRequest, scratch string) (string, error) {
	if req.CustomBackground == "" {
		return p.store.Pick(types.KindBackground, req.Theme)
	}

	dest := filepath.Join(scratch, "background.mp4")
	if err := p.downloadTo(ctx, req.CustomBackground, dest); err != nil {
		return "", fmt.Errorf("custom background: %w", err)
	}
	return dest, nil
}

// synthesize runs TTS into the scratch dir. A failed voiceover is
// logged and the video renders without narration.
func (p *Pipeline) synthesize(ctx context.Context, lines []string, req types.GenerationRequest, scratch, videoID string) string {
	style := req.VoiceStyle
	if style == "" {
		style = p.cfg.Voice.DefaultStyle
	}
	rate := req.SpeakingRate
	if rate == 0 {
		rate = p.cfg.Voice.DefaultRate
	}

	outFile := tts.OutputPath(scratch, videoID)
	if err := p.voice.Speak(ctx, lines, style, rate, outFile); err != nil {
		log.Printf("[pipeline] voiceover failed, rendering without: %v", err)
		return ""
	}
	return outFile
}

func (p *Pipeline) downloadTo(ctx context.Context, url, dest string) error {
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return err
	}
	resp, err := p.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("download returned %d", resp.StatusCode)
	}

	f, err := os.Create(dest)
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, resp.Body); err != nil {
		f.Close()
		os.Remove(dest)
		return err
	}
	return f.Close()
}

func splitCustomPoetry(text string, maxLines int) []string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		lines = append(lines, line)
		if len(lines) == maxLines {
			break
		}
	}
	return lines
}

func captionFor(poem types.Poem) []string {
	caption := append([]string{}, poem.Lines...)
	if poem.Author != "" {
		caption = append(caption, "", "poem by "+poem.Author)
	}
	caption = append(caption, "", "#poetry #poetryreels #calm")
	return caption
}

func titleFor(poem types.Poem) string {
	if poem.Title != "" && poem.Author != "" {
		return fmt.Sprintf("%s — %s | Poetry Reel", poem.Title, poem.Author)
	}
	if len(poem.Lines) > 0 {
		return poem.Lines[0] + " | Poetry Reel"
	}
	return "Poetry Reel"
}

func fail(result types.GenerationResult, stage types.Stage, err error) (types.GenerationResult, error) {
	result.ErrorStage = stage
	result.Error = err.Error()
	return result, err
}
