package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"poetry-reels/config"
	"poetry-reels/poetry"
	"poetry-reels/render"
	"poetry-reels/store"
	"poetry-reels/tts"
	"poetry-reels/types"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeRenderer struct {
	jobs []render.Job
	err  error
	out  string
}

func (f *fakeRenderer) Render(_ context.Context, job render.Job) (string, error) {
	f.jobs = append(f.jobs, job)
	if f.err != nil {
		return "", f.err
	}
	return f.out, nil
}

type fakeUploader struct {
	enabled bool
	err     error
	url     string
}

func (f *fakeUploader) Upload(_ context.Context, localPath, videoID string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	if !f.enabled {
		return "file://" + localPath, nil
	}
	return f.url, nil
}

type fakeSocial struct {
	enabled bool
	err     error
	id      string
	calls   int
}

func (f *fakeSocial) Enabled() bool { return f.enabled }

func (f *fakeSocial) Publish(_ context.Context, _ string, _ []string) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.id, nil
}

type fakeVideoSite struct {
	enabled bool
	err     error
	url     string
}

func (f *fakeVideoSite) Enabled() bool { return f.enabled }

func (f *fakeVideoSite) Publish(_ context.Context, _, _ string, _ []string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.url, nil
}

type testEnv struct {
	server *Server
	store  *store.Store
	cfg    *config.Config
}

func newTestEnv(t *testing.T, renderer Renderer, uploader Uploader, ig ReelPublisher, yt VideoPublisher) *testEnv {
	t.Helper()
	dir := t.TempDir()

	cfg, err := config.Load(filepath.Join(dir, "missing.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	cfg.Paths.AssetsRoot = filepath.Join(dir, "assets")
	cfg.Paths.Defaults = filepath.Join(dir, "defaults")
	cfg.Paths.Scratch = filepath.Join(dir, "scratch")
	cfg.Paths.Output = filepath.Join(dir, "output")
	cfg.Paths.PoetryCache = filepath.Join(dir, "poetry_cache.json")

	st := store.New(cfg.Paths.AssetsRoot, cfg.Paths.Defaults)
	lib := poetry.NewLibrary(cfg.Paths.PoetryCache)
	pipeline := NewPipeline(cfg, st, lib, tts.New(), renderer, uploader, ig, yt)
	server := NewServer(cfg, st, lib, nil, nil, nil, pipeline)

	return &testEnv{server: server, store: st, cfg: cfg}
}

func (e *testEnv) seedDefault(t *testing.T, kind types.Kind, name string) {
	t.Helper()
	dir := filepath.Join(e.cfg.Paths.Defaults, string(kind))
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, name), []byte("asset"), 0o644); err != nil {
		t.Fatal(err)
	}
}

func (e *testEnv) postJSON(t *testing.T, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatal(err)
	}
	req := httptest.NewRequest("POST", path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	e.server.router.ServeHTTP(w, req)
	return w
}

func decodeResult(t *testing.T, w *httptest.ResponseRecorder) types.GenerationResult {
	t.Helper()
	var result types.GenerationResult
	if err := json.Unmarshal(w.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode result: %v", err)
	}
	return result
}

func TestGenerateUsesDefaultBundleForEmptyTheme(t *testing.T) {
	renderer := &fakeRenderer{out: "/output/final.mp4"}
	env := newTestEnv(t, renderer, &fakeUploader{}, &fakeSocial{}, &fakeVideoSite{})
	env.seedDefault(t, types.KindBackground, "default.mp4")

	w := env.postJSON(t, "/generate-video", types.GenerationRequest{Theme: "nature"})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	result := decodeResult(t, w)
	if !result.Success {
		t.Fatalf("expected success, got %+v", result)
	}
	if len(result.PoetryLines) == 0 {
		t.Fatal("result has no poetry lines")
	}
	if result.Duration != env.cfg.Video.DefaultDuration {
		t.Fatalf("duration = %d, want default %d", result.Duration, env.cfg.Video.DefaultDuration)
	}
	if result.VideoURL != "file://"+renderer.out {
		t.Fatalf("video url = %q", result.VideoURL)
	}

	if len(renderer.jobs) != 1 {
		t.Fatalf("renderer ran %d times", len(renderer.jobs))
	}
	job := renderer.jobs[0]
	if filepath.Base(job.BackgroundPath) != "default.mp4" {
		t.Fatalf("background = %q, want default bundle clip", job.BackgroundPath)
	}
	if job.AudioPath != "" {
		t.Fatalf("audio = %q, want none", job.AudioPath)
	}
}

func TestGenerateUnknownThemeIsBadRequest(t *testing.T) {
	renderer := &fakeRenderer{out: "x"}
	env := newTestEnv(t, renderer, &fakeUploader{}, &fakeSocial{}, &fakeVideoSite{})

	w := env.postJSON(t, "/generate-video", types.GenerationRequest{Theme: "cyberpunk"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	if len(renderer.jobs) != 0 {
		t.Fatal("renderer should not run for an unknown theme")
	}
}

func TestGenerateUnknownVoiceIsBadRequest(t *testing.T) {
	env := newTestEnv(t, &fakeRenderer{out: "x"}, &fakeUploader{}, &fakeSocial{}, &fakeVideoSite{})
	env.seedDefault(t, types.KindBackground, "default.mp4")

	w := env.postJSON(t, "/generate-video", types.GenerationRequest{
		Theme:           "ocean",
		EnableVoiceover: true,
		VoiceStyle:      "robot_3000",
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestGenerateNoContentIsNotFound(t *testing.T) {
	env := newTestEnv(t, &fakeRenderer{out: "x"}, &fakeUploader{}, &fakeSocial{}, &fakeVideoSite{})

	w := env.postJSON(t, "/generate-video", types.GenerationRequest{Theme: "forest"})
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
	result := decodeResult(t, w)
	if result.ErrorStage != types.StageContent {
		t.Fatalf("stage = %q, want content", result.ErrorStage)
	}
}

func TestGenerateRenderFailure(t *testing.T) {
	renderer := &fakeRenderer{err: fmt.Errorf("ffmpeg exploded")}
	env := newTestEnv(t, renderer, &fakeUploader{}, &fakeSocial{}, &fakeVideoSite{})
	env.seedDefault(t, types.KindBackground, "default.mp4")

	w := env.postJSON(t, "/generate-video", types.GenerationRequest{Theme: "sunset"})
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", w.Code)
	}
	result := decodeResult(t, w)
	if result.ErrorStage != types.StageRender {
		t.Fatalf("stage = %q, want render", result.ErrorStage)
	}
	if result.LocalPath != "" {
		t.Fatalf("local path = %q, want empty on render failure", result.LocalPath)
	}
}

// litteringRenderer drops a partial final.mp4 into the scratch dir
// before failing, the way an interrupted ffmpeg run would
type litteringRenderer struct {
	err error
}

func (r *litteringRenderer) Render(_ context.Context, job render.Job) (string, error) {
	partial := filepath.Join(job.ScratchDir, "final.mp4")
	if err := os.WriteFile(partial, []byte("partial"), 0o644); err != nil {
		return "", err
	}
	return "", r.err
}

func TestGenerateRenderFailureCleansScratch(t *testing.T) {
	renderer := &litteringRenderer{err: fmt.Errorf("encoder crashed")}
	env := newTestEnv(t, renderer, &fakeUploader{}, &fakeSocial{}, &fakeVideoSite{})
	env.seedDefault(t, types.KindBackground, "default.mp4")

	w := env.postJSON(t, "/generate-video", types.GenerationRequest{Theme: "nature"})
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", w.Code)
	}

	entries, err := os.ReadDir(env.cfg.Paths.Scratch)
	if err != nil && !os.IsNotExist(err) {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Fatalf("scratch root holds %d entries after a failed render, partial output survived", len(entries))
	}
}

func TestGeneratePublishFailureKeepsLocalPath(t *testing.T) {
	renderer := &fakeRenderer{out: "/output/v1.mp4"}
	ig := &fakeSocial{enabled: true, err: fmt.Errorf("graph api down")}
	env := newTestEnv(t, renderer, &fakeUploader{enabled: true, url: "https://cdn/v1.mp4"}, ig, &fakeVideoSite{})
	env.seedDefault(t, types.KindBackground, "default.mp4")

	w := env.postJSON(t, "/generate-video", types.GenerationRequest{
		Theme:            "minimal",
		PublishInstagram: true,
	})
	if w.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", w.Code)
	}
	result := decodeResult(t, w)
	if result.ErrorStage != types.StagePublish {
		t.Fatalf("stage = %q, want publish", result.ErrorStage)
	}
	if result.LocalPath != "/output/v1.mp4" {
		t.Fatalf("local path = %q, rendered file should survive a publish failure", result.LocalPath)
	}
	if result.VideoURL != "https://cdn/v1.mp4" {
		t.Fatalf("video url = %q", result.VideoURL)
	}
}

func TestGenerateCustomPoetryAndOverrides(t *testing.T) {
	renderer := &fakeRenderer{out: "/output/v2.mp4"}
	env := newTestEnv(t, renderer, &fakeUploader{}, &fakeSocial{}, &fakeVideoSite{})
	env.seedDefault(t, types.KindBackground, "default.mp4")
	env.seedDefault(t, types.KindAudio, "calm.mp3")

	w := env.postJSON(t, "/generate-video", types.GenerationRequest{
		Theme:        "ocean",
		CustomPoetry: "waves roll in\n\nwaves roll out\n",
		Animation:    string(config.AnimTypewriter),
		Duration:     99,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	result := decodeResult(t, w)
	if len(result.PoetryLines) != 2 || result.PoetryLines[0] != "waves roll in" {
		t.Fatalf("poetry lines = %v", result.PoetryLines)
	}
	if result.Duration != env.cfg.Video.MaxDuration {
		t.Fatalf("duration = %d, want clamped to %d", result.Duration, env.cfg.Video.MaxDuration)
	}

	job := renderer.jobs[0]
	if job.Animation != config.AnimTypewriter {
		t.Fatalf("animation = %q", job.Animation)
	}
	if filepath.Base(job.AudioPath) != "calm.mp3" {
		t.Fatalf("audio = %q, want default bundle track", job.AudioPath)
	}
}

func TestGenerateRotatesDefaultClips(t *testing.T) {
	renderer := &fakeRenderer{out: "/output/v.mp4"}
	env := newTestEnv(t, renderer, &fakeUploader{}, &fakeSocial{}, &fakeVideoSite{})
	env.seedDefault(t, types.KindBackground, "a.mp4")
	env.seedDefault(t, types.KindBackground, "b.mp4")

	for i := 0; i < 2; i++ {
		w := env.postJSON(t, "/generate-video", types.GenerationRequest{Theme: "nature"})
		if w.Code != http.StatusOK {
			t.Fatalf("request %d: status %d", i, w.Code)
		}
	}
	first := filepath.Base(renderer.jobs[0].BackgroundPath)
	second := filepath.Base(renderer.jobs[1].BackgroundPath)
	if first == second {
		t.Fatalf("both requests used %s, expected rotation", first)
	}
}

func TestHealthAndThemes(t *testing.T) {
	env := newTestEnv(t, &fakeRenderer{out: "x"}, &fakeUploader{}, &fakeSocial{}, &fakeVideoSite{})

	for _, path := range []string{"/health", "/themes", "/poetry/random", "/content/voice-options", "/content/status"} {
		req := httptest.NewRequest("GET", path, nil)
		w := httptest.NewRecorder()
		env.server.router.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Fatalf("GET %s: status %d", path, w.Code)
		}
	}

	req := httptest.NewRequest("GET", "/themes", nil)
	w := httptest.NewRecorder()
	env.server.router.ServeHTTP(w, req)
	var body struct {
		Themes []config.ThemeConfig `json:"themes"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if len(body.Themes) != 5 {
		t.Fatalf("got %d themes, want 5", len(body.Themes))
	}
}
