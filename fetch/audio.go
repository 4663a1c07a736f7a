package fetch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"poetry-reels/config"
	"poetry-reels/store"
	"poetry-reels/types"
)

const beatovenBase = "https://public-api.beatoven.ai/api/v1"

// AudioFetcher composes calm instrumental tracks through the
// Beatoven.ai API and files them under the theme's audio directory
type AudioFetcher struct {
	store      *store.Store
	httpClient *http.Client
	apiKey     string
	delay      time.Duration
}

// NewAudioFetcher reads BEATOVEN_API_KEY from the environment
func NewAudioFetcher(st *store.Store, cfg *config.Config) *AudioFetcher {
	return &AudioFetcher{
		store:      st,
		httpClient: &http.Client{Timeout: 60 * time.Second},
		apiKey:     os.Getenv("BEATOVEN_API_KEY"),
		delay:      time.Duration(cfg.Fetch.ProviderDelayMS) * time.Millisecond,
	}
}

// Configured reports whether the Beatoven key is present
func (f *AudioFetcher) Configured() bool {
	return f.apiKey != ""
}

// Fetch composes up to count tracks for the theme. Each track is a
// compose request, a status poll loop, and a download.
func (f *AudioFetcher) Fetch(ctx context.Context, theme config.ThemeConfig, count int) types.FetchReport {
	report := types.FetchReport{Provider: "beatoven"}
	if !f.Configured() {
		log.Println("[fetch] BEATOVEN_API_KEY not set, skipping audio fetch")
		report.Failed = count
		return report
	}

	log.Printf("[fetch] composing %d tracks for theme %q", count, theme.ID)

	for i := 0; i < count; i++ {
		filename := fmt.Sprintf("beatoven_%s_%d.mp3", theme.ID, time.Now().Unix()+int64(i))
		if err := f.composeTrack(ctx, theme, filename, &report); err != nil {
			log.Printf("[fetch] beatoven track %d/%d warning: %v", i+1, count, err)
			report.Failed++
		}
		time.Sleep(f.delay)
	}

	log.Printf("[fetch] beatoven: added %d, failed %d", report.Added, report.Failed)
	return report
}

type beatovenComposeResponse struct {
	TaskID string `json:"task_id"`
}

type beatovenTaskResponse struct {
	Status string `json:"status"`
	Meta   struct {
		TrackURL string `json:"track_url"`
	} `json:"meta"`
}

func (f *AudioFetcher) composeTrack(ctx context.Context, theme config.ThemeConfig, filename string, report *types.FetchReport) error {
	prompt := fmt.Sprintf("calm peaceful instrumental, %s mood, suitable for poetry narration",
		strings.Join(headOf(theme.PoetryKeywords, 3), " "))

	body, _ := json.Marshal(map[string]interface{}{
		"prompt":   map[string]string{"text": prompt},
		"format":   "mp3",
		"duration": 30,
	})

	req, err := http.NewRequestWithContext(ctx, "POST", beatovenBase+"/tracks/compose", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+f.apiKey)
	req.Header.Set("Content-Type", "application/json")

	var composed beatovenComposeResponse
	if err := f.doJSON(req, &composed); err != nil {
		return fmt.Errorf("compose request: %w", err)
	}
	if composed.TaskID == "" {
		return fmt.Errorf("compose request returned no task id")
	}

	trackURL, err := f.awaitTrack(ctx, composed.TaskID)
	if err != nil {
		return err
	}

	dlReq, err := http.NewRequestWithContext(ctx, "GET", trackURL, nil)
	if err != nil {
		return err
	}
	resp, err := f.httpClient.Do(dlReq)
	if err != nil {
		return fmt.Errorf("download track: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("download track: status %d", resp.StatusCode)
	}

	_, added, err := f.store.Add(types.KindAudio, theme.ID, filename, resp.Body)
	if err != nil {
		return err
	}
	if added {
		report.Added++
		report.Files = append(report.Files, filename)
	} else {
		report.Skipped++
	}
	return nil
}

// awaitTrack polls the compose task until it finishes or the context
// runs out
func (f *AudioFetcher) awaitTrack(ctx context.Context, taskID string) (string, error) {
	for attempt := 0; attempt < 30; attempt++ {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(2 * time.Second):
		}

		req, err := http.NewRequestWithContext(ctx, "GET", beatovenBase+"/tasks/"+taskID, nil)
		if err != nil {
			return "", err
		}
		req.Header.Set("Authorization", "Bearer "+f.apiKey)

		var task beatovenTaskResponse
		if err := f.doJSON(req, &task); err != nil {
			return "", fmt.Errorf("task status: %w", err)
		}

		switch task.Status {
		case "composed":
			if task.Meta.TrackURL == "" {
				return "", fmt.Errorf("task %s composed but has no track url", taskID)
			}
			return task.Meta.TrackURL, nil
		case "failed":
			return "", fmt.Errorf("compose task %s failed", taskID)
		}
	}
	return "", fmt.Errorf("compose task %s timed out", taskID)
}

func (f *AudioFetcher) doJSON(req *http.Request, v interface{}) error {
	resp, err := f.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("status %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(v)
}
