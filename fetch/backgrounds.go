// Package fetch pulls background clips and music tracks from remote
// providers into the content store. Provider errors are never fatal:
// each fetch reports added/skipped/failed counts and moves on.
package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"time"

	"poetry-reels/config"
	"poetry-reels/store"
	"poetry-reels/types"
)

// BackgroundFetcher downloads themed vertical video clips, trying
// Pexels first and topping up from Pixabay
type BackgroundFetcher struct {
	store       *store.Store
	httpClient  *http.Client
	pexelsKey   string
	pixabayKey  string
	pexelsBase  string
	pixabayBase string
	delay       time.Duration
	minDuration int
	minHeight   int
	maxKeywords int
}

// NewBackgroundFetcher reads provider keys from the environment; a
// missing key just disables that provider
func NewBackgroundFetcher(st *store.Store, cfg *config.Config) *BackgroundFetcher {
	return &BackgroundFetcher{
		store:       st,
		httpClient:  &http.Client{Timeout: 60 * time.Second},
		pexelsKey:   os.Getenv("PEXELS_API_KEY"),
		pixabayKey:  os.Getenv("PIXABAY_API_KEY"),
		pexelsBase:  "https://api.pexels.com",
		pixabayBase: "https://pixabay.com",
		delay:       time.Duration(cfg.Fetch.ProviderDelayMS) * time.Millisecond,
		minDuration: cfg.Fetch.MinClipDuration,
		minHeight:   cfg.Fetch.MinClipHeight,
		maxKeywords: cfg.Fetch.KeywordsPerFetch,
	}
}

// Fetch persists up to count new clips for the theme and returns one
// report per provider tried
func (f *BackgroundFetcher) Fetch(ctx context.Context, theme config.ThemeConfig, count int) []types.FetchReport {
	log.Printf("[fetch] fetching %d background clips for theme %q", count, theme.ID)

	pexels := f.fetchPexels(ctx, theme, count)
	reports := []types.FetchReport{pexels}

	if pexels.Added < count {
		reports = append(reports, f.fetchPixabay(ctx, theme, count-pexels.Added))
	}
	return reports
}

type pexelsSearchResponse struct {
	Videos []struct {
		ID         int `json:"id"`
		Duration   int `json:"duration"`
		VideoFiles []struct {
			Quality string `json:"quality"`
			Width   int    `json:"width"`
			Height  int    `json:"height"`
			Link    string `json:"link"`
		} `json:"video_files"`
	} `json:"videos"`
}

func (f *BackgroundFetcher) fetchPexels(ctx context.Context, theme config.ThemeConfig, count int) types.FetchReport {
	report := types.FetchReport{Provider: "pexels"}
	if f.pexelsKey == "" {
		log.Println("[fetch] PEXELS_API_KEY not set, skipping Pexels")
		return report
	}

	for _, keyword := range headOf(theme.BackgroundKeywords, f.maxKeywords) {
		if report.Added >= count {
			break
		}

		reqURL := fmt.Sprintf(
			"%s/videos/search?query=%s&per_page=15&orientation=portrait&size=medium",
			f.pexelsBase, url.QueryEscape(keyword),
		)
		req, _ := http.NewRequestWithContext(ctx, "GET", reqURL, nil)
		req.Header.Set("Authorization", f.pexelsKey)

		var result pexelsSearchResponse
		if err := f.doJSON(req, &result); err != nil {
			log.Printf("[fetch] pexels %q warning: %v", keyword, err)
			report.Failed++
			continue
		}

		for _, video := range result.Videos {
			if report.Added >= count {
				break
			}
			if video.Duration < f.minDuration {
				continue
			}

			link := ""
			for _, vf := range video.VideoFiles {
				if vf.Quality == "hd" && vf.Height >= f.minHeight {
					link = vf.Link
					break
				}
			}
			if link == "" {
				continue
			}

			filename := fmt.Sprintf("pexels_%s_%d.mp4", keyword, video.ID)
			if f.store.Contains(types.KindBackground, theme.ID, filename) {
				report.Skipped++
				continue
			}
			if err := f.download(ctx, link, types.KindBackground, theme.ID, filename, &report); err != nil {
				log.Printf("[fetch] pexels download %s failed: %v", filename, err)
			}
		}

		time.Sleep(f.delay)
	}

	log.Printf("[fetch] pexels: added %d, skipped %d, failed %d", report.Added, report.Skipped, report.Failed)
	return report
}

type pixabaySearchResponse struct {
	Hits []struct {
		ID       int `json:"id"`
		Duration int `json:"duration"`
		Videos   struct {
			Large  pixabayRendition `json:"large"`
			Medium pixabayRendition `json:"medium"`
		} `json:"videos"`
	} `json:"hits"`
}

type pixabayRendition struct {
	URL    string `json:"url"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

func (f *BackgroundFetcher) fetchPixabay(ctx context.Context, theme config.ThemeConfig, count int) types.FetchReport {
	report := types.FetchReport{Provider: "pixabay"}
	if f.pixabayKey == "" {
		log.Println("[fetch] PIXABAY_API_KEY not set, skipping Pixabay")
		return report
	}

	for _, keyword := range headOf(theme.BackgroundKeywords, f.maxKeywords) {
		if report.Added >= count {
			break
		}

		reqURL := fmt.Sprintf(
			"%s/api/videos/?key=%s&q=%s&per_page=15",
			f.pixabayBase, url.QueryEscape(f.pixabayKey), url.QueryEscape(keyword),
		)
		req, _ := http.NewRequestWithContext(ctx, "GET", reqURL, nil)

		var result pixabaySearchResponse
		if err := f.doJSON(req, &result); err != nil {
			log.Printf("[fetch] pixabay %q warning: %v", keyword, err)
			report.Failed++
			continue
		}

		for _, hit := range result.Hits {
			if report.Added >= count {
				break
			}
			if hit.Duration < f.minDuration {
				continue
			}

			rendition := hit.Videos.Large
			if rendition.Height < f.minHeight {
				rendition = hit.Videos.Medium
			}
			if rendition.URL == "" || rendition.Height < f.minHeight {
				continue
			}

			filename := fmt.Sprintf("pixabay_%s_%d.mp4", keyword, hit.ID)
			if f.store.Contains(types.KindBackground, theme.ID, filename) {
				report.Skipped++
				continue
			}
			if err := f.download(ctx, rendition.URL, types.KindBackground, theme.ID, filename, &report); err != nil {
				log.Printf("[fetch] pixabay download %s failed: %v", filename, err)
			}
		}

		time.Sleep(f.delay)
	}

	log.Printf("[fetch] pixabay: added %d, skipped %d, failed %d", report.Added, report.Skipped, report.Failed)
	return report
}

// download streams one remote file into the store
func (f *BackgroundFetcher) download(ctx context.Context, link string, kind types.Kind, theme, filename string, report *types.FetchReport) error {
	req, err := http.NewRequestWithContext(ctx, "GET", link, nil)
	if err != nil {
		report.Failed++
		return err
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		report.Failed++
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		report.Failed++
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	_, added, err := f.store.Add(kind, theme, filename, resp.Body)
	if err != nil {
		report.Failed++
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

func (f *BackgroundFetcher) doJSON(req *http.Request, v interface{}) error {
	resp, err := f.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("status %d: %s", resp.StatusCode, body)
	}
	return json.NewDecoder(resp.Body).Decode(v)
}

func headOf(items []string, n int) []string {
	if n > 0 && len(items) > n {
		return items[:n]
	}
	return items
}
