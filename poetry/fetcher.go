package poetry

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"poetry-reels/types"

	"github.com/vartanbeno/go-reddit/v2/reddit"
)

// Fetcher pulls new poems from remote sources into the library.
// Each source is independent: a provider failure is reported back as a
// failure count and never aborts the other sources.
type Fetcher struct {
	lib        *Library
	httpClient *http.Client
	reddit     *reddit.Client
	delay      time.Duration
}

// NewFetcher creates a Fetcher over the given library. The Reddit
// client runs read-only, no credentials needed.
func NewFetcher(lib *Library, providerDelay time.Duration) (*Fetcher, error) {
	redditClient, err := reddit.NewReadonlyClient()
	if err != nil {
		return nil, fmt.Errorf("reddit client: %w", err)
	}
	return &Fetcher{
		lib:        lib,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		reddit:     redditClient,
		delay:      providerDelay,
	}, nil
}

// Fetch runs the named source ("reddit", "poetrydb" or "all") and
// returns one report per source attempted
func (f *Fetcher) Fetch(ctx context.Context, source string, count int) ([]types.FetchReport, error) {
	switch source {
	case "reddit":
		return []types.FetchReport{f.fetchReddit(ctx, count)}, nil
	case "poetrydb":
		return []types.FetchReport{f.fetchPoetryDB(ctx, count)}, nil
	case "all":
		perSource := count / 2
		if perSource < 1 {
			perSource = 1
		}
		reports := []types.FetchReport{f.fetchReddit(ctx, perSource)}
		time.Sleep(f.delay)
		reports = append(reports, f.fetchPoetryDB(ctx, perSource))
		return reports, nil
	default:
		return nil, fmt.Errorf("unknown poetry source %q", source)
	}
}

// fetchReddit scans hot posts on r/Poetry for self-posts that look
// like poems
func (f *Fetcher) fetchReddit(ctx context.Context, count int) types.FetchReport {
	report := types.FetchReport{Provider: "reddit"}
	log.Printf("[poetry] fetching up to %d poems from r/Poetry", count)

	posts, _, err := f.reddit.Subreddit.HotPosts(ctx, "Poetry", &reddit.ListOptions{Limit: 50})
	if err != nil {
		log.Printf("[poetry] reddit fetch warning: %v", err)
		report.Failed = count
		return report
	}

	for _, post := range posts {
		if report.Added >= count {
			break
		}
		if !post.IsSelfPost || len(post.Body) < 50 {
			continue
		}
		lines := cleanPoemText(post.Body)
		if !looksLikePoem(lines) {
			continue
		}
		poem := types.Poem{
			Lines:  lines,
			Author: post.Author,
			Title:  strings.TrimSpace(post.Title),
			Source: "reddit",
		}
		if f.lib.Add(poem) {
			report.Added++
		} else {
			report.Skipped++
		}
	}

	log.Printf("[poetry] reddit: added %d, skipped %d", report.Added, report.Skipped)
	return report
}

type poetryDBPoem struct {
	Title  string   `json:"title"`
	Author string   `json:"author"`
	Lines  []string `json:"lines"`
}

// fetchPoetryDB pulls random public-domain poems from poetrydb.org
func (f *Fetcher) fetchPoetryDB(ctx context.Context, count int) types.FetchReport {
	report := types.FetchReport{Provider: "poetrydb"}
	log.Printf("[poetry] fetching %d poems from PoetryDB", count)

	// Ask for extra so short or duplicate poems still leave enough
	url := fmt.Sprintf("https://poetrydb.org/random/%d", count*2)
	var poems []poetryDBPoem
	if err := getJSON(ctx, f.httpClient, url, &poems); err != nil {
		log.Printf("[poetry] poetrydb fetch warning: %v", err)
		report.Failed = count
		return report
	}

	for _, p := range poems {
		if report.Added >= count {
			break
		}
		lines := dropEmptyLines(p.Lines)
		if !looksLikePoem(lines) {
			continue
		}
		poem := types.Poem{
			Lines:  lines,
			Author: p.Author,
			Title:  p.Title,
			Source: "poetrydb",
		}
		if f.lib.Add(poem) {
			report.Added++
		} else {
			report.Skipped++
		}
	}

	log.Printf("[poetry] poetrydb: added %d, skipped %d", report.Added, report.Skipped)
	return report
}

func getJSON(ctx context.Context, client *http.Client, url string, v interface{}) error {
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; PoetryReels/1.0)")

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(v)
}

// cleanPoemText splits raw post text into trimmed poem lines
func cleanPoemText(text string) []string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		line = strings.Trim(line, "*_~")
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}

func dropEmptyLines(lines []string) []string {
	var out []string
	for _, line := range lines {
		if strings.TrimSpace(line) != "" {
			out = append(out, strings.TrimSpace(line))
		}
	}
	return out
}

// looksLikePoem applies the same shape heuristic the service uses for
// every scraped source: enough short-ish lines to read as verse
func looksLikePoem(lines []string) bool {
	if len(lines) < 3 || len(lines) > 60 {
		return false
	}
	long := 0
	for _, line := range lines {
		if len(line) > 120 {
			long++
		}
	}
	// Mostly prose-length lines means it is not verse
	return long*3 < len(lines)
}
