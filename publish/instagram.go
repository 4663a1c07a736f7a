package publish

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"
)

// InstagramPublisher posts a hosted video as a Reel through the
// Instagram Graph API: create a media container from the public URL,
// wait for processing, then publish it.
type InstagramPublisher struct {
	httpClient   *http.Client
	accessToken  string
	accountID    string
	graphBase    string
	pollInterval time.Duration
}

// NewInstagramPublisher reads the token and account from env; missing
// values leave it disabled
func NewInstagramPublisher() *InstagramPublisher {
	return &InstagramPublisher{
		httpClient:   &http.Client{Timeout: 60 * time.Second},
		accessToken:  os.Getenv("INSTAGRAM_ACCESS_TOKEN"),
		accountID:    os.Getenv("INSTAGRAM_ACCOUNT_ID"),
		graphBase:    "https://graph.facebook.com/v19.0",
		pollInterval: 3 * time.Second,
	}
}

// Enabled reports whether Instagram publishing is configured
func (p *InstagramPublisher) Enabled() bool {
	return p.accessToken != "" && p.accountID != ""
}

type igContainerResponse struct {
	ID    string `json:"id"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

type igStatusResponse struct {
	StatusCode string `json:"status_code"`
}

// Publish posts the video at videoURL as a Reel with the poem text as
// caption and returns the published media ID
func (p *InstagramPublisher) Publish(ctx context.Context, videoURL string, caption []string) (string, error) {
	if !p.Enabled() {
		return "", fmt.Errorf("instagram credentials not configured")
	}
	if strings.HasPrefix(videoURL, "file://") {
		return "", fmt.Errorf("instagram needs a public video url, got a local path")
	}

	log.Printf("[publish] creating instagram container for %s", videoURL)

	form := url.Values{}
	form.Set("media_type", "REELS")
	form.Set("video_url", videoURL)
	form.Set("caption", strings.Join(caption, "\n"))
	form.Set("access_token", p.accessToken)

	var container igContainerResponse
	if err := p.postForm(ctx, fmt.Sprintf("%s/%s/media", p.graphBase, p.accountID), form, &container); err != nil {
		return "", fmt.Errorf("create container: %w", err)
	}
	if container.Error != nil {
		return "", fmt.Errorf("create container: %s", container.Error.Message)
	}
	if container.ID == "" {
		return "", fmt.Errorf("create container: empty container id")
	}

	if err := p.awaitReady(ctx, container.ID); err != nil {
		return "", err
	}

	pubForm := url.Values{}
	pubForm.Set("creation_id", container.ID)
	pubForm.Set("access_token", p.accessToken)

	var published igContainerResponse
	if err := p.postForm(ctx, fmt.Sprintf("%s/%s/media_publish", p.graphBase, p.accountID), pubForm, &published); err != nil {
		return "", fmt.Errorf("publish container: %w", err)
	}
	if published.Error != nil {
		return "", fmt.Errorf("publish container: %s", published.Error.Message)
	}

	log.Printf("[publish] instagram reel published: %s", published.ID)
	return published.ID, nil
}

// awaitReady polls the container until Instagram finishes processing
// the video
func (p *InstagramPublisher) awaitReady(ctx context.Context, containerID string) error {
	for attempt := 0; attempt < 20; attempt++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(p.pollInterval):
		}

		statusURL := fmt.Sprintf("%s/%s?fields=status_code&access_token=%s",
			p.graphBase, containerID, url.QueryEscape(p.accessToken))

		req, err := http.NewRequestWithContext(ctx, "GET", statusURL, nil)
		if err != nil {
			return err
		}
		resp, err := p.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("container status: %w", err)
		}

		var status igStatusResponse
		err = json.NewDecoder(resp.Body).Decode(&status)
		resp.Body.Close()
		if err != nil {
			return fmt.Errorf("container status: %w", err)
		}

		switch status.StatusCode {
		case "FINISHED":
			return nil
		case "ERROR":
			return fmt.Errorf("instagram rejected container %s", containerID)
		}
	}
	return fmt.Errorf("container %s still processing after timeout", containerID)
}

func (p *InstagramPublisher) postForm(ctx context.Context, endpoint string, form url.Values, v interface{}) error {
	req, err := http.NewRequestWithContext(ctx, "POST", endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return json.NewDecoder(resp.Body).Decode(v)
}
