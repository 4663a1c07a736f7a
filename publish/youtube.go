package publish

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	appconfig "poetry-reels/config"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"
)

// YouTubePublisher uploads rendered poems as Shorts via the YouTube
// Data API v3
type YouTubePublisher struct {
	cfg appconfig.PublishConfig
}

func NewYouTubePublisher(cfg appconfig.PublishConfig) *YouTubePublisher {
	return &YouTubePublisher{cfg: cfg}
}

// Enabled reports whether the OAuth refresh-token credentials are set
func (p *YouTubePublisher) Enabled() bool {
	return os.Getenv("YOUTUBE_CLIENT_ID") != "" &&
		os.Getenv("YOUTUBE_CLIENT_SECRET") != "" &&
		os.Getenv("YOUTUBE_REFRESH_TOKEN") != ""
}

// Publish uploads the video file and returns its watch URL
func (p *YouTubePublisher) Publish(ctx context.Context, videoFile, title string, poemLines []string) (string, error) {
	client, err := p.oauthClient(ctx)
	if err != nil {
		return "", fmt.Errorf("youtube auth: %w", err)
	}

	svc, err := youtube.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return "", fmt.Errorf("youtube service: %w", err)
	}

	log.Printf("[publish] uploading %q to youtube", title)

	video := &youtube.Video{
		Snippet: &youtube.VideoSnippet{
			Title:       title,
			Description: strings.Join(poemLines, "\n") + "\n\n#poetry #shorts",
			Tags:        []string{"poetry", "poem", "shorts", "calm"},
			CategoryId:  p.cfg.YouTubeCategoryID,
		},
		Status: &youtube.VideoStatus{
			PrivacyStatus:           p.cfg.YouTubePrivacy,
			SelfDeclaredMadeForKids: false,
		},
	}

	f, err := os.Open(videoFile)
	if err != nil {
		return "", fmt.Errorf("open video file: %w", err)
	}
	defer f.Close()

	call := svc.Videos.Insert([]string{"snippet", "status"}, video)
	call.Media(f)

	uploaded, err := call.Do()
	if err != nil {
		return "", fmt.Errorf("youtube upload: %w", err)
	}

	watchURL := fmt.Sprintf("https://www.youtube.com/watch?v=%s", uploaded.Id)
	log.Printf("[publish] youtube upload done: %s", watchURL)
	return watchURL, nil
}

// oauthClient builds an HTTP client from env refresh-token credentials
func (p *YouTubePublisher) oauthClient(ctx context.Context) (*http.Client, error) {
	clientID := os.Getenv("YOUTUBE_CLIENT_ID")
	clientSecret := os.Getenv("YOUTUBE_CLIENT_SECRET")
	refreshToken := os.Getenv("YOUTUBE_REFRESH_TOKEN")

	if clientID == "" || clientSecret == "" || refreshToken == "" {
		return nil, fmt.Errorf("YOUTUBE_CLIENT_ID, YOUTUBE_CLIENT_SECRET, or YOUTUBE_REFRESH_TOKEN not set")
	}

	conf := &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		Endpoint:     google.Endpoint,
		Scopes:       []string{youtube.YoutubeUploadScope, youtube.YoutubeScope},
	}

	token := &oauth2.Token{
		RefreshToken: refreshToken,
		Expiry:       time.Now().Add(-time.Hour), // force refresh
	}

	return conf.Client(ctx, token), nil
}
