package types

import "time"

// Kind is the class of stored asset
type Kind string

const (
	KindBackground Kind = "backgrounds"
	KindAudio      Kind = "audio"
)

// ContentItem is one fetched asset sitting in the content store
type ContentItem struct {
	Source     string    `json:"source"`
	Kind       Kind      `json:"kind"`
	Theme      string    `json:"theme"`
	Filename   string    `json:"filename"`
	Path       string    `json:"path"`
	RemoteURL  string    `json:"remote_url,omitempty"`
	FetchedAt  time.Time `json:"fetched_at"`
	UsageCount int       `json:"usage_count"`
}

// Poem is one poetry entry in the library
type Poem struct {
	Lines     []string  `json:"lines"`
	Author    string    `json:"author"`
	Title     string    `json:"title"`
	Source    string    `json:"source"`
	Theme     string    `json:"theme,omitempty"`
	CreatedAt time.Time `json:"created_at,omitempty"`
}

// FetchReport summarizes one fetch operation against one provider
type FetchReport struct {
	Provider string   `json:"provider"`
	Added    int      `json:"added"`
	Skipped  int      `json:"skipped"`
	Failed   int      `json:"failed"`
	Files    []string `json:"files,omitempty"`
}

// GenerationRequest is the transient request for one video
type GenerationRequest struct {
	Theme             string  `json:"theme"`
	TextStyle         string  `json:"text_style,omitempty"`
	Animation         string  `json:"animation,omitempty"`
	CustomPoetry      string  `json:"custom_poetry,omitempty"`
	CustomBackground  string  `json:"custom_background,omitempty"`
	Duration          int     `json:"duration,omitempty"`
	EnableVoiceover   bool    `json:"enable_voiceover,omitempty"`
	VoiceStyle        string  `json:"voice_style,omitempty"`
	SpeakingRate      float64 `json:"speaking_rate,omitempty"`
	PublishInstagram  bool    `json:"publish_to_instagram,omitempty"`
	PublishYouTube    bool    `json:"publish_to_youtube,omitempty"`
}

// Stage tags which step of generation an error came from, so callers
// can tell "video produced but not published" apart from a failed render
type Stage string

const (
	StageContent Stage = "content"
	StageRender  Stage = "render"
	StagePublish Stage = "publish"
)

// GenerationResult is returned to the caller and not persisted
type GenerationResult struct {
	Success     bool     `json:"success"`
	VideoID     string   `json:"video_id"`
	Theme       string   `json:"theme"`
	PoetryLines []string `json:"poetry_lines"`
	Duration    int      `json:"duration"`
	LocalPath   string   `json:"local_path,omitempty"`
	VideoURL    string   `json:"video_url,omitempty"`
	InstagramID string   `json:"instagram_id,omitempty"`
	YouTubeURL  string   `json:"youtube_url,omitempty"`
	ErrorStage  Stage    `json:"error_stage,omitempty"`
	Error       string   `json:"error_message,omitempty"`
}
