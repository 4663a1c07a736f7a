package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Video   VideoConfig   `yaml:"video"`
	Poetry  PoetryConfig  `yaml:"poetry"`
	Fetch   FetchConfig   `yaml:"fetch"`
	Voice   VoiceConfig   `yaml:"voice"`
	Publish PublishConfig `yaml:"publish"`
	Paths   PathsConfig   `yaml:"paths"`
}

type ServerConfig struct {
	Addr string `yaml:"addr"`
}

type VideoConfig struct {
	Width           int     `yaml:"width"`
	Height          int     `yaml:"height"`
	FPS             int     `yaml:"fps"`
	DefaultDuration int     `yaml:"default_duration_sec"`
	MinDuration     int     `yaml:"min_duration_sec"`
	MaxDuration     int     `yaml:"max_duration_sec"`
	AudioFadeSec    float64 `yaml:"audio_fade_sec"`
}

type PoetryConfig struct {
	MinLines int `yaml:"min_lines"`
	MaxLines int `yaml:"max_lines"`
}

type FetchConfig struct {
	ProviderDelayMS  int `yaml:"provider_delay_ms"`
	MinClipDuration  int `yaml:"min_clip_duration_sec"`
	MinClipHeight    int `yaml:"min_clip_height"`
	PoemsPerSource   int `yaml:"poems_per_source"`
	KeywordsPerFetch int `yaml:"keywords_per_fetch"`
}

type VoiceConfig struct {
	DefaultStyle string  `yaml:"default_style"`
	DefaultRate  float64 `yaml:"default_rate"`
}

type PublishConfig struct {
	S3Bucket          string `yaml:"s3_bucket"`
	S3Region          string `yaml:"s3_region"`
	S3BaseURL         string `yaml:"s3_base_url"`
	S3KeyPrefix       string `yaml:"s3_key_prefix"`
	YouTubeCategoryID string `yaml:"youtube_category_id"`
	YouTubePrivacy    string `yaml:"youtube_privacy"`
}

type PathsConfig struct {
	AssetsRoot  string `yaml:"assets_root"`
	Defaults    string `yaml:"defaults"`
	Scratch     string `yaml:"scratch"`
	Output      string `yaml:"output"`
	PoetryCache string `yaml:"poetry_cache"`
}

// Load reads a yaml config file and fills in defaults for anything unset
func Load(path string) (*Config, error) {
	cfg := defaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// no config file is fine, run on defaults
			return cfg, nil
		}
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{Addr: ":8001"},
		Video: VideoConfig{
			Width:           1080,
			Height:          1920,
			FPS:             24,
			DefaultDuration: 18,
			MinDuration:     10,
			MaxDuration:     30,
			AudioFadeSec:    1.0,
		},
		Poetry: PoetryConfig{MinLines: 4, MaxLines: 8},
		Fetch: FetchConfig{
			ProviderDelayMS:  200,
			MinClipDuration:  10,
			MinClipHeight:    720,
			PoemsPerSource:   10,
			KeywordsPerFetch: 2,
		},
		Voice: VoiceConfig{DefaultStyle: "edge_female_calm", DefaultRate: 0.85},
		Publish: PublishConfig{
			S3Region:          "us-east-1",
			S3KeyPrefix:       "poetry-videos",
			YouTubeCategoryID: "22",
			YouTubePrivacy:    "public",
		},
		Paths: PathsConfig{
			AssetsRoot:  "./assets",
			Defaults:    "./assets/defaults",
			Scratch:     "./scratch",
			Output:      "./output",
			PoetryCache: "./assets/poetry_cache.json",
		},
	}
}

// ClampDuration bounds a requested duration to the configured range.
// Zero means "use the default".
func (v VideoConfig) ClampDuration(requested int) int {
	if requested <= 0 {
		return v.DefaultDuration
	}
	if requested < v.MinDuration {
		return v.MinDuration
	}
	if requested > v.MaxDuration {
		return v.MaxDuration
	}
	return requested
}
