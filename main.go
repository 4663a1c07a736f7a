package main

import (
	"context"
	"log"
	"os"
	"path/filepath"
	"time"

	"poetry-reels/api"
	"poetry-reels/config"
	"poetry-reels/fetch"
	"poetry-reels/poetry"
	"poetry-reels/publish"
	"poetry-reels/render"
	"poetry-reels/store"
	"poetry-reels/tts"
	"poetry-reels/types"

	"github.com/joho/godotenv"
)

func main() {
	// Load .env (local dev only, deploys use real env)
	_ = godotenv.Load()

	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Ensure required dirs exist
	dirs := []string{
		cfg.Paths.Scratch,
		cfg.Paths.Output,
		filepath.Join(cfg.Paths.Defaults, string(types.KindBackground)),
		filepath.Join(cfg.Paths.Defaults, string(types.KindAudio)),
	}
	for _, theme := range config.ThemeIDs() {
		dirs = append(dirs,
			filepath.Join(cfg.Paths.AssetsRoot, string(types.KindBackground), theme),
			filepath.Join(cfg.Paths.AssetsRoot, string(types.KindAudio), theme),
		)
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			log.Fatalf("Failed to create dir %s: %v", dir, err)
		}
	}

	st := store.New(cfg.Paths.AssetsRoot, cfg.Paths.Defaults)
	library := poetry.NewLibrary(cfg.Paths.PoetryCache)

	poems, err := poetry.NewFetcher(library, time.Duration(cfg.Fetch.ProviderDelayMS)*time.Millisecond)
	if err != nil {
		log.Fatalf("Failed to build poetry fetcher: %v", err)
	}
	backgrounds := fetch.NewBackgroundFetcher(st, cfg)
	audio := fetch.NewAudioFetcher(st, cfg)

	ctx := context.Background()
	uploader, err := publish.NewS3Publisher(ctx, cfg.Publish)
	if err != nil {
		log.Fatalf("Failed to build S3 publisher: %v", err)
	}
	instagram := publish.NewInstagramPublisher()
	youtube := publish.NewYouTubePublisher(cfg.Publish)

	pipeline := api.NewPipeline(cfg, st, library, tts.New(),
		render.NewComposer(cfg), uploader, instagram, youtube)

	server := api.NewServer(cfg, st, library, poems, backgrounds, audio, pipeline)

	log.Printf("[main] poetry reels service listening on %s (%d poems loaded)", cfg.Server.Addr, library.Len())
	if err := server.Run(); err != nil {
		log.Fatalf("Server stopped: %v", err)
	}
}
