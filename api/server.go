// Package api exposes the service over HTTP: content fetching,
// library inspection, and synchronous video generation.
package api

import (
	"errors"
	"net/http"
	"strconv"

	"poetry-reels/config"
	"poetry-reels/fetch"
	"poetry-reels/poetry"
	"poetry-reels/store"
	"poetry-reels/tts"
	"poetry-reels/types"

	"github.com/gin-gonic/gin"
)

type Server struct {
	cfg         *config.Config
	router      *gin.Engine
	store       *store.Store
	library     *poetry.Library
	poems       *poetry.Fetcher
	backgrounds *fetch.BackgroundFetcher
	audio       *fetch.AudioFetcher
	pipeline    *Pipeline
}

func NewServer(cfg *config.Config, st *store.Store, lib *poetry.Library, poems *poetry.Fetcher,
	backgrounds *fetch.BackgroundFetcher, audio *fetch.AudioFetcher, pipeline *Pipeline) *Server {
	s := &Server{
		cfg:         cfg,
		router:      gin.Default(),
		store:       st,
		library:     lib,
		poems:       poems,
		backgrounds: backgrounds,
		audio:       audio,
		pipeline:    pipeline,
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.GET("/health", s.health)
	s.router.GET("/themes", s.listThemes)
	s.router.GET("/poetry/random", s.randomPoem)

	s.router.POST("/generate-video", s.generateVideo)

	content := s.router.Group("/content")
	{
		content.GET("/status", s.contentStatus)
		content.GET("/voice-options", s.voiceOptions)
		content.POST("/fetch-backgrounds", s.fetchBackgrounds)
		content.POST("/fetch-audio", s.fetchAudio)
		content.POST("/fetch-poetry", s.fetchPoetry)
	}
}

// Run blocks serving HTTP on the configured address
func (s *Server) Run() error {
	return s.router.Run(s.cfg.Server.Addr)
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"themes": config.ThemeIDs(),
		"poems":  s.library.Len(),
	})
}

func (s *Server) listThemes(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"themes": config.Themes()})
}

func (s *Server) randomPoem(c *gin.Context) {
	poem, err := s.library.Random()
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, poem)
}

func (s *Server) voiceOptions(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"voice_styles":  tts.VoiceStyles(),
		"default_style": s.cfg.Voice.DefaultStyle,
		"default_rate":  s.cfg.Voice.DefaultRate,
	})
}

func (s *Server) contentStatus(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"backgrounds": s.store.Status(types.KindBackground),
		"audio":       s.store.Status(types.KindAudio),
		"poetry": gin.H{
			"count":   s.library.Len(),
			"sources": s.library.Sources(),
		},
	})
}

func (s *Server) generateVideo(c *gin.Context) {
	var req types.GenerationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Theme == "" {
		req.Theme = "nature"
	}

	result, err := s.pipeline.Generate(c.Request.Context(), req)
	if err != nil {
		c.JSON(statusFor(result, err), result)
		return
	}
	c.JSON(http.StatusOK, result)
}

// statusFor maps a failed generation to an HTTP status: bad input 400,
// nothing to work with 404, publish failures 502 (the video exists and
// its local path is still in the result), anything else 500.
func statusFor(result types.GenerationResult, err error) int {
	switch {
	case errors.Is(err, config.ErrUnknownTheme), errors.Is(err, tts.ErrUnknownVoice):
		return http.StatusBadRequest
	case errors.Is(err, store.ErrNoContent), errors.Is(err, poetry.ErrEmpty):
		return http.StatusNotFound
	case result.ErrorStage == types.StagePublish:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) fetchBackgrounds(c *gin.Context) {
	theme, count, ok := s.fetchParams(c, 5)
	if !ok {
		return
	}
	themeCfg, err := config.Theme(theme)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	reports := s.backgrounds.Fetch(c.Request.Context(), themeCfg, count)
	c.JSON(http.StatusOK, gin.H{"theme": theme, "reports": reports})
}

func (s *Server) fetchAudio(c *gin.Context) {
	theme, count, ok := s.fetchParams(c, 3)
	if !ok {
		return
	}
	themeCfg, err := config.Theme(theme)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !s.audio.Configured() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "BEATOVEN_API_KEY not set"})
		return
	}

	report := s.audio.Fetch(c.Request.Context(), themeCfg, count)
	c.JSON(http.StatusOK, gin.H{"theme": theme, "reports": []types.FetchReport{report}})
}

func (s *Server) fetchPoetry(c *gin.Context) {
	source := c.DefaultQuery("source", "all")
	count, ok := s.countParam(c, s.cfg.Fetch.PoemsPerSource)
	if !ok {
		return
	}

	reports, err := s.poems.Fetch(c.Request.Context(), source, count)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"source": source, "reports": reports, "library_size": s.library.Len()})
}

func (s *Server) fetchParams(c *gin.Context, defaultCount int) (string, int, bool) {
	theme := c.DefaultQuery("theme", "nature")
	count, ok := s.countParam(c, defaultCount)
	return theme, count, ok
}

func (s *Server) countParam(c *gin.Context, fallback int) (int, bool) {
	raw := c.DefaultQuery("count", strconv.Itoa(fallback))
	count, err := strconv.Atoi(raw)
	if err != nil || count < 1 || count > 20 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "count must be between 1 and 20"})
		return 0, false
	}
	return count, true
}
