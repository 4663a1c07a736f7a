// Package tts synthesizes the poetry voiceover. Azure-hosted voices go
// through the Azure OpenAI speech endpoint; edge_* styles shell out to
// the edge-tts binary.
package tts

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// voices maps a public voice style to the provider voice name
var voices = map[string]string{
	// Azure OpenAI speech voices
	"azure_onyx":    "onyx",
	"azure_alloy":   "alloy",
	"azure_echo":    "echo",
	"azure_fable":   "fable",
	"azure_nova":    "nova",
	"azure_shimmer": "shimmer",

	// Microsoft Edge neural voices
	"edge_female_calm":    "en-US-AriaNeural",
	"edge_female_warm":    "en-US-JennyNeural",
	"edge_male_calm":      "en-US-DavisNeural",
	"edge_male_warm":      "en-US-GuyNeural",
	"edge_female_british": "en-GB-SoniaNeural",
	"edge_male_british":   "en-GB-RyanNeural",
}

// Synthesizer turns poetry lines into a narration audio file
type Synthesizer struct {
	httpClient    *http.Client
	azureEndpoint string
	azureKey      string
	azureVersion  string
	deployment    string
}

// New reads Azure speech credentials from the environment. Without
// them only edge_* voices work.
func New() *Synthesizer {
	version := os.Getenv("AZURE_OPENAI_TTS_API_VERSION")
	if version == "" {
		version = "2025-03-01-preview"
	}
	return &Synthesizer{
		httpClient:    &http.Client{Timeout: 120 * time.Second},
		azureEndpoint: strings.TrimRight(os.Getenv("AZURE_OPENAI_TTS_ENDPOINT"), "/"),
		azureKey:      os.Getenv("AZURE_OPENAI_TTS_API_KEY"),
		azureVersion:  version,
		deployment:    "tts-hd",
	}
}

// VoiceStyles lists the supported voice style identifiers
func VoiceStyles() []string {
	styles := make([]string, 0, len(voices))
	for style := range voices {
		styles = append(styles, style)
	}
	sort.Strings(styles)
	return styles
}

// Supported reports whether a voice style is known
func Supported(style string) bool {
	_, ok := voices[style]
	return ok
}

// ErrUnknownVoice marks a voice style outside the supported set
var ErrUnknownVoice = errors.New("unknown voice style")

// Speak renders the poem as narration into outFile (mp3). Azure styles
// fall back to an edge voice when the Azure call fails.
func (s *Synthesizer) Speak(ctx context.Context, lines []string, style string, rate float64, outFile string) error {
	voice, ok := voices[style]
	if !ok {
		return fmt.Errorf("%w %q", ErrUnknownVoice, style)
	}
	if rate < 0.5 || rate > 2.0 {
		return fmt.Errorf("speaking rate %.2f out of range 0.5..2.0", rate)
	}

	text := FormatForSpeech(lines)
	if text == "" {
		return fmt.Errorf("nothing to narrate")
	}

	if strings.HasPrefix(style, "azure_") {
		err := s.speakAzure(ctx, text, voice, rate, outFile)
		if err == nil {
			return nil
		}
		log.Printf("[tts] azure voice %q failed (%v), falling back to edge-tts", style, err)
		voice = voices["edge_female_calm"]
	}

	return s.speakEdge(ctx, text, voice, rate, outFile)
}

func (s *Synthesizer) speakAzure(ctx context.Context, text, voice string, rate float64, outFile string) error {
	if s.azureEndpoint == "" || s.azureKey == "" {
		return fmt.Errorf("azure speech credentials not configured")
	}

	url := fmt.Sprintf("%s/openai/deployments/%s/audio/speech?api-version=%s",
		s.azureEndpoint, s.deployment, s.azureVersion)

	body, _ := json.Marshal(map[string]interface{}{
		"model": s.deployment,
		"input": text,
		"voice": voice,
		"speed": rate,
	})

	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+s.azureKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("azure speech status %d: %s", resp.StatusCode, msg)
	}

	f, err := os.Create(outFile)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := io.Copy(f, resp.Body); err != nil {
		os.Remove(outFile)
		return fmt.Errorf("write narration: %w", err)
	}
	return nil
}

// speakEdge shells out to edge-tts, retrying transient failures
func (s *Synthesizer) speakEdge(ctx context.Context, text, voice string, rate float64, outFile string) error {
	if _, err := exec.LookPath("edge-tts"); err != nil {
		return fmt.Errorf("edge-tts not installed: %w", err)
	}

	// edge-tts expresses rate as a percentage offset from normal
	ratePct := fmt.Sprintf("%+d%%", int((rate-1.0)*100))

	var err error
	for attempt := 1; attempt <= 3; attempt++ {
		cmd := exec.CommandContext(ctx,
			"edge-tts",
			"--voice", voice,
			"--rate", ratePct,
			"--text", text,
			"--write-media", outFile,
		)
		cmd.Stderr = os.Stderr

		if err = cmd.Run(); err == nil {
			return nil
		}
		log.Printf("[tts] edge-tts attempt %d failed: %v", attempt, err)
		time.Sleep(time.Duration(attempt) * 2 * time.Second)
	}
	os.Remove(outFile)
	return fmt.Errorf("edge-tts failed after 3 attempts: %w", err)
}

// FormatForSpeech joins poetry lines into narratable text: markdown
// markers stripped, each line closed with punctuation so the voice
// pauses between lines
func FormatForSpeech(lines []string) string {
	var cleaned []string
	for _, line := range lines {
		line = strings.TrimSpace(line)
		line = strings.Trim(line, "*_~#")
		if line == "" {
			continue
		}
		runes := []rune(line)
		if !strings.ContainsAny(string(runes[len(runes)-1]), ".,:;!?—") {
			line += ","
		}
		cleaned = append(cleaned, line)
	}
	return strings.Join(cleaned, " ")
}

// OutputPath builds the narration file path inside a scratch dir
func OutputPath(scratchDir, videoID string) string {
	return filepath.Join(scratchDir, fmt.Sprintf("voiceover_%s.mp3", videoID))
}
