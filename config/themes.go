package config

import (
	"errors"
	"fmt"
	"sort"
)

// TextStyle picks the font treatment for rendered poetry lines
type TextStyle string

const (
	StyleElegant     TextStyle = "elegant"
	StyleModern      TextStyle = "modern"
	StyleClassic     TextStyle = "classic"
	StyleHandwritten TextStyle = "handwritten"
)

// Animation is how poetry lines enter the frame
type Animation string

const (
	AnimFadeIn     Animation = "fade_in"
	AnimTypewriter Animation = "typewriter"
	AnimSlideUp    Animation = "slide_up"
	AnimWordByWord Animation = "word_by_word"
	AnimGentleZoom Animation = "gentle_zoom"
)

// Palette holds the theme's colors as hex strings plus the
// darkening overlay applied over the background clip
type Palette struct {
	Primary        string  `json:"primary"`
	Secondary      string  `json:"secondary"`
	Accent         string  `json:"accent"`
	OverlayOpacity float64 `json:"overlay_opacity"`
}

// ThemeConfig is one named style bundle. The set of themes is closed:
// unknown identifiers are rejected at the API boundary, never passed
// into rendering.
type ThemeConfig struct {
	ID                 string    `json:"id"`
	Name               string    `json:"name"`
	Description        string    `json:"description"`
	BackgroundKeywords []string  `json:"background_keywords"`
	PoetryKeywords     []string  `json:"poetry_keywords"`
	Palette            Palette   `json:"palette"`
	TextStyle          TextStyle `json:"text_style"`
	Animation          Animation `json:"animation"`
	FontFamily         string    `json:"font_family"`
	FontSize           int       `json:"font_size"`
	LineSpacing        float64   `json:"line_spacing"`
}

var themes = map[string]ThemeConfig{
	"nature": {
		ID:                 "nature",
		Name:               "Nature",
		Description:        "Peaceful nature scenes with organic themes",
		BackgroundKeywords: []string{"forest", "trees", "grass", "leaves", "nature", "green"},
		PoetryKeywords:     []string{"nature", "growth", "seasons", "trees", "earth"},
		Palette:            Palette{Primary: "#2d5016", Secondary: "#ffffff", Accent: "#8fbc8f", OverlayOpacity: 0.3},
		TextStyle:          StyleElegant,
		Animation:          AnimFadeIn,
		FontFamily:         "serif",
		FontSize:           48,
		LineSpacing:        1.4,
	},
	"ocean": {
		ID:                 "ocean",
		Name:               "Ocean",
		Description:        "Calming ocean and water scenes",
		BackgroundKeywords: []string{"ocean", "waves", "water", "beach", "sea", "blue"},
		PoetryKeywords:     []string{"ocean", "water", "flow", "peace", "depth"},
		Palette:            Palette{Primary: "#1e3a8a", Secondary: "#ffffff", Accent: "#60a5fa", OverlayOpacity: 0.25},
		TextStyle:          StyleModern,
		Animation:          AnimSlideUp,
		FontFamily:         "sans-serif",
		FontSize:           46,
		LineSpacing:        1.3,
	},
	"sunset": {
		ID:                 "sunset",
		Name:               "Sunset",
		Description:        "Golden hour and sunset scenes",
		BackgroundKeywords: []string{"sunset", "golden hour", "sky", "warm light", "horizon"},
		PoetryKeywords:     []string{"light", "time", "beauty", "reflection", "golden"},
		Palette:            Palette{Primary: "#92400e", Secondary: "#fef3c7", Accent: "#f59e0b", OverlayOpacity: 0.2},
		TextStyle:          StyleClassic,
		Animation:          AnimGentleZoom,
		FontFamily:         "serif",
		FontSize:           50,
		LineSpacing:        1.5,
	},
	"minimal": {
		ID:                 "minimal",
		Name:               "Minimal",
		Description:        "Clean, minimal aesthetic",
		BackgroundKeywords: []string{"minimal", "clean", "simple", "geometric", "abstract"},
		PoetryKeywords:     []string{"simplicity", "clarity", "essence", "truth", "moment"},
		Palette:            Palette{Primary: "#1f2937", Secondary: "#ffffff", Accent: "#6b7280", OverlayOpacity: 0.1},
		TextStyle:          StyleModern,
		Animation:          AnimTypewriter,
		FontFamily:         "sans-serif",
		FontSize:           44,
		LineSpacing:        1.6,
	},
	"forest": {
		ID:                 "forest",
		Name:               "Forest",
		Description:        "Deep forest and woodland scenes",
		BackgroundKeywords: []string{"forest", "woods", "trees", "shadows", "green", "natural"},
		PoetryKeywords:     []string{"forest", "mystery", "growth", "ancient", "wisdom"},
		Palette:            Palette{Primary: "#14532d", Secondary: "#ecfdf5", Accent: "#22c55e", OverlayOpacity: 0.4},
		TextStyle:          StyleElegant,
		Animation:          AnimWordByWord,
		FontFamily:         "serif",
		FontSize:           47,
		LineSpacing:        1.4,
	},
}

// ErrUnknownTheme marks a theme ID outside the closed set
var ErrUnknownTheme = errors.New("unknown theme")

// Theme returns the config for a theme ID, or ErrUnknownTheme for
// anything outside the closed set
func Theme(id string) (ThemeConfig, error) {
	t, ok := themes[id]
	if !ok {
		return ThemeConfig{}, fmt.Errorf("%w %q", ErrUnknownTheme, id)
	}
	return t, nil
}

// ThemeIDs lists the available theme identifiers in stable order
func ThemeIDs() []string {
	ids := make([]string, 0, len(themes))
	for id := range themes {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Themes returns all theme configs in stable ID order
func Themes() []ThemeConfig {
	var out []ThemeConfig
	for _, id := range ThemeIDs() {
		out = append(out, themes[id])
	}
	return out
}
