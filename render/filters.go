package render

import (
	"fmt"
	"strings"

	"poetry-reels/config"
)

// lineWindow is the time slot one poetry line occupies on screen
type lineWindow struct {
	text  string
	start float64
	end   float64
}

// splitWindows divides the video duration evenly across the lines
func splitWindows(lines []string, duration float64) []lineWindow {
	if len(lines) == 0 {
		return nil
	}
	per := duration / float64(len(lines))
	windows := make([]lineWindow, len(lines))
	for i, line := range lines {
		windows[i] = lineWindow{
			text:  line,
			start: float64(i) * per,
			end:   float64(i+1) * per,
		}
	}
	return windows
}

// buildVideoFilter assembles the full video filter chain: background
// normalization, theme overlay dim, then one drawtext block per line
// animated per the theme
func buildVideoFilter(theme config.ThemeConfig, style config.TextStyle, anim config.Animation, lines []string, width, height int, duration float64) string {
	var parts []string

	parts = append(parts, backgroundFilter(width, height))
	parts = append(parts, overlayFilter(theme.Palette.OverlayOpacity))

	if anim == config.AnimGentleZoom {
		parts = append(parts, gentleZoomFilter(width, height, duration))
	}

	for _, f := range textFilters(theme, style, anim, lines, width, height, duration) {
		parts = append(parts, f)
	}

	return strings.Join(parts, ",")
}

// backgroundFilter scales and center-crops any input to the target
// vertical frame
func backgroundFilter(width, height int) string {
	return fmt.Sprintf(
		"scale=%d:%d:force_original_aspect_ratio=increase,crop=%d:%d,setsar=1",
		width, height, width, height,
	)
}

// overlayFilter darkens the background so text stays readable
func overlayFilter(opacity float64) string {
	return fmt.Sprintf("drawbox=x=0:y=0:w=iw:h=ih:color=black@%.2f:t=fill", opacity)
}

// gentleZoomFilter adds a slow push-in over the whole clip
func gentleZoomFilter(width, height int, duration float64) string {
	frames := int(duration * 25)
	return fmt.Sprintf(
		"zoompan=z='min(zoom+0.0008,1.15)':x='iw/2-(iw/zoom/2)':y='ih/2-(ih/zoom/2)':d=%d:s=%dx%d:fps=25",
		frames, width, height,
	)
}

// textFilters builds the drawtext chain for all poetry lines
func textFilters(theme config.ThemeConfig, style config.TextStyle, anim config.Animation, lines []string, width, height int, duration float64) []string {
	var filters []string
	font := fontFor(theme.FontFamily, style)
	color := drawtextColor(theme.Palette.Secondary)

	for _, w := range splitWindows(lines, duration) {
		switch anim {
		case config.AnimWordByWord:
			filters = append(filters, wordByWordFilters(w, font, color, theme.FontSize, height)...)
		case config.AnimTypewriter:
			filters = append(filters, typewriterFilters(w, font, color, theme.FontSize, height)...)
		case config.AnimSlideUp:
			filters = append(filters, slideUpFilter(w, font, color, theme.FontSize, height))
		default: // fade_in, gentle_zoom
			filters = append(filters, fadeInFilter(w, font, color, theme.FontSize, height))
		}
	}
	return filters
}

// fadeInFilter shows a line for its window with a one-second alpha
// ramp at each edge
func fadeInFilter(w lineWindow, font, color string, fontSize, height int) string {
	return fmt.Sprintf(
		"drawtext=font='%s':text='%s':fontsize=%d:fontcolor=%s:x=(w-text_w)/2:y=(h-text_h)/2:alpha='%s':enable='between(t,%.2f,%.2f)'",
		font, escapeDrawtext(w.text), fontSize, color,
		fadeAlpha(w.start, w.end), w.start, w.end,
	)
}

// slideUpFilter raises the line from below center while it fades in
func slideUpFilter(w lineWindow, font, color string, fontSize, height int) string {
	rise := 80.0
	return fmt.Sprintf(
		"drawtext=font='%s':text='%s':fontsize=%d:fontcolor=%s:x=(w-text_w)/2:y='(h-text_h)/2+%.0f*max(0,1-(t-%.2f))':alpha='%s':enable='between(t,%.2f,%.2f)'",
		font, escapeDrawtext(w.text), fontSize, color,
		rise, w.start, fadeAlpha(w.start, w.end), w.start, w.end,
	)
}

// typewriterFilters reveals a line in staggered left-anchored chunks
func typewriterFilters(w lineWindow, font, color string, fontSize, height int) []string {
	words := strings.Fields(w.text)
	if len(words) == 0 {
		return nil
	}
	span := w.end - w.start
	reveal := span * 0.6 / float64(len(words))

	var filters []string
	for i := range words {
		partial := strings.Join(words[:i+1], " ")
		start := w.start + float64(i)*reveal
		end := w.start + float64(i+1)*reveal
		if i == len(words)-1 {
			end = w.end
		}
		filters = append(filters, fmt.Sprintf(
			"drawtext=font='%s':text='%s':fontsize=%d:fontcolor=%s:x=(w-text_w)/2:y=(h-text_h)/2:enable='between(t,%.2f,%.2f)'",
			font, escapeDrawtext(partial), fontSize, color, start, end,
		))
	}
	return filters
}

// wordByWordFilters gives each word its own entrance inside the
// line's window
func wordByWordFilters(w lineWindow, font, color string, fontSize, height int) []string {
	words := strings.Fields(w.text)
	if len(words) == 0 {
		return nil
	}
	span := w.end - w.start
	step := span * 0.5 / float64(len(words))

	var filters []string
	for i, word := range words {
		start := w.start + float64(i)*step
		x := fmt.Sprintf("(w-text_w*%d)/2+text_w*%d", len(words), i)
		filters = append(filters, fmt.Sprintf(
			"drawtext=font='%s':text='%s':fontsize=%d:fontcolor=%s:x='%s':y=(h-text_h)/2:alpha='%s':enable='between(t,%.2f,%.2f)'",
			font, escapeDrawtext(word), fontSize, color, x,
			fadeAlpha(start, w.end), start, w.end,
		))
	}
	return filters
}

// fadeAlpha ramps opacity up at the start of a window and down at the
// end. The ramp is one second, shrunk to half the span on short
// windows so both fades stay reachable.
func fadeAlpha(start, end float64) string {
	ramp := 1.0
	if span := end - start; span < 2 {
		ramp = span / 2
	}
	if ramp <= 0 {
		return "1"
	}
	return fmt.Sprintf(
		"if(lt(t,%.2f),(t-%.2f)/%.2f,if(gt(t,%.2f),(%.2f-t)/%.2f,1))",
		start+ramp, start, ramp, end-ramp, end, ramp,
	)
}

// buildAudioFilter mixes background music under an optional voiceover
// and fades the result at both ends
func buildAudioFilter(hasMusic, hasVoice bool, duration, fade float64) string {
	fadeOut := fmt.Sprintf("afade=t=in:st=0:d=%.1f,afade=t=out:st=%.1f:d=%.1f", fade, duration-fade, fade)

	switch {
	case hasMusic && hasVoice:
		return fmt.Sprintf("[1:a]volume=0.25[bg];[2:a]volume=1.0[vo];[bg][vo]amix=inputs=2:duration=first,%s[a]", fadeOut)
	case hasMusic:
		return fmt.Sprintf("[1:a]volume=0.8,%s[a]", fadeOut)
	case hasVoice:
		return fmt.Sprintf("[1:a]volume=1.0,%s[a]", fadeOut)
	default:
		return ""
	}
}

// fontFor picks a fontconfig family for the theme's font class and the
// requested text style
func fontFor(family string, style config.TextStyle) string {
	if style == config.StyleHandwritten {
		return "Comic Sans MS"
	}
	switch family {
	case "serif":
		return "Serif"
	default:
		return "Sans"
	}
}

// drawtextColor converts "#rrggbb" to ffmpeg's 0xrrggbb form
func drawtextColor(hex string) string {
	hex = strings.TrimPrefix(hex, "#")
	if len(hex) != 6 {
		return "white"
	}
	return "0x" + hex
}

// escapeDrawtext quotes the characters drawtext treats specially
func escapeDrawtext(text string) string {
	r := strings.NewReplacer(
		`\`, `\\`,
		`'`, `\'`,
		`:`, `\:`,
		`%`, `\%`,
	)
	return r.Replace(text)
}
