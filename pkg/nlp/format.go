package nlp

import (
	"regexp"
	"strings"
)

var (
	listMarkerRe = regexp.MustCompile(`^(\d+\.|[-*])\s+`)
	boldRe       = regexp.MustCompile(`\*\*(.+?)\*\*`)
)

// Parse turns a raw answer into a flat segment list. The result is
// independent of any rendering target so the same tree serves the chat
// display, the transcript export, and speech synthesis.
func Parse(raw string) []Segment {
	var segments []Segment

	lines := strings.Split(raw, "\n")
	for i, line := range lines {
		if i > 0 {
			segments = append(segments, Segment{Kind: KindLineBreak})
		}

		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}

		if marker := listMarkerRe.FindString(trimmed); marker != "" {
			content := strings.TrimSpace(trimmed[len(marker):])
			segments = append(segments, Segment{
				Kind:    KindListItem,
				Content: stripBoldMarkers(content),
			})
			continue
		}

		segments = append(segments, parseInline(trimmed)...)
	}

	return segments
}

func parseInline(line string) []Segment {
	var segments []Segment

	rest := line
	for {
		loc := boldRe.FindStringSubmatchIndex(rest)
		if loc == nil {
			break
		}

		if before := rest[:loc[0]]; before != "" {
			segments = append(segments, Segment{Kind: KindText, Content: before})
		}
		segments = append(segments, Segment{Kind: KindBold, Content: rest[loc[2]:loc[3]]})
		rest = rest[loc[1]:]
	}

	if rest != "" {
		segments = append(segments, Segment{Kind: KindText, Content: rest})
	}

	return segments
}

func stripBoldMarkers(s string) string {
	return boldRe.ReplaceAllString(s, "$1")
}

// RenderPlain flattens a segment list back to plain text with all
// markup removed. List items keep their own line.
func RenderPlain(segments []Segment) string {
	var b strings.Builder

	for _, seg := range segments {
		switch seg.Kind {
		case KindLineBreak:
			b.WriteString("\n")
		case KindListItem:
			b.WriteString(seg.Content)
		default:
			b.WriteString(seg.Content)
		}
	}

	return strings.TrimSpace(b.String())
}

// PlainText is the one-step helper for callers that only need the
// markup stripped.
func PlainText(raw string) string {
	return RenderPlain(Parse(raw))
}

// StripEmoji removes pictographic code points before speech synthesis.
// Synthesizers read emoji names aloud otherwise.
func StripEmoji(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	for _, r := range s {
		if isEmoji(r) {
			continue
		}
		b.WriteRune(r)
	}

	return strings.TrimSpace(b.String())
}

func isEmoji(r rune) bool {
	switch {
	case r >= 0x1F300 && r <= 0x1FAFF: // symbols, pictographs, supplemental
		return true
	case r >= 0x1F000 && r <= 0x1F2FF: // mahjong, dominoes, enclosed
		return true
	case r >= 0x2600 && r <= 0x27BF: // miscellaneous symbols, dingbats
		return true
	case r >= 0x2B00 && r <= 0x2BFF: // arrows and stars
		return true
	case r == 0xFE0F || r == 0xFE0E: // variation selectors
		return true
	case r == 0x200D: // zero-width joiner
		return true
	case r >= 0x1F1E6 && r <= 0x1F1FF: // regional indicators
		return true
	}
	return false
}
