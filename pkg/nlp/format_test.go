package nlp

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseInlineBold(t *testing.T) {
	segments := Parse("The **Mines Act, 1952** is the primary law.")

	assert.Equal(t, []Segment{
		{Kind: KindText, Content: "The "},
		{Kind: KindBold, Content: "Mines Act, 1952"},
		{Kind: KindText, Content: " is the primary law."},
	}, segments)
}

func TestParseListItems(t *testing.T) {
	segments := Parse("Key regulations:\n1. **Mines Act, 1952**\n2. Mines Rules, 1955\n- DGMS circulars")

	assert.Equal(t, []Segment{
		{Kind: KindText, Content: "Key regulations:"},
		{Kind: KindLineBreak},
		{Kind: KindListItem, Content: "Mines Act, 1952"},
		{Kind: KindLineBreak},
		{Kind: KindListItem, Content: "Mines Rules, 1955"},
		{Kind: KindLineBreak},
		{Kind: KindListItem, Content: "DGMS circulars"},
	}, segments)
}

func TestParseBlankLines(t *testing.T) {
	segments := Parse("first\n\nsecond")

	assert.Equal(t, []Segment{
		{Kind: KindText, Content: "first"},
		{Kind: KindLineBreak},
		{Kind: KindLineBreak},
		{Kind: KindText, Content: "second"},
	}, segments)
}

func TestPlainText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"bold stripped", "**Safety** comes first", "Safety comes first"},
		{"list markers stripped", "1. First point\n2. **Second** point", "First point\nSecond point"},
		{"plain passthrough", "no markup here", "no markup here"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PlainText(tt.in))
		})
	}
}

func TestStripEmoji(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"pictographs", "Safety first \U0001F600\U0001F44D", "Safety first"},
		{"dingbats and selectors", "Mining ⛏️ law", "Mining  law"},
		{"flags", "India \U0001F1EE\U0001F1F3 rules", "India  rules"},
		{"plain text untouched", "The Mines Act, 1952", "The Mines Act, 1952"},
		{"devanagari untouched", "खनन कानून", "खनन कानून"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StripEmoji(tt.in))
		})
	}
}
