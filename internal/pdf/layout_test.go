package pdf

import (
	"testing"

	"github.com/ledongthuc/pdf"
	"github.com/stretchr/testify/assert"
)

// word lays s out as consecutive glyphs of width w starting at x
func word(s string, x, y, w float64) []pdf.Text {
	texts := make([]pdf.Text, 0, len(s))
	for _, r := range s {
		texts = append(texts, pdf.Text{FontSize: 12, X: x, Y: y, W: w, S: string(r)})
		x += w
	}
	return texts
}

func join(parts ...[]pdf.Text) []pdf.Text {
	var out []pdf.Text
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

func TestLayoutParams_PageText(t *testing.T) {
	params := DefaultLayoutParams()

	tests := []struct {
		name  string
		texts []pdf.Text
		want  string
	}{
		{"empty", nil, ""},
		{"single word", word("Offer", 72, 700, 6), "Offer"},
		{
			"explicit space glyph",
			word("Offer Letter", 72, 700, 6),
			"Offer Letter",
		},
		{
			"gap becomes a space",
			join(word("Offer", 72, 700, 6), word("Letter", 105, 700, 6)),
			"Offer Letter",
		},
		{
			"touching glyphs stay one word",
			join(word("Off", 72, 700, 6), word("er", 90, 700, 6)),
			"Offer",
		},
		{
			"next line",
			join(word("Dear", 72, 700, 6), word("Candidate", 72, 686, 6)),
			"Dear\nCandidate",
		},
		{
			"paragraph break",
			join(word("Dear", 72, 700, 6), word("Candidate", 72, 640, 6)),
			"Dear\n\nCandidate",
		},
		{
			"far column starts a new line",
			join(word("Left", 72, 700, 6), word("Right", 400, 700, 6)),
			"Left\nRight",
		},
		{
			"footer drawn before the body",
			join(word("Page 1", 72, 40, 6), word("Offer Letter", 72, 700, 6)),
			"Offer Letter\n\nPage 1",
		},
		{
			"lines read top to bottom",
			join(word("second", 72, 686, 6), word("first", 72, 700, 6)),
			"first\nsecond",
		},
		{
			"glyphs without width stack in place",
			word("June 16, 2025", 72, 700, 0),
			"June 16, 2025",
		},
		{
			"trailing spaces are trimmed",
			join(word("Title  ", 72, 700, 6), word("Body", 72, 686, 6)),
			"Title\nBody",
		},
		{
			"empty strings are ignored",
			join(word("A", 72, 700, 6), []pdf.Text{{FontSize: 12, X: 300, Y: 100}}, word("B", 78, 700, 6)),
			"AB",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, params.PageText(tt.texts))
		})
	}
}

func TestLayoutParams_Thresholds(t *testing.T) {
	params := DefaultLayoutParams()
	a := newGlyph(pdf.Text{FontSize: 12, X: 0, Y: 0, W: 6, S: "a"})

	t.Run("vertical overlap", func(t *testing.T) {
		// overlaps by 7 of 12
		assert.True(t, params.sameLine(a, newGlyph(pdf.Text{FontSize: 12, X: 6, Y: 5, W: 6, S: "b"})))
		// overlaps by 5 of 12
		assert.False(t, params.sameLine(a, newGlyph(pdf.Text{FontSize: 12, X: 6, Y: 7, W: 6, S: "b"})))
	})

	t.Run("character margin", func(t *testing.T) {
		assert.True(t, params.sameLine(a, newGlyph(pdf.Text{FontSize: 12, X: 17, Y: 0, W: 6, S: "b"})))
		assert.False(t, params.sameLine(a, newGlyph(pdf.Text{FontSize: 12, X: 19, Y: 0, W: 6, S: "b"})))
	})

	t.Run("word margin", func(t *testing.T) {
		assert.False(t, params.needsSpace(a, newGlyph(pdf.Text{FontSize: 12, X: 7, Y: 0, W: 6, S: "b"})))
		assert.True(t, params.needsSpace(a, newGlyph(pdf.Text{FontSize: 12, X: 8, Y: 0, W: 6, S: "b"})))
		assert.False(t, params.needsSpace(a, newGlyph(pdf.Text{FontSize: 12, X: 8, Y: 0, W: 6, S: " "})))
	})

	t.Run("fallback metrics", func(t *testing.T) {
		g := newGlyph(pdf.Text{X: 10, Y: 20, S: "x"})
		assert.InDelta(t, fallbackGlyphHeight, g.height(), 1e-9)
		assert.InDelta(t, fallbackGlyphHeight*fallbackWidthRatio, g.width(), 1e-9)
	})
}
