package pdf

import (
	"math"
	"sort"
	"strings"
	"unicode"

	"github.com/ledongthuc/pdf"
)

const (
	// fallbackGlyphHeight is used when a glyph reports no usable font size
	fallbackGlyphHeight = 10.0
	// fallbackWidthRatio approximates a glyph width from its height when the
	// font carries no width table (standard 14 fonts usually don't)
	fallbackWidthRatio = 0.5
)

// LayoutParams controls how positioned glyphs are grouped into lines and
// paragraphs. All margins are ratios of glyph or line dimensions.
type LayoutParams struct {
	// CharMargin is the largest horizontal gap, relative to glyph width,
	// between two glyphs that still belong to the same line.
	CharMargin float64 `json:"char_margin"`
	// LineOverlap is the minimum vertical overlap, relative to the smaller
	// glyph height, for two glyphs to share a line.
	LineOverlap float64 `json:"line_overlap"`
	// WordMargin is the gap, relative to glyph size, above which a space is
	// inserted between two glyphs of one line.
	WordMargin float64 `json:"word_margin"`
	// LineMargin is the vertical gap, relative to line height, above which
	// two consecutive lines are separated by a blank line.
	LineMargin float64 `json:"line_margin"`
}

// DefaultLayoutParams returns the thresholds used for every request
func DefaultLayoutParams() LayoutParams {
	return LayoutParams{
		CharMargin:  2.0,
		LineOverlap: 0.5,
		WordMargin:  0.1,
		LineMargin:  0.5,
	}
}

type glyph struct {
	x0, x1 float64
	y0, y1 float64
	s      string
}

func newGlyph(t pdf.Text) glyph {
	h := math.Abs(t.FontSize)
	if h == 0 {
		h = fallbackGlyphHeight
	}
	w := math.Abs(t.W)
	if w == 0 {
		w = h * fallbackWidthRatio
	}
	return glyph{x0: t.X, x1: t.X + w, y0: t.Y, y1: t.Y + h, s: t.S}
}

func (g glyph) width() float64  { return g.x1 - g.x0 }
func (g glyph) height() float64 { return g.y1 - g.y0 }

func (g glyph) blank() bool {
	return strings.TrimFunc(g.s, unicode.IsSpace) == ""
}

func voverlap(a, b glyph) float64 {
	return math.Max(0, math.Min(a.y1, b.y1)-math.Max(a.y0, b.y0))
}

func hdistance(a, b glyph) float64 {
	if a.x0 <= b.x1 && b.x0 <= a.x1 {
		return 0
	}
	return math.Min(math.Abs(a.x0-b.x1), math.Abs(a.x1-b.x0))
}

type textLine struct {
	b        strings.Builder
	last     glyph
	baseline float64
	y0, y1   float64
}

func (l *textLine) height() float64 { return l.y1 - l.y0 }

func (l *textLine) add(g glyph) {
	l.b.WriteString(g.s)
	l.last = g
	l.y0 = math.Min(l.y0, g.y0)
	l.y1 = math.Max(l.y1, g.y1)
}

// sameLine reports whether next continues the line that ends with prev
func (p LayoutParams) sameLine(prev, next glyph) bool {
	minHeight := math.Min(prev.height(), next.height())
	if voverlap(prev, next) <= minHeight*p.LineOverlap {
		return false
	}
	maxWidth := math.Max(prev.width(), next.width())
	return hdistance(prev, next) < maxWidth*p.CharMargin
}

// needsSpace reports whether an implicit word break separates prev and next
func (p LayoutParams) needsSpace(prev, next glyph) bool {
	if prev.blank() || next.blank() {
		return false
	}
	margin := math.Max(next.width(), next.height()) * p.WordMargin
	return next.x0-prev.x1 > margin
}

// PageText linearizes the glyphs of one page. Glyphs are joined into lines in
// content-stream order, then lines are read top to bottom; lines sharing a
// baseline keep their stream order. Lines are separated by "\n" and
// paragraphs by a blank line.
func (p LayoutParams) PageText(texts []pdf.Text) string {
	var lines []*textLine
	var cur *textLine

	for _, t := range texts {
		if t.S == "" {
			continue
		}
		g := newGlyph(t)

		if cur != nil && p.sameLine(cur.last, g) {
			if p.needsSpace(cur.last, g) {
				cur.b.WriteByte(' ')
			}
			cur.add(g)
			continue
		}

		cur = &textLine{baseline: g.y0, y0: g.y0, y1: g.y1}
		cur.add(g)
		lines = append(lines, cur)
	}

	sort.SliceStable(lines, func(i, j int) bool {
		return lines[i].baseline > lines[j].baseline
	})

	var out strings.Builder
	for i, l := range lines {
		text := strings.TrimRightFunc(l.b.String(), unicode.IsSpace)
		if i > 0 {
			out.WriteString(p.lineBreak(lines[i-1], l))
		}
		out.WriteString(text)
	}

	return strings.TrimSpace(out.String())
}

func (p LayoutParams) lineBreak(prev, next *textLine) string {
	gap := prev.y0 - next.y1
	if gap > math.Max(prev.height(), next.height())*p.LineMargin {
		return "\n\n"
	}
	return "\n"
}
