package render

import "math"

// glyphs holds the nine fill levels, from an empty cell to a full block.
var glyphs = [...]rune{' ', '▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// GlyphCount is the number of distinct fill levels.
const GlyphCount = len(glyphs)

// GlyphIndex maps a usage fraction to a fill level between 0 and 8. Values
// above 1 are drawn as 1. Level i is the smallest one for which p is below
// (i+0.5)/8.
func GlyphIndex(p float64) int {
	if math.IsNaN(p) {
		return 0
	}
	if p > 1 {
		p = 1
	}
	step := 1 / float64(GlyphCount-1)
	for i := 0; i < GlyphCount; i++ {
		if p < (float64(i)+0.5)*step {
			return i
		}
	}
	return GlyphCount - 1
}

// Glyph returns the block character for a usage fraction.
func Glyph(p float64) rune {
	return glyphs[GlyphIndex(p)]
}
