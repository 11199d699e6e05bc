package textutil

import "github.com/mattn/go-runewidth"

// DisplayWidth reports the printable width of text accounting for wide runes.
func DisplayWidth(text string) int {
	width := 0
	for _, ru := range text {
		w := runewidth.RuneWidth(ru)
		if w <= 0 {
			w = 1
		}
		width += w
	}
	return width
}

// Columns returns the display column at which each rune of text starts,
// followed by the total width. Runes are measured as DisplayRune draws
// them, so Columns(text)[i] is where a caret before rune i belongs.
func Columns(text string) []int {
	cols := make([]int, 0, len(text)+1)
	col := 0
	for _, ru := range text {
		cols = append(cols, col)
		col += DisplayWidth(DisplayRune(ru))
	}
	return append(cols, col)
}

// OffsetAtColumn maps a display column back to the nearest caret offset.
func OffsetAtColumn(text string, column int) int {
	cols := Columns(text)
	if column <= 0 {
		return 0
	}
	for i := 0; i < len(cols)-1; i++ {
		mid := cols[i] + (cols[i+1]-cols[i]+1)/2
		if column < mid {
			return i
		}
	}
	return len(cols) - 1
}
