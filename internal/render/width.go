package render

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

const ellipsis = "..."

// FitToWidth returns s unchanged if it fits in w display columns; otherwise
// it cuts to w-3 columns and appends a three-character ellipsis, so the
// result never exceeds w.
func FitToWidth(s string, w int) string {
	if w <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= w {
		return s
	}
	if w <= len(ellipsis) {
		return runewidth.Truncate(s, w, "")
	}
	return runewidth.Truncate(s, w-len(ellipsis), "") + ellipsis
}

// PadToWidth right-pads s with spaces to exactly w display columns.
func PadToWidth(s string, w int) string {
	gap := w - runewidth.StringWidth(s)
	if gap <= 0 {
		return s
	}
	return s + strings.Repeat(" ", gap)
}
