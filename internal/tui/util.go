package tui

import (
	"strings"
	"unicode/utf8"
)

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func padRight(s string, n int) string {
	if n <= 0 {
		return s
	}
	return s + strings.Repeat(" ", n)
}

// boxLines frames text in a rounded border, one string per row.
func boxLines(text string) []string {
	rows := strings.Split(text, "\n")
	w := 0
	for _, r := range rows {
		w = max(w, utf8.RuneCountInString(r))
	}
	out := make([]string, 0, len(rows)+2)
	out = append(out, "╭"+strings.Repeat("─", w+2)+"╮")
	for _, r := range rows {
		out = append(out, "│ "+padRight(r, w-utf8.RuneCountInString(r))+" │")
	}
	out = append(out, "╰"+strings.Repeat("─", w+2)+"╯")
	return out
}

func clamp(v, lo, hi int) int {
	if v > hi {
		v = hi
	}
	if v < lo {
		v = lo
	}
	return v
}
