// Package summary fits commit summaries into a fixed number of terminal
// cells.
package summary

import (
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"
)

// Ellipsis is appended when a summary had to be cut. It is East Asian
// ambiguous: one cell normally, two under a CJK locale.
const Ellipsis = "…"

// Format returns the first line of raw, cut to at most limit cells. When raw
// is wider than limit the last visible cell is replaced with Ellipsis.
// Format(Format(s, n), n) == Format(s, n).
func Format(raw string, limit int) string {
	if limit <= 0 {
		return ""
	}

	line := Sanitize(raw)
	if Width(line) <= limit {
		return line
	}

	// Too narrow for the ellipsis: cut without one.
	tail := Ellipsis
	room := limit - clusterWidth(Ellipsis)
	if room < 0 {
		tail, room = "", limit
	}

	var b strings.Builder
	used := 0
	state := -1
	rest := line
	for len(rest) > 0 {
		var cluster string
		cluster, rest, _, state = uniseg.FirstGraphemeClusterInString(rest, state)
		w := clusterWidth(cluster)
		if used+w > room {
			break
		}
		b.WriteString(cluster)
		used += w
	}
	b.WriteString(tail)
	return b.String()
}

// Sanitize keeps the first line of s and replaces control characters with
// spaces so the result can be drawn on a single terminal row.
func Sanitize(s string) string {
	if i := strings.IndexAny(s, "\r\n"); i >= 0 {
		s = s[:i]
	}
	return strings.Map(func(r rune) rune {
		if r < 0x20 || r == 0x7f {
			return ' '
		}
		return r
	}, s)
}

// Width returns the number of terminal cells s occupies.
func Width(s string) int {
	total := 0
	state := -1
	for len(s) > 0 {
		var cluster string
		cluster, s, _, state = uniseg.FirstGraphemeClusterInString(s, state)
		total += clusterWidth(cluster)
	}
	return total
}

// clusterWidth measures one grapheme cluster. Zero-width clusters (lone
// combining marks) are counted as one cell so a cut never lands inside them.
func clusterWidth(cluster string) int {
	w := runewidth.StringWidth(cluster)
	if w > 2 {
		w = 2
	}
	if w < 1 {
		w = 1
	}
	return w
}

// Pad returns s truncated with Format and right-padded with spaces to
// exactly width cells.
func Pad(s string, width int) string {
	s = Format(s, width)
	if gap := width - Width(s); gap > 0 {
		s += strings.Repeat(" ", gap)
	}
	return s
}
