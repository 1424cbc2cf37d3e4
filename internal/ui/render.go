package ui

import (
	"sort"
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// fitLine truncates or pads s to exactly width cells, leaving escape
// sequences intact.
func fitLine(s string, width int) string {
	if width <= 0 {
		return ""
	}
	s = ansi.Truncate(s, width, "…")
	if pad := width - ansi.StringWidth(s); pad > 0 {
		s += strings.Repeat(" ", pad)
	}
	return s
}

// fitBlock cuts content into exactly height lines of width cells.
func fitBlock(content string, width, height int) []string {
	if height <= 0 {
		return nil
	}
	src := strings.Split(content, "\n")
	lines := make([]string, height)
	for i := range lines {
		var s string
		if i < len(src) {
			s = src[i]
		}
		lines[i] = fitLine(s, width)
	}
	return lines
}

type block struct {
	area  Rect
	lines []string
}

// compose draws blocks onto a width x height canvas. Cells no block covers
// are left blank.
func compose(width, height int, blocks []block) string {
	sort.SliceStable(blocks, func(i, j int) bool { return blocks[i].area.X < blocks[j].area.X })

	rows := make([]string, height)
	for y := range rows {
		var b strings.Builder
		x := 0
		for _, bl := range blocks {
			a := bl.area
			if a.Empty() || y < a.Y || y >= a.Y+a.Height {
				continue
			}
			if a.X > x {
				b.WriteString(strings.Repeat(" ", a.X-x))
				x = a.X
			}
			b.WriteString(bl.lines[y-a.Y])
			x += a.Width
		}
		if x < width {
			b.WriteString(strings.Repeat(" ", width-x))
		}
		rows[y] = b.String()
	}
	return strings.Join(rows, "\n")
}

func (m *Model) divider(width int) string {
	return m.styles.Divider.Render(strings.Repeat("─", max(width, 0)))
}

// listRow is one entry of a list panel: the styled form for normal rows
// and the plain form drawn under the selection highlight.
type listRow struct {
	styled string
	plain  string
}

// renderList draws a titled list into area. rows is called only for the
// visible range.
func renderList(st *Styles, title string, area Rect, cur ListCursor, focused bool, n int, empty string, row func(i int) listRow) string {
	var b strings.Builder
	if focused {
		b.WriteString(st.FocusedTitle.Render("▸ " + title))
	} else {
		b.WriteString(st.PanelTitle.Render("  " + title))
	}

	height := listRows(area)
	if height == 0 {
		return b.String()
	}
	if n == 0 {
		b.WriteString("\n  " + st.Muted.Render(empty))
		return b.String()
	}

	start, end := cur.Visible(n, height)
	for i := start; i < end; i++ {
		r := row(i)
		b.WriteString("\n")
		switch {
		case i == cur.Selected && focused:
			b.WriteString(st.Selected.Render(fitLine("▸ "+r.plain, area.Width)))
		case i == cur.Selected:
			b.WriteString("▸ " + r.styled)
		default:
			b.WriteString("  " + r.styled)
		}
	}
	return b.String()
}
