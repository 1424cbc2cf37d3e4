package ui

const (
	headerRows     = 2
	statusLineRows = 1
	footerRows     = 2
	maxDebugRows   = 8

	// Below this width the panels are stacked instead of split in columns.
	minSplitWidth = 60
	columnGap     = 1
)

// Rect is a region of the screen in cells.
type Rect struct {
	X, Y          int
	Width, Height int
}

// Empty reports whether r covers no cells.
func (r Rect) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Overlaps reports whether r and o share at least one cell.
func (r Rect) Overlaps(o Rect) bool {
	if r.Empty() || o.Empty() {
		return false
	}
	return r.X < o.X+o.Width && o.X < r.X+r.Width &&
		r.Y < o.Y+o.Height && o.Y < r.Y+r.Height
}

// Layout partitions the terminal into the dashboard's regions. No two
// regions overlap; the debug strip, when shown, takes rows from the panels.
type Layout struct {
	Width, Height int

	Header     Rect
	Branches   Rect
	Commits    Rect
	Status     Rect
	Debug      Rect
	StatusLine Rect
	Footer     Rect
}

// ComputeLayout lays out a width x height terminal. Sizes too small for a
// region leave it empty rather than negative.
func ComputeLayout(width, height int, debug bool) Layout {
	width, height = max(width, 0), max(height, 0)
	l := Layout{Width: width, Height: height}

	y := 0
	header := min(headerRows, height)
	l.Header = Rect{X: 0, Y: y, Width: width, Height: header}
	y += header

	remaining := height - y
	footer := min(footerRows, remaining)
	remaining -= footer
	statusLine := min(statusLineRows, remaining)
	remaining -= statusLine

	body := remaining
	debugRows := 0
	if debug && body > 0 {
		debugRows = min(maxDebugRows, max(body/3, 1))
		body -= debugRows
	}

	l.Branches, l.Commits, l.Status = splitBody(Rect{X: 0, Y: y, Width: width, Height: body})
	y += body

	if debugRows > 0 {
		l.Debug = Rect{X: 0, Y: y, Width: width, Height: debugRows}
		y += debugRows
	}

	l.StatusLine = Rect{X: 0, Y: y, Width: width, Height: statusLine}
	y += statusLine
	l.Footer = Rect{X: 0, Y: y, Width: width, Height: footer}

	return l
}

// splitBody places branches above status in a left column and commits on
// the right. Narrow terminals get the three stacked.
func splitBody(r Rect) (branches, commits, status Rect) {
	if r.Width >= minSplitWidth {
		left := r.Width * 2 / 5
		right := r.Width - left - columnGap
		top := (r.Height + 1) / 2

		branches = Rect{X: r.X, Y: r.Y, Width: left, Height: top}
		status = Rect{X: r.X, Y: r.Y + top, Width: left, Height: r.Height - top}
		commits = Rect{X: r.X + left + columnGap, Y: r.Y, Width: right, Height: r.Height}
		return branches, commits, status
	}

	third := r.Height / 3
	middle := r.Height - 2*third
	branches = Rect{X: r.X, Y: r.Y, Width: r.Width, Height: third}
	commits = Rect{X: r.X, Y: r.Y + third, Width: r.Width, Height: middle}
	status = Rect{X: r.X, Y: r.Y + third + middle, Width: r.Width, Height: third}
	return branches, commits, status
}

// Area returns the region a panel renders into.
func (l Layout) Area(id PanelID) Rect {
	switch id {
	case PanelBranches:
		return l.Branches
	case PanelCommits:
		return l.Commits
	case PanelStatus:
		return l.Status
	case PanelDebug:
		return l.Debug
	}
	return Rect{}
}

// Regions returns every region in top-to-bottom order.
func (l Layout) Regions() []Rect {
	return []Rect{l.Header, l.Branches, l.Commits, l.Status, l.Debug, l.StatusLine, l.Footer}
}

// listRows is the number of list rows a panel in area can show below its
// title line.
func listRows(area Rect) int {
	return max(area.Height-1, 0)
}
