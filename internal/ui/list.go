package ui

// ListCursor is a panel's selection and scroll position over a list of n
// items shown height rows at a time. Selected is -1 when the list is empty.
type ListCursor struct {
	Selected int
	Offset   int
}

// None reports whether nothing is selected.
func (c ListCursor) None() bool {
	return c.Selected < 0
}

// Clamp brings the cursor back inside a list of n items and scrolls so the
// selection is visible. A height of zero or less means the viewport is not
// known yet; only the offset's upper bound is enforced then.
func (c *ListCursor) Clamp(n, height int) {
	if n <= 0 {
		c.Selected, c.Offset = -1, 0
		return
	}

	c.Selected = min(max(c.Selected, 0), n-1)

	if c.Offset > c.Selected {
		c.Offset = c.Selected
	}
	if height > 0 {
		if c.Selected >= c.Offset+height {
			c.Offset = c.Selected - height + 1
		}
		c.Offset = min(c.Offset, max(n-height, 0))
	}
	c.Offset = max(c.Offset, 0)
}

// Move shifts the selection by delta rows.
func (c *ListCursor) Move(delta, n, height int) {
	if n <= 0 {
		c.Clamp(n, height)
		return
	}
	if c.Selected < 0 {
		c.Selected = 0
	} else {
		c.Selected += delta
	}
	c.Clamp(n, height)
}

// Top selects the first item.
func (c *ListCursor) Top(n, height int) {
	c.Selected, c.Offset = 0, 0
	c.Clamp(n, height)
}

// Bottom selects the last item.
func (c *ListCursor) Bottom(n, height int) {
	c.Selected = n - 1
	c.Clamp(n, height)
}

// Page moves a full viewport up (dir < 0) or down (dir > 0).
func (c *ListCursor) Page(dir, n, height int) {
	step := max(height, 1)
	if dir < 0 {
		step = -step
	}
	c.Move(step, n, height)
}

// Visible returns the half-open index range [start, end) shown in height rows.
func (c ListCursor) Visible(n, height int) (start, end int) {
	if n <= 0 || height <= 0 {
		return 0, 0
	}
	start = min(max(c.Offset, 0), n)
	end = min(start+height, n)
	return start, end
}
