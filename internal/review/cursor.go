package review

// Cursor is the position pointer for linear, one-at-a-time review. It
// tracks a page index and a zero-based slot within that page; the global
// ordinal is (pageIndex-1)*pageSize + withinPage.
type Cursor struct {
	pageSize  int
	total     int
	pageIndex int
	within    int
}

// NewCursor starts at the first slot of the first page.
func NewCursor(pageSize int) *Cursor {
	if pageSize < 1 {
		pageSize = 20
	}
	return &Cursor{pageSize: pageSize, pageIndex: 1}
}

// SetTotal records the collection size and reclamps the position into
// bounds. Call after every fetch and after filter changes.
func (c *Cursor) SetTotal(total int) {
	if total < 0 {
		total = 0
	}
	c.total = total
	c.clamp()
}

// SetPageSize changes the page size and reclamps. The position may land on
// a different item since ordinals are recomputed against the new layout.
func (c *Cursor) SetPageSize(pageSize int) {
	if pageSize < 1 {
		return
	}
	c.pageSize = pageSize
	c.clamp()
}

// SetPageLength clamps the within-page slot to the actual item count of the
// fetched page. Backward navigation lands on pageSize-1 tentatively; this
// corrects the position when the page turns out shorter, which happens when
// the total changed server-side between fetches.
func (c *Cursor) SetPageLength(length int) {
	if length < 1 {
		c.within = 0
		return
	}
	if c.within > length-1 {
		c.within = length - 1
	}
}

// Next advances one ordinal, crossing into the next page when the current
// one is exhausted. At the last item it is a no-op and reports false.
func (c *Cursor) Next() bool {
	if c.total > 0 && c.Ordinal()+1 >= c.total {
		return false
	}
	if c.within+1 < c.currentPageLength() {
		c.within++
		return true
	}
	c.pageIndex++
	c.within = 0
	return true
}

// Prev moves back one ordinal, landing on the last slot of the prior page
// when leaving the current one. At the first item it is a no-op and reports
// false.
func (c *Cursor) Prev() bool {
	if c.within > 0 {
		c.within--
		return true
	}
	if c.pageIndex > 1 {
		c.pageIndex--
		c.within = c.pageSize - 1
		c.clamp()
		return true
	}
	return false
}

// MoveToPage jumps to the first slot of the given page, clamped into
// bounds.
func (c *Cursor) MoveToPage(page int) {
	if page < 1 {
		page = 1
	}
	c.pageIndex = page
	c.within = 0
	c.clamp()
}

// Ordinal returns the zero-based global position.
func (c *Cursor) Ordinal() int {
	return (c.pageIndex-1)*c.pageSize + c.within
}

// PageIndex returns the one-based page the cursor is on.
func (c *Cursor) PageIndex() int {
	return c.pageIndex
}

// WithinPage returns the zero-based slot inside the current page.
func (c *Cursor) WithinPage() int {
	return c.within
}

// PageSize returns the configured page size.
func (c *Cursor) PageSize() int {
	return c.pageSize
}

// Total returns the last recorded collection size.
func (c *Cursor) Total() int {
	return c.total
}

func (c *Cursor) pages() int {
	if c.total == 0 {
		return 1
	}
	return (c.total + c.pageSize - 1) / c.pageSize
}

func (c *Cursor) currentPageLength() int {
	if c.total == 0 {
		return c.pageSize
	}
	remaining := c.total - (c.pageIndex-1)*c.pageSize
	if remaining > c.pageSize {
		return c.pageSize
	}
	if remaining < 0 {
		return 0
	}
	return remaining
}

func (c *Cursor) clamp() {
	if c.pageIndex < 1 {
		c.pageIndex = 1
	}
	// An unknown total leaves the page unclamped; the next fetch settles it.
	if pages := c.pages(); c.total > 0 && c.pageIndex > pages {
		c.pageIndex = pages
	}
	if c.within < 0 {
		c.within = 0
	}
	if length := c.currentPageLength(); length > 0 && c.within > length-1 {
		c.within = length - 1
	}
}
