// Package pager tracks offset/limit pagination over server-side lists.
package pager

// DefaultLimit is the page size used when none is configured.
const DefaultLimit = 20

// Pager holds the position in a paginated listing. Create one with New.
type Pager struct {
	Limit  int
	Offset int

	lastCount int
	observed  bool
}

// New returns a pager on the first page. A non-positive limit falls back
// to DefaultLimit.
func New(limit int) *Pager {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Pager{Limit: limit}
}

// At returns a pager positioned at offset. Negative offsets are clamped.
func At(limit, offset int) *Pager {
	p := New(limit)
	if offset > 0 {
		p.Offset = offset
	}
	return p
}

// Observe records how many rows the current page returned.
func (p *Pager) Observe(n int) {
	p.lastCount = n
	p.observed = true
}

// HasPrev reports whether a previous page exists.
func (p *Pager) HasPrev() bool {
	return p.Offset > 0
}

// HasNext reports whether another page may exist. A page shorter than the
// limit is the last one.
func (p *Pager) HasNext() bool {
	return p.observed && p.lastCount >= p.Limit
}

// Next moves to the following page.
func (p *Pager) Next() {
	p.Offset += p.Limit
	p.observed = false
}

// Prev moves to the previous page, never before the first.
func (p *Pager) Prev() {
	p.Offset -= p.Limit
	if p.Offset < 0 {
		p.Offset = 0
	}
	p.observed = false
}

// Reset goes back to the first page, as after a filter change.
func (p *Pager) Reset() {
	p.Offset = 0
	p.lastCount = 0
	p.observed = false
}

// Page returns the 1-based page number. A pager without a limit is on
// page 1.
func (p *Pager) Page() int {
	if p.Limit <= 0 {
		return 1
	}
	return p.Offset/p.Limit + 1
}

// Range returns the 1-based positions of the first and last rows of the
// observed page. Both are zero for an empty page.
func (p *Pager) Range() (from, to int) {
	if p.lastCount == 0 {
		return 0, 0
	}
	return p.Offset + 1, p.Offset + p.lastCount
}
