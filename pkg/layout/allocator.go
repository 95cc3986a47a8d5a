package layout

// RowAllocator hands out disjoint row ranges ("regions") on the shared
// advice columns to successive gate invocations. Region isolation is the
// soundness-critical property behind column packing (SPEC_FULL.md §4.7,
// §9): two gates sharing a physical column must never write to overlapping
// rows. go-corset's module/context separation (pkg/air's region notion)
// solves the analogous problem for a variable-schema DSL; this module has
// a single fixed module, so a bump pointer is sufficient.
type RowAllocator struct {
	next int
}

// NewRowAllocator starts allocation at row 0.
func NewRowAllocator() *RowAllocator { return &RowAllocator{} }

// Region is a reserved, disjoint range of rows: [Start, Start+Len).
type Region struct {
	Start int
	Len   int
}

// End returns the exclusive end row of the region.
func (r Region) End() int { return r.Start + r.Len }

// Reserve bumps the allocator forward by n rows and returns the region
// that was just claimed.
func (a *RowAllocator) Reserve(n int) Region {
	r := Region{Start: a.next, Len: n}
	a.next += n
	return r
}

// Height reports the total number of rows claimed so far, i.e. the
// minimum trace height required to hold every reserved region.
func (a *RowAllocator) Height() int { return a.next }
