package domain

// ErrPagination is returned when a supplied window parameter is out of range.
var ErrPagination = NewValidationError("PAGINATION_ERROR", "invalid pagination parameters")

// Pagination carries the optional from/size query window. Each present value is range
// checked, but the window only takes effect when both are present.
type Pagination struct {
	From *int
	Size *int
}

// NewPagination builds a Pagination from concrete values.
func NewPagination(from, size int) Pagination {
	return Pagination{From: &from, Size: &size}
}

// Enabled reports whether both from and size were supplied.
func (p Pagination) Enabled() bool {
	return p.From != nil && p.Size != nil
}

// Validate rejects a negative offset or a non-positive size, whichever of them is present.
func (p Pagination) Validate() error {
	if p.From != nil && *p.From < 0 {
		return ErrPagination.Withf("pagination error: from=%d", *p.From)
	}
	if p.Size != nil && *p.Size < 1 {
		return ErrPagination.Withf("pagination error: size=%d", *p.Size)
	}
	return nil
}

// Window applies from/size as an offset+limit window over n elements and returns the
// [lo, hi) bounds. Without pagination the full range is returned.
func (p Pagination) Window(n int) (int, int) {
	if !p.Enabled() {
		return 0, n
	}
	lo := min(*p.From, n)
	hi := min(lo+*p.Size, n)
	return lo, hi
}

// PageOffset treats from as a page index and returns the SQL offset and limit.
func (p Pagination) PageOffset() (offset, limit int) {
	if !p.Enabled() {
		return 0, -1
	}
	return *p.From * *p.Size, *p.Size
}
