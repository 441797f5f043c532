package query

// DefaultLimit is the page size used when Page.Limit is nil.
const DefaultLimit = 100

// Page selects a window of an ordered result.
type Page struct {
	Limit  *int `json:"limit,omitempty"`
	Offset *int `json:"offset,omitempty"`
}

// NewPage returns a Page with both bounds set.
func NewPage(limit, offset int) Page {
	return Page{Limit: &limit, Offset: &offset}
}

// resolve applies defaults and rejects a negative offset.
// A negative limit is passed through; the renderer treats it as unbounded.
func (p Page) resolve() (limit, offset int, err error) {
	limit = DefaultLimit
	if p.Limit != nil {
		limit = *p.Limit
	}
	if p.Offset != nil {
		offset = *p.Offset
	}
	if offset < 0 {
		return 0, 0, &InputError{Field: "offset", Message: "must not be negative"}
	}
	return limit, offset, nil
}
