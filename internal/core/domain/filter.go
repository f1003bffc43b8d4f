package domain

// Filter narrows a catalog search. Empty fields impose no restriction.
// Filters are transient request values and are never persisted.
type Filter struct {
	City     string
	Date     string
	Category string
}

// IsZero reports whether the filter is fully unconstrained.
func (f Filter) IsZero() bool {
	return f.City == "" && f.Date == "" && f.Category == ""
}
