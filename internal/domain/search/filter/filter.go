package filter

// Filters narrows both retrieval legs by catalog attributes. Zero value
// means no filtering. Price bounds are pointers so that 0 is a valid bound.
type Filters struct {
	category string
	minPrice *float64
	maxPrice *float64
}

// New creates a filter set. Nil price pointers leave that bound open.
func New(category string, minPrice, maxPrice *float64) Filters {
	return Filters{category: category, minPrice: minPrice, maxPrice: maxPrice}
}

// Category returns the category constraint ("" = any).
func (f *Filters) Category() string { return f.category }

// MinPrice returns the lower price bound (nil = open).
func (f *Filters) MinPrice() *float64 { return f.minPrice }

// MaxPrice returns the upper price bound (nil = open).
func (f *Filters) MaxPrice() *float64 { return f.maxPrice }

// IsEmpty reports whether no constraint is set.
func (f *Filters) IsEmpty() bool {
	return f.category == "" && f.minPrice == nil && f.maxPrice == nil
}
