package item

// Item is a catalog entry eligible for retrieval.
type Item struct {
	id          string
	title       string
	description string
	price       float64
	category    string
	vector      []float32
}

// New creates a catalog item.
func New(id, title, description string, price float64, category string, vector []float32) Item {
	return Item{
		id: id, title: title, description: description,
		price: price, category: category, vector: vector,
	}
}

// ID returns the item identifier.
func (i *Item) ID() string { return i.id }

// Title returns the display title.
func (i *Item) Title() string { return i.title }

// Description returns the display description.
func (i *Item) Description() string { return i.description }

// Price returns the item price.
func (i *Item) Price() float64 { return i.price }

// Category returns the item category.
func (i *Item) Category() string { return i.category }

// Vector returns the stored item embedding (nil if never embedded).
func (i *Item) Vector() []float32 { return i.vector }
