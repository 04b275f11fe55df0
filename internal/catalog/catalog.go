package catalog

// Catalog is an ordered, immutable list of products. Every mutation returns a
// new Catalog and leaves the receiver untouched. Order is insertion order.
type Catalog struct {
	items []Product
}

func New(products ...Product) Catalog {
	items := make([]Product, len(products))
	copy(items, products)
	return Catalog{items: items}
}

func (c Catalog) Len() int { return len(c.items) }

// Products returns a copy of the records in display order.
func (c Catalog) Products() []Product {
	out := make([]Product, len(c.items))
	copy(out, c.items)
	return out
}

func (c Catalog) Get(id int) (Product, bool) {
	for _, p := range c.items {
		if p.ID == id {
			return p, true
		}
	}
	return Product{}, false
}

// NextID is max(existing ids, 0) + 1.
func (c Catalog) NextID() int {
	highest := 0
	for _, p := range c.items {
		if p.ID > highest {
			highest = p.ID
		}
	}
	return highest + 1
}

// Add appends a product with a freshly assigned id.
func (c Catalog) Add(in ProductInput) (Catalog, Product) {
	p := in.withID(c.NextID())

	items := make([]Product, len(c.items), len(c.items)+1)
	copy(items, c.items)
	items = append(items, p)
	return Catalog{items: items}, p
}

// Update replaces the record matching id, keeping its position. When no
// record matches, the catalog is returned unchanged and ok is false.
func (c Catalog) Update(id int, in ProductInput) (next Catalog, updated Product, ok bool) {
	idx := c.index(id)
	if idx < 0 {
		return c, Product{}, false
	}

	items := make([]Product, len(c.items))
	copy(items, c.items)
	items[idx] = in.withID(id)
	return Catalog{items: items}, items[idx], true
}

// Delete removes the record matching id. Removing an absent id is a no-op.
func (c Catalog) Delete(id int) (Catalog, bool) {
	idx := c.index(id)
	if idx < 0 {
		return c, false
	}

	items := make([]Product, 0, len(c.items)-1)
	items = append(items, c.items[:idx]...)
	items = append(items, c.items[idx+1:]...)
	return Catalog{items: items}, true
}

func (c Catalog) index(id int) int {
	for i, p := range c.items {
		if p.ID == id {
			return i
		}
	}
	return -1
}

func intPtr(v int) *int { return &v }

// Seed returns the catalog the storefront starts with.
func Seed() Catalog {
	return New(
		Product{
			ID:          1,
			Name:        "Huile de CBD 10%",
			Description: "Huile de chanvre 10% CBD, pure et naturelle.",
			Price:       "39.99€",
			Category:    "Huiles CBD",
			Stock:       intPtr(50),
		},
		Product{
			ID:          2,
			Name:        "Gélules CBD",
			Description: "Gélules pratiques avec 20mg de CBD par unité.",
			Price:       "49.99€",
			Category:    "Gélules CBD",
			Stock:       intPtr(30),
		},
		Product{
			ID:          3,
			Name:        "Crème apaisante au CBD",
			Description: "Crème pour les douleurs musculaires et articulaires.",
			Price:       "29.99€",
			Category:    "Crèmes & Cosmétiques",
			Stock:       intPtr(25),
		},
	)
}
