package catalog

import "strings"

// Currency is appended to every stored price.
const Currency = "€"

// Categories is the fixed set a product category must belong to.
var Categories = []string{
	"Huiles CBD",
	"Gélules CBD",
	"Crèmes & Cosmétiques",
	"Fleurs CBD",
	"E-liquides",
	"Alimentaire",
	"Autres",
}

type Product struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       string `json:"price"`
	Image       string `json:"image,omitempty"`
	Category    string `json:"category,omitempty"`
	Stock       *int   `json:"stock,omitempty"`
}

// ProductInput is a validated, normalized product without an id.
type ProductInput struct {
	Name        string
	Description string
	Price       string
	Image       string
	Category    string
	Stock       *int
}

func (in ProductInput) withID(id int) Product {
	var stock *int
	if in.Stock != nil {
		s := *in.Stock
		stock = &s
	}
	return Product{
		ID:          id,
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price,
		Image:       in.Image,
		Category:    in.Category,
		Stock:       stock,
	}
}

// NormalizePrice appends the currency symbol unless it is already present.
func NormalizePrice(price string) string {
	price = strings.TrimSpace(price)
	if strings.Contains(price, Currency) {
		return price
	}
	return price + Currency
}

func IsCategory(c string) bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}
