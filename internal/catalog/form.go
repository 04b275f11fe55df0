package catalog

import (
	"errors"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/cbdpascher/storefront/internal/validation"
)

// ProductForm holds the raw fields of the admin product form.
type ProductForm struct {
	Name        string `form:"name" json:"name"`
	Description string `form:"description" json:"description"`
	Price       string `form:"price" json:"price"`
	Image       string `form:"image" json:"image"`
	Category    string `form:"category" json:"category"`
	Stock       string `form:"stock" json:"stock"`
}

// FormFromProduct prefills the edit form; the currency symbol is stripped so
// the admin edits the bare amount.
func FormFromProduct(p Product) ProductForm {
	f := ProductForm{
		Name:        p.Name,
		Description: p.Description,
		Price:       strings.ReplaceAll(p.Price, Currency, ""),
		Image:       p.Image,
		Category:    p.Category,
	}
	if p.Stock != nil {
		f.Stock = strconv.Itoa(*p.Stock)
	}
	return f
}

var (
	errPriceFormat = errors.New("price is not a decimal number")
	decimalRe      = regexp.MustCompile(`^-?\d+(\.\d+)?$`)
)

// parsePrice accepts plain decimals only, with "," or "." as separator and an
// optional currency symbol.
func parsePrice(raw string) (float64, error) {
	s := strings.ReplaceAll(raw, Currency, "")
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", "."))
	if !decimalRe.MatchString(s) {
		return 0, errPriceFormat
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, errPriceFormat
	}
	return v, nil
}

func parseStock(raw string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

// ParseProductForm validates the form and returns the normalized input. On
// failure the error is a validation.Errors keyed by form field and nothing
// is returned.
func ParseProductForm(f ProductForm) (ProductInput, error) {
	fv := validation.New()

	fv.Validate("name", f.Name, validation.Required("Product name is required."))
	fv.Validate("description", f.Description, validation.Required("Description is required."))

	_, priceErr := parsePrice(f.Price)
	fv.Validate("price", f.Price,
		validation.Required("Price is required."),
		validation.Check(priceErr == nil, "Price must be a valid number."),
	)

	fv.Validate("category", f.Category,
		validation.Required("Category is required."),
		validation.OneOf(Categories, "Unknown category."),
	)

	stockRaw := strings.TrimSpace(f.Stock)
	stock, stockOK := parseStock(stockRaw)
	if stockRaw != "" {
		fv.Validate("stock", stockRaw, validation.Check(stockOK, "Stock must be a whole number."))
	}

	if err := fv.Err(); err != nil {
		return ProductInput{}, err
	}

	in := ProductInput{
		Name:        strings.TrimSpace(f.Name),
		Description: strings.TrimSpace(f.Description),
		Price:       NormalizePrice(f.Price),
		Image:       strings.TrimSpace(f.Image),
		Category:    f.Category,
	}
	if stockRaw != "" {
		in.Stock = &stock
	}
	return in, nil
}
