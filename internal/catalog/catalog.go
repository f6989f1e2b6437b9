package catalog

import (
	"errors"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/noah-isme/backend-checkout/internal/pricing"
)

// ErrDuplicateCode is returned when two products share the same code.
var ErrDuplicateCode = errors.New("catalog: duplicate product code")

// Product is an immutable catalog entry.
type Product struct {
	Code      string          `validate:"required,alphanum,max=32"`
	Name      string          `validate:"required,max=128"`
	UnitPrice decimal.Decimal `validate:"gte=0"`
	Rule      pricing.Rule    `validate:"-"`
}

// Catalog is a read-only registry of products keyed by code.
type Catalog struct {
	byCode   map[string]Product
	products []Product
}

// New validates the provided products and builds a catalog. Codes must be unique.
func New(products ...Product) (*Catalog, error) {
	c := &Catalog{
		byCode:   make(map[string]Product, len(products)),
		products: make([]Product, 0, len(products)),
	}
	v := pricing.Validator()
	for i, p := range products {
		if err := v.Struct(p); err != nil {
			return nil, fmt.Errorf("catalog: product %d (%q): %w", i, p.Code, err)
		}
		if err := pricing.Validate(p.Rule); err != nil {
			return nil, fmt.Errorf("catalog: product %q: %w", p.Code, err)
		}
		if _, exists := c.byCode[p.Code]; exists {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateCode, p.Code)
		}
		c.byCode[p.Code] = p
		c.products = append(c.products, p)
	}
	return c, nil
}

// MustNew behaves like New but panics on error.
func MustNew(products ...Product) *Catalog {
	c, err := New(products...)
	if err != nil {
		panic(err)
	}
	return c
}

// Lookup returns the product registered under code.
func (c *Catalog) Lookup(code string) (Product, bool) {
	if c == nil {
		return Product{}, false
	}
	p, ok := c.byCode[code]
	return p, ok
}

// Products returns the entries in declaration order.
func (c *Catalog) Products() []Product {
	if c == nil {
		return nil
	}
	out := make([]Product, len(c.products))
	copy(out, c.products)
	return out
}

// Len reports the number of products.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.products)
}

// Default returns the built-in catalog. It is constructed on first use.
var Default = sync.OnceValue(func() *Catalog {
	return MustNew(defaultProducts()...)
})

func defaultProducts() []Product {
	return []Product{
		{
			Code:      "GR1",
			Name:      "Green Tea",
			UnitPrice: decimal.RequireFromString("3.11"),
			Rule:      pricing.BuyOneGetOneFree{},
		},
		{
			Code:      "SR1",
			Name:      "Strawberries",
			UnitPrice: decimal.RequireFromString("5.00"),
			Rule:      pricing.BulkThreshold{Threshold: 3, DiscountedPrice: decimal.RequireFromString("4.50")},
		},
		{
			Code:      "CF1",
			Name:      "Coffee",
			UnitPrice: decimal.RequireFromString("11.23"),
			Rule:      pricing.VolumeThreshold{Threshold: 3, Factor: decimal.NewFromInt(2).Div(decimal.NewFromInt(3))},
		},
	}
}
