package order

import (
	"errors"

	"github.com/shopspring/decimal"

	"github.com/noah-isme/backend-checkout/internal/catalog"
	"github.com/noah-isme/backend-checkout/internal/pricing"
)

// ErrUnknownProductCode matches every *UnknownProductCodeError.
var ErrUnknownProductCode = errors.New("unknown product code")

// UnknownProductCodeError reports a scanned code with no catalog entry.
type UnknownProductCodeError struct {
	Code string
}

func (e *UnknownProductCodeError) Error() string {
	return "unknown product code: " + e.Code
}

// Is allows errors.Is(err, ErrUnknownProductCode).
func (e *UnknownProductCodeError) Is(target error) bool {
	return target == ErrUnknownProductCode
}

// Lookuper resolves product codes.
type Lookuper interface {
	Lookup(code string) (catalog.Product, bool)
}

// Line is the priced aggregate of one product code in the basket.
type Line struct {
	Code      string
	Name      string
	Quantity  int
	UnitPrice decimal.Decimal
	Rule      pricing.Kind
	Amount    decimal.Decimal
}

// Order accumulates scanned products for a single checkout.
// It is not safe for concurrent use.
type Order struct {
	lookup Lookuper
	basket []catalog.Product
}

// New returns an empty order resolving codes through lookup.
func New(lookup Lookuper) *Order {
	return &Order{lookup: lookup}
}

// Scan resolves code and appends the product to the basket.
// Unknown codes leave the basket untouched.
func (o *Order) Scan(code string) error {
	if o.lookup == nil {
		return &UnknownProductCodeError{Code: code}
	}
	p, ok := o.lookup.Lookup(code)
	if !ok {
		return &UnknownProductCodeError{Code: code}
	}
	o.basket = append(o.basket, p)
	return nil
}

// Len returns the number of scanned units.
func (o *Order) Len() int { return len(o.basket) }

// Lines groups the basket by product code in first-scan order and prices each group.
func (o *Order) Lines() []Line {
	index := make(map[string]int)
	groups := make([]catalog.Product, 0)
	counts := make([]int, 0)
	for _, p := range o.basket {
		i, ok := index[p.Code]
		if !ok {
			i = len(groups)
			index[p.Code] = i
			groups = append(groups, p)
			counts = append(counts, 0)
		}
		counts[i]++
	}
	lines := make([]Line, 0, len(groups))
	for i, p := range groups {
		lines = append(lines, Line{
			Code:      p.Code,
			Name:      p.Name,
			Quantity:  counts[i],
			UnitPrice: p.UnitPrice,
			Rule:      p.Rule.Kind(),
			Amount:    p.Rule.Apply(counts[i], p.UnitPrice),
		})
	}
	return lines
}

// Total sums every line and rounds the result to two decimal places.
func (o *Order) Total() decimal.Decimal {
	total := decimal.Zero
	for _, line := range o.Lines() {
		total = total.Add(line.Amount)
	}
	return total.Round(2)
}
