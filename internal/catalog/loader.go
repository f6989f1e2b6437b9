package catalog

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/noah-isme/backend-checkout/internal/pricing"
)

type entry struct {
	Code      string          `json:"code"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Rule      pricing.Spec    `json:"rule"`
}

// Decode reads a JSON array of catalog entries and builds a catalog from it.
func Decode(r io.Reader) (*Catalog, error) {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	var entries []entry
	if err := dec.Decode(&entries); err != nil {
		return nil, fmt.Errorf("catalog: decode entries: %w", err)
	}
	products := make([]Product, 0, len(entries))
	for _, e := range entries {
		rule, err := e.Rule.Rule()
		if err != nil {
			return nil, fmt.Errorf("catalog: product %q: %w", e.Code, err)
		}
		products = append(products, Product{
			Code:      strings.TrimSpace(e.Code),
			Name:      strings.TrimSpace(e.Name),
			UnitPrice: e.UnitPrice,
			Rule:      rule,
		})
	}
	return New(products...)
}

// LoadFile builds a catalog from the JSON file at path. An empty path yields Default().
func LoadFile(path string) (*Catalog, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return Default(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: open %s: %w", path, err)
	}
	defer f.Close()
	return Decode(f)
}
