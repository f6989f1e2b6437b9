package pricing

import "github.com/shopspring/decimal"

// Kind identifies a pricing rule variant.
type Kind string

const (
	KindStandard         Kind = "standard"
	KindBuyOneGetOneFree Kind = "buy_one_get_one_free"
	KindBulkThreshold    Kind = "bulk_threshold"
	KindVolumeThreshold  Kind = "volume_threshold"
)

// Rule computes the charge for a quantity of a single product.
//
// The set of variants is closed: Standard, BuyOneGetOneFree, BulkThreshold and
// VolumeThreshold. Results are not rounded.
type Rule interface {
	Apply(quantity int, unitPrice decimal.Decimal) decimal.Decimal
	Kind() Kind
	sealed()
}

// Standard charges every unit at the unit price.
type Standard struct{}

// BuyOneGetOneFree charges one unit out of every started pair.
type BuyOneGetOneFree struct{}

// BulkThreshold charges every unit at DiscountedPrice once the quantity reaches Threshold.
type BulkThreshold struct {
	Threshold       int             `validate:"gte=1"`
	DiscountedPrice decimal.Decimal `validate:"gte=0"`
}

// VolumeThreshold multiplies the unit price by Factor once the quantity reaches Threshold.
type VolumeThreshold struct {
	Threshold int             `validate:"gte=1"`
	Factor    decimal.Decimal `validate:"gte=0"`
}

// Apply implements Rule.
func (Standard) Apply(quantity int, unitPrice decimal.Decimal) decimal.Decimal {
	if quantity <= 0 {
		return decimal.Zero
	}
	return unitPrice.Mul(decimal.NewFromInt(int64(quantity)))
}

// Apply implements Rule.
func (BuyOneGetOneFree) Apply(quantity int, unitPrice decimal.Decimal) decimal.Decimal {
	if quantity <= 0 {
		return decimal.Zero
	}
	chargeable := quantity/2 + quantity%2
	return unitPrice.Mul(decimal.NewFromInt(int64(chargeable)))
}

// Apply implements Rule.
func (r BulkThreshold) Apply(quantity int, unitPrice decimal.Decimal) decimal.Decimal {
	if quantity <= 0 {
		return decimal.Zero
	}
	price := unitPrice
	if quantity >= r.Threshold {
		price = r.DiscountedPrice
	}
	return price.Mul(decimal.NewFromInt(int64(quantity)))
}

// Apply implements Rule.
func (r VolumeThreshold) Apply(quantity int, unitPrice decimal.Decimal) decimal.Decimal {
	if quantity <= 0 {
		return decimal.Zero
	}
	price := unitPrice
	if quantity >= r.Threshold {
		price = unitPrice.Mul(r.Factor)
	}
	return price.Mul(decimal.NewFromInt(int64(quantity)))
}

func (Standard) Kind() Kind         { return KindStandard }
func (BuyOneGetOneFree) Kind() Kind { return KindBuyOneGetOneFree }
func (BulkThreshold) Kind() Kind    { return KindBulkThreshold }
func (VolumeThreshold) Kind() Kind  { return KindVolumeThreshold }

func (Standard) sealed()         {}
func (BuyOneGetOneFree) sealed() {}
func (BulkThreshold) sealed()    {}
func (VolumeThreshold) sealed()  {}
