package pricing_test

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/backend-checkout/internal/pricing"
)

func dec(t *testing.T, v string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(v)
	require.NoError(t, err)
	return d
}

func twoThirds() decimal.Decimal {
	return decimal.NewFromInt(2).Div(decimal.NewFromInt(3))
}

func TestStandardApply(t *testing.T) {
	price := dec(t, "3.11")
	for q := 0; q <= 10; q++ {
		got := pricing.Standard{}.Apply(q, price)
		want := price.Mul(decimal.NewFromInt(int64(q)))
		require.True(t, want.Equal(got), "q=%d want %s got %s", q, want, got)
	}
}

func TestBuyOneGetOneFreeApply(t *testing.T) {
	price := dec(t, "3.11")
	cases := map[int]string{0: "0", 1: "3.11", 2: "3.11", 3: "6.22", 4: "6.22", 7: "12.44"}
	for q, want := range cases {
		got := pricing.BuyOneGetOneFree{}.Apply(q, price)
		require.True(t, dec(t, want).Equal(got), "q=%d want %s got %s", q, want, got)
	}
}

func TestBulkThresholdApply(t *testing.T) {
	rule := pricing.BulkThreshold{Threshold: 3, DiscountedPrice: dec(t, "4.50")}
	price := dec(t, "5.00")

	require.True(t, dec(t, "10.00").Equal(rule.Apply(2, price)), "below threshold pays full price")
	require.True(t, dec(t, "13.50").Equal(rule.Apply(3, price)), "threshold reached pays discounted price")
	require.True(t, dec(t, "18.00").Equal(rule.Apply(4, price)))
}

func TestVolumeThresholdApply(t *testing.T) {
	rule := pricing.VolumeThreshold{Threshold: 3, Factor: twoThirds()}
	price := dec(t, "11.23")

	require.True(t, dec(t, "22.46").Equal(rule.Apply(2, price)))
	require.True(t, dec(t, "22.46").Equal(rule.Apply(3, price).Round(2)))
}

func TestApplyNonPositiveQuantity(t *testing.T) {
	rules := []pricing.Rule{
		pricing.Standard{},
		pricing.BuyOneGetOneFree{},
		pricing.BulkThreshold{Threshold: 1, DiscountedPrice: decimal.NewFromInt(1)},
		pricing.VolumeThreshold{Threshold: 1, Factor: decimal.NewFromInt(2)},
	}
	for _, rule := range rules {
		require.True(t, rule.Apply(0, decimal.NewFromInt(5)).IsZero(), "%s", rule.Kind())
		require.True(t, rule.Apply(-2, decimal.NewFromInt(5)).IsZero(), "%s", rule.Kind())
	}
}

func TestSpecRoundTrip(t *testing.T) {
	rules := []pricing.Rule{
		pricing.Standard{},
		pricing.BuyOneGetOneFree{},
		pricing.BulkThreshold{Threshold: 3, DiscountedPrice: dec(t, "4.5")},
		pricing.VolumeThreshold{Threshold: 3, Factor: dec(t, "0.5")},
	}
	for _, rule := range rules {
		built, err := pricing.Describe(rule).Rule()
		require.NoError(t, err)
		require.Equal(t, rule.Kind(), built.Kind())
		require.True(t, rule.Apply(5, dec(t, "2")).Equal(built.Apply(5, dec(t, "2"))))
	}
}

func TestSpecDecodeJSON(t *testing.T) {
	var spec pricing.Spec
	require.NoError(t, json.Unmarshal([]byte(`{"kind":"bulk_threshold","threshold":3,"discountedPrice":"4.50"}`), &spec))

	rule, err := spec.Rule()
	require.NoError(t, err)
	require.Equal(t, pricing.KindBulkThreshold, rule.Kind())
	require.True(t, dec(t, "13.5").Equal(rule.Apply(3, dec(t, "5"))))
}

func TestSpecRejectsInvalidParameters(t *testing.T) {
	_, err := pricing.Spec{Kind: "mystery"}.Rule()
	require.True(t, errors.Is(err, pricing.ErrUnknownKind))

	_, err = pricing.Spec{Kind: pricing.KindBulkThreshold, Threshold: 0, DiscountedPrice: dec(t, "1")}.Rule()
	require.Error(t, err)

	_, err = pricing.Spec{Kind: pricing.KindVolumeThreshold, Threshold: 2, Factor: dec(t, "-0.5")}.Rule()
	require.Error(t, err)

	require.Error(t, pricing.Validate(nil))
	require.NoError(t, pricing.Validate(pricing.Standard{}))
}

func TestValidateRejectsPointerVariants(t *testing.T) {
	rules := []pricing.Rule{
		&pricing.Standard{},
		&pricing.BulkThreshold{Threshold: 3, DiscountedPrice: dec(t, "4.50")},
		&pricing.VolumeThreshold{Threshold: 3, Factor: twoThirds()},
		(*pricing.BulkThreshold)(nil),
	}
	for _, rule := range rules {
		err := pricing.Validate(rule)
		require.Error(t, err, "%T", rule)
		require.Contains(t, err.Error(), "by value")
	}
}
