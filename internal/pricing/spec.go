package pricing

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	validator "github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// ErrUnknownKind is returned when a Spec names a rule variant that does not exist.
var ErrUnknownKind = errors.New("pricing: unknown rule kind")

// Spec is the flat, serialisable description of a Rule.
type Spec struct {
	Kind            Kind            `json:"kind"`
	Threshold       int             `json:"threshold,omitempty"`
	DiscountedPrice decimal.Decimal `json:"discountedPrice,omitzero"`
	Factor          decimal.Decimal `json:"factor,omitzero"`
}

// Rule builds and validates the variant described by s.
func (s Spec) Rule() (Rule, error) {
	var rule Rule
	switch Kind(strings.ToLower(strings.TrimSpace(string(s.Kind)))) {
	case KindStandard, "":
		rule = Standard{}
	case KindBuyOneGetOneFree:
		rule = BuyOneGetOneFree{}
	case KindBulkThreshold:
		rule = BulkThreshold{Threshold: s.Threshold, DiscountedPrice: s.DiscountedPrice}
	case KindVolumeThreshold:
		rule = VolumeThreshold{Threshold: s.Threshold, Factor: s.Factor}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, s.Kind)
	}
	if err := Validate(rule); err != nil {
		return nil, err
	}
	return rule, nil
}

// Describe converts a rule back into its Spec.
func Describe(rule Rule) Spec {
	switch r := rule.(type) {
	case BulkThreshold:
		return Spec{Kind: KindBulkThreshold, Threshold: r.Threshold, DiscountedPrice: r.DiscountedPrice}
	case VolumeThreshold:
		return Spec{Kind: KindVolumeThreshold, Threshold: r.Threshold, Factor: r.Factor}
	case nil:
		return Spec{}
	default:
		return Spec{Kind: r.Kind()}
	}
}

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

// Validator returns the shared validator with decimal support registered.
func Validator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterCustomTypeFunc(decimalValue, decimal.Decimal{})
	})
	return validate
}

// Validate checks the parameters of a rule variant. Variants are values;
// pointers to them are rejected so Describe always sees their parameters.
func Validate(rule Rule) error {
	if rule == nil {
		return errors.New("pricing: rule is required")
	}
	if reflect.ValueOf(rule).Kind() == reflect.Pointer {
		return fmt.Errorf("pricing: rule %T must be passed by value", rule)
	}
	if err := Validator().Struct(rule); err != nil {
		return fmt.Errorf("pricing: invalid %s rule: %w", rule.Kind(), err)
	}
	return nil
}

func decimalValue(field reflect.Value) any {
	if d, ok := field.Interface().(decimal.Decimal); ok {
		f, _ := d.Float64()
		return f
	}
	return nil
}
