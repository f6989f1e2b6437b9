package checkout

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/noah-isme/backend-checkout/internal/common"
	"github.com/noah-isme/backend-checkout/internal/obs"
	"github.com/noah-isme/backend-checkout/internal/order"
)

// DefaultMaxItems bounds the number of codes accepted in a single quote.
const DefaultMaxItems = 1000

// Receipt is the priced result of a basket.
type Receipt struct {
	ID        uuid.UUID
	Items     int
	Lines     []order.Line
	Total     decimal.Decimal
	CreatedAt time.Time
}

// Service prices baskets against a catalog. Every call uses its own order.
type Service struct {
	Catalog  order.Lookuper
	Logger   *zerolog.Logger
	Now      func() time.Time
	MaxItems int
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

var nopLogger = zerolog.Nop()

func (s *Service) log() *zerolog.Logger {
	if s.Logger == nil {
		return &nopLogger
	}
	return s.Logger
}

func (s *Service) maxItems() int {
	if s.MaxItems <= 0 {
		return DefaultMaxItems
	}
	return s.MaxItems
}

// Quote scans items in order and returns the priced receipt.
// It stops at the first unknown code.
func (s *Service) Quote(ctx context.Context, items []string) (Receipt, error) {
	if s == nil || s.Catalog == nil {
		return Receipt{}, errors.New("checkout service not configured")
	}
	ctx, span := otel.Tracer("checkout.Service").Start(ctx, "checkout.quote")
	defer span.End()

	result := "error"
	defer func() {
		span.SetAttributes(
			attribute.Int("checkout.items", len(items)),
			attribute.String("checkout.result", result),
		)
		if obs.CheckoutQuotesTotal != nil {
			obs.CheckoutQuotesTotal.WithLabelValues(result).Inc()
		}
	}()

	if len(items) > s.maxItems() {
		result = "rejected"
		return Receipt{}, &common.AppError{
			Code:    "TOO_MANY_ITEMS",
			Message: fmt.Sprintf("a basket accepts at most %d items", s.maxItems()),
			Status:  http.StatusBadRequest,
			Details: map[string]any{"max": s.maxItems(), "received": len(items)},
		}
	}

	o := order.New(s.Catalog)
	for _, code := range items {
		if err := o.Scan(code); err != nil {
			result = "unknown_code"
			observeScan("unknown")
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			s.log().Warn().Str("code", code).Int("scanned", o.Len()).Msg("checkout_unknown_code")
			return Receipt{}, &common.AppError{
				Code:    "UNKNOWN_PRODUCT_CODE",
				Message: err.Error(),
				Status:  http.StatusUnprocessableEntity,
				Details: map[string]any{"code": code},
				Err:     err,
			}
		}
		observeScan("ok")
	}

	receipt := Receipt{
		ID:        uuid.New(),
		Items:     o.Len(),
		Lines:     o.Lines(),
		Total:     o.Total(),
		CreatedAt: s.now().UTC(),
	}
	result = "ok"
	if obs.CheckoutQuoteAmount != nil {
		amount, _ := receipt.Total.Float64()
		obs.CheckoutQuoteAmount.Observe(amount)
	}
	span.SetAttributes(attribute.String("checkout.receipt_id", receipt.ID.String()))
	s.log().Info().
		Str("receipt_id", receipt.ID.String()).
		Int("items", receipt.Items).
		Int("lines", len(receipt.Lines)).
		Str("total", receipt.Total.StringFixed(2)).
		Msg("checkout_quote")
	return receipt, nil
}

func observeScan(result string) {
	if obs.CheckoutScansTotal != nil {
		obs.CheckoutScansTotal.WithLabelValues(result).Inc()
	}
}
