package checkout

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	validator "github.com/go-playground/validator/v10"

	"github.com/noah-isme/backend-checkout/internal/common"
	"github.com/noah-isme/backend-checkout/internal/pricing"
)

// QuoteRequest is the body of a quote request: the scanned codes in order.
type QuoteRequest struct {
	Items []string `json:"items" validate:"dive,required,max=32"`
}

// LineView is one priced line of a receipt.
type LineView struct {
	Code      string       `json:"code"`
	Name      string       `json:"name"`
	Quantity  int          `json:"quantity"`
	UnitPrice string       `json:"unitPrice"`
	Rule      pricing.Kind `json:"rule"`
	Amount    string       `json:"amount"`
}

// ReceiptView is the public representation of a quote.
type ReceiptView struct {
	ID        string     `json:"id"`
	Items     int        `json:"items"`
	Lines     []LineView `json:"lines"`
	Total     string     `json:"total"`
	CreatedAt time.Time  `json:"createdAt"`
}

// Handler exposes the checkout quote endpoint.
type Handler struct {
	Svc       *Service
	Validator *validator.Validate
}

func (h *Handler) validate() *validator.Validate {
	if h.Validator != nil {
		return h.Validator
	}
	return pricing.Validator()
}

// Quote handles POST /api/v1/checkout/quote.
func (h *Handler) Quote(w http.ResponseWriter, r *http.Request) {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "checkout service not configured", nil)
		return
	}
	var payload QuoteRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", nil)
		return
	}
	for i, code := range payload.Items {
		payload.Items[i] = strings.TrimSpace(code)
	}
	if err := h.validate().Struct(payload); err != nil {
		common.JSONError(w, http.StatusBadRequest, "VALIDATION_FAILED", "invalid items", validationDetails(err))
		return
	}
	receipt, err := h.Svc.Quote(r.Context(), payload.Items)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": NewReceiptView(receipt)})
}

// NewReceiptView renders amounts as fixed two-decimal strings.
func NewReceiptView(rc Receipt) ReceiptView {
	lines := make([]LineView, 0, len(rc.Lines))
	for _, l := range rc.Lines {
		lines = append(lines, LineView{
			Code:      l.Code,
			Name:      l.Name,
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice.StringFixed(2),
			Rule:      l.Rule,
			Amount:    l.Amount.StringFixed(2),
		})
	}
	return ReceiptView{
		ID:        rc.ID.String(),
		Items:     rc.Items,
		Lines:     lines,
		Total:     rc.Total.StringFixed(2),
		CreatedAt: rc.CreatedAt,
	}
}

func validationDetails(err error) map[string]any {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}
	fields := make([]map[string]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, map[string]string{"field": fe.Namespace(), "rule": fe.Tag()})
	}
	return map[string]any{"fields": fields}
}
