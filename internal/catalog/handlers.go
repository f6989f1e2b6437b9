package catalog

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/noah-isme/backend-checkout/internal/common"
	"github.com/noah-isme/backend-checkout/internal/pricing"
)

// Handler exposes read-only catalog endpoints.
type Handler struct {
	catalog      *Catalog
	defaultLimit int
	maxLimit     int
}

// HandlerConfig configures the Handler dependencies.
type HandlerConfig struct {
	Catalog      *Catalog
	DefaultLimit int
	MaxLimit     int
}

// ProductView is the public representation of a catalog entry.
type ProductView struct {
	Code      string       `json:"code"`
	Name      string       `json:"name"`
	UnitPrice string       `json:"unitPrice"`
	Rule      pricing.Spec `json:"rule"`
}

// NewHandler constructs a Handler.
func NewHandler(cfg HandlerConfig) *Handler {
	maxLimit := cfg.MaxLimit
	if maxLimit < 1 {
		maxLimit = 100
	}
	defaultLimit := cfg.DefaultLimit
	if defaultLimit < 1 {
		defaultLimit = 20
	}
	if defaultLimit > maxLimit {
		defaultLimit = maxLimit
	}
	return &Handler{catalog: cfg.Catalog, defaultLimit: defaultLimit, maxLimit: maxLimit}
}

// View converts a product into its public representation.
func View(p Product) ProductView {
	return ProductView{
		Code:      p.Code,
		Name:      p.Name,
		UnitPrice: p.UnitPrice.StringFixed(2),
		Rule:      pricing.Describe(p.Rule),
	}
}

// Products handles GET /api/v1/products.
func (h *Handler) Products(w http.ResponseWriter, r *http.Request) {
	if h.catalog == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "catalog not configured", nil)
		return
	}
	page, limit := common.ParsePagination(r, h.defaultLimit)
	if limit > h.maxLimit {
		limit = h.maxLimit
	}
	all := h.catalog.Products()
	start, end := common.PageBounds(len(all), page, limit)
	items := make([]ProductView, 0, end-start)
	for _, p := range all[start:end] {
		items = append(items, View(p))
	}
	w.Header().Set("X-Total-Count", strconv.Itoa(len(all)))
	common.JSON(w, http.StatusOK, map[string]any{
		"data":       items,
		"pagination": common.NewPagination(page, limit, len(all)),
	})
}

// Product handles GET /api/v1/products/{code}.
func (h *Handler) Product(w http.ResponseWriter, r *http.Request) {
	if h.catalog == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "catalog not configured", nil)
		return
	}
	code := strings.TrimSpace(chi.URLParam(r, "code"))
	p, ok := h.catalog.Lookup(code)
	if !ok {
		common.WriteError(w, &common.AppError{
			Code:    "NOT_FOUND",
			Message: "product not found",
			Status:  http.StatusNotFound,
			Details: map[string]any{"code": code},
		})
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": View(p)})
}
