package checkout_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/backend-checkout/internal/catalog"
	"github.com/noah-isme/backend-checkout/internal/checkout"
)

type quoteResponse struct {
	Data checkout.ReceiptView `json:"data"`
}

type errorResponse struct {
	Error struct {
		Code    string         `json:"code"`
		Message string         `json:"message"`
		Details map[string]any `json:"details"`
	} `json:"error"`
}

func postQuote(t *testing.T, h *checkout.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout/quote", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.Quote(rec, req)
	return rec
}

func TestQuoteHandler(t *testing.T) {
	h := &checkout.Handler{Svc: &checkout.Service{Catalog: catalog.Default(), MaxItems: 10}}

	t.Run("priced basket", func(t *testing.T) {
		rec := postQuote(t, h, `{"items":["GR1"," CF1 ","SR1","CF1","CF1"]}`)
		require.Equal(t, http.StatusOK, rec.Code)

		var body quoteResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		require.Equal(t, "30.57", body.Data.Total)
		require.Equal(t, 5, body.Data.Items)
		require.Len(t, body.Data.Lines, 3)
		require.Equal(t, "GR1", body.Data.Lines[0].Code)
		require.Equal(t, "CF1", body.Data.Lines[1].Code)
		require.Equal(t, 3, body.Data.Lines[1].Quantity)
		require.Equal(t, "22.46", body.Data.Lines[1].Amount)
		require.Equal(t, "11.23", body.Data.Lines[1].UnitPrice)
		require.NotEmpty(t, body.Data.ID)
	})

	t.Run("empty basket", func(t *testing.T) {
		rec := postQuote(t, h, `{"items":[]}`)
		require.Equal(t, http.StatusOK, rec.Code)

		var body quoteResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		require.Equal(t, "0.00", body.Data.Total)
		require.Empty(t, body.Data.Lines)
	})

	t.Run("unknown code", func(t *testing.T) {
		rec := postQuote(t, h, `{"items":["GR1","XYZ"]}`)
		require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

		var body errorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		require.Equal(t, "UNKNOWN_PRODUCT_CODE", body.Error.Code)
		require.Equal(t, "unknown product code: XYZ", body.Error.Message)
		require.Equal(t, "XYZ", body.Error.Details["code"])
	})

	t.Run("malformed payload", func(t *testing.T) {
		rec := postQuote(t, h, `{"items":`)
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("blank code", func(t *testing.T) {
		rec := postQuote(t, h, `{"items":["GR1","  "]}`)
		require.Equal(t, http.StatusBadRequest, rec.Code)

		var body errorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		require.Equal(t, "VALIDATION_FAILED", body.Error.Code)
	})

	t.Run("too many items", func(t *testing.T) {
		items := make([]string, 11)
		for i := range items {
			items[i] = `"GR1"`
		}
		rec := postQuote(t, h, `{"items":[`+strings.Join(items, ",")+`]}`)
		require.Equal(t, http.StatusBadRequest, rec.Code)

		var body errorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		require.Equal(t, "TOO_MANY_ITEMS", body.Error.Code)
	})
}

func TestQuoteHandlerNotConfigured(t *testing.T) {
	rec := postQuote(t, &checkout.Handler{}, `{"items":["GR1"]}`)
	require.Equal(t, http.StatusInternalServerError, rec.Code)
}
