package validate

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pluxolabs/pluxo-backend/internal/services/pricing"
)

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func TestHandler_ServeHTTP(t *testing.T) {
	pricingService := pricing.New(
		map[string]map[string]float64{"vip_vup": {"1 Hour": 40}},
		map[string]float64{"PLUXO20": 20, "VIP10": 10, "ELITE5": 5},
	)
	handler := New(newNoopLogger(), pricingService)

	tests := []struct {
		name           string
		requestBody    any
		wantStatusCode int
		wantDiscount   float64
		wantCode       string
	}{
		{
			name:           "известный код",
			requestBody:    Request{Code: "PLUXO20"},
			wantStatusCode: http.StatusOK,
			wantDiscount:   20,
			wantCode:       "PLUXO20",
		},
		{
			name:           "регистр кода не важен",
			requestBody:    Request{Code: "vip10"},
			wantStatusCode: http.StatusOK,
			wantDiscount:   10,
			wantCode:       "VIP10",
		},
		{
			name:           "неизвестный код",
			requestBody:    Request{Code: "NOPE50"},
			wantStatusCode: http.StatusNotFound,
		},
		{
			name:           "пустой код",
			requestBody:    Request{},
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name:           "битый json",
			requestBody:    "not a json",
			wantStatusCode: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var bodyBytes []byte
			switch v := tt.requestBody.(type) {
			case string:
				bodyBytes = []byte(v)
			default:
				var err error
				bodyBytes, err = json.Marshal(tt.requestBody)
				require.NoError(t, err)
			}

			req := httptest.NewRequest(http.MethodPost, "/api/promo/validate", bytes.NewReader(bodyBytes))
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatusCode, rec.Code)

			if tt.wantStatusCode == http.StatusOK {
				var got struct {
					Data struct {
						Valid    bool    `json:"valid"`
						Discount float64 `json:"discount"`
						Code     string  `json:"code"`
					} `json:"data"`
				}
				require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
				assert.True(t, got.Data.Valid)
				assert.InDelta(t, tt.wantDiscount, got.Data.Discount, 0.001)
				assert.Equal(t, tt.wantCode, got.Data.Code)
			}
		})
	}
}
