package me

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pluxolabs/pluxo-backend/internal/http/middlewarectx"
	"github.com/pluxolabs/pluxo-backend/internal/models"
)

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

const testUID = "550e8400-e29b-41d4-a716-446655440000"

func TestHandler_ServeHTTP(t *testing.T) {
	handler := New(newNoopLogger())

	t.Run("профиль с действующей подпиской", func(t *testing.T) {
		endsAt := time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC)
		ent := &models.Entitlement{
			UserUID:            testUID,
			Email:              "a@b.com",
			Role:               models.RoleUser,
			ActivePlan:         models.PlanVip,
			HasUnlimitedAccess: true,
			Subscription: &models.Subscription{
				ID: 7, UserUID: testUID, PlanType: models.PlanVip,
				EndsAt: endsAt, Active: true,
			},
		}

		req := httptest.NewRequest(http.MethodGet, "/api/user/me", nil)
		req = req.WithContext(context.WithValue(req.Context(), middlewarectx.EntitlementKey, ent))
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		var got struct {
			Data struct {
				User map[string]any `json:"user"`
			} `json:"data"`
		}
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
		assert.Equal(t, testUID, got.Data.User["id"])
		assert.Equal(t, "a@b.com", got.Data.User["email"])
		assert.Equal(t, true, got.Data.User["isVip"])
		assert.Equal(t, "vip", got.Data.User["planType"])
		assert.Equal(t, "2025-06-02T12:00:00Z", got.Data.User["vipEndsAt"])
	})

	t.Run("профиль без подписки", func(t *testing.T) {
		ent := &models.Entitlement{
			UserUID: testUID, Email: "a@b.com",
			Role: models.RoleUser, ActivePlan: models.PlanNone,
		}

		req := httptest.NewRequest(http.MethodGet, "/api/user/me", nil)
		req = req.WithContext(context.WithValue(req.Context(), middlewarectx.EntitlementKey, ent))
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		var got struct {
			Data struct {
				User map[string]any `json:"user"`
			} `json:"data"`
		}
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
		assert.Equal(t, false, got.Data.User["isVip"])
		assert.Equal(t, "none", got.Data.User["planType"])
		assert.NotContains(t, got.Data.User, "vipEndsAt")
	})

	t.Run("без прав в контексте", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/user/me", nil)
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}
