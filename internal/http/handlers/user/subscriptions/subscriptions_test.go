package subscriptions

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/pluxolabs/pluxo-backend/internal/http/middlewarectx"
	"github.com/pluxolabs/pluxo-backend/internal/models"
)

type RepoMock struct{ mock.Mock }

func (m *RepoMock) ListSubscriptions(ctx context.Context, userUID string, limit, offset int) ([]*models.Subscription, error) {
	args := m.Called(ctx, userUID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Subscription), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

const testUID = "550e8400-e29b-41d4-a716-446655440000"

func TestHandler_ServeHTTP(t *testing.T) {
	now := time.Now().UTC()
	history := []*models.Subscription{
		{ID: 2, UserUID: testUID, PlanType: models.PlanVip, StartsAt: now, EndsAt: now.Add(time.Hour), Active: true},
		{ID: 1, UserUID: testUID, PlanType: models.PlanVup, StartsAt: now.Add(-48 * time.Hour), EndsAt: now.Add(-24 * time.Hour), Active: false},
	}

	tests := []struct {
		name           string
		uid            string
		query          string
		setupMock      func(*RepoMock)
		wantStatusCode int
		wantCount      int
	}{
		{
			name:  "история возвращается новыми вперёд",
			uid:   testUID,
			query: "",
			setupMock: func(m *RepoMock) {
				m.On("ListSubscriptions", mock.Anything, testUID, defaultLimit, 0).
					Return(history, nil)
			},
			wantStatusCode: http.StatusOK,
			wantCount:      2,
		},
		{
			name:  "пустая история отдаётся как пустой список",
			uid:   testUID,
			query: "",
			setupMock: func(m *RepoMock) {
				m.On("ListSubscriptions", mock.Anything, testUID, defaultLimit, 0).
					Return(nil, nil)
			},
			wantStatusCode: http.StatusOK,
			wantCount:      0,
		},
		{
			name:  "параметры страницы пробрасываются с верхней границей",
			uid:   testUID,
			query: "?limit=500&offset=10",
			setupMock: func(m *RepoMock) {
				m.On("ListSubscriptions", mock.Anything, testUID, maxLimit, 10).
					Return([]*models.Subscription{}, nil)
			},
			wantStatusCode: http.StatusOK,
			wantCount:      0,
		},
		{
			name:           "без uid в контексте",
			uid:            "",
			query:          "",
			setupMock:      func(_ *RepoMock) {},
			wantStatusCode: http.StatusUnauthorized,
		},
		{
			name:  "сбой хранилища",
			uid:   testUID,
			query: "",
			setupMock: func(m *RepoMock) {
				m.On("ListSubscriptions", mock.Anything, testUID, defaultLimit, 0).
					Return(nil, errors.New("db down"))
			},
			wantStatusCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(RepoMock)
			tt.setupMock(repo)
			handler := New(newNoopLogger(), repo)

			req := httptest.NewRequest(http.MethodGet, "/api/user/subscriptions"+tt.query, nil)
			if tt.uid != "" {
				req = req.WithContext(context.WithValue(req.Context(), middlewarectx.UserUID, tt.uid))
			}
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatusCode, rec.Code)

			if tt.wantStatusCode == http.StatusOK {
				var got struct {
					Status string `json:"status"`
					Data   struct {
						Subscriptions []*models.Subscription `json:"subscriptions"`
					} `json:"data"`
				}
				require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
				assert.Equal(t, "OK", got.Status)
				assert.Len(t, got.Data.Subscriptions, tt.wantCount)
			}
			repo.AssertExpectations(t)
		})
	}
}
