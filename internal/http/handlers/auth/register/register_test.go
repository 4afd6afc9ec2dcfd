package register

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type ServiceMock struct{ mock.Mock }

func (m *ServiceMock) Register(ctx context.Context, email, username, rawPassword string) (string, error) {
	args := m.Called(ctx, email, username, rawPassword)
	return args.String(0), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func TestHandler_ServeHTTP(t *testing.T) {
	tests := []struct {
		name           string
		requestBody    any
		setupMock      func(*ServiceMock)
		wantStatusCode int
	}{
		{
			name:        "успешная регистрация",
			requestBody: Request{Username: "alice", Password: "password123", Email: "a@b.com"},
			setupMock: func(m *ServiceMock) {
				m.On("Register", mock.Anything, "a@b.com", "alice", "password123").
					Return("some-uid", nil)
			},
			wantStatusCode: http.StatusOK,
		},
		{
			name:           "короткий пароль",
			requestBody:    Request{Username: "alice", Password: "123", Email: "a@b.com"},
			setupMock:      func(_ *ServiceMock) {},
			wantStatusCode: http.StatusUnprocessableEntity,
		},
		{
			name:           "некорректный email",
			requestBody:    Request{Username: "alice", Password: "password123", Email: "not-an-email"},
			setupMock:      func(_ *ServiceMock) {},
			wantStatusCode: http.StatusUnprocessableEntity,
		},
		{
			name:        "занятое имя пользователя",
			requestBody: Request{Username: "alice", Password: "password123", Email: "a@b.com"},
			setupMock: func(m *ServiceMock) {
				m.On("Register", mock.Anything, "a@b.com", "alice", "password123").
					Return("", errors.New("duplicate key value"))
			},
			wantStatusCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(ServiceMock)
			tt.setupMock(svc)
			handler := New(newNoopLogger(), svc)

			bodyBytes, err := json.Marshal(tt.requestBody)
			require.NoError(t, err)

			req := httptest.NewRequest(http.MethodPost, "/api/auth/register", bytes.NewReader(bodyBytes))
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatusCode, rec.Code)
			svc.AssertExpectations(t)
		})
	}
}
