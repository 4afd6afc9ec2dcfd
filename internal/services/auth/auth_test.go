package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/pluxolabs/pluxo-backend/internal/lib/jwt"
	"github.com/pluxolabs/pluxo-backend/internal/lib/password"
	"github.com/pluxolabs/pluxo-backend/internal/models"
)

type UsersMock struct{ mock.Mock }

func (m *UsersMock) RegisterUser(ctx context.Context, user models.User) (string, error) {
	args := m.Called(ctx, user)
	return args.String(0), args.Error(1)
}

func (m *UsersMock) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func TestService_Register(t *testing.T) {
	users := new(UsersMock)
	users.On("RegisterUser", mock.Anything, mock.MatchedBy(func(u models.User) bool {
		if u.Email != "a@b.com" || u.Username != "alice" || u.Role != models.RoleUser {
			return false
		}
		if _, err := uuid.Parse(u.UUID); err != nil {
			return false
		}
		// в базу уходит хэш, а не сырой пароль
		return u.PasswordHash != "secret" && password.CompareHash(u.PasswordHash, "secret") == nil
	})).Return("some-uid", nil)

	svc := New(users, jwt.NewJWTMaker("test-secret", time.Hour))
	uid, err := svc.Register(context.Background(), "a@b.com", "alice", "secret")

	require.NoError(t, err)
	assert.Equal(t, "some-uid", uid)
	users.AssertExpectations(t)
}

func TestService_Login(t *testing.T) {
	hashed, err := password.GetHash("secret")
	require.NoError(t, err)
	stored := &models.User{
		UUID:         uuid.New().String(),
		Username:     "alice",
		PasswordHash: hashed,
		Role:         models.RoleAdmin,
	}
	maker := jwt.NewJWTMaker("test-secret", time.Hour)

	t.Run("успешный вход возвращает валидный токен", func(t *testing.T) {
		users := new(UsersMock)
		users.On("GetUserByUsername", mock.Anything, "alice").Return(stored, nil)

		svc := New(users, maker)
		token, role, err := svc.Login(context.Background(), "alice", "secret")

		require.NoError(t, err)
		assert.Equal(t, models.RoleAdmin, role)

		claims, err := maker.ParseToken(token)
		require.NoError(t, err)
		assert.Equal(t, stored.UUID, claims.UserUID)
		assert.Equal(t, "alice", claims.Username)
		assert.Equal(t, models.RoleAdmin, claims.Role)
	})

	t.Run("неверный пароль", func(t *testing.T) {
		users := new(UsersMock)
		users.On("GetUserByUsername", mock.Anything, "alice").Return(stored, nil)

		svc := New(users, maker)
		_, _, err := svc.Login(context.Background(), "alice", "wrong")

		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("несуществующий пользователь", func(t *testing.T) {
		users := new(UsersMock)
		users.On("GetUserByUsername", mock.Anything, "bob").
			Return(nil, errors.New("sql: no rows in result set"))

		svc := New(users, maker)
		_, _, err := svc.Login(context.Background(), "bob", "secret")

		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestService_ValidateToken(t *testing.T) {
	maker := jwt.NewJWTMaker("test-secret", time.Hour)
	svc := New(new(UsersMock), maker)

	uid := uuid.New().String()
	token, err := maker.GenerateToken(uid, "alice", models.RoleUser)
	require.NoError(t, err)

	user, err := svc.ValidateToken(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, uid, user.UUID)
	assert.Equal(t, "alice", user.Username)

	_, err = svc.ValidateToken(context.Background(), "not-a-token")
	assert.Error(t, err)
}
