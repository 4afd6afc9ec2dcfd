// Package userlist реализует административный список пользователей с их
// действующими подписками. Выборка кешируется в redis и инвалидируется
// при каждой выдаче подписки.
package userlist

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/pluxolabs/pluxo-backend/internal/http/response"
	"github.com/pluxolabs/pluxo-backend/internal/lib/sl"
	"github.com/pluxolabs/pluxo-backend/internal/models"
	"github.com/pluxolabs/pluxo-backend/internal/services/grant"
)

const (
	defaultLimit = 50
	maxLimit     = 200
	cacheTTL     = 5 * time.Minute
)

// Repository описывает выборку пользователей с подписками.
type Repository interface {
	ListUsersWithSubscriptions(ctx context.Context, now time.Time, limit, offset int) ([]*models.UserOverview, error)
}

// Cache описывает кеш выборки.
type Cache interface {
	Get(key string, result any) (bool, error)
	Set(key string, value any, expiration time.Duration) error
}

// Handler обрабатывает запросы административного списка пользователей.
type Handler struct {
	log   *slog.Logger
	repo  Repository
	cache Cache
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, repo Repository, cache Cache) *Handler {
	return &Handler{
		log:   log,
		repo:  repo,
		cache: cache,
	}
}

// ServeHTTP godoc
// @Summary Список пользователей
// @Description Возвращает пользователей с их действующими подписками. Доступно только администратору.
// @Tags Admin
// @Produce  json
// @Param limit query int false "Размер страницы"
// @Param offset query int false "Смещение"
// @Success 200 {object} map[string]any "Список пользователей"
// @Failure 403 {object} response.ErrorResponse "Недостаточно прав"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /admin/users [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.userlist"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	limit, offset := pageParams(r)

	// кеш только для первой страницы с параметрами по умолчанию
	useCache := limit == defaultLimit && offset == 0
	if useCache {
		var cached []*models.UserOverview
		found, err := h.cache.Get(grant.UsersCacheKey, &cached)
		if err != nil {
			log.Warn("failed to read users cache", sl.Err(err))
		}
		if found {
			render.JSON(w, r, response.StatusOKWithData(map[string]any{"users": cached}))
			return
		}
	}

	users, err := h.repo.ListUsersWithSubscriptions(r.Context(), time.Now().UTC(), limit, offset)
	if err != nil {
		log.Error("failed to list users", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to list users"))
		return
	}

	if useCache {
		if err = h.cache.Set(grant.UsersCacheKey, users, cacheTTL); err != nil {
			log.Warn("failed to write users cache", sl.Err(err))
		}
	}

	render.JSON(w, r, response.StatusOKWithData(map[string]any{"users": users}))
}

func pageParams(r *http.Request) (limit, offset int) {
	limit = defaultLimit
	if v, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && v > 0 {
		limit = min(v, maxLimit)
	}
	if v, err := strconv.Atoi(r.URL.Query().Get("offset")); err == nil && v > 0 {
		offset = v
	}
	return limit, offset
}
