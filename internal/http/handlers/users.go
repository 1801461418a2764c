package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gfranca/userhub/internal/apperr"
	"github.com/gfranca/userhub/internal/cache"
	"github.com/gfranca/userhub/internal/domain/user"
	"github.com/gfranca/userhub/internal/http/middlewares"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// UserService is the slice of the service layer the handlers need; tests
// fake it or back it with the in-memory store.
type UserService interface {
	Create(ctx context.Context, req user.CreateUserRequest) (user.User, error)
	GetByID(ctx context.Context, id string) (user.User, error)
	Update(ctx context.Context, id string, req user.UpdateUserRequest) (user.User, error)
	Delete(ctx context.Context, id string) (user.User, error)
	List(ctx context.Context) ([]user.User, error)
}

type UsersHandler struct {
	svc   UserService
	cache *cache.Cache
}

func NewUsersHandler(svc UserService, readCache *cache.Cache) *UsersHandler {
	return &UsersHandler{
		svc:   svc,
		cache: readCache,
	}
}

const (
	usersListCacheKey   = "users:list:v1"
	userByIDCachePrefix = "users:id:v1:"
)

const dbTimeout = 3 * time.Second

func (h *UsersHandler) Create(ctx *gin.Context) {
	var req user.CreateUserRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := context.WithTimeout(ctx.Request.Context(), dbTimeout)
	defer cancel()

	u, err := h.svc.Create(cctx, req)
	if err != nil {
		RespondError(ctx, err)
		return
	}

	h.invalidate(u.ID)

	RespondSuccess(ctx, http.StatusCreated, "User created successfully", u.Public())
}

func (h *UsersHandler) GetByID(ctx *gin.Context) {
	id, ok := requireIDParam(ctx)
	if !ok {
		return
	}

	if cached, hit := h.cache.Get(userByIDCachePrefix + id); hit {
		RespondJSONWithETag(ctx, http.StatusOK, cached)
		return
	}

	cctx, cancel := context.WithTimeout(ctx.Request.Context(), dbTimeout)
	defer cancel()

	u, err := h.svc.GetByID(cctx, id)
	if err != nil {
		RespondError(ctx, err)
		return
	}

	resp := SuccessResponse{Message: "User fetched successfully", Data: u.Public()}
	h.cache.Set(userByIDCachePrefix+id, resp)

	RespondJSONWithETag(ctx, http.StatusOK, resp)
}

// Profile resolves the caller's own record; the id comes from the verified
// token, never from the query.
func (h *UsersHandler) Profile(ctx *gin.Context) {
	id, ok := middlewares.UserIDFromContext(ctx)
	if !ok || id == "" {
		RespondError(ctx, apperr.Unauthorized("Token not provided"))
		return
	}

	cctx, cancel := context.WithTimeout(ctx.Request.Context(), dbTimeout)
	defer cancel()

	u, err := h.svc.GetByID(cctx, id)
	if err != nil {
		RespondError(ctx, err)
		return
	}

	RespondSuccess(ctx, http.StatusOK, "Profile fetched successfully", u.Public())
}

func (h *UsersHandler) Update(ctx *gin.Context) {
	id, ok := requireIDParam(ctx)
	if !ok {
		return
	}

	var req user.UpdateUserRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := context.WithTimeout(ctx.Request.Context(), dbTimeout)
	defer cancel()

	u, err := h.svc.Update(cctx, id, req)
	if err != nil {
		RespondError(ctx, err)
		return
	}

	h.invalidate(id)

	RespondSuccess(ctx, http.StatusOK, "User updated successfully", u.Public())
}

func (h *UsersHandler) Delete(ctx *gin.Context) {
	id, ok := requireIDParam(ctx)
	if !ok {
		return
	}

	cctx, cancel := context.WithTimeout(ctx.Request.Context(), dbTimeout)
	defer cancel()

	if _, err := h.svc.Delete(cctx, id); err != nil {
		RespondError(ctx, err)
		return
	}

	h.invalidate(id)

	RespondSuccess(ctx, http.StatusOK, "User deleted successfully", nil)
}

func (h *UsersHandler) List(ctx *gin.Context) {
	if cached, hit := h.cache.Get(usersListCacheKey); hit {
		RespondJSONWithETag(ctx, http.StatusOK, cached)
		return
	}

	cctx, cancel := context.WithTimeout(ctx.Request.Context(), dbTimeout)
	defer cancel()

	users, err := h.svc.List(cctx)
	if err != nil {
		RespondError(ctx, err)
		return
	}

	out := make([]user.Public, 0, len(users))
	for _, u := range users {
		out = append(out, u.Public())
	}

	resp := SuccessResponse{Message: "Users fetched successfully", Data: out}
	h.cache.Set(usersListCacheKey, resp)

	RespondJSONWithETag(ctx, http.StatusOK, resp)
}

func (h *UsersHandler) invalidate(id string) {
	h.cache.Delete(usersListCacheKey)
	h.cache.Delete(userByIDCachePrefix + id)
}

func requireIDParam(ctx *gin.Context) (string, bool) {
	id := ctx.Query("id")

	if _, err := uuid.Parse(id); err != nil {
		RespondError(ctx, apperr.Validation("Invalid data", map[string]string{
			"id": "must be a valid UUID",
		}))

		return "", false
	}

	return id, true
}
