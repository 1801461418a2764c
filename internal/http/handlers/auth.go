package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gfranca/userhub/internal/apperr"
	"github.com/gfranca/userhub/internal/domain/user"
	"github.com/gfranca/userhub/internal/loginlimit"
	"github.com/gfranca/userhub/internal/observability"
	"github.com/gin-gonic/gin"
)

type AuthService interface {
	Login(ctx context.Context, email, password string) (string, error)
}

type AuthHandler struct {
	svc     AuthService
	limiter *loginlimit.Limiter
	prom    *observability.Prom
}

func NewAuthHandler(svc AuthService, limiter *loginlimit.Limiter, prom *observability.Prom) *AuthHandler {
	return &AuthHandler{
		svc:     svc,
		limiter: limiter,
		prom:    prom,
	}
}

type tokenResponse struct {
	Token string `json:"token"`
}

func (h *AuthHandler) Login(ctx *gin.Context) {
	var req user.LoginRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := context.WithTimeout(ctx.Request.Context(), 3*time.Second)
	defer cancel()

	ip := ctx.ClientIP()

	if !h.limiter.Allow(cctx, req.Email, ip) {
		h.countLogin("limited")
		RespondError(ctx, apperr.TooManyRequests("Too many login attempts. Try again later."))
		return
	}

	token, err := h.svc.Login(cctx, req.Email, req.Password)
	if err != nil {
		if apperr.KindOf(err) == apperr.KindUnauthorized {
			h.limiter.RecordFailure(cctx, req.Email, ip)
			h.countLogin("denied")
		}

		RespondError(ctx, err)
		return
	}

	h.limiter.Reset(cctx, req.Email, ip)
	h.countLogin("ok")

	RespondSuccess(ctx, http.StatusOK, "Login successful", tokenResponse{Token: token})
}

func (h *AuthHandler) countLogin(result string) {
	if h.prom != nil {
		h.prom.LoginsTotal.WithLabelValues(result).Inc()
	}
}
