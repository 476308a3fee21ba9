package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/xavierca1/prospectplus-agent/internal/infra/http/middleware"
	"github.com/xavierca1/prospectplus-agent/internal/usecase"
)

type AuthHandler struct {
	Login *usecase.LoginService
	Log   *zap.Logger
}

func NewAuthHandler(login *usecase.LoginService, log *zap.Logger) *AuthHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &AuthHandler{Login: login, Log: log}
}

// Token (POST /api/auth/token) takes form fields username and password.
func (h *AuthHandler) Token(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, usecase.CodeValidation, "Invalid form body")
		return
	}

	out, err := h.Login.Login(r.Context(), r.PostForm.Get("username"), r.PostForm.Get("password"))
	if err != nil {
		if usecase.ErrorCode(err) == usecase.CodeInvalidCredentials {
			w.Header().Set("WWW-Authenticate", "Bearer")
		}
		writeError(w, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// Me (GET /api/auth/me) must sit behind middleware.RequireUser.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		w.Header().Set("WWW-Authenticate", "Bearer")
		writeErrorResponse(w, http.StatusUnauthorized, usecase.CodeInvalidCredentials, "Not authenticated")
		return
	}
	writeJSON(w, http.StatusOK, user)
}
