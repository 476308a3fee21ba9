package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/xavierca1/prospectplus-agent/internal/entity"
)

type contextKey string

const userKey contextKey = "user"

// UserResolver turns a bearer token into the user it was issued for.
type UserResolver interface {
	CurrentUser(ctx context.Context, token string) (*entity.User, error)
}

// RequireUser rejects requests without a valid bearer token and stores the user in the context.
func RequireUser(users UserResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := BearerToken(r)
			if !ok {
				unauthorized(w, "Not authenticated")
				return
			}
			user, err := users.CurrentUser(r.Context(), token)
			if err != nil {
				unauthorized(w, "Could not validate credentials")
				return
			}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userKey, user)))
		})
	}
}

func UserFromContext(ctx context.Context) (*entity.User, bool) {
	u, ok := ctx.Value(userKey).(*entity.User)
	return u, ok
}

func BearerToken(r *http.Request) (string, bool) {
	scheme, token, ok := strings.Cut(r.Header.Get("Authorization"), " ")
	if !ok || !strings.EqualFold(scheme, "bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("WWW-Authenticate", "Bearer")
	writeJSONError(w, http.StatusUnauthorized, "INVALID_CREDENTIALS", message)
}

func writeJSONError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": code, "message": message})
}
