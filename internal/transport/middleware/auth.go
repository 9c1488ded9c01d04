package middleware

import (
	"net/http"
	"strings"

	"github.com/opencatechism/catechesis-backend/internal/domain"
	"github.com/opencatechism/catechesis-backend/pkg/ctxutil"
)

type tokenVerifier interface {
	ValidateAccessToken(token string) (domain.User, error)
}

// Auth validates the Bearer token when present and stores the actor in
// the request context. Requests without a token pass through anonymous;
// role checks happen at the handler level.
func Auth(verifier tokenVerifier) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractBearerToken(r)
			if token == "" {
				next.ServeHTTP(w, r) // Anonymous
				return
			}
			actor, err := verifier.ValidateAccessToken(token)
			if err != nil {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
			ctx := ctxutil.WithActor(r.Context(), actor)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func extractBearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if !strings.HasPrefix(auth, "Bearer ") {
		return ""
	}
	return strings.TrimPrefix(auth, "Bearer ")
}
