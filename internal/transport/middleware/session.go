package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/heartmarshall/accountlinking/internal/domain"
	"github.com/heartmarshall/accountlinking/pkg/ctxutil"
)

type sessionGetter interface {
	GetSession(ctx context.Context, handle string) (*domain.Session, error)
}

type tokenParser interface {
	Parse(token string) (string, error)
}

// Session verifies a bearer access token, resolves the session handle it
// carries and stores the id of the user owning the session in the context.
// Requests without a bearer token pass through anonymously.
func Session(tokens tokenParser, sessions sessionGetter) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractBearerToken(r)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			handle, err := tokens.Parse(token)
			if err != nil {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			sess, err := sessions.GetSession(r.Context(), handle)
			switch {
			case errors.Is(err, domain.ErrNotFound):
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			case err != nil:
				http.Error(w, "session store unavailable", http.StatusServiceUnavailable)
				return
			}

			next.ServeHTTP(w, r.WithContext(ctxutil.WithSessionUserID(r.Context(), sess.UserID)))
		})
	}
}

func extractBearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if !strings.HasPrefix(auth, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
}
