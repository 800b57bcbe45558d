package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/heartmarshall/accountlinking/pkg/ctxutil"
)

// Recovery turns a panic in a handler into a 500 and logs it with the stack,
// the request id and, when known, the signed-in user. http.ErrAbortHandler
// is re-raised so the server can abort the connection.
func Recovery(logger *slog.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if err, ok := rec.(error); ok && errors.Is(err, http.ErrAbortHandler) {
					panic(rec)
				}

				ctx := r.Context()
				attrs := []any{
					slog.Any("error", rec),
					slog.String("request_id", ctxutil.RequestIDFromCtx(ctx)),
					slog.String("method", r.Method),
					slog.String("path", r.URL.Path),
					slog.String("stack", string(debug.Stack())),
				}
				if userID, ok := ctxutil.SessionUserIDFromCtx(ctx); ok {
					attrs = append(attrs, slog.String("session_user_id", userID))
				}
				logger.ErrorContext(ctx, "panic recovered", attrs...)

				http.Error(w, "internal server error", http.StatusInternalServerError)
			}()
			next.ServeHTTP(w, r)
		})
	}
}
