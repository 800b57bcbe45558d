package ctxutil

import (
	"context"
)

type ctxKey string

const (
	sessionUserIDKey   ctxKey = "session_user_id"
	requestIDKey       ctxKey = "request_id"
	linkingDisabledKey ctxKey = "linking_disabled"
)

// WithSessionUserID stores the id of the user owning the current session.
func WithSessionUserID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, sessionUserIDKey, id)
}

// SessionUserIDFromCtx extracts the session user id from the context.
// Returns "" and false if the value is missing or empty.
func SessionUserIDFromCtx(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(sessionUserIDKey).(string)
	if !ok || id == "" {
		return "", false
	}
	return id, true
}

// WithRequestID stores the request ID in the context.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestIDFromCtx extracts the request ID from the context.
// Returns an empty string if absent.
func RequestIDFromCtx(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// WithLinkingDisabled marks the flow as one that must never link accounts
// automatically, whatever the configured decision hook says.
func WithLinkingDisabled(ctx context.Context) context.Context {
	return context.WithValue(ctx, linkingDisabledKey, true)
}

// LinkingDisabled reports whether WithLinkingDisabled was applied.
func LinkingDisabled(ctx context.Context) bool {
	v, _ := ctx.Value(linkingDisabledKey).(bool)
	return v
}
