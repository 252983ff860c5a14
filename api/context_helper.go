package api

import "context"

type contextKey string

const userKey contextKey = "user"

// WithUser stores the participant display name on the context
func WithUser(parent context.Context, name string) context.Context {
	return context.WithValue(parent, userKey, name)
}

// UserFromContext returns the display name set by Middleware, or "" when absent
func UserFromContext(ctx context.Context) string {
	name, _ := ctx.Value(userKey).(string)
	return name
}
