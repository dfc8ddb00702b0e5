package api

import (
	"context"
)

type keyType string

const (
	usernameKey  keyType = "username"
	requestIDKey keyType = "requestID"
)

// ctxWithUsername stores the authorized admin's username
func ctxWithUsername(ctx context.Context, username string) context.Context {
	return context.WithValue(ctx, usernameKey, username)
}

// ctxGetUsername returns the authorized admin's username, or "" outside protected routes
func ctxGetUsername(ctx context.Context) string {
	return ctxGetStringValue(ctx, usernameKey)
}

func ctxWithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

func ctxGetRequestID(ctx context.Context) string {
	return ctxGetStringValue(ctx, requestIDKey)
}

func ctxGetStringValue(ctx context.Context, key keyType) string {
	value, _ := ctx.Value(key).(string)
	return value
}
