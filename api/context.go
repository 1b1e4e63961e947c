package api

import (
	"context"

	"github.com/google/uuid"
)

type keyType string

const (
	userIDKey   keyType = "userID"
	usernameKey keyType = "username"
)

// ctxWithViewer attaches the authenticated user's identity to the context.
func ctxWithViewer(ctx context.Context, userID uuid.UUID, username string) context.Context {
	ctx = context.WithValue(ctx, userIDKey, userID)
	return context.WithValue(ctx, usernameKey, username)
}

// viewerID retrieves the authenticated user id from the context. The second
// return value is false on unauthenticated (optional-auth) requests.
func viewerID(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(userIDKey).(uuid.UUID)
	return id, ok
}
