package api

import (
	"context"
	"net/http"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// contextKey is a private type so context keys cannot collide.
type contextKey string

const userIDContextKey = contextKey("userID")

// TokenMiddleware resolves the x-token header to a user id and injects it
// into the request context. Requests without a valid session are rejected.
func (h *Handler) TokenMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, err := h.sessions.Resolve(r.Context(), r.Header.Get("x-token"))
		if err != nil {
			h.respondWithError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		ctx := context.WithValue(r.Context(), userIDContextKey, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func userIDFromContext(ctx context.Context) (primitive.ObjectID, bool) {
	id, ok := ctx.Value(userIDContextKey).(primitive.ObjectID)
	return id, ok
}
