package middleware

import (
	"context"
	"log/slog"
	"net/http"
)

type LastSeenTracker interface {
	TouchLastSeen(ctx context.Context, userID uint) error
}

// TrackLastSeen records activity for the authenticated principal. It must run
// after AuthMiddleware. Failures are logged and never block the request.
func TrackLastSeen(tracker LastSeenTracker) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if claims, ok := ClaimsFromContext(r.Context()); ok {
				if id, err := claims.UserID(); err == nil {
					if err := tracker.TouchLastSeen(r.Context(), id); err != nil {
						slog.WarnContext(r.Context(), "last seen update failed", "user_id", id, "error", err)
					}
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}
