package middleware

import (
	"net/http"

	"dating-backend/internal/services"

	"github.com/rs/zerolog/log"
)

// ActivityTracker stamps the authenticated member's last-active time
// after each request. Runs behind AuthMiddleware.
func ActivityTracker(userService *services.UserService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r)

			userID := GetUserID(r.Context())
			if userID == 0 {
				return
			}
			if err := userService.TouchLastActive(r.Context(), userID); err != nil {
				log.Warn().
					Err(err).
					Int64("user_id", userID).
					Msg("Failed to update last active")
			}
		})
	}
}
