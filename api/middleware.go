package api

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/lakonic/mealping/webutil"
)

// CronAuth guards the tick endpoint with a shared secret, accepted either
// as a bearer Authorization header or a "secret" query parameter (some
// hosted cron services can only set one or the other). An empty configured
// secret disables the check entirely.
func CronAuth(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if secret == "" {
				next.ServeHTTP(w, r)
				return
			}

			provided := strings.TrimPrefix(r.Header.Get(webutil.HeaderAuthorization), "Bearer ")
			if provided == "" {
				provided = r.URL.Query().Get("secret")
			}

			if subtle.ConstantTimeCompare([]byte(provided), []byte(secret)) != 1 {
				webutil.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
