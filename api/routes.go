package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	rh "github.com/lakonic/mealping/route-handlers"
	"github.com/lakonic/mealping/scheduler"
	"github.com/lakonic/mealping/webutil"
)

const (
	apiBasePath = "/api"

	subscribePath        = "/subscribe"
	updateSchedulePath   = "/update-schedule"
	unsubscribePath      = "/unsubscribe"
	testNotificationPath = "/test-notification"
	cronPath             = "/cron"
	debugPath            = "/debug"
	vapidKeyPath         = "/vapid-key"
)

const (
	requestTimeout = 60 * time.Second
	corsMaxAge     = 86400 // 24 hours, matches the client's preflight cache
)

// SetupRoutes wires the push-relay endpoints behind the standard
// middleware stack. allowedOrigins feeds the CORS allow-list (entries may
// contain a single '*' wildcard); cronSecret guards the tick endpoint and
// an empty secret disables the check.
func SetupRoutes(pushHandler *rh.PushHandler, reminderScheduler *scheduler.Scheduler, allowedOrigins []string, cronSecret string) http.Handler {
	r := chi.NewRouter()

	// Middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(requestTimeout))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{webutil.HeaderContentType, webutil.HeaderAuthorization, "X-Requested-With"},
		AllowCredentials: true,
		MaxAge:           corsMaxAge,
	}))
	r.Use(SetHeader(webutil.HeaderContentType, webutil.ContentTypeJSONUTF8))

	r.Route(apiBasePath, func(r chi.Router) {
		r.Post(subscribePath, webutil.MakeHandler(pushHandler.HandleSubscribe))
		r.Post(updateSchedulePath, webutil.MakeHandler(pushHandler.HandleUpdateSchedule))
		r.Post(unsubscribePath, webutil.MakeHandler(pushHandler.HandleUnsubscribe))
		r.Post(testNotificationPath, webutil.MakeHandler(pushHandler.HandleTestNotification))

		r.Get(vapidKeyPath, webutil.MakeHandler(pushHandler.HandleVAPIDKey))
		r.Get(debugPath, webutil.MakeHandler(pushHandler.HandleDebug))

		r.With(CronAuth(cronSecret)).Get(cronPath, reminderScheduler.HandleTick)
	})

	// Health check endpoint
	r.Get("/healthz", handleHealthCheck)

	return r
}

// handleHealthCheck responds to a health check request.
func handleHealthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set(webutil.HeaderContentType, webutil.ContentTypeTextPlainUTF8)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// SetHeader is a middleware to set a response header.
func SetHeader(key, value string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set(key, value)
			next.ServeHTTP(w, r)
		})
	}
}
