package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lakonic/mealping/datastore"
	"github.com/lakonic/mealping/delivery"
	"github.com/lakonic/mealping/models"
	rh "github.com/lakonic/mealping/route-handlers"
	"github.com/lakonic/mealping/scheduler"
)

type noopProvider struct{}

func (noopProvider) Send(context.Context, models.Subscription, []byte) error { return nil }

func newTestRouter(cronSecret string) http.Handler {
	registry := datastore.NewSubscriptionRegistry()
	store := datastore.NewScheduleStore()
	deliveryService := delivery.NewDeliveryService(registry, noopProvider{})

	pushHandler := rh.NewPushHandler(registry, store, deliveryService, "test-public-key")
	reminderScheduler := scheduler.New(registry, store, deliveryService)

	return SetupRoutes(pushHandler, reminderScheduler, []string{"http://localhost:5173"}, cronSecret)
}

func TestCronEndpoint_NoSecretConfigured(t *testing.T) {
	router := newTestRouter("")

	req := httptest.NewRequest(http.MethodGet, "/api/cron", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Success bool     `json:"success"`
		Issues  []string `json:"issues"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Success)
	require.NotEmpty(t, body.Issues)
	assert.Contains(t, body.Issues[0], "No subscriptions")
}

func TestCronEndpoint_RejectsMissingOrWrongSecret(t *testing.T) {
	router := newTestRouter("hunter2")

	for _, header := range []string{"", "Bearer wrong", "wrong"} {
		req := httptest.NewRequest(http.MethodGet, "/api/cron", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code, "header %q", header)
	}
}

func TestCronEndpoint_AcceptsBearerHeader(t *testing.T) {
	router := newTestRouter("hunter2")

	req := httptest.NewRequest(http.MethodGet, "/api/cron", nil)
	req.Header.Set("Authorization", "Bearer hunter2")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCronEndpoint_AcceptsQuerySecret(t *testing.T) {
	router := newTestRouter("hunter2")

	req := httptest.NewRequest(http.MethodGet, "/api/cron?secret=hunter2", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestVAPIDKeyEndpoint(t *testing.T) {
	router := newTestRouter("")

	req := httptest.NewRequest(http.MethodGet, "/api/vapid-key", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "test-public-key")
}

func TestHealthz(t *testing.T) {
	router := newTestRouter("")

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())
}

func TestCORSPreflightAllowsConfiguredOrigin(t *testing.T) {
	router := newTestRouter("")

	req := httptest.NewRequest(http.MethodOptions, "/api/subscribe", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))
}
