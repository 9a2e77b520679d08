package routehandlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/lakonic/mealping/datastore"
	"github.com/lakonic/mealping/delivery"
	"github.com/lakonic/mealping/models"
	"github.com/lakonic/mealping/notification"
	"github.com/lakonic/mealping/webutil"
)

const (
	welcomeTimeout = 30 * time.Second

	logUserIDPreviewLen = 30
)

// PushHandler serves the subscription lifecycle endpoints. All state lives
// in the injected registry and schedule store; the handler itself holds
// only configuration.
type PushHandler struct {
	Registry *datastore.SubscriptionRegistry
	Store    *datastore.ScheduleStore
	Delivery *delivery.DeliveryService

	VAPIDPublicKey string
}

func NewPushHandler(registry *datastore.SubscriptionRegistry, store *datastore.ScheduleStore, deliveryService *delivery.DeliveryService, vapidPublicKey string) *PushHandler {
	return &PushHandler{
		Registry:       registry,
		Store:          store,
		Delivery:       deliveryService,
		VAPIDPublicKey: vapidPublicKey,
	}
}

type subscribeRequest struct {
	Subscription *models.Subscription `json:"subscription"`
}

type updateScheduleRequest struct {
	Subscription      *models.Subscription `json:"subscription"`
	NotificationTimes []string             `json:"notificationTimes"`
	Foods             []models.Food        `json:"foods"`
}

type testNotificationRequest struct {
	Subscription *models.Subscription `json:"subscription"`
	Foods        []models.Food        `json:"foods"`
}

// HandleSubscribe registers (or refreshes) a push subscription and kicks
// off a best-effort welcome notification. The welcome send runs in the
// background and never blocks or fails the subscribe call: on iOS in
// particular, the first push can be rejected while the subscription itself
// remains perfectly valid.
func (h *PushHandler) HandleSubscribe(w http.ResponseWriter, r *http.Request) error {
	var req subscribeRequest
	if err := decodeBody(r, &req); err != nil {
		return err
	}
	if req.Subscription == nil || req.Subscription.Endpoint == "" {
		return webutil.ErrBadRequest("Subscription required")
	}

	sub := *req.Subscription
	userID := h.Registry.Upsert(sub)
	log.Printf("INFO (Push): Subscription saved for user %s (%d total)",
		models.Truncate(userID, logUserIDPreviewLen), h.Registry.Len())

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), welcomeTimeout)
		defer cancel()

		payload := notification.Compose(nil, "Welcome!",
			"Notifications enabled. You will receive meal reminders at your scheduled times.")
		if result := h.Delivery.Send(ctx, sub, payload); !result.Success {
			log.Printf("WARN (Push): Welcome notification failed (non-blocking): %s", result.Error)
		}
	}()

	webutil.RespondWithJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Subscribed successfully",
	})
	return nil
}

// HandleUpdateSchedule replaces a user's reminder schedule wholesale and
// refreshes the stored subscription in case the endpoint rotated. Invalid
// input is rejected before either store is touched.
func (h *PushHandler) HandleUpdateSchedule(w http.ResponseWriter, r *http.Request) error {
	var req updateScheduleRequest
	if err := decodeBody(r, &req); err != nil {
		return err
	}
	if req.Subscription == nil || req.Subscription.Endpoint == "" {
		return webutil.ErrBadRequest("Subscription and notification times required")
	}
	if len(req.NotificationTimes) == 0 {
		return webutil.ErrBadRequest("Subscription and notification times required")
	}
	for _, t := range req.NotificationTimes {
		if _, err := models.ParseClockTime(t); err != nil {
			return webutil.ErrBadRequestWrap("Invalid notification time: "+t, err)
		}
	}

	foods := req.Foods
	if len(foods) > models.MaxSnapshotFoods {
		foods = foods[:models.MaxSnapshotFoods]
	}

	userID := h.Registry.Upsert(*req.Subscription)
	h.Store.Replace(userID, req.NotificationTimes, foods)

	log.Printf("INFO (Push): Schedule updated for user %s: %d times, %d foods (%d schedules total)",
		models.Truncate(userID, logUserIDPreviewLen), len(req.NotificationTimes), len(foods), h.Store.Len())

	webutil.RespondWithJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Schedule updated",
	})
	return nil
}

// HandleUnsubscribe removes both the subscription and any schedule for the
// derived identifier. Unsubscribing an unknown identifier is a no-op.
func (h *PushHandler) HandleUnsubscribe(w http.ResponseWriter, r *http.Request) error {
	var req subscribeRequest
	if err := decodeBody(r, &req); err != nil {
		return err
	}
	if req.Subscription == nil || req.Subscription.Endpoint == "" {
		return webutil.ErrBadRequest("Subscription required")
	}

	userID := req.Subscription.UserID()
	h.Registry.Remove(userID)
	h.Store.Remove(userID)

	webutil.RespondWithJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Unsubscribed",
	})
	return nil
}

// HandleTestNotification fires a one-shot compose+send, bypassing the
// schedule check, so users can verify the pipeline end to end.
func (h *PushHandler) HandleTestNotification(w http.ResponseWriter, r *http.Request) error {
	var req testNotificationRequest
	if err := decodeBody(r, &req); err != nil {
		return err
	}
	if req.Subscription == nil || req.Subscription.Endpoint == "" {
		return webutil.ErrBadRequest("Subscription required")
	}

	body := "Test notification - no recent foods"
	if len(req.Foods) > 0 {
		body = "Test: " + notification.FoodSummary(req.Foods)
	}

	payload := notification.Compose(req.Foods, "Test Notification", body)
	result := h.Delivery.Send(r.Context(), *req.Subscription, payload)

	if !result.Success {
		webutil.RespondWithJSON(w, http.StatusInternalServerError, map[string]any{
			"success": false,
			"error":   "Failed to send notification",
			"details": result,
		})
		return nil
	}

	webutil.RespondWithJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Test notification sent",
		"details": result,
	})
	return nil
}

// HandleVAPIDKey returns the public half of the VAPID key pair, which the
// client needs to construct its push subscription.
func (h *PushHandler) HandleVAPIDKey(w http.ResponseWriter, r *http.Request) error {
	webutil.RespondWithJSON(w, http.StatusOK, map[string]string{
		"publicKey": h.VAPIDPublicKey,
	})
	return nil
}

func decodeBody(r *http.Request, dst any) error {
	decoder := json.NewDecoder(r.Body)
	if err := decoder.Decode(dst); err != nil {
		return webutil.ErrBadRequest("Invalid request payload: " + err.Error())
	}
	defer r.Body.Close()
	return nil
}
