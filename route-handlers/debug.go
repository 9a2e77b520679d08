package routehandlers

import (
	"net/http"
	"time"

	"github.com/lakonic/mealping/models"
	"github.com/lakonic/mealping/webutil"
)

const (
	debugUserIDPreviewLen   = 30
	debugEndpointPreviewLen = 50
)

type debugSubscription struct {
	UserID   string `json:"userId"`
	Endpoint string `json:"endpoint"`
	HasKeys  bool   `json:"hasKeys"`
}

type debugSchedule struct {
	UserID            string   `json:"userId"`
	NotificationTimes []string `json:"notificationTimes"`
	FoodsCount        int      `json:"foodsCount"`
	Foods             []string `json:"foods"`
}

type debugResponse struct {
	Timestamp     string              `json:"timestamp"`
	Memory        debugMemory         `json:"memory"`
	Subscriptions []debugSubscription `json:"subscriptions"`
	Schedules     []debugSchedule     `json:"schedules"`
}

type debugMemory struct {
	TotalSubscriptions int `json:"totalSubscriptions"`
	TotalSchedules     int `json:"totalSchedules"`
}

// HandleDebug returns a redacted snapshot of both stores for operational
// visibility: identifiers and endpoints are truncated, since the full auth
// secret must never leave the process.
func (h *PushHandler) HandleDebug(w http.ResponseWriter, r *http.Request) error {
	subs := h.Registry.All()
	schedules := h.Store.All()

	resp := debugResponse{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Memory: debugMemory{
			TotalSubscriptions: len(subs),
			TotalSchedules:     len(schedules),
		},
		Subscriptions: make([]debugSubscription, 0, len(subs)),
		Schedules:     make([]debugSchedule, 0, len(schedules)),
	}

	for _, entry := range subs {
		resp.Subscriptions = append(resp.Subscriptions, debugSubscription{
			UserID:   models.Truncate(entry.UserID, debugUserIDPreviewLen),
			Endpoint: models.Truncate(entry.Subscription.Endpoint, debugEndpointPreviewLen),
			HasKeys:  entry.Subscription.Keys.Auth != "" || entry.Subscription.Keys.P256dh != "",
		})
	}

	for userID, schedule := range schedules {
		names := make([]string, 0, len(schedule.Foods))
		for _, food := range schedule.Foods {
			names = append(names, food.Name)
		}
		resp.Schedules = append(resp.Schedules, debugSchedule{
			UserID:            models.Truncate(userID, debugUserIDPreviewLen),
			NotificationTimes: schedule.Times,
			FoodsCount:        len(schedule.Foods),
			Foods:             names,
		})
	}

	webutil.RespondWithJSON(w, http.StatusOK, resp)
	return nil
}
