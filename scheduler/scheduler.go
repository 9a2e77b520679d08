package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/lakonic/mealping/datastore"
	"github.com/lakonic/mealping/delivery"
	"github.com/lakonic/mealping/models"
	"github.com/lakonic/mealping/notification"
	"github.com/lakonic/mealping/webutil"
)

const (
	userIDPreviewLen   = 30
	endpointPreviewLen = 50
)

// ErrTickInFlight is returned when a tick is requested while a previous
// tick's deliveries are still running. Overlapping evaluations of the same
// minute would double-send, so the new tick is rejected, not queued.
var ErrTickInFlight = errors.New("a tick is already being evaluated")

// Scheduler evaluates every registered user's reminder times against the
// current wall-clock minute and dispatches push notifications on exact
// matches. It is stateless between ticks: nothing is remembered from one
// pass to the next, which is safe as long as the tick source fires at most
// once per minute boundary.
type Scheduler struct {
	registry *datastore.SubscriptionRegistry
	store    *datastore.ScheduleStore
	delivery *delivery.DeliveryService

	tickMu sync.Mutex
	now    func() time.Time
}

func New(registry *datastore.SubscriptionRegistry, store *datastore.ScheduleStore, deliveryService *delivery.DeliveryService) *Scheduler {
	return &Scheduler{
		registry: registry,
		store:    store,
		delivery: deliveryService,
		now:      time.Now,
	}
}

// HandleTick is the HTTP wrapper around Tick, called by an external cron
// service (or manual curl). The full diagnostics aggregate goes back in
// the response body.
func (s *Scheduler) HandleTick(w http.ResponseWriter, r *http.Request) {
	diag, err := s.Tick(r.Context())
	if err != nil {
		if errors.Is(err, ErrTickInFlight) {
			webutil.RespondWithError(w, http.StatusConflict, err.Error())
			return
		}
		log.Printf("ERROR (Scheduler): Tick failed: %v", err)
		webutil.RespondWithError(w, http.StatusInternalServerError, "Failed to check notifications")
		return
	}

	webutil.RespondWithJSON(w, http.StatusOK, tickResponse{
		Success:         true,
		Message:         "Notifications checked",
		TickDiagnostics: diag,
	})
}

type tickResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	*models.TickDiagnostics
}

// Tick runs one full evaluation pass and returns its diagnostics. Per-user
// work is fanned out to goroutines (deliveries are independent and should
// not serialize on network latency) and joined before aggregation, so the
// returned structure is complete and ordering matches registry insertion
// order.
func (s *Scheduler) Tick(ctx context.Context) (*models.TickDiagnostics, error) {
	if !s.tickMu.TryLock() {
		return nil, ErrTickInFlight
	}
	defer s.tickMu.Unlock()

	now := s.now()
	currentMinutes := models.MinuteOfDay(now)

	diag := &models.TickDiagnostics{
		RunID:                 uuid.NewString(),
		Timestamp:             now.UTC().Format(time.RFC3339),
		CurrentTime:           now.Format("15:04"),
		SubscriptionsInMemory: s.registry.Len(),
		SchedulesInMemory:     s.store.Len(),
		Users:                 []models.UserDiagnostic{},
		Issues:                []string{},
	}

	entries := s.registry.All()
	if len(entries) == 0 {
		diag.Issues = append(diag.Issues, "No subscriptions stored - did you enable notifications?")
		return diag, nil
	}

	results := make([]userResult, len(entries))
	var wg sync.WaitGroup
	for i, entry := range entries {
		wg.Add(1)
		go func(i int, entry datastore.RegisteredSubscription) {
			defer wg.Done()
			results[i] = s.evaluateUser(ctx, entry, currentMinutes)
		}(i, entry)
	}
	wg.Wait()

	for _, res := range results {
		diag.Summary.SubscriptionsChecked++
		if res.withSchedule {
			diag.Summary.SubscriptionsWithSchedules++
		}
		diag.Summary.TimeChecks += res.checks
		diag.Summary.TimeMatches += res.matches
		diag.Summary.NotificationsAttempted += res.attempted
		diag.Summary.NotificationsSucceeded += res.succeeded
		diag.Summary.NotificationsFailed += res.failed
		diag.Issues = append(diag.Issues, res.issues...)
		diag.Users = append(diag.Users, res.user)
	}
	return diag, nil
}

type userResult struct {
	user         models.UserDiagnostic
	issues       []string
	withSchedule bool
	checks       int
	matches      int
	attempted    int
	succeeded    int
	failed       int
}

// evaluateUser runs the full check-and-send pass for one registry entry.
func (s *Scheduler) evaluateUser(ctx context.Context, entry datastore.RegisteredSubscription, currentMinutes int) userResult {
	sub := entry.Subscription
	res := userResult{
		user: models.UserDiagnostic{
			UserID:        models.Truncate(entry.UserID, userIDPreviewLen),
			Endpoint:      models.Truncate(sub.Endpoint, endpointPreviewLen),
			ScheduleTimes: []string{},
			TimeChecks:    []models.TimeCheck{},
			Notifications: []models.NotificationOutcome{},
		},
	}

	schedule, ok := s.store.Get(entry.UserID)
	if !ok {
		res.user.Issues = []string{"No schedule data found"}
		res.issues = append(res.issues, "Subscription has no schedule")
		return res
	}
	if len(schedule.Times) == 0 {
		res.user.Issues = []string{"No notification times set"}
		res.issues = append(res.issues, "Subscription has no notification times")
		return res
	}

	res.withSchedule = true
	res.user.HasSchedule = true
	res.user.ScheduleTimes = schedule.Times

	foods := schedule.Foods
	if len(foods) > models.MaxSnapshotFoods {
		foods = foods[:models.MaxSnapshotFoods]
	}

	for _, scheduledTime := range schedule.Times {
		res.checks++

		scheduledMinutes, err := models.ParseClockTime(scheduledTime)
		if err != nil {
			// Times are validated at the boundary; anything that slipped
			// through is skipped, never fatal.
			res.issues = append(res.issues, fmt.Sprintf("Invalid stored time %q", scheduledTime))
			continue
		}

		diff := scheduledMinutes - currentMinutes
		if diff < 0 {
			diff = -diff
		}

		res.user.TimeChecks = append(res.user.TimeChecks, models.TimeCheck{
			ScheduledTime:    scheduledTime,
			ScheduledMinutes: scheduledMinutes,
			CurrentMinutes:   currentMinutes,
			TimeDiff:         diff,
			Matches:          diff == 0,
		})

		// Exact match only: the tick cadence is one per minute, so a
		// tolerance window would need cross-tick de-duplication to avoid
		// double sends.
		if diff != 0 {
			continue
		}

		res.matches++
		res.attempted++

		payload := notification.Compose(foods, "", "")
		result := s.delivery.Send(ctx, sub, payload)

		res.user.Notifications = append(res.user.Notifications, models.NotificationOutcome{
			ScheduledTime:  scheduledTime,
			Timestamp:      s.now().UTC().Format(time.RFC3339),
			DeliveryResult: result,
		})

		if result.Success {
			res.succeeded++
		} else {
			res.failed++
			res.issues = append(res.issues, fmt.Sprintf(
				"Notification failed for %s: %s (status %d)", scheduledTime, result.Error, result.StatusCode))
		}
	}
	return res
}

// Run drives Tick on a fixed interval until ctx is cancelled, for local
// operation without an external cron service. The first tick waits for the
// next interval boundary so exact-match evaluation sees each minute once.
func (s *Scheduler) Run(ctx context.Context, interval time.Duration) {
	untilBoundary := time.Until(s.now().Truncate(interval).Add(interval))
	select {
	case <-ctx.Done():
		return
	case <-time.After(untilBoundary):
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		s.runOnce(ctx)
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (s *Scheduler) runOnce(ctx context.Context) {
	diag, err := s.Tick(ctx)
	if err != nil {
		log.Printf("WARN (Scheduler): Skipping tick: %v", err)
		return
	}
	if diag.Summary.TimeMatches > 0 {
		log.Printf("INFO (Scheduler): %d time matches, %d sent, %d failed",
			diag.Summary.TimeMatches, diag.Summary.NotificationsSucceeded, diag.Summary.NotificationsFailed)
	}
}
