package models

// TickDiagnostics is the full report of one evaluator pass. It is returned
// to the cron caller so operators can verify delivery from the HTTP
// response alone, without server-side log access.
type TickDiagnostics struct {
	RunID                 string           `json:"runId"`
	Timestamp             string           `json:"timestamp"`
	CurrentTime           string           `json:"currentTime"`
	SubscriptionsInMemory int              `json:"subscriptionsInMemory"`
	SchedulesInMemory     int              `json:"schedulesInMemory"`
	Users                 []UserDiagnostic `json:"subscriptions"`
	Summary               TickSummary      `json:"summary"`
	Issues                []string         `json:"issues"`
}

// TickSummary aggregates counts across every user in the pass.
type TickSummary struct {
	SubscriptionsChecked       int `json:"subscriptionsChecked"`
	SubscriptionsWithSchedules int `json:"subscriptionsWithSchedules"`
	TimeChecks                 int `json:"schedulesChecked"`
	TimeMatches                int `json:"timeMatches"`
	NotificationsAttempted     int `json:"notificationsAttempted"`
	NotificationsSucceeded     int `json:"notificationsSucceeded"`
	NotificationsFailed        int `json:"notificationsFailed"`
}

// UserDiagnostic records everything the evaluator did for one registry
// entry: which times were checked, how far each was from the current
// minute, and the outcome of every attempted delivery. Identifier and
// endpoint are truncated.
type UserDiagnostic struct {
	UserID        string                `json:"userId"`
	Endpoint      string                `json:"endpoint"`
	HasSchedule   bool                  `json:"hasSchedule"`
	ScheduleTimes []string              `json:"scheduleTimes"`
	TimeChecks    []TimeCheck           `json:"timeChecks"`
	Notifications []NotificationOutcome `json:"notifications"`
	Issues        []string              `json:"issues,omitempty"`
}

// TimeCheck records a single scheduled-time comparison. TimeDiff is the
// absolute minute distance from the current time, kept for debugging
// near-misses; a match requires it to be exactly zero.
type TimeCheck struct {
	ScheduledTime    string `json:"scheduledTime"`
	ScheduledMinutes int    `json:"scheduledMinutes"`
	CurrentMinutes   int    `json:"currentMinutes"`
	TimeDiff         int    `json:"timeDiff"`
	Matches          bool   `json:"matches"`
}

// NotificationOutcome is one attempted delivery within a tick.
type NotificationOutcome struct {
	ScheduledTime string `json:"scheduledTime"`
	Timestamp     string `json:"timestamp"`
	DeliveryResult
}
