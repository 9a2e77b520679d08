package models

// NotificationPayload is the JSON document delivered to the service worker.
// Field names mirror the Notification API options the worker passes to
// showNotification().
type NotificationPayload struct {
	Title   string               `json:"title"`
	Body    string               `json:"body"`
	Icon    string               `json:"icon"`
	Badge   string               `json:"badge"`
	Tag     string               `json:"tag"`
	Data    NotificationData     `json:"data"`
	Actions []NotificationAction `json:"actions"`
}

// NotificationData rides along with the notification so the client can
// reconcile a tapped action: the route to open and every food id the
// reminder referenced, including the ones that did not fit as buttons.
type NotificationData struct {
	URL   string   `json:"url"`
	Foods []string `json:"foods"`
}

// NotificationAction is one button on the notification.
type NotificationAction struct {
	Action string `json:"action"`
	Title  string `json:"title"`
}
