package models

// DeliveryStatus classifies the outcome of a single push send.
type DeliveryStatus string

const (
	// DeliveryStatusSent means the push service accepted the message.
	DeliveryStatusSent DeliveryStatus = "sent"
	// DeliveryStatusTransient covers network failures, 5xx responses, rate
	// limits, and timeouts. The subscription is kept for future ticks.
	DeliveryStatusTransient DeliveryStatus = "transient_failure"
	// DeliveryStatusPermanent means the push service reported the endpoint
	// gone (404/410); the subscription has been evicted from the registry.
	DeliveryStatusPermanent DeliveryStatus = "permanent_failure"
)

// DeliveryResult reports one push attempt as a value. Delivery never
// raises past the gateway boundary, so a batch evaluation can carry on
// across users and aggregate these.
type DeliveryResult struct {
	Success    bool           `json:"success"`
	Status     DeliveryStatus `json:"status"`
	Message    string         `json:"message,omitempty"`
	Error      string         `json:"error,omitempty"`
	StatusCode int            `json:"statusCode,omitempty"`
	Body       string         `json:"body,omitempty"`
	// Endpoint is truncated for observability; never the full URL.
	Endpoint string `json:"endpoint"`
	Removed  bool   `json:"subscriptionRemoved,omitempty"`
}
