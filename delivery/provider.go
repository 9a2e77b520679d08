package delivery

import (
	"context"
	"fmt"

	"github.com/lakonic/mealping/models"
)

// PushProvider is the adapter interface for push transports. The real
// implementation speaks the Web Push protocol; tests substitute stubs.
type PushProvider interface {
	// Send transmits message to the subscription's endpoint. Non-2xx
	// responses from the push service surface as *StatusError.
	Send(ctx context.Context, sub models.Subscription, message []byte) error
}

// StatusError reports a non-2xx response from the push service, keeping
// the status code available for gone-endpoint detection.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("push service returned status %d: %s", e.StatusCode, e.Body)
}
