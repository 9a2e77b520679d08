package delivery

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/lakonic/mealping/datastore"
	"github.com/lakonic/mealping/models"
)

const (
	endpointPreviewLen = 50
	bodyPreviewLen     = 100
	userIDPreviewLen   = 20
)

// DeliveryService sends composed payloads through a PushProvider and folds
// every outcome into a models.DeliveryResult value, so a batch evaluation
// never aborts on a single user's failure. A gone endpoint (404/410)
// additionally evicts the subscription from the registry.
type DeliveryService struct {
	registry *datastore.SubscriptionRegistry
	provider PushProvider
}

func NewDeliveryService(registry *datastore.SubscriptionRegistry, provider PushProvider) *DeliveryService {
	return &DeliveryService{
		registry: registry,
		provider: provider,
	}
}

// Send serializes payload and delivers it to sub's endpoint.
func (s *DeliveryService) Send(ctx context.Context, sub models.Subscription, payload models.NotificationPayload) models.DeliveryResult {
	endpoint := models.Truncate(sub.Endpoint, endpointPreviewLen)

	message, err := json.Marshal(payload)
	if err != nil {
		return models.DeliveryResult{
			Status:   models.DeliveryStatusTransient,
			Error:    "failed to serialize payload: " + err.Error(),
			Endpoint: endpoint,
		}
	}

	if err := s.provider.Send(ctx, sub, message); err != nil {
		return s.failureResult(sub, endpoint, err)
	}

	return models.DeliveryResult{
		Success:  true,
		Status:   models.DeliveryStatusSent,
		Message:  "Notification sent successfully",
		Endpoint: endpoint,
	}
}

// failureResult classifies a provider error. Gone endpoints will never
// accept another delivery, so their registry entry is removed as a side
// effect; everything else is transient and the subscription is retained.
func (s *DeliveryService) failureResult(sub models.Subscription, endpoint string, err error) models.DeliveryResult {
	result := models.DeliveryResult{
		Status:   models.DeliveryStatusTransient,
		Error:    err.Error(),
		Endpoint: endpoint,
	}

	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		return result
	}

	result.StatusCode = statusErr.StatusCode
	result.Body = models.Truncate(statusErr.Body, bodyPreviewLen)

	if statusErr.StatusCode == http.StatusNotFound || statusErr.StatusCode == http.StatusGone {
		userID := sub.UserID()
		s.registry.Remove(userID)
		log.Printf("INFO (Delivery): Removed gone subscription %s (status %d)",
			models.Truncate(userID, userIDPreviewLen), statusErr.StatusCode)

		result.Status = models.DeliveryStatusPermanent
		result.Removed = true
	}
	return result
}
