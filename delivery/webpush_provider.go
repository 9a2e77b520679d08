package delivery

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	webpush "github.com/SherClockHolmes/webpush-go"

	"github.com/lakonic/mealping/models"
)

// Push services reject oversized diagnostics anyway; cap what we read back.
const maxErrorBodyBytes = 512

// WebPushProvider delivers messages over the Web Push protocol with VAPID
// authentication and payload encryption against the subscription's keys.
type WebPushProvider struct {
	publicKey  string
	privateKey string
	subscriber string
	ttl        int
	timeout    time.Duration
}

// NewWebPushProvider configures a provider with the server's VAPID key
// pair and contact subject (a mailto: or https: URL, required by push
// services). Every send is bounded by timeout.
func NewWebPushProvider(publicKey, privateKey, subscriber string, ttl int, timeout time.Duration) *WebPushProvider {
	return &WebPushProvider{
		publicKey:  publicKey,
		privateKey: privateKey,
		subscriber: subscriber,
		ttl:        ttl,
		timeout:    timeout,
	}
}

func (p *WebPushProvider) Send(ctx context.Context, sub models.Subscription, message []byte) error {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	resp, err := webpush.SendNotificationWithContext(ctx, message, &webpush.Subscription{
		Endpoint: sub.Endpoint,
		Keys: webpush.Keys{
			Auth:   sub.Keys.Auth,
			P256dh: sub.Keys.P256dh,
		},
	}, &webpush.Options{
		Subscriber:      p.subscriber,
		VAPIDPublicKey:  p.publicKey,
		VAPIDPrivateKey: p.privateKey,
		TTL:             p.ttl,
	})
	if err != nil {
		return fmt.Errorf("web push request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		return &StatusError{StatusCode: resp.StatusCode, Body: string(body)}
	}
	return nil
}
