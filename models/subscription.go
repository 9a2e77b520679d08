package models

// Subscription is a browser push subscription: the push-service endpoint
// plus the client key material needed to encrypt payloads for it.
// The JSON shape matches what PushManager.subscribe() produces.
type Subscription struct {
	Endpoint string           `json:"endpoint"`
	Keys     SubscriptionKeys `json:"keys"`
}

type SubscriptionKeys struct {
	P256dh string `json:"p256dh"`
	Auth   string `json:"auth"`
}

// UserID derives the identifier that joins the subscription registry and
// the schedule store: the subscription's auth secret, falling back to the
// endpoint URL when no keys are present. The derivation is stable for a
// given browser subscription, so re-subscribing overwrites rather than
// duplicates a record. The same person subscribing from another browser or
// device gets a fresh identifier and an independent schedule; identity is
// tied to the transport, which is a known product limitation.
func (s Subscription) UserID() string {
	if s.Keys.Auth != "" {
		return s.Keys.Auth
	}
	return s.Endpoint
}

// Truncate shortens s to at most max characters, appending "..." when
// anything was cut. Used to keep identifiers, endpoints, and error bodies
// readable (and secrets unreadable) in logs and diagnostics.
func Truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
