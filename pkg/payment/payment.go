package payment

import (
	"context"
	"errors"
)

const (
	EventPaymentSucceeded = "payment_intent.succeeded"
	EventPaymentFailed    = "payment_intent.payment_failed"
)

var ErrSignatureInvalid = errors.New("webhook signature invalid")

// IntentRequest asks the gateway to authorize a payment. Metadata is echoed
// back verbatim on the callback and is the only link between the external
// event and the purchase it settles.
type IntentRequest struct {
	AmountCents int64
	Currency    string
	Metadata    map[string]string
}

type Intent struct {
	ID           string
	ClientSecret string
}

// Event is a verified gateway callback normalized to what the order
// pipeline consumes. Events of types the pipeline ignores carry only Type.
type Event struct {
	Type        string
	PaymentID   string
	AmountCents int64
	Currency    string
	Metadata    map[string]string
}

type Gateway interface {
	CreateIntent(ctx context.Context, req IntentRequest) (*Intent, error)
}

// WebhookVerifier authenticates a raw callback body against its signature
// header. Verification must run on the exact bytes received; nothing past
// this boundary may assume authenticity from any other signal.
type WebhookVerifier interface {
	VerifyAndParse(payload []byte, sigHeader string) (*Event, error)
}
