package stripe

import (
	"encoding/json"

	stripeapi "github.com/stripe/stripe-go/v82"
	"go.vocdoni.io/dvote/log"
)

// PaymentInfo represents the information extracted from a completed checkout
// session that is relevant for the donation receipt.
type PaymentInfo struct {
	SessionID   string
	Email       string
	Name        string
	AmountTotal int64
	Recurring   bool
	CustomerID  string
}

// ProcessWebhookEvent verifies and decodes a webhook payload. It returns the
// payment information of a completed checkout session with a resolved payer
// email, or nil when the event requires no action (unhandled event type, or a
// completed session whose payer email cannot be resolved). A non-nil error is
// only returned for signature validation or payload decoding failures.
func (s *Service) ProcessWebhookEvent(payload []byte, signatureHeader string) (*PaymentInfo, error) {
	event, err := s.client.ValidateWebhookEvent(payload, signatureHeader)
	if err != nil {
		return nil, err
	}

	if event.Type != stripeapi.EventTypeCheckoutSessionCompleted {
		log.Debugf("stripe webhook: received unhandled event type %s (id %s)", event.Type, event.ID)
		return nil, nil
	}

	info, err := parsePaymentFromEvent(event)
	if err != nil {
		return nil, err
	}

	// The session email can be absent for sessions created against an
	// existing customer record; fall back to retrieving the customer.
	if info.Email == "" && info.CustomerID != "" {
		customer, err := s.client.Customer(info.CustomerID)
		if err != nil {
			log.Warnw("stripe webhook: customer lookup failed",
				"customer", info.CustomerID, "session", info.SessionID, "error", err)
		} else {
			info.Email = customer.Email
			if info.Name == "" {
				info.Name = customer.Name
			}
		}
	}

	if info.Email == "" {
		log.Warnw("stripe webhook: could not resolve payer email, dropping notification",
			"session", info.SessionID, "customer", info.CustomerID)
		return nil, nil
	}

	return info, nil
}

// parsePaymentFromEvent extracts payment information from a webhook event
func parsePaymentFromEvent(event *stripeapi.Event) (*PaymentInfo, error) {
	var session stripeapi.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
		return nil, NewStripeError("invalid_event", "failed to parse checkout session from event", err)
	}

	info := &PaymentInfo{
		SessionID:   session.ID,
		AmountTotal: session.AmountTotal,
		Recurring:   session.Mode == stripeapi.CheckoutSessionModeSubscription,
	}
	if session.Customer != nil {
		info.CustomerID = session.Customer.ID
	}
	if session.CustomerDetails != nil {
		info.Email = session.CustomerDetails.Email
		info.Name = session.CustomerDetails.Name
	}
	if info.Email == "" {
		info.Email = session.CustomerEmail
	}

	return info, nil
}
