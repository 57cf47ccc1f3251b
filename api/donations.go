package api

import (
	"encoding/json"
	"net/http"

	"github.com/kindfund/donations-backend/errors"
	"github.com/kindfund/donations-backend/stripe"
	"go.vocdoni.io/dvote/log"
)

// createCheckoutSessionHandler creates a one-time donation checkout session
// and returns its redirect URL. The amount is forwarded to the processor
// untouched; non-positive amounts are rejected here instead of letting the
// processor reject them with a less clear message.
func (a *API) createCheckoutSessionHandler(w http.ResponseWriter, r *http.Request) {
	req := &DonationRequest{}
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		errors.ErrMalformedBody.Write(w)
		return
	}
	if req.Email == "" {
		errors.ErrEmailRequired.Write(w)
		return
	}
	if req.Amount <= 0 {
		errors.ErrInvalidAmount.Write(w)
		return
	}

	url, err := a.stripe.CreateOneTimeSession(req.Amount, req.Email, req.Name)
	if err != nil {
		log.Warnw("failed to create checkout session", "error", err)
		errors.ErrStripeError.WithErr(err).Write(w)
		return
	}

	httpWriteJSON(w, &SessionResponse{URL: url})
}

// createSubscriptionSessionHandler creates a recurring donation checkout
// session for one of the fixed donation tiers and returns its redirect URL.
func (a *API) createSubscriptionSessionHandler(w http.ResponseWriter, r *http.Request) {
	req := &DonationRequest{}
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		errors.ErrMalformedBody.Write(w)
		return
	}
	if req.Email == "" {
		errors.ErrEmailRequired.Write(w)
		return
	}

	url, err := a.stripe.CreateSubscriptionSession(req.Amount, req.Email, req.Name)
	if err != nil {
		if stripe.IsPriceNotFound(err) {
			errors.ErrInvalidDonationAmount.Write(w)
			return
		}
		log.Warnw("failed to create subscription session", "error", err)
		errors.ErrStripeError.WithErr(err).Write(w)
		return
	}

	httpWriteJSON(w, &SessionResponse{URL: url})
}

// createPortalSessionHandler creates a billing portal session for an existing
// customer and returns its redirect URL.
func (a *API) createPortalSessionHandler(w http.ResponseWriter, r *http.Request) {
	req := &PortalSessionRequest{}
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		errors.ErrMalformedBody.Write(w)
		return
	}
	if req.CustomerID == "" {
		errors.ErrNoCustomerProvided.Write(w)
		return
	}

	url, err := a.stripe.CreatePortalSession(req.CustomerID)
	if err != nil {
		log.Warnw("failed to create portal session", "error", err)
		errors.ErrStripeError.WithErr(err).Write(w)
		return
	}

	httpWriteJSON(w, &SessionResponse{URL: url})
}
