package api

import (
	"io"
	"net/http"

	"github.com/kindfund/donations-backend/donations"
	"github.com/kindfund/donations-backend/stripe"
	"go.vocdoni.io/dvote/log"
)

// MaxBodyBytes caps the webhook request body size.
const MaxBodyBytes = int64(65536)

// webhookHandler processes incoming webhook events from Stripe. The body is
// read raw, without JSON middleware, since the signature is computed over the
// exact payload bytes. Once the signature is verified the response is always
// an acknowledgment: notification dispatch happens in the background queue
// and its outcome never affects the response already committed here, so
// redelivery does not depend on email-provider uptime.
func (a *API) webhookHandler(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)
	payload, err := io.ReadAll(r.Body)
	if err != nil {
		log.Errorf("stripe webhook: error reading request body: %s", err.Error())
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	signatureHeader := r.Header.Get("Stripe-Signature")
	if signatureHeader == "" {
		log.Errorf("stripe webhook: missing Stripe-Signature header")
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	info, err := a.stripe.ProcessWebhookEvent(payload, signatureHeader)
	if err != nil {
		log.Errorf("stripe webhook: failed to process event: %v", err)
		if stripe.IsWebhookValidationError(err) {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		// The signature was valid but the payload could not be decoded;
		// acknowledge to prevent redelivery storms.
		httpWriteJSON(w, &WebhookResponse{Received: true})
		return
	}

	if info != nil {
		if err := a.queue.Push(&donations.Receipt{
			Email:      info.Email,
			Name:       info.Name,
			Amount:     info.AmountTotal,
			Recurring:  info.Recurring,
			CustomerID: info.CustomerID,
		}); err != nil {
			log.Warnw("failed to enqueue donation receipt", "error", err)
		}
	}

	httpWriteJSON(w, &WebhookResponse{Received: true})
}
