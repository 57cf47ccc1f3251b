package api

import (
	"bytes"
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"sync"
	"testing"
	"time"

	qt "github.com/frankban/quicktest"
	"github.com/kindfund/donations-backend/donations"
	"github.com/kindfund/donations-backend/notifications"
	"github.com/kindfund/donations-backend/notifications/mailtemplates"
	"github.com/kindfund/donations-backend/stripe"
	stripeapi "github.com/stripe/stripe-go/v82"
	stripewebhook "github.com/stripe/stripe-go/v82/webhook"
	"go.vocdoni.io/dvote/log"
)

const (
	testWebhookSecret = "whsec_test_secret"
	testAdminAddress  = "admin@kindfund.test"
	testThrottle      = 5 * time.Millisecond
)

func TestMain(m *testing.M) {
	log.Init("debug", "stdout", nil)
	if err := mailtemplates.Load(); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

// mockProcessor implements stripe.Processor recording every call. Webhook
// signature validation is delegated to the real verification code against the
// test secret.
type mockProcessor struct {
	mtx           sync.Mutex
	checkoutCalls []*stripeapi.CheckoutSessionParams
	customerCalls []*stripeapi.CustomerParams
	portalCalls   []*stripeapi.BillingPortalSessionParams
}

func (p *mockProcessor) NewCheckoutSession(params *stripeapi.CheckoutSessionParams) (*stripeapi.CheckoutSession, error) {
	p.mtx.Lock()
	defer p.mtx.Unlock()
	p.checkoutCalls = append(p.checkoutCalls, params)
	return &stripeapi.CheckoutSession{ID: "cs_test_123", URL: "https://checkout.stripe.test/session"}, nil
}

func (p *mockProcessor) NewCustomer(params *stripeapi.CustomerParams) (*stripeapi.Customer, error) {
	p.mtx.Lock()
	defer p.mtx.Unlock()
	p.customerCalls = append(p.customerCalls, params)
	return &stripeapi.Customer{ID: fmt.Sprintf("cus_test_%d", len(p.customerCalls))}, nil
}

func (*mockProcessor) Customer(string) (*stripeapi.Customer, error) {
	return nil, stripe.NewStripeError("api_call_failed", "failed to get customer", nil)
}

func (p *mockProcessor) NewPortalSession(params *stripeapi.BillingPortalSessionParams) (*stripeapi.BillingPortalSession, error) {
	p.mtx.Lock()
	defer p.mtx.Unlock()
	p.portalCalls = append(p.portalCalls, params)
	return &stripeapi.BillingPortalSession{URL: "https://billing.stripe.test/portal"}, nil
}

func (*mockProcessor) ValidateWebhookEvent(payload []byte, signatureHeader string) (*stripeapi.Event, error) {
	event, err := stripewebhook.ConstructEventWithOptions(payload, signatureHeader, testWebhookSecret,
		stripewebhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true})
	if err != nil {
		return nil, stripe.NewStripeError("webhook_validation", "webhook signature validation failed", err)
	}
	return &event, nil
}

func (p *mockProcessor) checkoutCount() int {
	p.mtx.Lock()
	defer p.mtx.Unlock()
	return len(p.checkoutCalls)
}

func (p *mockProcessor) customerCount() int {
	p.mtx.Lock()
	defer p.mtx.Unlock()
	return len(p.customerCalls)
}

func (p *mockProcessor) portalCount() int {
	p.mtx.Lock()
	defer p.mtx.Unlock()
	return len(p.portalCalls)
}

// recorderMailService implements notifications.NotificationService in memory.
type recorderMailService struct {
	mtx  sync.Mutex
	sent []*notifications.Notification
}

func (*recorderMailService) New(any) error { return nil }

func (r *recorderMailService) SendNotification(_ context.Context, n *notifications.Notification) error {
	r.mtx.Lock()
	defer r.mtx.Unlock()
	r.sent = append(r.sent, n)
	return nil
}

func (r *recorderMailService) sentCount() int {
	r.mtx.Lock()
	defer r.mtx.Unlock()
	return len(r.sent)
}

func (r *recorderMailService) sentTo() []string {
	r.mtx.Lock()
	defer r.mtx.Unlock()
	addresses := make([]string, 0, len(r.sent))
	for _, n := range r.sent {
		addresses = append(addresses, n.ToAddress)
	}
	return addresses
}

// testAPI wires a complete API over mocks, with the dispatch queue running.
type testAPI struct {
	api       *API
	processor *mockProcessor
	mail      *recorderMailService
	queue     *donations.Queue
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	config := &stripe.Config{
		APIKey:        "sk_test_123",
		WebhookSecret: testWebhookSecret,
		WebAppURL:     "https://donate.test",
		Prices: map[int64]string{
			stripe.TierSmall:  "price_small",
			stripe.TierMedium: "price_medium",
			stripe.TierLarge:  "price_large",
			stripe.TierMajor:  "price_major",
		},
	}
	processor := &mockProcessor{}
	service, err := stripe.NewService(config, processor, stripe.NewPriceCatalog(config))
	qt.Assert(t, err, qt.IsNil)

	mail := &recorderMailService{}
	mailer := donations.NewMailer(mail, service, testAdminAddress)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	queue := donations.NewQueue(ctx, testThrottle, mailer)
	go queue.Start()

	return &testAPI{
		api:       New(&Config{Host: "127.0.0.1", Port: 0, Stripe: service, Queue: queue}),
		processor: processor,
		mail:      mail,
		queue:     queue,
	}
}

// postJSON performs a JSON POST against the router and returns the recorded
// response.
func (ta *testAPI) postJSON(t *testing.T, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	qt.Assert(t, err, qt.IsNil)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	ta.api.Router().ServeHTTP(w, req)
	return w
}

// postWebhook posts a raw payload with the given Stripe-Signature header.
func (ta *testAPI) postWebhook(t *testing.T, payload []byte, signature string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, webhookEndpoint, bytes.NewReader(payload))
	if signature != "" {
		req.Header.Set("Stripe-Signature", signature)
	}
	w := httptest.NewRecorder()
	ta.api.Router().ServeHTTP(w, req)
	return w
}

// awaitReceipt waits for the queue to publish the next processed receipt.
func (ta *testAPI) awaitReceipt(t *testing.T) *donations.Receipt {
	t.Helper()
	select {
	case receipt := <-ta.queue.Sent:
		return receipt
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for receipt dispatch")
		return nil
	}
}

func decodeJSON[T any](t *testing.T, body io.Reader) T {
	t.Helper()
	var decoded T
	qt.Assert(t, json.NewDecoder(body).Decode(&decoded), qt.IsNil)
	return decoded
}

// signPayload signs a webhook payload with the test secret.
func signPayload(t *testing.T, payload []byte) string {
	t.Helper()
	now := time.Now()
	signature := stripewebhook.ComputeSignature(now, payload, testWebhookSecret)
	return fmt.Sprintf("t=%d,v1=%s", now.Unix(), hex.EncodeToString(signature))
}

// checkoutCompletedPayload builds a signed checkout.session.completed payload
// from a real checkout session object.
func checkoutCompletedPayload(t *testing.T, session *stripeapi.CheckoutSession) ([]byte, string) {
	t.Helper()
	rawSession, err := json.Marshal(session)
	qt.Assert(t, err, qt.IsNil)
	var object map[string]any
	qt.Assert(t, json.Unmarshal(rawSession, &object), qt.IsNil)
	payload, err := json.Marshal(map[string]any{
		"id":   "evt_test_checkout_completed",
		"type": "checkout.session.completed",
		"data": map[string]any{"object": object},
	})
	qt.Assert(t, err, qt.IsNil)
	return payload, signPayload(t, payload)
}
