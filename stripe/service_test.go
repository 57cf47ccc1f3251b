package stripe

import (
	"fmt"
	"strings"
	"testing"

	qt "github.com/frankban/quicktest"
	stripeapi "github.com/stripe/stripe-go/v82"
	stripewebhook "github.com/stripe/stripe-go/v82/webhook"
)

const testWebhookSecret = "whsec_test_secret"

// stubProcessor records every Stripe API call without reaching the network.
type stubProcessor struct {
	checkoutCalls []*stripeapi.CheckoutSessionParams
	customerCalls []*stripeapi.CustomerParams
	portalCalls   []*stripeapi.BillingPortalSessionParams
	customers     map[string]*stripeapi.Customer
	checkoutErr   error
}

func (p *stubProcessor) NewCheckoutSession(params *stripeapi.CheckoutSessionParams) (*stripeapi.CheckoutSession, error) {
	p.checkoutCalls = append(p.checkoutCalls, params)
	if p.checkoutErr != nil {
		return nil, p.checkoutErr
	}
	return &stripeapi.CheckoutSession{ID: "cs_test_123", URL: "https://checkout.stripe.test/session"}, nil
}

func (p *stubProcessor) NewCustomer(params *stripeapi.CustomerParams) (*stripeapi.Customer, error) {
	p.customerCalls = append(p.customerCalls, params)
	customer := &stripeapi.Customer{ID: fmt.Sprintf("cus_test_%d", len(p.customerCalls))}
	if params.Email != nil {
		customer.Email = *params.Email
	}
	return customer, nil
}

func (p *stubProcessor) Customer(customerID string) (*stripeapi.Customer, error) {
	customer, ok := p.customers[customerID]
	if !ok {
		return nil, NewStripeError("api_call_failed", "failed to get customer", nil)
	}
	return customer, nil
}

func (p *stubProcessor) NewPortalSession(params *stripeapi.BillingPortalSessionParams) (*stripeapi.BillingPortalSession, error) {
	p.portalCalls = append(p.portalCalls, params)
	return &stripeapi.BillingPortalSession{URL: "https://billing.stripe.test/portal"}, nil
}

func (*stubProcessor) ValidateWebhookEvent(payload []byte, signatureHeader string) (*stripeapi.Event, error) {
	event, err := stripewebhook.ConstructEventWithOptions(payload, signatureHeader, testWebhookSecret,
		stripewebhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true})
	if err != nil {
		return nil, NewStripeError("webhook_validation", "webhook signature validation failed", err)
	}
	return &event, nil
}

func testConfig() *Config {
	return &Config{
		APIKey:        "sk_test_123",
		WebhookSecret: testWebhookSecret,
		WebAppURL:     "https://donate.test",
		Prices: map[int64]string{
			TierSmall:  "price_small",
			TierMedium: "price_medium",
			TierLarge:  "price_large",
			TierMajor:  "price_major",
		},
	}
}

func testService(t *testing.T) (*Service, *stubProcessor) {
	t.Helper()
	config := testConfig()
	processor := &stubProcessor{customers: map[string]*stripeapi.Customer{}}
	service, err := NewService(config, processor, NewPriceCatalog(config))
	qt.Assert(t, err, qt.IsNil)
	return service, processor
}

func TestCreateOneTimeSession(t *testing.T) {
	c := qt.New(t)
	service, processor := testService(t)

	url, err := service.CreateOneTimeSession(500, "a@b.com", "")
	c.Assert(err, qt.IsNil)
	c.Assert(url, qt.Equals, "https://checkout.stripe.test/session")

	// exactly one session-create call with the amount forwarded untouched
	c.Assert(processor.checkoutCalls, qt.HasLen, 1)
	params := processor.checkoutCalls[0]
	c.Assert(*params.Mode, qt.Equals, string(stripeapi.CheckoutSessionModePayment))
	c.Assert(*params.CustomerEmail, qt.Equals, "a@b.com")
	c.Assert(params.LineItems, qt.HasLen, 1)
	c.Assert(*params.LineItems[0].PriceData.UnitAmount, qt.Equals, int64(500))
	c.Assert(*params.LineItems[0].PriceData.Currency, qt.Equals, "usd")
	c.Assert(*params.SuccessURL, qt.Equals, "https://donate.test/donation/success")
	c.Assert(*params.CancelURL, qt.Equals, "https://donate.test/donation/cancelled")

	// no customer record is created for one-time donations
	c.Assert(processor.customerCalls, qt.HasLen, 0)
}

func TestCreateOneTimeSessionAmountRoundTrip(t *testing.T) {
	c := qt.New(t)
	service, processor := testService(t)

	// whole-cent amounts survive the cents -> dollars -> cents display
	// formatting without rounding drift
	for _, amount := range []int64{1, 99, 500, 2500, 123456} {
		_, err := service.CreateOneTimeSession(amount, "a@b.com", "")
		c.Assert(err, qt.IsNil)
		params := processor.checkoutCalls[len(processor.checkoutCalls)-1]
		c.Assert(*params.LineItems[0].PriceData.UnitAmount, qt.Equals, amount)
		dollars := fmt.Sprintf("%.2f", float64(amount)/100)
		c.Assert(*params.LineItems[0].PriceData.ProductData.Name, qt.Contains, dollars)
	}
}

func TestCreateSubscriptionSession(t *testing.T) {
	c := qt.New(t)
	service, processor := testService(t)

	url, err := service.CreateSubscriptionSession(2500, "donor@example.com", "Donor")
	c.Assert(err, qt.IsNil)
	c.Assert(url, qt.Equals, "https://checkout.stripe.test/session")

	// a new customer is created on every call
	c.Assert(processor.customerCalls, qt.HasLen, 1)
	c.Assert(*processor.customerCalls[0].Email, qt.Equals, "donor@example.com")
	c.Assert(*processor.customerCalls[0].Name, qt.Equals, "Donor")

	c.Assert(processor.checkoutCalls, qt.HasLen, 1)
	params := processor.checkoutCalls[0]
	c.Assert(*params.Mode, qt.Equals, string(stripeapi.CheckoutSessionModeSubscription))
	c.Assert(*params.Customer, qt.Equals, "cus_test_1")
	c.Assert(params.LineItems, qt.HasLen, 1)
	c.Assert(*params.LineItems[0].Price, qt.Equals, "price_medium")
	// the success redirect carries the new customer identifier
	c.Assert(strings.Contains(*params.SuccessURL, "customerId=cus_test_1"), qt.IsTrue)
}

func TestCreateSubscriptionSessionDuplicatesCustomers(t *testing.T) {
	c := qt.New(t)
	service, processor := testService(t)

	// repeated calls with the same email create duplicate customer records,
	// matching the original service behavior
	for i := 0; i < 3; i++ {
		_, err := service.CreateSubscriptionSession(500, "repeat@example.com", "")
		c.Assert(err, qt.IsNil)
	}
	c.Assert(processor.customerCalls, qt.HasLen, 3)
}

func TestCreateSubscriptionSessionInvalidAmount(t *testing.T) {
	c := qt.New(t)
	service, processor := testService(t)

	for _, amount := range []int64{0, -500, 100, 9300} {
		_, err := service.CreateSubscriptionSession(amount, "a@b.com", "")
		c.Assert(err, qt.IsNotNil)
		c.Assert(IsPriceNotFound(err), qt.IsTrue)
	}
	// no customer was created for any rejected amount
	c.Assert(processor.customerCalls, qt.HasLen, 0)
	c.Assert(processor.checkoutCalls, qt.HasLen, 0)
}

func TestCreatePortalSession(t *testing.T) {
	c := qt.New(t)
	service, processor := testService(t)

	url, err := service.CreatePortalSession("cus_abc")
	c.Assert(err, qt.IsNil)
	c.Assert(url, qt.Equals, "https://billing.stripe.test/portal")
	c.Assert(processor.portalCalls, qt.HasLen, 1)
	c.Assert(*processor.portalCalls[0].Customer, qt.Equals, "cus_abc")
	c.Assert(*processor.portalCalls[0].ReturnURL, qt.Equals, "https://donate.test")
}

func TestPriceCatalog(t *testing.T) {
	c := qt.New(t)
	catalog := NewPriceCatalog(testConfig())

	c.Assert(catalog.Amounts(), qt.DeepEquals, []int64{500, 2500, 5000, 9200})
	priceID, ok := catalog.PriceID(9200)
	c.Assert(ok, qt.IsTrue)
	c.Assert(priceID, qt.Equals, "price_major")
	_, ok = catalog.PriceID(9201)
	c.Assert(ok, qt.IsFalse)
}
