package stripe

import (
	"net/http"
	"time"

	stripeapi "github.com/stripe/stripe-go/v82"
	stripeportalsession "github.com/stripe/stripe-go/v82/billingportal/session"
	stripecheckoutsession "github.com/stripe/stripe-go/v82/checkout/session"
	stripecustomer "github.com/stripe/stripe-go/v82/customer"
	stripewebhook "github.com/stripe/stripe-go/v82/webhook"
)

// Client wraps the Stripe API client with additional functionality
type Client struct {
	config     *Config
	httpClient *http.Client
}

// NewClient creates a new Stripe client with the given configuration
func NewClient(config *Config) *Client {
	stripeapi.Key = config.APIKey

	return &Client{
		config: config,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// ValidateWebhookEvent validates and parses a webhook event
func (c *Client) ValidateWebhookEvent(payload []byte, signatureHeader string) (*stripeapi.Event, error) {
	event, err := stripewebhook.ConstructEventWithOptions(payload, signatureHeader, c.config.WebhookSecret,
		stripewebhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true})
	if err != nil {
		return nil, NewStripeError("webhook_validation", "webhook signature validation failed", err)
	}
	return &event, nil
}

// NewCheckoutSession creates a checkout session.
// Overview of stripe checkout mechanics: https://docs.stripe.com/checkout/custom/quickstart
// API description https://docs.stripe.com/api/checkout/sessions
func (*Client) NewCheckoutSession(params *stripeapi.CheckoutSessionParams) (*stripeapi.CheckoutSession, error) {
	session, err := stripecheckoutsession.New(params)
	if err != nil {
		return nil, NewStripeError("api_call_failed", "failed to create checkout session", err)
	}
	return session, nil
}

// NewCustomer creates a new customer record
func (*Client) NewCustomer(params *stripeapi.CustomerParams) (*stripeapi.Customer, error) {
	customer, err := stripecustomer.New(params)
	if err != nil {
		return nil, NewStripeError("api_call_failed", "failed to create customer", err)
	}
	return customer, nil
}

// Customer retrieves a customer by ID
func (*Client) Customer(customerID string) (*stripeapi.Customer, error) {
	params := &stripeapi.CustomerParams{}
	customer, err := stripecustomer.Get(customerID, params)
	if err != nil {
		return nil, NewStripeError("api_call_failed", "failed to get customer", err)
	}
	return customer, nil
}

// NewPortalSession creates a billing portal session for a customer
func (*Client) NewPortalSession(params *stripeapi.BillingPortalSessionParams) (*stripeapi.BillingPortalSession, error) {
	session, err := stripeportalsession.New(params)
	if err != nil {
		return nil, NewStripeError("api_call_failed", "failed to create portal session", err)
	}
	return session, nil
}
