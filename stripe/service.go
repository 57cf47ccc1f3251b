// Package stripe provides integration with the Stripe payment service,
// handling donation checkout sessions, billing portal sessions, and
// webhook events.
package stripe

import (
	"fmt"

	stripeapi "github.com/stripe/stripe-go/v82"
)

// Processor abstracts the Stripe API calls used by the service, so tests can
// substitute a recording stub for the real client.
type Processor interface {
	NewCheckoutSession(params *stripeapi.CheckoutSessionParams) (*stripeapi.CheckoutSession, error)
	NewCustomer(params *stripeapi.CustomerParams) (*stripeapi.Customer, error)
	Customer(customerID string) (*stripeapi.Customer, error)
	NewPortalSession(params *stripeapi.BillingPortalSessionParams) (*stripeapi.BillingPortalSession, error)
	ValidateWebhookEvent(payload []byte, signatureHeader string) (*stripeapi.Event, error)
}

// Service provides the main business logic for Stripe operations
type Service struct {
	client  Processor
	catalog *PriceCatalog
	config  *Config
}

// NewService creates a new Stripe service
func NewService(config *Config, client Processor, catalog *PriceCatalog) (*Service, error) {
	if config == nil {
		return nil, fmt.Errorf("config is required")
	}
	if client == nil {
		return nil, fmt.Errorf("client is required")
	}
	if catalog == nil {
		return nil, fmt.Errorf("catalog is required")
	}

	return &Service{
		client:  client,
		catalog: catalog,
		config:  config,
	}, nil
}

// CreateOneTimeSession creates a payment-mode checkout session with an ad hoc
// line item priced at the requested amount. The amount is forwarded untouched,
// so the unit amount of the created session always equals the request exactly.
// Returns the session redirect URL.
func (s *Service) CreateOneTimeSession(amount int64, email, name string) (string, error) {
	params := &stripeapi.CheckoutSessionParams{
		Mode: stripeapi.String(string(stripeapi.CheckoutSessionModePayment)),
		LineItems: []*stripeapi.CheckoutSessionLineItemParams{
			{
				PriceData: &stripeapi.CheckoutSessionLineItemPriceDataParams{
					Currency:   stripeapi.String(string(stripeapi.CurrencyUSD)),
					UnitAmount: stripeapi.Int64(amount),
					ProductData: &stripeapi.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripeapi.String(fmt.Sprintf("One-Time Donation of $%.2f", float64(amount)/100)),
					},
				},
				Quantity: stripeapi.Int64(1),
			},
		},
		CustomerEmail: stripeapi.String(email),
		SuccessURL:    stripeapi.String(s.config.WebAppURL + successPath),
		CancelURL:     stripeapi.String(s.config.WebAppURL + cancelPath),
	}
	if name != "" {
		params.Metadata = map[string]string{"donor_name": name}
	}

	session, err := s.client.NewCheckoutSession(params)
	if err != nil {
		return "", err
	}
	return session.URL, nil
}

// CreateSubscriptionSession creates a subscription-mode checkout session for
// one of the fixed donation tiers. A new customer record is created on every
// call, matching the original service behavior (repeated calls with the same
// email create duplicate customer records on the Stripe side). The success
// redirect carries the new customer ID so the client can later request a
// billing portal session.
func (s *Service) CreateSubscriptionSession(amount int64, email, name string) (string, error) {
	priceID, ok := s.catalog.PriceID(amount)
	if !ok {
		return "", NewStripeError("price_not_found",
			fmt.Sprintf("no recurring price configured for amount %d", amount), nil)
	}

	customerParams := &stripeapi.CustomerParams{
		Email: stripeapi.String(email),
	}
	if name != "" {
		customerParams.Name = stripeapi.String(name)
	}
	customer, err := s.client.NewCustomer(customerParams)
	if err != nil {
		return "", err
	}

	params := &stripeapi.CheckoutSessionParams{
		Mode:     stripeapi.String(string(stripeapi.CheckoutSessionModeSubscription)),
		Customer: stripeapi.String(customer.ID),
		LineItems: []*stripeapi.CheckoutSessionLineItemParams{
			{
				Price:    stripeapi.String(priceID),
				Quantity: stripeapi.Int64(1),
			},
		},
		SuccessURL: stripeapi.String(fmt.Sprintf("%s%s?customerId=%s", s.config.WebAppURL, successPath, customer.ID)),
		CancelURL:  stripeapi.String(s.config.WebAppURL + cancelPath),
	}

	session, err := s.client.NewCheckoutSession(params)
	if err != nil {
		return "", err
	}
	return session.URL, nil
}

// CreatePortalSession creates a billing portal session for an existing
// customer and returns its redirect URL.
func (s *Service) CreatePortalSession(customerID string) (string, error) {
	params := &stripeapi.BillingPortalSessionParams{
		Customer:  stripeapi.String(customerID),
		ReturnURL: stripeapi.String(s.config.WebAppURL),
	}

	session, err := s.client.NewPortalSession(params)
	if err != nil {
		return "", err
	}
	return session.URL, nil
}
