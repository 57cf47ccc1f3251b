package api

const (
	// POST /create-checkout-session to create a one-time donation session
	createCheckoutSessionEndpoint = "/create-checkout-session"
	// POST /create-subscription-session to create a recurring donation session
	createSubscriptionSessionEndpoint = "/create-subscription-session"
	// POST /create-customer-portal-session to create a billing portal session
	createPortalSessionEndpoint = "/create-customer-portal-session"
	// POST /webhook to receive stripe events
	webhookEndpoint = "/webhook"
	// GET /ping to check the server is up
	pingEndpoint = "/ping"
)
