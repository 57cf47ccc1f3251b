package api

// DonationRequest is the request body of both checkout session endpoints.
// Amount is expressed in minor currency units (cents).
type DonationRequest struct {
	Amount int64  `json:"amount"`
	Email  string `json:"email"`
	Name   string `json:"name,omitempty"`
}

// PortalSessionRequest is the request body of the billing portal endpoint.
type PortalSessionRequest struct {
	CustomerID string `json:"customerId"`
}

// SessionResponse carries the redirect URL of a created session.
type SessionResponse struct {
	URL string `json:"url"`
}

// WebhookResponse acknowledges a webhook delivery.
type WebhookResponse struct {
	Received bool `json:"received"`
}
