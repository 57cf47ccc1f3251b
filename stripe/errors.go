package stripe

import (
	"errors"
	"fmt"
)

// StripeError represents a Stripe-specific error
type StripeError struct {
	Code    string
	Message string
	Err     error
}

func (e *StripeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("stripe error [%s]: %s - %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("stripe error [%s]: %s", e.Code, e.Message)
}

func (e *StripeError) Unwrap() error {
	return e.Err
}

// NewStripeError creates a new StripeError with the given code, message, and underlying error
func NewStripeError(code, message string, err error) *StripeError {
	return &StripeError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// IsWebhookValidationError reports whether the error is a webhook signature
// validation failure.
func IsWebhookValidationError(err error) bool {
	var stripeErr *StripeError
	return errors.As(err, &stripeErr) && stripeErr.Code == "webhook_validation"
}

// IsPriceNotFound reports whether the error is a donation amount with no
// matching catalog price.
func IsPriceNotFound(err error) bool {
	var stripeErr *StripeError
	return errors.As(err, &stripeErr) && stripeErr.Code == "price_not_found"
}
