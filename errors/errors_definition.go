// Package errors provides custom error types and definitions for the application.
//
//nolint:lll
package errors

import (
	"fmt"
	"net/http"
)

// The custom Error type satisfies the error interface.
// Error() returns a human-readable description of the error.
//
// Error codes in the 40001-49999 range are the caller's fault
// and they return HTTP Status 400.
//
// Error codes 50001-59999 are the server's (or an upstream provider's) fault
// and they return HTTP Status 500.
//
// NEVER change any of the current error codes, only append new errors after
// the current last 4XXX or 5XXX. The upstream message is passed through to the
// caller via WithErr/Withf, matching the behavior of the original service.
var (
	// Validation errors (400)
	ErrMalformedBody      = Error{Code: 40001, HTTPstatus: http.StatusBadRequest, Err: fmt.Errorf("invalid JSON request body")}
	ErrEmailRequired      = Error{Code: 40002, HTTPstatus: http.StatusBadRequest, Err: fmt.Errorf("Email is required")}
	ErrInvalidAmount      = Error{Code: 40003, HTTPstatus: http.StatusBadRequest, Err: fmt.Errorf("donation amount must be a positive number of cents")}
	ErrNoCustomerProvided = Error{Code: 40004, HTTPstatus: http.StatusBadRequest, Err: fmt.Errorf("customerId is required")}

	// Upstream errors (500)
	ErrInvalidDonationAmount = Error{Code: 50001, HTTPstatus: http.StatusInternalServerError, Err: fmt.Errorf("Invalid donation amount"), LogLevel: "warn"}
	ErrStripeError           = Error{Code: 50002, HTTPstatus: http.StatusInternalServerError, Err: fmt.Errorf("server error: payment processing failed"), LogLevel: "error"}
	ErrMailError             = Error{Code: 50003, HTTPstatus: http.StatusInternalServerError, Err: fmt.Errorf("server error: mail delivery failed"), LogLevel: "error"}
)
