// Package services holds the business logic between controllers and
// repositories.
package services

import "errors"

// Domain errors. Controllers map these to HTTP codes with errors.Is.
var (
	// ErrEmptyCart rejects a checkout on an absent or empty cart.
	ErrEmptyCart = errors.New("cart is empty")

	// ErrInvalidStatus rejects a status outside the closed enumeration.
	ErrInvalidStatus = errors.New("invalid order status")

	// ErrTerminalState rejects a transition out of Delivered, Cancelled
	// or Returned.
	ErrTerminalState = errors.New("order is in a terminal state")

	// ErrOrderNotFound means no order matches the given id or code.
	ErrOrderNotFound = errors.New("order not found")

	// ErrDuplicateOrderCode means the store rejected an already-issued
	// code. The whole checkout is safe to retry.
	ErrDuplicateOrderCode = errors.New("duplicate order code")

	// ErrCartUnavailable means the cart store could not be read.
	ErrCartUnavailable = errors.New("cart unavailable")

	// ErrCartItemNotFound means the cart has no line with the given id.
	ErrCartItemNotFound = errors.New("cart item not found")

	// ErrProductNotFound means the referenced catalogue product is absent.
	ErrProductNotFound = errors.New("product not found")

	// ErrInvalidCredentials covers unknown email or wrong password.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrEmailTaken rejects registration with an existing email.
	ErrEmailTaken = errors.New("email already registered")
)
