package errors

import "fmt"

// ErrShopNotFound is returned when no credentials are stored for a shop
type ErrShopNotFound struct {
	ShopDomain string
}

func (e *ErrShopNotFound) Error() string {
	return fmt.Sprintf("shop not found: %s (install the app first)", e.ShopDomain)
}

// ErrPrecondition is returned when a workflow precondition is not met
// (e.g. marking campaign promise met on an unfulfilled order)
type ErrPrecondition struct {
	Message string
}

func (e *ErrPrecondition) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return "precondition failed"
}

// ErrUpstream is returned when a Shopify call on the critical path fails.
// Message carries Shopify's own error text when available so the caller
// sees the upstream reason instead of a generic one.
type ErrUpstream struct {
	Operation string
	Message   string
	Err       error
}

func (e *ErrUpstream) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("%s failed", e.Operation)
}

func (e *ErrUpstream) Unwrap() error {
	return e.Err
}

// ErrValidation is returned when request validation fails
type ErrValidation struct {
	Message string
}

func (e *ErrValidation) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return "validation failed"
}

// ErrNoLocation is returned when a restock cannot resolve any stock location
type ErrNoLocation struct {
	ShopifyOrderID int64
}

func (e *ErrNoLocation) Error() string {
	return fmt.Sprintf("no location found for restocking order %d", e.ShopifyOrderID)
}
