package domain

import (
	"errors"
	"strings"
)

var (
	ErrConfigurationNotFound = errors.New("configuration not found")
	ErrOrderNotFound         = errors.New("order not found")
	ErrPaymentPending        = errors.New("payment not yet received")
	ErrNotLoggedIn           = errors.New("you need to be logged in")
	ErrInvalidOption         = errors.New("invalid option")
	ErrInvalidStatus         = errors.New("invalid order status")
	ErrOrderNotPaid          = errors.New("order is not paid")
	ErrIncompleteAddress     = errors.New("incomplete address")
	ErrMissingEmail          = errors.New("missing user email")
	ErrInvalidMetadata       = errors.New("invalid request metadata")
	ErrDesignNotSaved        = errors.New("there was a problem saving your config, please try again")
	ErrForeignImageURL       = errors.New("image url is not served by this store")
)

// IncompleteAddressError lists the address fields the payment provider left empty.
type IncompleteAddressError struct {
	Kind    string
	Missing []string
}

func (e *IncompleteAddressError) Error() string {
	return "incomplete " + e.Kind + " address: missing " + strings.Join(e.Missing, ", ")
}

func (e *IncompleteAddressError) Unwrap() error { return ErrIncompleteAddress }
