package domain

import "errors"

var (
	// ErrSessionNotFound is returned for an unknown or torn down session.
	ErrSessionNotFound = errors.New("session not found")
	// ErrUnknownScreen is returned when a screen name cannot be parsed.
	ErrUnknownScreen = errors.New("unknown screen")
	// ErrNotAuthenticated is returned when an intent needs a signed-in user.
	ErrNotAuthenticated = errors.New("session is not authenticated")
	// ErrDestinationIncomplete is returned when location or arrive point is missing.
	ErrDestinationIncomplete = errors.New("destination is incomplete")
	// ErrMerchantClosed is returned when selecting a merchant that is not open.
	ErrMerchantClosed = errors.New("merchant is closed")
	// ErrNoMerchantSelected is returned by checkout without a selected merchant.
	ErrNoMerchantSelected = errors.New("no merchant selected")
	// ErrNoOrder is returned when an intent needs an order and none exists.
	ErrNoOrder = errors.New("session has no order")
	// ErrOrderNotDelivered is returned by unlock before the order is delivered.
	ErrOrderNotDelivered = errors.New("order is not delivered")
	// ErrInvalidPhone is returned for a phone number that is not 10 to 15 digits.
	ErrInvalidPhone = errors.New("invalid phone number")
	// ErrInvalidCode is returned for a malformed or wrong verification code.
	ErrInvalidCode = errors.New("invalid verification code")
	// ErrCodeNotSent is returned by verify when no code was issued for the phone.
	ErrCodeNotSent = errors.New("verification code was not sent")
	// ErrTooManyAttempts is returned once the issued code has been guessed too often.
	ErrTooManyAttempts = errors.New("too many verification attempts")
)
