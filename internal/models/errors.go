package models

import "errors"

var (
	// ErrConfiguration marks a missing API key. Only the feature that needs
	// the key is disabled.
	ErrConfiguration = errors.New("configuration error")

	// ErrNetwork covers transport failures and malformed weather/geocoding responses.
	ErrNetwork = errors.New("network error")

	// ErrAssistant covers any failure while fetching a schedule suggestion.
	ErrAssistant = errors.New("assistant error")

	ErrInvalidEvent = errors.New("invalid event")

	ErrLocationDenied  = errors.New("location denied")
	ErrLocationPending = errors.New("location pending")
)
