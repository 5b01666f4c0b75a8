package errors

import "errors"

var (
	// Codec errors 🔐
	ErrInvalidKey = errors.New("❌ invalid key: key must not be empty")

	// Setup errors 🔎
	ErrKeyRecoveryFailed = errors.New("❌ couldn't recover encryption key")

	// Poll errors 📡
	ErrMalformedResponse = errors.New("❌ malformed status response")
	ErrUnknownAppliance  = errors.New("❌ unable to detect appliance type from response")

	// Device store errors 📂
	ErrDeviceNotFound = errors.New("❌ device not found")
	ErrInvalidDevice  = errors.New("❌ invalid device record")
)
