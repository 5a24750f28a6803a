// Package core defines sentinel errors.
package core

import "errors"

// Sentinel errors. Callers wrap them with fmt.Errorf("...: %w") and match with errors.Is.
var (
	// Interface selection errors
	ErrInvalidInterface = errors.New("arpdrop: the specified interface does not exist")
	ErrNoIPv4           = errors.New("arpdrop: failed to find host IPv4 address")
	ErrMissingMAC       = errors.New("arpdrop: interface has no hardware address")

	// Channel errors
	ErrChannelOpen        = errors.New("arpdrop: failed to open datalink channel, are you root?")
	ErrUnsupportedChannel = errors.New("arpdrop: unsupported datalink channel type")
	ErrTransport          = errors.New("arpdrop: datalink transport error")

	// Input errors
	ErrInvalidAddress = errors.New("arpdrop: address is not IPv4")

	// Configuration errors
	ErrConfigInvalid = errors.New("arpdrop: invalid configuration")
)
