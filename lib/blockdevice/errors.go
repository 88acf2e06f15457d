package blockdevice

import (
	"errors"
	"fmt"
)

// Canonical error kinds. Every backend translates its provider faults
// into exactly one of these at its boundary; raw provider errors never
// escape a Backend. Callers branch with errors.Is.
var (
	// ErrUnknownVolume is returned when the volume does not exist.
	ErrUnknownVolume = errors.New("unknown volume")

	// ErrAlreadyAttachedVolume is returned when the provider reports an
	// attach conflict.
	ErrAlreadyAttachedVolume = errors.New("volume already attached")

	// ErrUnattachedVolume is returned when an operation requires an
	// attachment and the volume has none.
	ErrUnattachedVolume = errors.New("volume not attached")

	// ErrMalformedIdentifier is returned when a block device ID does
	// not carry the managed prefix or its remainder is not a valid
	// dataset UUID. Detected locally, before any provider I/O.
	ErrMalformedIdentifier = errors.New("malformed block device identifier")

	// ErrMalformedRequest is returned when the provider rejects a
	// request for a reason other than not-found. Not retryable.
	ErrMalformedRequest = errors.New("provider rejected request")

	// ErrTransientProviderError is returned for provider-side failures
	// (5xx, rate limiting) where retrying the whole operation is safe.
	ErrTransientProviderError = errors.New("transient provider error")

	// ErrOperationTimeout is returned when a provider operation did not
	// reach a terminal state within the poll budget. The operation may
	// still complete later; no rollback is implied.
	ErrOperationTimeout = errors.New("timed out waiting for provider operation")
)

// NewUnknownVolume tags err (may be nil) as an unknown-volume failure
// for blockDeviceID.
func NewUnknownVolume(blockDeviceID string, err error) error {
	return tag(ErrUnknownVolume, blockDeviceID, err)
}

// NewAlreadyAttachedVolume tags an attach conflict for blockDeviceID.
func NewAlreadyAttachedVolume(blockDeviceID string, err error) error {
	return tag(ErrAlreadyAttachedVolume, blockDeviceID, err)
}

// NewUnattachedVolume tags a missing-attachment failure for blockDeviceID.
func NewUnattachedVolume(blockDeviceID string, err error) error {
	return tag(ErrUnattachedVolume, blockDeviceID, err)
}

// NewMalformedRequest tags a non-retryable provider rejection.
func NewMalformedRequest(blockDeviceID string, err error) error {
	return tag(ErrMalformedRequest, blockDeviceID, err)
}

// NewTransientProviderError tags a retryable provider failure.
func NewTransientProviderError(blockDeviceID string, err error) error {
	return tag(ErrTransientProviderError, blockDeviceID, err)
}

// NewOperationTimeout tags an exhausted poll budget for blockDeviceID.
func NewOperationTimeout(blockDeviceID string, err error) error {
	return tag(ErrOperationTimeout, blockDeviceID, err)
}

func tag(kind error, blockDeviceID string, err error) error {
	if err == nil {
		return fmt.Errorf("%w: %s", kind, blockDeviceID)
	}
	return fmt.Errorf("%w: %s: %w", kind, blockDeviceID, err)
}
