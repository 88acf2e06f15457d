package gcepd

import (
	"context"
	"errors"
	"net/http"

	compute "google.golang.org/api/compute/v1"
	"google.golang.org/api/googleapi"

	"github.com/blockplane/blockplane/lib/blockdevice"
	"github.com/blockplane/blockplane/lib/operations"
)

// GCE scoped-operation error codes that map to canonical kinds.
const (
	codeResourceInUse    = "RESOURCE_IN_USE_BY_ANOTHER_RESOURCE"
	codeResourceNotFound = "RESOURCE_NOT_FOUND"
)

// translateAPIError maps a raw compute API error onto the canonical
// taxonomy. Only HTTP 404 means the volume is unknown; other 4xx are
// reported as malformed requests rather than silently reinterpreted.
func translateAPIError(err error, blockDeviceID string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return blockdevice.NewOperationTimeout(blockDeviceID, err)
	}
	var apiErr *googleapi.Error
	if !errors.As(err, &apiErr) {
		return blockdevice.NewMalformedRequest(blockDeviceID, err)
	}
	switch {
	case apiErr.Code == http.StatusNotFound:
		return blockdevice.NewUnknownVolume(blockDeviceID, err)
	case apiErr.Code == http.StatusTooManyRequests, apiErr.Code >= 500:
		return blockdevice.NewTransientProviderError(blockDeviceID, err)
	case isRateLimited(apiErr):
		return blockdevice.NewTransientProviderError(blockDeviceID, err)
	default:
		return blockdevice.NewMalformedRequest(blockDeviceID, err)
	}
}

// isRateLimited recognizes GCE's per-reason rate limit signals, which
// arrive with 403 rather than 429.
func isRateLimited(apiErr *googleapi.Error) bool {
	for _, item := range apiErr.Errors {
		switch item.Reason {
		case "rateLimitExceeded", "userRateLimitExceeded":
			return true
		}
	}
	return false
}

// translateWaitError maps a failure from the operation poller onto the
// taxonomy. An exhausted poll budget or a cancelled wait is a timeout,
// distinct from operation failure: the provider operation may still
// complete, so callers must not assume rollback.
func translateWaitError(err error, blockDeviceID string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, operations.ErrWaitTimeout),
		errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded):
		return blockdevice.NewOperationTimeout(blockDeviceID, err)
	default:
		return translateAPIError(err, blockDeviceID)
	}
}

// translateOperationError inspects the error list embedded in a
// finished zone operation. GCE reports some failures, attach conflicts
// in particular, inside an otherwise successful operation resource.
func translateOperationError(op *compute.Operation, blockDeviceID string) error {
	if op == nil || op.Error == nil || len(op.Error.Errors) == 0 {
		return nil
	}
	for _, item := range op.Error.Errors {
		switch item.Code {
		case codeResourceInUse:
			return blockdevice.NewAlreadyAttachedVolume(blockDeviceID, errors.New(item.Message))
		case codeResourceNotFound:
			return blockdevice.NewUnknownVolume(blockDeviceID, errors.New(item.Message))
		}
	}
	first := op.Error.Errors[0]
	return blockdevice.NewMalformedRequest(blockDeviceID, errors.New(first.Code+": "+first.Message))
}
