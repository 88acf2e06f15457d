package gcepd

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	compute "google.golang.org/api/compute/v1"
	"google.golang.org/api/googleapi"

	"github.com/blockplane/blockplane/lib/blockdevice"
	"github.com/blockplane/blockplane/lib/operations"
)

func TestTranslateAPIError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{
			name: "nil stays nil",
			err:  nil,
			want: nil,
		},
		{
			name: "404 means unknown volume",
			err:  &googleapi.Error{Code: 404},
			want: blockdevice.ErrUnknownVolume,
		},
		{
			name: "400 is a malformed request, not unknown volume",
			err:  &googleapi.Error{Code: 400},
			want: blockdevice.ErrMalformedRequest,
		},
		{
			name: "403 without rate limit reason is malformed",
			err:  &googleapi.Error{Code: 403},
			want: blockdevice.ErrMalformedRequest,
		},
		{
			name: "403 rate limit is transient",
			err: &googleapi.Error{Code: 403, Errors: []googleapi.ErrorItem{
				{Reason: "rateLimitExceeded"},
			}},
			want: blockdevice.ErrTransientProviderError,
		},
		{
			name: "429 is transient",
			err:  &googleapi.Error{Code: 429},
			want: blockdevice.ErrTransientProviderError,
		},
		{
			name: "500 is transient",
			err:  &googleapi.Error{Code: 500},
			want: blockdevice.ErrTransientProviderError,
		},
		{
			name: "503 is transient",
			err:  &googleapi.Error{Code: 503},
			want: blockdevice.ErrTransientProviderError,
		},
		{
			name: "unrecognized error is malformed",
			err:  errors.New("connection reset"),
			want: blockdevice.ErrMalformedRequest,
		},
		{
			name: "cancelled context is a timeout",
			err:  context.Canceled,
			want: blockdevice.ErrOperationTimeout,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := translateAPIError(tt.err, "blockplane-v1-test")
			if tt.want == nil {
				assert.NoError(t, got)
				return
			}
			assert.True(t, errors.Is(got, tt.want), "got %v, want kind %v", got, tt.want)
		})
	}
}

func TestTranslateAPIError_400NotSilentlyDowngraded(t *testing.T) {
	got := translateAPIError(&googleapi.Error{Code: 400}, "blockplane-v1-test")
	assert.False(t, errors.Is(got, blockdevice.ErrUnknownVolume))
}

func TestTranslateWaitError(t *testing.T) {
	got := translateWaitError(operations.ErrWaitTimeout, "blockplane-v1-test")
	assert.True(t, errors.Is(got, blockdevice.ErrOperationTimeout))

	got = translateWaitError(&googleapi.Error{Code: 500}, "blockplane-v1-test")
	assert.True(t, errors.Is(got, blockdevice.ErrTransientProviderError))

	assert.NoError(t, translateWaitError(nil, "blockplane-v1-test"))
}

func TestTranslateOperationError(t *testing.T) {
	assert.NoError(t, translateOperationError(nil, "id"))
	assert.NoError(t, translateOperationError(&compute.Operation{}, "id"))

	inUse := &compute.Operation{Error: &compute.OperationError{Errors: []*compute.OperationErrorErrors{
		{Code: "RESOURCE_IN_USE_BY_ANOTHER_RESOURCE", Message: "in use"},
	}}}
	assert.True(t, errors.Is(translateOperationError(inUse, "id"), blockdevice.ErrAlreadyAttachedVolume))

	notFound := &compute.Operation{Error: &compute.OperationError{Errors: []*compute.OperationErrorErrors{
		{Code: "RESOURCE_NOT_FOUND", Message: "gone"},
	}}}
	assert.True(t, errors.Is(translateOperationError(notFound, "id"), blockdevice.ErrUnknownVolume))

	other := &compute.Operation{Error: &compute.OperationError{Errors: []*compute.OperationErrorErrors{
		{Code: "QUOTA_EXCEEDED", Message: "quota"},
	}}}
	assert.True(t, errors.Is(translateOperationError(other, "id"), blockdevice.ErrMalformedRequest))
}
