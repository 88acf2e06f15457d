package blockdevice

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// idPrefix namespaces every resource name this system creates, so the
// same provider account can hold unrelated disks and other clusters.
// Prefixed names stay legal for the strictest provider rules we target
// (GCE: max 63 chars, lowercase letters, digits and hyphens, starting
// with a letter): prefix plus canonical UUID is 50 characters.
const idPrefix = "blockplane-v1-"

// BlockDeviceID derives the provider resource name for a dataset. The
// mapping is a pure bijection with DatasetID: no registry lookup is
// needed in either direction, so any process can convert between the
// two identifier spaces after a restart with zero I/O.
func BlockDeviceID(datasetID uuid.UUID) string {
	return idPrefix + datasetID.String()
}

// DatasetID recovers the dataset identifier from a block device ID
// produced by BlockDeviceID. Returns ErrMalformedIdentifier when the
// prefix is absent or the remainder is not a valid UUID.
func DatasetID(blockDeviceID string) (uuid.UUID, error) {
	rest, ok := strings.CutPrefix(blockDeviceID, idPrefix)
	if !ok {
		return uuid.Nil, fmt.Errorf("%w: %q lacks prefix %q", ErrMalformedIdentifier, blockDeviceID, idPrefix)
	}
	datasetID, err := uuid.Parse(rest)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %q: %v", ErrMalformedIdentifier, blockDeviceID, err)
	}
	return datasetID, nil
}

// IsManagedID reports whether a provider resource name was created by
// this system. Enumeration uses it to skip foreign resources.
func IsManagedID(blockDeviceID string) bool {
	return strings.HasPrefix(blockDeviceID, idPrefix)
}
