package blockdevice

import (
	"errors"
	"regexp"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBlockDeviceID_RoundTrip(t *testing.T) {
	for i := 0; i < 50; i++ {
		datasetID := uuid.New()
		got, err := DatasetID(BlockDeviceID(datasetID))
		require.NoError(t, err)
		assert.Equal(t, datasetID, got)
	}
}

func TestBlockDeviceID_ProviderLegal(t *testing.T) {
	// GCE resource names: max 63 chars, lowercase letters, digits and
	// hyphens, starting with a letter.
	legal := regexp.MustCompile(`^[a-z][a-z0-9-]*$`)
	for i := 0; i < 50; i++ {
		id := BlockDeviceID(uuid.New())
		assert.LessOrEqual(t, len(id), 63)
		assert.Regexp(t, legal, id)
	}
}

func TestDatasetID_MissingPrefix(t *testing.T) {
	_, err := DatasetID("some-other-disk")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMalformedIdentifier))
}

func TestDatasetID_PrefixOnly(t *testing.T) {
	_, err := DatasetID(idPrefix)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMalformedIdentifier))
}

func TestDatasetID_InvalidUUID(t *testing.T) {
	_, err := DatasetID(idPrefix + "not-a-uuid")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMalformedIdentifier))
}

func TestIsManagedID(t *testing.T) {
	assert.True(t, IsManagedID(BlockDeviceID(uuid.New())))
	// A tagged name with an empty remainder is still ours; DatasetID
	// rejects it separately.
	assert.True(t, IsManagedID(idPrefix))
	assert.False(t, IsManagedID("boot-disk"))
	assert.False(t, IsManagedID("blockplane-v2-"+uuid.New().String()))
	assert.False(t, IsManagedID(""))
}

func TestRoundToAllocationUnit(t *testing.T) {
	gib := int64(1 << 30)
	assert.Equal(t, gib, RoundToAllocationUnit(1, gib))
	assert.Equal(t, gib, RoundToAllocationUnit(gib, gib))
	assert.Equal(t, 2*gib, RoundToAllocationUnit(gib+1, gib))
	assert.Equal(t, 3*gib, RoundToAllocationUnit(3*gib, gib))
	assert.Equal(t, int64(0), RoundToAllocationUnit(0, gib))
}
