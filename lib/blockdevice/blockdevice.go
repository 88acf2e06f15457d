// Package blockdevice defines the backend contract a dataset placement
// agent uses to manage block storage uniformly across cloud providers.
//
// A backend owns no long-lived state beyond its provider client; the
// provider is the sole source of truth for volume existence, size, and
// attachment. Per volume the lifecycle is:
//
//	NonExistent -> Unattached (CreateVolume)
//	Unattached  -> Attached   (AttachVolume)
//	Attached    -> Unattached (DetachVolume)
//	Unattached  -> NonExistent (DestroyVolume)
//
// Every operation other than CreateVolume fails with ErrUnknownVolume
// when the volume does not exist.
package blockdevice

import (
	"context"

	"github.com/google/uuid"
)

// Volume is the canonical, provider-independent record of a block device.
type Volume struct {
	// BlockDeviceID is the provider-legal resource name, derived from
	// DatasetID by BlockDeviceID in this package.
	BlockDeviceID string

	// DatasetID is the cluster-level identifier of the dataset stored
	// on this volume.
	DatasetID uuid.UUID

	// Size in bytes. Always a multiple of the backend's AllocationUnit.
	Size int64

	// AttachedTo names the compute instance the volume is attached to,
	// empty when unattached. A volume has at most one attachment at a
	// time; this is enforced by the provider, not locally.
	AttachedTo string
}

// Attached reports whether the volume is attached to an instance.
func (v Volume) Attached() bool {
	return v.AttachedTo != ""
}

// Backend is implemented once per provider. Implementations are safe
// for concurrent use across distinct block device IDs; callers must
// serialize mutating operations on the same ID. Mutating operations
// block until the provider reports a terminal state or the backend's
// poll budget runs out (ErrOperationTimeout). A timeout does not mean
// the provider operation failed; it may still complete later.
type Backend interface {
	// AllocationUnit returns the provider's size granularity in bytes.
	// Requested sizes are rounded up to a multiple of it. Pure, no I/O.
	AllocationUnit() int64

	// ListVolumes enumerates the volumes managed by this system,
	// skipping unrelated resources in the same provider account. No
	// ordering guarantee beyond provider enumeration order.
	ListVolumes(ctx context.Context) ([]Volume, error)

	// CreateVolume provisions a new unattached volume for datasetID.
	// size is rounded up to AllocationUnit before submission. Retrying
	// after ErrOperationTimeout is safe: the derived resource name is
	// deterministic and the provider rejects duplicate names.
	CreateVolume(ctx context.Context, datasetID uuid.UUID, size int64) (*Volume, error)

	// AttachVolume attaches the volume to the named instance and
	// returns the volume with its authoritative size. Fails with
	// ErrUnknownVolume if the volume does not exist and with
	// ErrAlreadyAttachedVolume if the provider reports a conflict.
	AttachVolume(ctx context.Context, blockDeviceID, attachTo string) (*Volume, error)

	// DetachVolume detaches the volume from its current instance.
	// Fails with ErrUnattachedVolume if it is not attached.
	DetachVolume(ctx context.Context, blockDeviceID string) error

	// GetDevicePath returns the OS device path of an attached volume.
	// The path is derived from blockDeviceID alone, relying on the
	// attach-time token convention of AttachVolume.
	GetDevicePath(ctx context.Context, blockDeviceID string) (string, error)

	// DestroyVolume deletes the volume. Fails with ErrUnknownVolume if
	// it does not exist; callers may treat that as already-gone.
	DestroyVolume(ctx context.Context, blockDeviceID string) error

	// ComputeInstanceID returns this node's stable identity in the
	// provider's addressing scheme, usable as an AttachVolume target.
	ComputeInstanceID(ctx context.Context) (string, error)
}

// RoundToAllocationUnit rounds size up to the next multiple of unit.
func RoundToAllocationUnit(size, unit int64) int64 {
	if unit <= 0 {
		return size
	}
	if rem := size % unit; rem != 0 {
		return size + unit - rem
	}
	return size
}
