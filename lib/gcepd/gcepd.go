// Package gcepd implements the block device backend contract against
// GCE persistent disks.
//
// GCE constraints shape the design:
//   - A disk has exactly two usable string fields: a name (unique per
//     project, max 63 chars, must start with a letter, immutable) and a
//     free-form description. There is no metadata grab-bag.
//   - The caller picks the disk name, so the name is set to the block
//     device ID and every later operation needs no lookup table.
//   - The description carries a cluster tag for humans and future
//     filtering; it is never used for identity.
//   - Attaching a disk accepts a device name token that the guest OS
//     surfaces at /dev/disk/by-id/google-<token>. The token is set to
//     the block device ID, so the device path is a pure function of it.
package gcepd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/c2h5oh/datasize"
	"github.com/google/uuid"
	"github.com/samber/lo"
	"go.opentelemetry.io/otel/metric"
	compute "google.golang.org/api/compute/v1"
	"google.golang.org/api/option"

	"github.com/blockplane/blockplane/lib/blockdevice"
	"github.com/blockplane/blockplane/lib/logger"
	"github.com/blockplane/blockplane/lib/operations"
)

const (
	defaultPollInterval = time.Second
	defaultPollAttempts = 120

	// clusterTag prefixes the disk description. Multiple clusters can
	// share a project; the tag records which one owns a disk.
	clusterTag = "blockplane-v1-cluster"

	// devicePathPrefix is where udev surfaces the attach-time device
	// name token inside the guest OS.
	devicePathPrefix = "/dev/disk/by-id/google-"

	operationStatusDone = "DONE"
)

// Config carries the provider scope and poll cadence for a backend.
type Config struct {
	// Project and Zone scope every disk and instance operation.
	Project string
	Zone    string

	// ClusterID identifies the owning cluster in disk descriptions.
	ClusterID uuid.UUID

	// PollInterval and PollAttempts bound the wait for each provider
	// operation. Zero values select 1s x 120.
	PollInterval time.Duration
	PollAttempts int

	// Meter, when set, enables operation metrics.
	Meter metric.Meter
}

type backend struct {
	api          computeAPI
	project      string
	zone         string
	clusterID    uuid.UUID
	pollInterval time.Duration
	pollAttempts int
	instanceName func(ctx context.Context) (string, error)
	metrics      *Metrics
}

// New builds a Backend talking to the real GCE compute service using
// Application Default Credentials (or the supplied client options).
func New(ctx context.Context, cfg Config, opts ...option.ClientOption) (blockdevice.Backend, error) {
	if cfg.Project == "" || cfg.Zone == "" {
		return nil, fmt.Errorf("gcepd: project and zone are required")
	}
	api, err := newGoogleComputeAPI(ctx, opts...)
	if err != nil {
		return nil, err
	}
	return newBackend(cfg, api, metadataInstanceName)
}

// newBackend wires an arbitrary computeAPI, letting tests inject a fake.
func newBackend(cfg Config, api computeAPI, instanceName func(ctx context.Context) (string, error)) (*backend, error) {
	b := &backend{
		api:          api,
		project:      cfg.Project,
		zone:         cfg.Zone,
		clusterID:    cfg.ClusterID,
		pollInterval: cfg.PollInterval,
		pollAttempts: cfg.PollAttempts,
		instanceName: instanceName,
	}
	if b.pollInterval <= 0 {
		b.pollInterval = defaultPollInterval
	}
	if b.pollAttempts <= 0 {
		b.pollAttempts = defaultPollAttempts
	}
	if cfg.Meter != nil {
		metrics, err := NewMetrics(cfg.Meter)
		if err != nil {
			return nil, fmt.Errorf("register gcepd metrics: %w", err)
		}
		b.metrics = metrics
	}
	return b, nil
}

// AllocationUnit returns 1 GiB. The API field is named sizeGb but the
// unit is binary gibibytes, not decimal gigabytes. datasize.GB is the
// binary constant (1 << 30).
func (b *backend) AllocationUnit() int64 {
	return int64(datasize.GB)
}

func (b *backend) ListVolumes(ctx context.Context) (_ []blockdevice.Volume, err error) {
	defer b.recordOperation(ctx, "list_volumes", time.Now(), &err)

	disks, err := b.api.ListDisks(ctx, b.project, b.zone)
	if err != nil {
		return nil, translateAPIError(err, "")
	}
	volumes := lo.FilterMap(disks, func(disk *compute.Disk, _ int) (blockdevice.Volume, bool) {
		datasetID, err := blockdevice.DatasetID(disk.Name)
		if err != nil {
			// Foreign disk in the same project, or a tagged name we
			// cannot parse. Either way it is not ours to report.
			return blockdevice.Volume{}, false
		}
		return blockdevice.Volume{
			BlockDeviceID: disk.Name,
			DatasetID:     datasetID,
			Size:          bytesFromGiB(disk.SizeGb),
			AttachedTo:    attachedInstance(disk),
		}, true
	})
	return volumes, nil
}

func (b *backend) CreateVolume(ctx context.Context, datasetID uuid.UUID, size int64) (_ *blockdevice.Volume, err error) {
	defer b.recordOperation(ctx, "create_volume", time.Now(), &err)

	blockDeviceID := blockdevice.BlockDeviceID(datasetID)
	sizeGiB := gibFromBytes(size)

	log := logger.FromContext(ctx)
	log.Debug("creating volume", "blockdevice_id", blockDeviceID, "size_gib", sizeGiB)

	op, err := b.api.InsertDisk(ctx, b.project, b.zone, &compute.Disk{
		Name:        blockDeviceID,
		SizeGb:      sizeGiB,
		Description: b.clusterDescription(),
	})
	if err != nil {
		return nil, translateAPIError(err, blockDeviceID)
	}
	done, err := b.waitForOperation(ctx, op)
	if err != nil {
		return nil, translateWaitError(err, blockDeviceID)
	}
	if err := translateOperationError(done, blockDeviceID); err != nil {
		return nil, err
	}

	log.Info("created volume", "blockdevice_id", blockDeviceID, "size_gib", sizeGiB)
	return &blockdevice.Volume{
		BlockDeviceID: blockDeviceID,
		DatasetID:     datasetID,
		Size:          bytesFromGiB(sizeGiB),
	}, nil
}

func (b *backend) AttachVolume(ctx context.Context, blockDeviceID, attachTo string) (_ *blockdevice.Volume, err error) {
	defer b.recordOperation(ctx, "attach_volume", time.Now(), &err)

	datasetID, err := blockdevice.DatasetID(blockDeviceID)
	if err != nil {
		return nil, err
	}

	// Existence check up front: attach rejections for a missing disk
	// are not reliably distinguishable from other 4xx responses, and
	// a generic 400 must not be reinterpreted as not-found.
	if _, err := b.getDisk(ctx, blockDeviceID); err != nil {
		return nil, err
	}

	op, err := b.api.AttachDisk(ctx, b.project, b.zone, attachTo, &compute.AttachedDisk{
		DeviceName: blockDeviceID,
		AutoDelete: false,
		Boot:       false,
		Source:     b.diskSourceURL(blockDeviceID),
	})
	if err != nil {
		return nil, translateAPIError(err, blockDeviceID)
	}
	done, err := b.waitForOperation(ctx, op)
	if err != nil {
		return nil, translateWaitError(err, blockDeviceID)
	}
	if err := translateOperationError(done, blockDeviceID); err != nil {
		return nil, err
	}

	// Re-read for the authoritative size rather than trusting what the
	// caller asked for at create time.
	disk, err := b.getDisk(ctx, blockDeviceID)
	if err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info("attached volume",
		"blockdevice_id", blockDeviceID, "instance", attachTo)
	return &blockdevice.Volume{
		BlockDeviceID: blockDeviceID,
		DatasetID:     datasetID,
		Size:          bytesFromGiB(disk.SizeGb),
		AttachedTo:    attachTo,
	}, nil
}

func (b *backend) DetachVolume(ctx context.Context, blockDeviceID string) (err error) {
	defer b.recordOperation(ctx, "detach_volume", time.Now(), &err)

	if _, err := blockdevice.DatasetID(blockDeviceID); err != nil {
		return err
	}
	attachedTo, err := b.getAttachedTo(ctx, blockDeviceID)
	if err != nil {
		return err
	}

	op, err := b.api.DetachDisk(ctx, b.project, b.zone, attachedTo, blockDeviceID)
	if err != nil {
		return translateAPIError(err, blockDeviceID)
	}
	done, err := b.waitForOperation(ctx, op)
	if err != nil {
		return translateWaitError(err, blockDeviceID)
	}
	if err := translateOperationError(done, blockDeviceID); err != nil {
		return err
	}

	logger.FromContext(ctx).Info("detached volume",
		"blockdevice_id", blockDeviceID, "instance", attachedTo)
	return nil
}

func (b *backend) GetDevicePath(ctx context.Context, blockDeviceID string) (_ string, err error) {
	defer b.recordOperation(ctx, "get_device_path", time.Now(), &err)

	if _, err := blockdevice.DatasetID(blockDeviceID); err != nil {
		return "", err
	}
	// Attachment must be confirmed, but the path itself derives from
	// the attach-time token alone; no further provider call is needed.
	if _, err := b.getAttachedTo(ctx, blockDeviceID); err != nil {
		return "", err
	}
	return devicePathPrefix + blockDeviceID, nil
}

func (b *backend) DestroyVolume(ctx context.Context, blockDeviceID string) (err error) {
	defer b.recordOperation(ctx, "destroy_volume", time.Now(), &err)

	if _, err := blockdevice.DatasetID(blockDeviceID); err != nil {
		return err
	}

	op, err := b.api.DeleteDisk(ctx, b.project, b.zone, blockDeviceID)
	if err != nil {
		return translateAPIError(err, blockDeviceID)
	}
	done, err := b.waitForOperation(ctx, op)
	if err != nil {
		return translateWaitError(err, blockDeviceID)
	}
	if err := translateOperationError(done, blockDeviceID); err != nil {
		return err
	}

	logger.FromContext(ctx).Info("destroyed volume", "blockdevice_id", blockDeviceID)
	return nil
}

func (b *backend) ComputeInstanceID(ctx context.Context) (_ string, err error) {
	defer b.recordOperation(ctx, "compute_instance_id", time.Now(), &err)
	return b.instanceName(ctx)
}

// waitForOperation polls the zone operation behind op until it reports
// DONE, the attempt budget runs out, or ctx is cancelled. The returned
// operation may still carry an embedded error list.
func (b *backend) waitForOperation(ctx context.Context, op *compute.Operation) (*compute.Operation, error) {
	probe := func(ctx context.Context) (*compute.Operation, operations.Status, error) {
		latest, err := b.api.GetZoneOperation(ctx, b.project, b.zone, op.Name)
		if err != nil {
			return nil, operations.Pending, err
		}
		if latest.Status != operationStatusDone {
			return nil, operations.Pending, nil
		}
		return latest, operations.Done, nil
	}
	return operations.WaitForTerminal(ctx, probe, b.pollAttempts, b.pollInterval)
}

// getDisk fetches the disk resource, mapping 404 to ErrUnknownVolume.
func (b *backend) getDisk(ctx context.Context, blockDeviceID string) (*compute.Disk, error) {
	disk, err := b.api.GetDisk(ctx, b.project, b.zone, blockDeviceID)
	if err != nil {
		return nil, translateAPIError(err, blockDeviceID)
	}
	return disk, nil
}

// getAttachedTo resolves the instance the volume is currently attached
// to, failing with ErrUnknownVolume or ErrUnattachedVolume.
func (b *backend) getAttachedTo(ctx context.Context, blockDeviceID string) (string, error) {
	disk, err := b.getDisk(ctx, blockDeviceID)
	if err != nil {
		return "", err
	}
	attachedTo := attachedInstance(disk)
	if attachedTo == "" {
		return "", blockdevice.NewUnattachedVolume(blockDeviceID, nil)
	}
	return attachedTo, nil
}

func (b *backend) clusterDescription() string {
	return clusterTag + ": " + b.clusterID.String()
}

func (b *backend) diskSourceURL(blockDeviceID string) string {
	return fmt.Sprintf(
		"https://www.googleapis.com/compute/v1/projects/%s/zones/%s/disks/%s",
		b.project, b.zone, blockDeviceID,
	)
}

// attachedInstance extracts the attachment from a disk resource. The
// users list holds instance URLs; multi-attach is unsupported, so only
// the first entry counts.
func attachedInstance(disk *compute.Disk) string {
	if len(disk.Users) == 0 {
		return ""
	}
	parts := strings.Split(disk.Users[0], "/")
	return parts[len(parts)-1]
}

// gibFromBytes rounds a byte count up to whole GiB, the only direction
// that never hands back less space than was asked for.
func gibFromBytes(size int64) int64 {
	unit := int64(datasize.GB)
	return blockdevice.RoundToAllocationUnit(size, unit) / unit
}

func bytesFromGiB(sizeGiB int64) int64 {
	return sizeGiB * int64(datasize.GB)
}
