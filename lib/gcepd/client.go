package gcepd

import (
	"context"
	"fmt"

	"cloud.google.com/go/compute/metadata"
	compute "google.golang.org/api/compute/v1"
	"google.golang.org/api/option"
)

// computeAPI is the slice of the GCE compute service the backend uses.
// It is injected into the backend so tests can substitute an in-memory
// fake without touching global state.
type computeAPI interface {
	InsertDisk(ctx context.Context, project, zone string, disk *compute.Disk) (*compute.Operation, error)
	GetDisk(ctx context.Context, project, zone, name string) (*compute.Disk, error)
	ListDisks(ctx context.Context, project, zone string) ([]*compute.Disk, error)
	DeleteDisk(ctx context.Context, project, zone, name string) (*compute.Operation, error)
	AttachDisk(ctx context.Context, project, zone, instance string, disk *compute.AttachedDisk) (*compute.Operation, error)
	DetachDisk(ctx context.Context, project, zone, instance, deviceName string) (*compute.Operation, error)
	GetZoneOperation(ctx context.Context, project, zone, name string) (*compute.Operation, error)
}

// googleComputeAPI implements computeAPI against the real GCE service.
type googleComputeAPI struct {
	service *compute.Service
}

func newGoogleComputeAPI(ctx context.Context, opts ...option.ClientOption) (*googleComputeAPI, error) {
	service, err := compute.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create compute service: %w", err)
	}
	return &googleComputeAPI{service: service}, nil
}

func (g *googleComputeAPI) InsertDisk(ctx context.Context, project, zone string, disk *compute.Disk) (*compute.Operation, error) {
	return g.service.Disks.Insert(project, zone, disk).Context(ctx).Do()
}

func (g *googleComputeAPI) GetDisk(ctx context.Context, project, zone, name string) (*compute.Disk, error) {
	return g.service.Disks.Get(project, zone, name).Context(ctx).Do()
}

func (g *googleComputeAPI) ListDisks(ctx context.Context, project, zone string) ([]*compute.Disk, error) {
	var disks []*compute.Disk
	err := g.service.Disks.List(project, zone).Pages(ctx, func(page *compute.DiskList) error {
		disks = append(disks, page.Items...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return disks, nil
}

func (g *googleComputeAPI) DeleteDisk(ctx context.Context, project, zone, name string) (*compute.Operation, error) {
	return g.service.Disks.Delete(project, zone, name).Context(ctx).Do()
}

func (g *googleComputeAPI) AttachDisk(ctx context.Context, project, zone, instance string, disk *compute.AttachedDisk) (*compute.Operation, error) {
	return g.service.Instances.AttachDisk(project, zone, instance, disk).Context(ctx).Do()
}

func (g *googleComputeAPI) DetachDisk(ctx context.Context, project, zone, instance, deviceName string) (*compute.Operation, error) {
	return g.service.Instances.DetachDisk(project, zone, instance, deviceName).Context(ctx).Do()
}

func (g *googleComputeAPI) GetZoneOperation(ctx context.Context, project, zone, name string) (*compute.Operation, error) {
	return g.service.ZoneOperations.Get(project, zone, name).Context(ctx).Do()
}

// metadataInstanceName reads this instance's name from the GCE metadata
// server. The name is provider-assigned and stable for the lifetime of
// the instance, unlike the OS hostname.
func metadataInstanceName(ctx context.Context) (string, error) {
	name, err := metadata.InstanceNameWithContext(ctx)
	if err != nil {
		return "", fmt.Errorf("query metadata server for instance name: %w", err)
	}
	return name, nil
}
