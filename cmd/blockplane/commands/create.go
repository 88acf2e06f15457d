package commands

import (
	"fmt"

	"github.com/c2h5oh/datasize"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var createSize string

var createCmd = &cobra.Command{
	Use:   "create <dataset-uuid>",
	Short: "Create an unattached volume for a dataset",
	Args:  cobra.ExactArgs(1),
	RunE:  runCreate,
}

func init() {
	createCmd.Flags().StringVar(&createSize, "size", "1GB", "Requested size (binary units); rounded up to the allocation unit")
	rootCmd.AddCommand(createCmd)
}

func runCreate(cmd *cobra.Command, args []string) error {
	datasetID, err := uuid.Parse(args[0])
	if err != nil {
		return fmt.Errorf("dataset id must be a UUID: %w", err)
	}
	var size datasize.ByteSize
	if err := size.UnmarshalText([]byte(createSize)); err != nil {
		return fmt.Errorf("parse size %q: %w", createSize, err)
	}

	ctx, backend, cleanup, err := setupBackend()
	if err != nil {
		return err
	}
	defer cleanup()

	volume, err := backend.CreateVolume(ctx, datasetID, int64(size.Bytes()))
	if err != nil {
		return err
	}
	fmt.Printf("Created %s (%s)\n", volume.BlockDeviceID, datasize.ByteSize(volume.Size).HumanReadable())
	return nil
}
