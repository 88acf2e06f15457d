package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

var attachCmd = &cobra.Command{
	Use:   "attach <blockdevice-id> [instance]",
	Short: "Attach a volume to a compute instance",
	Long: `Attach a volume to the named compute instance. With no instance
argument the volume is attached to the instance this command runs on.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runAttach,
}

func init() {
	rootCmd.AddCommand(attachCmd)
}

func runAttach(cmd *cobra.Command, args []string) error {
	ctx, backend, cleanup, err := setupBackend()
	if err != nil {
		return err
	}
	defer cleanup()

	attachTo := ""
	if len(args) == 2 {
		attachTo = args[1]
	} else {
		attachTo, err = backend.ComputeInstanceID(ctx)
		if err != nil {
			return err
		}
	}

	volume, err := backend.AttachVolume(ctx, args[0], attachTo)
	if err != nil {
		return err
	}
	path, err := backend.GetDevicePath(ctx, volume.BlockDeviceID)
	if err != nil {
		return err
	}
	fmt.Printf("Attached %s to %s at %s\n", volume.BlockDeviceID, volume.AttachedTo, path)
	return nil
}
