package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

var detachCmd = &cobra.Command{
	Use:   "detach <blockdevice-id>",
	Short: "Detach a volume from its current instance",
	Args:  cobra.ExactArgs(1),
	RunE:  runDetach,
}

func init() {
	rootCmd.AddCommand(detachCmd)
}

func runDetach(cmd *cobra.Command, args []string) error {
	ctx, backend, cleanup, err := setupBackend()
	if err != nil {
		return err
	}
	defer cleanup()

	if err := backend.DetachVolume(ctx, args[0]); err != nil {
		return err
	}
	fmt.Printf("Detached %s\n", args[0])
	return nil
}
