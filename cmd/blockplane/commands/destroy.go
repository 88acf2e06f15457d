package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/blockplane/blockplane/lib/blockdevice"
)

var destroyIgnoreMissing bool

var destroyCmd = &cobra.Command{
	Use:   "destroy <blockdevice-id>",
	Short: "Destroy a volume",
	Args:  cobra.ExactArgs(1),
	RunE:  runDestroy,
}

func init() {
	destroyCmd.Flags().BoolVar(&destroyIgnoreMissing, "ignore-missing", false, "Treat an already-deleted volume as success")
	rootCmd.AddCommand(destroyCmd)
}

func runDestroy(cmd *cobra.Command, args []string) error {
	ctx, backend, cleanup, err := setupBackend()
	if err != nil {
		return err
	}
	defer cleanup()

	err = backend.DestroyVolume(ctx, args[0])
	if err != nil {
		if destroyIgnoreMissing && errors.Is(err, blockdevice.ErrUnknownVolume) {
			fmt.Printf("%s already gone\n", args[0])
			return nil
		}
		return err
	}
	fmt.Printf("Destroyed %s\n", args[0])
	return nil
}
