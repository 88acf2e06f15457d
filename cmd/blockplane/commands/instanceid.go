package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

var instanceIDCmd = &cobra.Command{
	Use:   "instance-id",
	Short: "Print this node's provider instance identity",
	Args:  cobra.NoArgs,
	RunE:  runInstanceID,
}

func init() {
	rootCmd.AddCommand(instanceIDCmd)
}

func runInstanceID(cmd *cobra.Command, args []string) error {
	ctx, backend, cleanup, err := setupBackend()
	if err != nil {
		return err
	}
	defer cleanup()

	id, err := backend.ComputeInstanceID(ctx)
	if err != nil {
		return err
	}
	fmt.Println(id)
	return nil
}
