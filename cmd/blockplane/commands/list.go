package commands

import (
	"fmt"

	"github.com/c2h5oh/datasize"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the volumes managed by this system",
	RunE:  runList,
}

func init() {
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	ctx, backend, cleanup, err := setupBackend()
	if err != nil {
		return err
	}
	defer cleanup()

	volumes, err := backend.ListVolumes(ctx)
	if err != nil {
		return err
	}

	if len(volumes) == 0 {
		fmt.Println("No volumes found")
		return nil
	}

	fmt.Printf("%-52s %-38s %-10s %-20s\n", "BLOCKDEVICE ID", "DATASET", "SIZE", "ATTACHED TO")
	for _, v := range volumes {
		attachedTo := v.AttachedTo
		if attachedTo == "" {
			attachedTo = "-"
		}
		fmt.Printf("%-52s %-38s %-10s %-20s\n",
			v.BlockDeviceID, v.DatasetID, datasize.ByteSize(v.Size).HumanReadable(), attachedTo)
	}
	return nil
}
