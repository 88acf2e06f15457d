package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

var devicePathCmd = &cobra.Command{
	Use:   "device-path <blockdevice-id>",
	Short: "Print the OS device path of an attached volume",
	Args:  cobra.ExactArgs(1),
	RunE:  runDevicePath,
}

func init() {
	rootCmd.AddCommand(devicePathCmd)
}

func runDevicePath(cmd *cobra.Command, args []string) error {
	ctx, backend, cleanup, err := setupBackend()
	if err != nil {
		return err
	}
	defer cleanup()

	path, err := backend.GetDevicePath(ctx, args[0])
	if err != nil {
		return err
	}
	fmt.Println(path)
	return nil
}
