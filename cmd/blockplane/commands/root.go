package commands

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var rootCmd = &cobra.Command{
	Use:   "blockplane",
	Short: "Manage cluster dataset volumes on GCE persistent disks",
	Long: `Operator tooling for the blockplane block-storage backend.

Volumes are named after cluster dataset UUIDs; every subcommand talks
directly to the provider, which is the sole source of truth.`,
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("project", "", "GCE project")
	rootCmd.PersistentFlags().String("zone", "", "GCE zone")
	rootCmd.PersistentFlags().String("cluster-id", "", "Cluster UUID recorded on created disks")
	rootCmd.PersistentFlags().Duration("poll-interval", time.Second, "Interval between operation status polls")
	rootCmd.PersistentFlags().Int("poll-attempts", 120, "Poll attempts before reporting a timeout")
	rootCmd.PersistentFlags().String("log-level", "info", "Log level (debug, info, warn, error)")

	viper.BindPFlag("project", rootCmd.PersistentFlags().Lookup("project"))
	viper.BindPFlag("zone", rootCmd.PersistentFlags().Lookup("zone"))
	viper.BindPFlag("cluster-id", rootCmd.PersistentFlags().Lookup("cluster-id"))
	viper.BindPFlag("poll-interval", rootCmd.PersistentFlags().Lookup("poll-interval"))
	viper.BindPFlag("poll-attempts", rootCmd.PersistentFlags().Lookup("poll-attempts"))
	viper.BindPFlag("log-level", rootCmd.PersistentFlags().Lookup("log-level"))
}
