package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version is set at build time:
// go build -ldflags "-X github.com/zeusync/evade/cmd.Version=1.2.0"
var Version = "0.1.0"

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		// no config needed
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), Version)
			return err
		},
	}
}
