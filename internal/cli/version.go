package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version is the trailplot release.
const Version = "0.1.0"

const modulePath = "github.com/mesh-intelligence/trailplot"

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the trailplot version",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "trailplot v%s\nmodule: %s\n", Version, modulePath)
			return nil
		},
	}
}
