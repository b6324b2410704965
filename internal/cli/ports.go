package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/trailplot/internal/source"
)

func newPortsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ports",
		Short: "List the serial ports present on this machine",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ports, err := source.Ports()
			if err != nil {
				return sysError(err)
			}
			out := cmd.OutOrStdout()
			if flags.jsonMode {
				if ports == nil {
					ports = []string{}
				}
				data, err := json.Marshal(ports)
				if err != nil {
					return sysError(fmt.Errorf("marshal ports: %w", err))
				}
				fmt.Fprintln(out, string(data))
				return nil
			}
			if len(ports) == 0 {
				fmt.Fprintln(out, "No serial ports found")
				return nil
			}
			for _, p := range ports {
				fmt.Fprintln(out, p)
			}
			return nil
		},
	}
}
