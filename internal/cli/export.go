package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var exportOut string

func newExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export <session-id>",
		Short: "Export a recorded session as JSONL",
		Long: `Export writes the records of a session to a JSONL file, one record per
line in arrival order. The session may be named by a unique prefix of its
ID. The file defaults to <session-id>.jsonl in the current directory.`,
		Args: cobra.ExactArgs(1),
		RunE: runExport,
	}
	cmd.Flags().StringVar(&exportOut, "out", "", "output file (default <session-id>.jsonl)")
	return cmd
}

func runExport(cmd *cobra.Command, args []string) error {
	cfg, err := loadCommandConfig(nil)
	if err != nil {
		return err
	}

	backend, err := openStore(cfg.DataDir)
	if err != nil {
		return err
	}
	defer backend.Detach()

	sess, err := backend.FindSession(args[0])
	if err != nil {
		return userError(err)
	}

	path := exportOut
	if path == "" {
		path = sess.SessionID + ".jsonl"
	}
	n, err := backend.ExportJSONL(sess.SessionID, path)
	if err != nil {
		return sysError(err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Exported %d records to %s\n", n, path)
	return nil
}
