package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/trailplot/pkg/types"
)

func newSessionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sessions",
		Short: "List recorded sessions",
		Long:  "Sessions lists the sessions recorded with watch --record, newest first.",
		Args:  cobra.NoArgs,
		RunE:  runSessions,
	}
}

func runSessions(cmd *cobra.Command, args []string) error {
	cfg, err := loadCommandConfig(nil)
	if err != nil {
		return err
	}

	backend, err := openStore(cfg.DataDir)
	if err != nil {
		return err
	}
	defer backend.Detach()

	sessions, err := backend.Sessions()
	if err != nil {
		return sysError(err)
	}

	out := cmd.OutOrStdout()
	if flags.jsonMode {
		if sessions == nil {
			sessions = []types.Session{}
		}
		data, err := json.MarshalIndent(sessions, "", "  ")
		if err != nil {
			return sysError(fmt.Errorf("marshal sessions: %w", err))
		}
		fmt.Fprintln(out, string(data))
		return nil
	}

	if len(sessions) == 0 {
		fmt.Fprintln(out, "No sessions recorded")
		return nil
	}
	writeSessionTable(out, sessions)
	return nil
}

func writeSessionTable(out io.Writer, sessions []types.Session) {
	var sb strings.Builder
	w := tabwriter.NewWriter(&sb, 0, 0, 2, ' ', 0)

	fmt.Fprintln(w, "ID\tSTARTED\tDRIVER\tSOURCE\tRECORDS")
	fmt.Fprintln(w, "--\t-------\t------\t------\t-------")
	short := shortIDs(sessions)
	for i, s := range sessions {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\n",
			short[i],
			s.StartedAt.Local().Format(time.DateTime),
			s.Driver,
			s.Source,
			s.Records,
		)
	}
	w.Flush()
	fmt.Fprint(out, sb.String())
	fmt.Fprintf(out, "\nTotal: %d session(s)\n", len(sessions))
}

// minShortID is the shortest prefix shown for a session ID.
const minShortID = 8

// shortIDs returns for each session the shortest ID prefix, at least
// minShortID long, that no other listed session shares. UUID v7 IDs of
// sessions started close together share their leading timestamp digits.
func shortIDs(sessions []types.Session) []string {
	out := make([]string, len(sessions))
	for i, s := range sessions {
		n := min(minShortID, len(s.SessionID))
		for j, other := range sessions {
			if i == j {
				continue
			}
			for n < len(s.SessionID) && strings.HasPrefix(other.SessionID, s.SessionID[:n]) {
				n++
			}
		}
		out[i] = s.SessionID[:n]
	}
	return out
}
