package cli

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/prodnet/internal/store"
)

// ShowResult is the JSON payload of show.
type ShowResult struct {
	HistoryEntry
	ReportVersion string          `json:"report_version"`
	Report        json.RawMessage `json:"report"`
}

// NewShowCommand creates the show command.
func NewShowCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &StoreOptions{RootOptions: rootOpts}
	var latest bool

	cmd := &cobra.Command{
		Use:   "show <id|plan>",
		Short: "Print a stored report",
		Long: `Print a stored report by id, or the newest report of a plan with --latest.

Exit codes:
  0 - Report printed
  1 - No such report
  2 - Command error (database unreadable)

Examples:
  prodnet show 3f1c...
  prodnet show gears --latest --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShow(cmd.Context(), opts, args[0], latest, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "report database (default from config)")
	cmd.Flags().BoolVar(&latest, "latest", false, "treat the argument as a plan name and show its newest report")

	return cmd
}

func runShow(ctx context.Context, opts *StoreOptions, key string, latest bool, cmd *cobra.Command) error {
	if ctx == nil {
		ctx = context.Background()
	}
	formatter := opts.formatter(cmd)

	st, err := opts.open()
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeStore, "failed to open database", err)
	}
	defer st.Close()

	var rec store.Record
	if latest {
		rec, err = st.Latest(ctx, key)
	} else {
		rec, err = st.ReadReport(ctx, key)
	}
	if errors.Is(err, sql.ErrNoRows) {
		return formatter.Fail(ExitFailure, ErrCodeNotFound, fmt.Sprintf("no report %q", key), nil)
	}
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeStore, "failed to read report", err)
	}

	if formatter.JSON() {
		return formatter.Success(ShowResult{
			HistoryEntry: HistoryEntry{
				Seq:           rec.Seq,
				ID:            rec.ID,
				Plan:          rec.Plan,
				PlanHash:      rec.PlanHash,
				Nodes:         rec.NodeCount,
				EngineVersion: rec.EngineVersion,
			},
			ReportVersion: rec.ReportVersion,
			Report:        rec.Body,
		})
	}

	w := formatter.Writer
	fmt.Fprintf(w, "Report %s\n", rec.ID)
	fmt.Fprintf(w, "Plan:    %s (seq %d, %d nodes)\n", rec.Plan, rec.Seq, rec.NodeCount)
	fmt.Fprintf(w, "Engine:  %s (report v%s)\n\n", rec.EngineVersion, rec.ReportVersion)

	var pretty bytes.Buffer
	if err := json.Indent(&pretty, rec.Body, "", "  "); err != nil {
		return WrapExitError(ExitCommandError, "stored report is not valid JSON", err)
	}
	pretty.WriteByte('\n')
	_, err = pretty.WriteTo(w)
	return err
}
