package cli

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/roach88/prodnet/internal/store"
)

// StoreOptions holds the flags shared by commands that read the report store.
type StoreOptions struct {
	*RootOptions
	Database string
}

func (o *StoreOptions) open() (*store.Store, error) {
	path := o.Database
	if path == "" {
		path = o.settings().Store.Path
	}
	return store.Open(path)
}

// HistoryEntry is one listed report.
type HistoryEntry struct {
	Seq           int64  `json:"seq"`
	ID            string `json:"id"`
	Plan          string `json:"plan"`
	PlanHash      string `json:"plan_hash"`
	Nodes         int    `json:"nodes"`
	EngineVersion string `json:"engine_version"`
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &StoreOptions{RootOptions: rootOpts}
	var planName string

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List stored reports",
		Long: `List reports saved with "eval --save", oldest first.

Examples:
  prodnet history
  prodnet history --plan gears --db ./prodnet.db --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(cmd.Context(), opts, planName, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "report database (default from config)")
	cmd.Flags().StringVar(&planName, "plan", "", "only list reports for this plan")

	return cmd
}

func runHistory(ctx context.Context, opts *StoreOptions, planName string, cmd *cobra.Command) error {
	if ctx == nil {
		ctx = context.Background()
	}
	formatter := opts.formatter(cmd)

	st, err := opts.open()
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeStore, "failed to open database", err)
	}
	defer st.Close()

	records, err := st.ListReports(ctx, planName)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeStore, "failed to list reports", err)
	}

	entries := make([]HistoryEntry, len(records))
	for i, rec := range records {
		entries[i] = HistoryEntry{
			Seq:           rec.Seq,
			ID:            rec.ID,
			Plan:          rec.Plan,
			PlanHash:      rec.PlanHash,
			Nodes:         rec.NodeCount,
			EngineVersion: rec.EngineVersion,
		}
	}

	if formatter.JSON() {
		return formatter.Success(entries)
	}
	if len(entries) == 0 {
		fmt.Fprintln(formatter.Writer, "No reports found.")
		return nil
	}

	tw := tabwriter.NewWriter(formatter.Writer, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "SEQ\tID\tPLAN\tNODES\tENGINE")
	for _, e := range entries {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%s\n", e.Seq, e.ID, e.Plan, e.Nodes, e.EngineVersion)
	}
	return tw.Flush()
}
