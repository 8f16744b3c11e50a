package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/prodnet/internal/catalog"
	"github.com/roach88/prodnet/internal/engine"
	"github.com/roach88/prodnet/internal/ir"
	"github.com/roach88/prodnet/internal/plan"
	"github.com/roach88/prodnet/internal/store"
)

// EvalOptions holds flags for the eval command.
type EvalOptions struct {
	*RootOptions
	Catalog  string
	Database string // overrides store.path from config
	Save     bool
	CSV      bool
}

// EvalResult is the JSON payload of eval.
type EvalResult struct {
	ID      string          `json:"id"`
	Seq     int64           `json:"seq,omitempty"`
	Saved   bool            `json:"saved"`
	Created bool            `json:"created,omitempty"`
	Report  json.RawMessage `json:"report"`
}

// NewEvalCommand creates the eval command.
func NewEvalCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &EvalOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "eval <plan.yaml>",
		Short: "Build a plan and report the network",
		Long: `Build a production plan against a catalog and print the resulting report.

Targets are solved top-down: a node's capacity is derived from its desired
output, and each child is sized from its parent's demand.

Exit codes:
  0 - Report rendered
  1 - Plan could not be built (unknown recipe, unsolvable target)
  2 - Command error (missing files, store failure)

Examples:
  prodnet eval plans/gears.yaml --catalog ./catalog
  prodnet eval plans/gears.yaml --catalog ./catalog --csv
  prodnet eval plans/gears.yaml --catalog ./catalog --save --db ./prodnet.db`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEval(cmd.Context(), opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Catalog, "catalog", "", "path to the CUE catalog directory (required)")
	_ = cmd.MarkFlagRequired("catalog")
	cmd.Flags().StringVar(&opts.Database, "db", "", "report database (default from config)")
	cmd.Flags().BoolVar(&opts.Save, "save", false, "append the report to the store")
	cmd.Flags().BoolVar(&opts.CSV, "csv", false, "print rows as CSV instead of a table")

	return cmd
}

func runEval(ctx context.Context, opts *EvalOptions, planPath string, cmd *cobra.Command) error {
	if ctx == nil {
		ctx = context.Background()
	}
	formatter := opts.formatter(cmd)
	cfg := opts.settings()
	logger := opts.logger(cmd)

	p, err := plan.Load(planPath)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodePlan, "failed to load plan", err)
	}

	loaded, errs := catalog.Load(opts.Catalog, catalog.LoadModeFailFast)
	if len(errs) > 0 {
		code := catalog.ErrCodeGeneric
		var loadErr *catalog.LoadError
		if errors.As(errs[0], &loadErr) {
			code = loadErr.Code
		}
		return formatter.Fail(ExitCommandError, code, "failed to load catalog", errs[0])
	}

	netOpts := append(cfg.Engine.NetworkOptions(), engine.WithLogger(logger))
	net, err := plan.Build(p, loaded.Catalog, netOpts...)
	if err != nil {
		return formatter.Fail(ExitFailure, ErrCodeBuild, "failed to build plan", err)
	}

	report := plan.Render(net, p.Name)
	body, err := report.JSON()
	if err != nil {
		return formatter.Fail(ExitFailure, ErrCodeBuild, "failed to render report", err)
	}

	result := EvalResult{ID: ir.ReportID(p.Name, body), Report: body}
	if opts.Save {
		rec, created, err := saveReport(ctx, opts, p, len(report.Nodes), body)
		if err != nil {
			return formatter.Fail(ExitCommandError, ErrCodeStore, "failed to save report", err)
		}
		result.Saved, result.Created, result.Seq = true, created, rec.Seq
		logger.Info("report saved", "id", rec.ID, "seq", rec.Seq, "created", created)
	}

	if formatter.JSON() {
		return formatter.Success(result)
	}

	w := formatter.Writer
	if opts.CSV {
		err = report.WriteCSV(w)
	} else {
		err = report.WriteText(w)
	}
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to write report", err)
	}
	if result.Saved {
		state := "saved"
		if !result.Created {
			state = "unchanged"
		}
		fmt.Fprintf(w, "\nReport %s %s (seq %d)\n", result.ID, state, result.Seq)
	}
	return nil
}

func saveReport(ctx context.Context, opts *EvalOptions, p *plan.Plan, nodeCount int, body []byte) (store.Record, bool, error) {
	hash, err := p.Hash()
	if err != nil {
		return store.Record{}, false, err
	}

	path := opts.Database
	if path == "" {
		path = opts.settings().Store.Path
	}
	st, err := store.Open(path)
	if err != nil {
		return store.Record{}, false, err
	}
	defer st.Close()

	return st.Append(ctx, store.NewRecord(p.Name, hash, nodeCount, body))
}
