package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/prodnet/internal/catalog"
)

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid   bool                       `json:"valid"`
	Files   int                        `json:"files"`
	Recipes int                        `json:"recipes"`
	Units   int                        `json:"units"`
	Modules int                        `json:"modules"`
	Errors  []catalog.ValidationError `json:"errors,omitempty"`
}

func (r ValidationResult) String() string {
	return fmt.Sprintf("✓ Catalog valid: %d recipe(s), %d unit(s), %d module(s)", r.Recipes, r.Units, r.Modules)
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <catalog-dir>",
		Short: "Validate a recipe catalog",
		Long: `Load a CUE catalog directory and check every recipe, unit and module.

All errors are collected and reported together.

Exit codes:
  0 - Catalog is valid
  1 - Catalog has validation errors
  2 - Command error (directory not found, no CUE files, CUE syntax errors)`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}
	return cmd
}

func runValidate(opts *RootOptions, dir string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	loaded, loadErrs := catalog.Load(dir, catalog.LoadModeCollectAll)
	if loaded == nil {
		code, msg := catalog.ErrCodeGeneric, "catalog could not be loaded"
		var loadErr *catalog.LoadError
		if len(loadErrs) > 0 && errors.As(loadErrs[0], &loadErr) {
			code, msg = loadErr.Code, loadErr.Message
		}
		_ = formatter.Error(code, msg, nil)
		return NewExitError(ExitCommandError, fmt.Sprintf("%s: %s", code, msg))
	}
	formatter.VerboseLog("Found %d CUE file(s) in %s", loaded.FileCount, dir)

	cat := loaded.Catalog
	result := ValidationResult{
		Files:   loaded.FileCount,
		Recipes: len(cat.Recipes),
		Units:   len(cat.Units),
		Modules: len(cat.Modules),
	}
	for _, err := range loadErrs {
		result.Errors = append(result.Errors, toValidationError(err))
	}
	result.Errors = append(result.Errors, catalog.Validate(cat)...)

	if len(result.Errors) > 0 {
		return outputValidationErrors(formatter, result)
	}
	result.Valid = true
	return formatter.Success(result)
}

func toValidationError(err error) catalog.ValidationError {
	var loadErr *catalog.LoadError
	if errors.As(err, &loadErr) {
		ve := catalog.ValidationError{Field: "load", Message: loadErr.Message, Code: loadErr.Code}
		if loadErr.Pos.IsValid() {
			ve.Line = loadErr.Pos.Line()
		}
		return ve
	}
	return catalog.ValidationError{Field: "load", Message: err.Error(), Code: catalog.ErrCodeGeneric}
}

// outputValidationErrors reports every error. Validation failures exit 1.
func outputValidationErrors(formatter *OutputFormatter, result ValidationResult) error {
	exitErr := NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(result.Errors)))

	if formatter.JSON() {
		first := result.Errors[0]
		if err := formatter.Failure(first.Code, first.Message, result); err != nil {
			return err
		}
		return exitErr
	}

	fmt.Fprintln(formatter.Writer, "✗ Validation failed")
	fmt.Fprintln(formatter.Writer)
	for _, err := range result.Errors {
		if err.Line > 0 {
			fmt.Fprintf(formatter.Writer, "line %d\n", err.Line)
		}
		fmt.Fprintf(formatter.Writer, "  %s: %s: %s\n\n", err.Code, err.Field, err.Message)
	}
	return exitErr
}
