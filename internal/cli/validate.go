package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/fallible/internal/harness"
	"github.com/roach88/fallible/internal/schema"
)

// FileValidation holds the validation errors for one scenario file.
type FileValidation struct {
	File   string                   `json:"file"`
	Valid  bool                     `json:"valid"`
	Errors []schema.ValidationError `json:"errors,omitempty"`
}

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid bool             `json:"valid"`
	Files []FileValidation `json:"files"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <scenarios-dir>",
		Short: "Validate scenario files without running them",
		Long: `Validate every scenario file in a directory against the scenario schema.

Reports all schema errors per file with their YAML line, then checks
that files passing the schema also load as runnable scenarios.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, scenariosDir string, cmd *cobra.Command) error {
	f := newFormatter(opts, cmd)

	if _, err := os.Stat(scenariosDir); os.IsNotExist(err) {
		return f.CommandError(ErrCodeDirNotFound, fmt.Sprintf("scenarios directory not found: %s", scenariosDir), nil)
	}

	files, err := findScenarioFiles(scenariosDir, "")
	if err != nil {
		return f.CommandError(ErrCodeGeneric, "failed to find scenarios", err)
	}

	f.VerboseLog("Found %d scenario file(s) in %s", len(files), scenariosDir)

	result := ValidationResult{
		Valid: true,
		Files: make([]FileValidation, 0, len(files)),
	}
	errCount := 0

	for _, file := range files {
		fv, err := validateFile(file)
		if err != nil {
			return f.CommandError(ErrCodeGeneric, fmt.Sprintf("failed to read %s", file), err)
		}
		if !fv.Valid {
			result.Valid = false
			errCount += len(fv.Errors)
		}
		result.Files = append(result.Files, fv)
	}

	if result.Valid {
		return outputValidateSuccess(f, result)
	}
	return outputValidationErrors(f, result, errCount)
}

// validateFile runs schema validation, then structural loading.
// Structural errors are only reported for files that pass the schema.
func validateFile(path string) (FileValidation, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return FileValidation{}, err
	}

	fv := FileValidation{File: path}
	fv.Errors = schema.ValidateScenario(path, data)

	if len(fv.Errors) == 0 {
		if _, err := harness.ParseScenario(data); err != nil {
			fv.Errors = append(fv.Errors, schema.ValidationError{
				Field:   "scenario",
				Message: err.Error(),
				Code:    schema.ErrInvalidScenario,
			})
		}
	}

	fv.Valid = len(fv.Errors) == 0
	return fv, nil
}

// outputValidateSuccess outputs successful validation results.
func outputValidateSuccess(f *OutputFormatter, result ValidationResult) error {
	if f.JSON() {
		return f.Success(result)
	}

	if len(result.Files) == 0 {
		fmt.Fprintln(f.Writer, "No scenarios found.")
		return nil
	}
	fmt.Fprintf(f.Writer, "✓ All %d scenario(s) valid\n", len(result.Files))
	return nil
}

// outputValidationErrors outputs every invalid file with its errors.
func outputValidationErrors(f *OutputFormatter, result ValidationResult, errCount int) error {
	msg := fmt.Sprintf("validation failed with %d error(s)", errCount)

	if f.JSON() {
		if err := f.Failure(result, ErrCodeInvalid, msg); err != nil {
			return err
		}
		return NewExitError(ExitFailure, msg)
	}

	fmt.Fprintln(f.Writer, "✗ Validation failed")
	fmt.Fprintln(f.Writer)

	for _, fv := range result.Files {
		if fv.Valid {
			continue
		}
		fmt.Fprintln(f.Writer, fv.File)
		for _, e := range fv.Errors {
			if e.Line > 0 {
				fmt.Fprintf(f.Writer, "  line %d\n", e.Line)
			}
			fmt.Fprintf(f.Writer, "  %s: %s: %s\n\n", e.Code, e.Field, e.Message)
		}
	}

	return NewExitError(ExitFailure, msg)
}
