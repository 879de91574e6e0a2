package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/colorgraph/internal/colors"
	"github.com/roach88/colorgraph/internal/ir"
)

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid       bool     `json:"valid"`
	Files       []string `json:"files"`
	Entries     []string `json:"entries"`
	ColorModel  string   `json:"color_model"`
	TableDigest string   `json:"table_digest"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <pattern>",
		Short: "Compile a color table without canonicalizing it",
		Long: `Compile the color table found in the CUE files matching <pattern> and
report the first error: CUE conflicts, unknown kinds or natives, unknown
union members and union reference cycles.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, pattern string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	loaded, err := LoadTable(pattern, colors.UUIDv7Generator{})
	if err != nil {
		return outputLoadError(formatter, err)
	}
	for _, f := range loaded.Files {
		formatter.VerboseLog("Loaded %s", f)
	}

	digest, err := loaded.Table.Digest()
	if err != nil {
		_ = formatter.Error(ErrCodeGeneric, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to digest color table", err)
	}

	if opts.Format == "json" {
		return formatter.Success(ValidationResult{
			Valid:       true,
			Files:       loaded.Files,
			Entries:     loaded.Table.Names(),
			ColorModel:  ir.ColorModelVersion,
			TableDigest: digest,
		})
	}

	fmt.Fprintf(formatter.Writer, "✓ Color table valid: %d entries in %d file(s)\n",
		loaded.Table.Len(), len(loaded.Files))
	return nil
}
