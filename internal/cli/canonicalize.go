package cli

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/roach88/colorgraph/internal/colors"
	"github.com/roach88/colorgraph/internal/disambiguate"
	"github.com/roach88/colorgraph/internal/ir"
)

// CanonicalizeOptions holds flags for the canonicalize command.
type CanonicalizeOptions struct {
	*RootOptions
	MaxDepth int
}

// CanonicalEntry is the node one table entry canonicalized to.
type CanonicalEntry struct {
	Name      string `json:"name"`
	Color     string `json:"color"`
	NodeColor string `json:"node_color"`
	Index     int    `json:"index"`
}

// NodeInfo describes one node known by the factory.
type NodeInfo struct {
	Index int    `json:"index"`
	Color string `json:"color"`
	Kind  string `json:"kind"`
}

// CanonicalizeResult is the output of the canonicalize command.
type CanonicalizeResult struct {
	Files       []string         `json:"files"`
	ColorModel  string           `json:"color_model"`
	TableDigest string           `json:"table_digest"`
	Entries     []CanonicalEntry `json:"entries"`
	Nodes       []NodeInfo       `json:"nodes"`
}

// NewCanonicalizeCommand creates the canonicalize command.
func NewCanonicalizeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CanonicalizeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "canonicalize <pattern>",
		Short: "Canonicalize every color of a CUE color table",
		Long: `Compile the color table found in the CUE files matching <pattern>
and request a graph node for each entry, in declaration order.

<pattern> is a doublestar glob such as "specs/**/*.cue", or a directory.

Exit codes:
  0 - Success
  1 - Invalid color table or invariant violation
  2 - Command error (bad pattern, no files)

Examples:
  colorgraph canonicalize ./specs
  colorgraph canonicalize "specs/**/*.cue" --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCanonicalize(opts, args[0], cmd)
		},
	}

	cmd.Flags().IntVar(&opts.MaxDepth, "max-depth", disambiguate.DefaultMaxDepth, "maximum union nesting depth")

	return cmd
}

func runCanonicalize(opts *CanonicalizeOptions, pattern string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	loaded, err := LoadTable(pattern, colors.UUIDv7Generator{})
	if err != nil {
		return outputLoadError(formatter, err)
	}
	formatter.VerboseLog("Compiled %d color(s) from %d file(s)", loaded.Table.Len(), len(loaded.Files))

	result, err := canonicalizeTable(loaded, opts.Logger(cmd.ErrOrStderr()),
		disambiguate.WithMaxDepth(opts.MaxDepth))
	if err != nil {
		var ie *disambiguate.InvariantError
		if errors.As(err, &ie) {
			_ = formatter.Error(ErrCodeInvariant, ie.Error(), nil)
			return WrapExitError(ExitFailure, "canonicalization failed", err)
		}
		_ = formatter.Error(ErrCodeGeneric, err.Error(), nil)
		return WrapExitError(ExitCommandError, "canonicalization failed", err)
	}

	if opts.Format == "json" {
		return formatter.Success(result)
	}
	outputCanonicalizeText(formatter, result)
	return nil
}

// canonicalizeTable runs every table entry through one fresh factory.
func canonicalizeTable(loaded *LoadResult, logger *slog.Logger, opts ...disambiguate.FactoryOption) (result *CanonicalizeResult, err error) {
	defer disambiguate.RecoverInvariant(&err)

	digest, err := loaded.Table.Digest()
	if err != nil {
		return nil, fmt.Errorf("failed to digest color table: %w", err)
	}

	factory := disambiguate.NewFactory(loaded.Registry, append([]disambiguate.FactoryOption{disambiguate.WithLogger(logger)}, opts...)...)

	result = &CanonicalizeResult{
		Files:       loaded.Files,
		ColorModel:  ir.ColorModelVersion,
		TableDigest: digest,
		Entries:     make([]CanonicalEntry, 0, loaded.Table.Len()),
	}
	for _, name := range loaded.Table.Names() {
		color := loaded.Table.MustLookup(name)
		node := factory.CreateNode(color)
		result.Entries = append(result.Entries, CanonicalEntry{
			Name:      name,
			Color:     color.String(),
			NodeColor: node.Color().String(),
			Index:     node.Index(),
		})
	}

	for _, node := range factory.AllKnownTypes() {
		result.Nodes = append(result.Nodes, NodeInfo{
			Index: node.Index(),
			Color: node.Color().String(),
			Kind:  node.Color().Kind().String(),
		})
	}
	return result, nil
}

func outputCanonicalizeText(f *OutputFormatter, result *CanonicalizeResult) {
	w := f.Writer

	width := 0
	for _, e := range result.Entries {
		width = max(width, len(e.Name))
	}

	fmt.Fprintf(w, "Canonicalized %d color(s) from %d file(s) into %d node(s)\n\n",
		len(result.Entries), len(result.Files), len(result.Nodes))
	for _, e := range result.Entries {
		fmt.Fprintf(w, "  %-*s -> #%d %s\n", width, e.Name, e.Index, e.NodeColor)
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Nodes:")
	for _, n := range result.Nodes {
		fmt.Fprintf(w, "  #%d %s (%s)\n", n.Index, n.Color, n.Kind)
	}
}

// outputLoadError reports a LoadError and picks the exit code: content
// errors fail with ExitFailure, invocation errors with ExitCommandError.
func outputLoadError(f *OutputFormatter, err error) error {
	var loadErr *LoadError
	if !errors.As(err, &loadErr) {
		_ = f.Error(ErrCodeGeneric, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to load color table", err)
	}

	var details any
	if line := loadErr.Line(); line > 0 {
		details = map[string]any{"file": loadErr.Pos.Filename(), "line": line}
	}
	_ = f.Error(loadErr.Code, loadErr.Message, details)

	if loadErr.IsCommandError() {
		return WrapExitError(ExitCommandError, "failed to load color table", err)
	}
	return WrapExitError(ExitFailure, "invalid color table", err)
}
