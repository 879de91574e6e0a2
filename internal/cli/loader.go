package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"cuelang.org/go/cue/token"
	"github.com/bmatcuk/doublestar/v4"

	"github.com/roach88/colorgraph/internal/colors"
	"github.com/roach88/colorgraph/internal/compiler"
)

// LoadResult is a compiled color table together with the files it came from.
type LoadResult struct {
	Files    []string
	Table    *compiler.ColorTable
	Registry *colors.Registry
}

// LoadError represents an error that occurred while loading a color table.
type LoadError struct {
	Code    string
	Message string
	Pos     token.Pos // CUE position if available
	Err     error
}

func (e *LoadError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// Line returns the 1-based source line of the error, or 0 if unknown.
func (e *LoadError) Line() int {
	if e.Pos.IsValid() {
		return e.Pos.Line()
	}
	return 0
}

// IsCommandError reports whether the error concerns the invocation itself
// (pattern, files) rather than the content of the specs.
func (e *LoadError) IsCommandError() bool {
	switch e.Code {
	case ErrCodeInvalidPattern, ErrCodeNoFiles, ErrCodeReadFailed, ErrCodeNotFound:
		return true
	}
	return false
}

// FindSpecFiles expands a doublestar pattern into the sorted list of CUE
// files it matches. A directory is treated as "<dir>/**/*.cue".
func FindSpecFiles(pattern string) ([]string, error) {
	if info, err := os.Stat(pattern); err == nil && info.IsDir() {
		pattern = filepath.Join(pattern, "**", "*.cue")
	}

	if !doublestar.ValidatePathPattern(pattern) {
		return nil, &LoadError{Code: ErrCodeInvalidPattern, Message: fmt.Sprintf("invalid pattern %q", pattern)}
	}

	matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, &LoadError{Code: ErrCodeInvalidPattern, Message: fmt.Sprintf("invalid pattern %q", pattern), Err: err}
	}

	var files []string
	for _, m := range matches {
		if strings.HasSuffix(m, ".cue") {
			files = append(files, m)
		}
	}
	if len(files) == 0 {
		return nil, &LoadError{Code: ErrCodeNoFiles, Message: fmt.Sprintf("no CUE files match %s", pattern)}
	}

	slices.Sort(files)
	return files, nil
}

// LoadTable finds the CUE files matching pattern and compiles their color
// table. Anonymous objects get identities from gen.
func LoadTable(pattern string, gen colors.IdentityGenerator) (*LoadResult, error) {
	files, err := FindSpecFiles(pattern)
	if err != nil {
		return nil, err
	}

	registry := colors.NewRegistry()
	table, err := compiler.LoadColorTable(files, registry, gen)
	if err != nil {
		return nil, classifyCompileError(err)
	}

	return &LoadResult{Files: files, Table: table, Registry: registry}, nil
}

func classifyCompileError(err error) *LoadError {
	var compileErr *compiler.CompileError
	if errors.As(err, &compileErr) {
		return &LoadError{
			Code:    mapCompileErrorToCode(compileErr.Field),
			Message: compileErr.Message,
			Pos:     compileErr.Pos,
			Err:     err,
		}
	}
	if errors.Is(err, os.ErrNotExist) {
		return &LoadError{Code: ErrCodeNotFound, Message: err.Error(), Err: err}
	}
	var readErr *compiler.ReadError
	if errors.As(err, &readErr) {
		return &LoadError{Code: ErrCodeReadFailed, Message: err.Error(), Err: err}
	}
	return &LoadError{Code: ErrCodeGeneric, Message: err.Error(), Err: err}
}

// mapCompileErrorToCode maps a compile error field to an error code.
func mapCompileErrorToCode(field string) string {
	switch field {
	case "cue":
		return ErrCodeCUE
	case compiler.TablePath:
		return ErrCodeNoTable
	case "kind":
		return ErrCodeBadKind
	case "natives":
		return ErrCodeBadNative
	case "members":
		return ErrCodeBadMember
	case "anonymous":
		return ErrCodeAnonymous
	default:
		return ErrCodeGeneric
	}
}
