package compiler

import (
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"

	"github.com/roach88/colorgraph/internal/colors"
)

// TablePath is the CUE path holding the color table in spec files.
const TablePath = "color"

// LoadColorTable reads CUE files, unifies them, and compiles the table at
// TablePath. Files are unified in the order given, so a table may be split
// across several files.
func LoadColorTable(paths []string, registry *colors.Registry, gen colors.IdentityGenerator) (*ColorTable, error) {
	if len(paths) == 0 {
		return nil, &CompileError{Field: TablePath, Message: "no CUE files given"}
	}

	ctx := cuecontext.New()
	var value cue.Value
	for i, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, &ReadError{Path: path, Err: err}
		}
		v := ctx.CompileBytes(data, cue.Filename(path))
		if err := v.Err(); err != nil {
			return nil, formatCUEError(err)
		}
		if i == 0 {
			value = v
			continue
		}
		value = value.Unify(v)
	}

	return CompileTableValue(value, registry, gen)
}

// CompileTableValue compiles the table found at TablePath inside v.
func CompileTableValue(v cue.Value, registry *colors.Registry, gen colors.IdentityGenerator) (*ColorTable, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	tableVal := v.LookupPath(cue.ParsePath(TablePath))
	if !tableVal.Exists() {
		return nil, &CompileError{
			Field:   TablePath,
			Message: "no color table found",
			Pos:     v.Pos(),
		}
	}
	return CompileColorTable(tableVal, registry, gen)
}
