package compiler

import (
	"fmt"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"

	"github.com/roach88/normstate/internal/schema"
)

// CompileSource compiles CUE source text. name is used in positions.
func CompileSource(name string, src []byte) (*schema.Registry, error) {
	ctx := cuecontext.New()
	v := ctx.CompileBytes(src, cue.Filename(name))
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}
	return CompileRegistry(v)
}

// LoadRegistry reads and compiles a CUE schema file.
func LoadRegistry(path string) (*schema.Registry, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load schema: %w", err)
	}
	return CompileSource(path, src)
}
