package survey

import (
	_ "embed"

	"github.com/roach88/normstate/internal/compiler"
	"github.com/roach88/normstate/internal/schema"
)

//go:embed schema.cue
var schemaSource []byte

// SchemaSource returns the CUE document the registry is compiled from.
func SchemaSource() []byte {
	return append([]byte(nil), schemaSource...)
}

// Registry compiles the survey schemas.
func Registry() (*schema.Registry, error) {
	return compiler.CompileSource("survey/schema.cue", schemaSource)
}
