package cli

import (
	"errors"
	"fmt"
	"maps"
	"os"
	"slices"

	"github.com/spf13/cobra"

	"github.com/roach88/normstate/internal/compiler"
	"github.com/roach88/normstate/internal/schema"
)

// SchemaInfo describes one compiled schema.
type SchemaInfo struct {
	Name           string   `json:"name"`
	Kind           string   `json:"kind"` // "entity" | "union" | "array" | "object"
	IDAttribute    string   `json:"id_attribute,omitempty"`
	Members        []string `json:"members,omitempty"`
	Attribute      string   `json:"attribute,omitempty"`
	Discriminators []string `json:"discriminators,omitempty"`
}

// CompileResult is the output of the compile command.
type CompileResult struct {
	File    string       `json:"file"`
	Schemas []SchemaInfo `json:"schemas"`
}

// NewCompileCommand creates the compile command.
func NewCompileCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "compile <schema.cue>",
		Short: "Compile a CUE normalization schema",
		Long: `Compile a CUE document of entities and unions into a schema registry
and list the schemas it declares.

Examples:
  normstate compile ./schema.cue
  normstate compile ./schema.cue --format json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompile(rootOpts, args[0], cmd)
		},
	}
}

func runCompile(opts *RootOptions, path string, cmd *cobra.Command) error {
	f := newFormatter(opts, cmd.OutOrStdout(), cmd.ErrOrStderr())

	reg, err := compiler.LoadRegistry(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return f.Fail(ExitCommandError, ErrCodeNotFound, "schema file not found", err)
		}
		return f.Fail(ExitCommandError, ErrCodeCompile, "compilation failed", err)
	}

	result := CompileResult{File: path, Schemas: describeRegistry(reg)}
	if f.JSON() {
		return f.Success(result)
	}

	w := f.Writer
	fmt.Fprintf(w, "✓ Compiled %d schema(s) from %s\n\n", len(result.Schemas), path)
	for _, s := range result.Schemas {
		switch s.Kind {
		case "entity":
			fmt.Fprintf(w, "  %s: entity (id %s)", s.Name, s.IDAttribute)
			if len(s.Members) > 0 {
				fmt.Fprintf(w, ", members %v", s.Members)
			}
			fmt.Fprintln(w)
		case "union":
			fmt.Fprintf(w, "  %s: union on %s of %v\n", s.Name, s.Attribute, s.Discriminators)
		default:
			fmt.Fprintf(w, "  %s: %s\n", s.Name, s.Kind)
		}
	}
	return nil
}

func describeRegistry(reg *schema.Registry) []SchemaInfo {
	names := reg.Names()
	infos := make([]SchemaInfo, 0, len(names))
	for _, name := range names {
		s, _ := reg.Lookup(name)
		info := SchemaInfo{Name: name}
		switch s := s.(type) {
		case *schema.Entity:
			info.Kind = "entity"
			info.IDAttribute = s.IDAttribute()
			info.Members = slices.Sorted(maps.Keys(s.Definition()))
		case *schema.Union:
			info.Kind = "union"
			info.Attribute = s.Attribute()
			info.Discriminators = s.Discriminators()
		case *schema.Array:
			info.Kind = "array"
		default:
			info.Kind = "object"
		}
		infos = append(infos, info)
	}
	return infos
}
