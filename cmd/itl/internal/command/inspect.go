// Copyright 2026 The ITL Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package command

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dejlek/itl/cmd/itl/internal/loader"
	"github.com/dejlek/itl/cmd/itl/internal/view"
	"github.com/dejlek/itl/pkg/graph"
	"github.com/dejlek/itl/pkg/schema"
)

type InspectOptions struct {
	Path        string
	LegacyKinds bool
}

func NewInspectCommand(cli *CLI) *cobra.Command {
	var opts InspectOptions

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Show the resolved types of a document",
		Long: Highlight("itl inspect -f <file>") + "\n\n" +
			"Compile a type definition document and list its named types with\n" +
			"their kinds. References are resolved, so the listing reflects the\n" +
			"linked type graph rather than the raw document.\n\n" +
			"Examples:\n" +
			"  # Inspect a document\n" +
			"  itl inspect -f types.json\n",
		RunE: func(cmd *cobra.Command, args []string) error {
			return RunInspect(cmd.Context(), cli, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Path, "file", "f", "", "Path to document file")
	cmd.Flags().BoolVar(&opts.LegacyKinds, "legacy-kinds", false, "Accept the legacy bitset, enum and rune kinds")
	cmd.MarkFlagRequired("file")

	return cmd
}

func RunInspect(ctx context.Context, cli *CLI, opts InspectOptions) error {
	data, err := loader.LoadDocument(opts.Path)
	if err != nil {
		return err
	}

	var compileOpts []graph.Option
	if opts.LegacyKinds {
		compileOpts = append(compileOpts, graph.WithLegacyKinds())
	}

	g, err := graph.Compile(data, compileOpts...)
	if err != nil {
		return fmt.Errorf("failed to compile %q:\n%w", opts.Path, err)
	}

	result := view.InspectResult{File: opts.Path}
	for _, name := range g.Registry().Names() {
		def, _ := g.Registry().Lookup(name)
		result.Types = append(result.Types, view.InspectedType{
			Name:   name,
			Kind:   string(def.Kind()),
			Detail: summarize(def),
		})
	}

	cli.InspectView().Render(result)
	return nil
}

// summarize renders a one-line description of a definition's shape.
func summarize(def schema.TypeDef) string {
	switch d := def.(type) {
	case *schema.Int:
		if d.Bits == nil {
			if d.Unsigned {
				return "unsigned, unbounded"
			}
			return "unbounded"
		}
		if d.Unsigned {
			return fmt.Sprintf("uint%d", *d.Bits)
		}
		return fmt.Sprintf("int%d", *d.Bits)
	case *schema.Float:
		return string(d.Model)
	case *schema.Fixed:
		return fmt.Sprintf("base %d, %d digits, scale %d", d.Base, d.Digits, d.Scale)
	case *schema.String:
		switch {
		case d.Size != nil:
			return fmt.Sprintf("%d code points", *d.Size)
		case d.Capacity != nil:
			return fmt.Sprintf("up to %d code points", *d.Capacity)
		}
		return "variable"
	case *schema.Sequence:
		elem := refName(d.Elem)
		switch {
		case len(d.Dims) > 0:
			dims := make([]string, len(d.Dims))
			for i, n := range d.Dims {
				dims[i] = fmt.Sprintf("%d", n)
			}
			return fmt.Sprintf("%s of %s", strings.Join(dims, "x"), elem)
		case d.Size != nil:
			return fmt.Sprintf("%d of %s", *d.Size, elem)
		case d.Capacity != nil:
			return fmt.Sprintf("up to %d of %s", *d.Capacity, elem)
		}
		return "variable of " + elem
	case *schema.Record:
		return plural(len(d.Fields), "field")
	case *schema.Union:
		return plural(len(d.Fields), "arm")
	case *schema.Enum:
		return plural(len(d.Values), "value")
	case *schema.Bitset:
		return plural(len(d.Flags), "flag")
	case *schema.Rune:
		if d.Encoding != "" {
			return d.Encoding
		}
	}
	return ""
}

func refName(r schema.Ref) string {
	if r.Named() {
		return r.Name
	}
	return string(r.Def.Kind())
}

func plural(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
