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
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"sigs.k8s.io/yaml"

	"github.com/dejlek/itl/cmd/itl/internal/loader"
	"github.com/dejlek/itl/pkg/graph"
	"github.com/dejlek/itl/pkg/openapi"
)

type ExportOpenAPIOptions struct {
	Path        string
	LegacyKinds bool
	YAML        bool
}

func NewExportOpenAPICommand(cli *CLI) *cobra.Command {
	var opts ExportOpenAPIOptions

	cmd := &cobra.Command{
		Use:   "openapi",
		Short: "Export a document as an OpenAPI v3 schema",
		Long: Highlight("itl export openapi -f <file>") + "\n\n" +
			"Compile a type definition document and write the equivalent OpenAPI\n" +
			"v3 schema to standard output. Named types become definitions and\n" +
			"references to them become $ref pointers, so recursive types export\n" +
			"without expansion.\n\n" +
			"Examples:\n" +
			"  # Export a document as OpenAPI JSON\n" +
			"  itl export openapi -f types.json\n\n" +
			"  # Export as YAML instead\n" +
			"  itl export openapi -f types.json --yaml\n",
		RunE: func(cmd *cobra.Command, args []string) error {
			return RunExportOpenAPI(cmd.Context(), cli, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Path, "file", "f", "", "Path to document file")
	cmd.Flags().BoolVar(&opts.LegacyKinds, "legacy-kinds", false, "Accept the legacy bitset, enum and rune kinds")
	cmd.Flags().BoolVar(&opts.YAML, "yaml", false, "Write YAML instead of JSON")
	cmd.MarkFlagRequired("file")

	return cmd
}

func RunExportOpenAPI(ctx context.Context, cli *CLI, opts ExportOpenAPIOptions) error {
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

	props, err := openapi.Export(g)
	if err != nil {
		return fmt.Errorf("failed to export %q: %w", opts.Path, err)
	}

	out, err := json.MarshalIndent(props, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal schema: %w", err)
	}

	if opts.YAML {
		out, err = yaml.JSONToYAML(out)
		if err != nil {
			return fmt.Errorf("failed to convert schema to YAML: %w", err)
		}
	}

	cli.Println(string(out))
	return nil
}
