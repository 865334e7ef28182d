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
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/dejlek/itl/cmd/itl/internal/loader"
	"github.com/dejlek/itl/cmd/itl/internal/view"
	"github.com/dejlek/itl/pkg/graph"
)

// validateConcurrency bounds how many documents compile at once.
const validateConcurrency int64 = 4

type ValidateOptions struct {
	Path        string
	LegacyKinds bool
}

func NewValidateCommand(cli *CLI) *cobra.Command {
	var opts ValidateOptions

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate type definition documents",
		Long: Highlight("itl validate -f <path>") + "\n\n" +
			"Validate type definition documents by file or directory.\n\n" +
			"Performs structural and semantic validation. A document is either\n" +
			"accepted as a whole or rejected with every detected problem listed.\n" +
			"When targeting a directory, all .json, .yaml and .yml files will be\n" +
			"validated.\n\n" +
			"Examples:\n" +
			"  # Validate a single document\n" +
			"  itl validate -f types.json\n\n" +
			"  # Validate all documents in a directory\n" +
			"  itl validate -f .\n",
		RunE: func(cmd *cobra.Command, args []string) error {
			return RunValidate(cmd.Context(), cli, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Path, "file", "f", "", "Path to document file or directory")
	cmd.Flags().BoolVar(&opts.LegacyKinds, "legacy-kinds", false, "Accept the legacy bitset, enum and rune kinds")
	cmd.MarkFlagRequired("file")

	return cmd
}

func RunValidate(ctx context.Context, cli *CLI, opts ValidateOptions) error {
	results, err := loader.LoadDocumentsDetailed(opts.Path)
	if err != nil {
		return err
	}

	if len(results) == 0 {
		return fmt.Errorf("no document files found in %q", opts.Path)
	}

	var compileOpts []graph.Option
	if opts.LegacyKinds {
		compileOpts = append(compileOpts, graph.WithLegacyKinds())
	}

	// Compile documents concurrently. Each slot is written by exactly one
	// goroutine so the slice needs no locking.
	fileErrs := make([]error, len(results))
	sem := semaphore.NewWeighted(validateConcurrency)
	g, gctx := errgroup.WithContext(ctx)
	for i, result := range results {
		if result.Err != nil {
			fileErrs[i] = result.Err
			continue
		}
		g.Go(func() error {
			if err := sem.Acquire(gctx, 1); err != nil {
				return err
			}
			defer sem.Release(1)
			_, compileErr := graph.Compile(result.Data, compileOpts...)
			fileErrs[i] = compileErr
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	resultView := view.ValidateResult{FileCount: len(results)}
	for i, result := range results {
		if fileErrs[i] != nil {
			resultView.Issues = append(resultView.Issues, issues(result.Path, fileErrs[i])...)
		}
	}

	cli.ValidateView().Render(resultView)
	if resultView.HasErrors() {
		return errors.New("")
	}
	return nil
}

// issues expands one document's failure into per-error entries. Compiler
// errors keep their stage and rule/code classification and document path;
// anything else (loader errors) becomes a bare detail.
func issues(file string, err error) []view.ValidateIssue {
	var list graph.ErrorList
	if !errors.As(err, &list) {
		return []view.ValidateIssue{{File: file, Detail: err.Error()}}
	}

	out := make([]view.ValidateIssue, 0, len(list))
	for _, e := range list {
		switch t := e.(type) {
		case *graph.ParseError:
			out = append(out, view.ValidateIssue{
				File:   file,
				Stage:  string(t.Stage()),
				Path:   fmt.Sprintf("line %d, column %d", t.Line, t.Column),
				Detail: t.Err.Error(),
			})
		case *graph.StructuralError:
			out = append(out, view.ValidateIssue{
				File:   file,
				Stage:  string(t.Stage()),
				Code:   string(t.Code),
				Path:   t.Path,
				Detail: t.Detail,
			})
		case *graph.ValidationError:
			out = append(out, view.ValidateIssue{
				File:   file,
				Stage:  string(t.Stage()),
				Code:   string(t.Rule),
				Path:   t.Path,
				Detail: t.Detail,
			})
		default:
			out = append(out, view.ValidateIssue{File: file, Detail: e.Error()})
		}
	}
	return out
}
