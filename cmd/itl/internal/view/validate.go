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

package view

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/fatih/color"
)

type ValidateView interface {
	Render(result ValidateResult)
}

// ValidateIssue is one compiler-reported problem in one document. Stage,
// Code and Path carry the compiler's classification through to the output
// instead of flattening everything into a single message.
type ValidateIssue struct {
	File   string `json:"file"`
	Stage  string `json:"stage,omitempty"`
	Code   string `json:"code,omitempty"`
	Path   string `json:"path,omitempty"`
	Detail string `json:"detail"`
}

// ValidateResult aggregates the issues of one validation run across all
// loaded documents.
type ValidateResult struct {
	FileCount int
	Issues    []ValidateIssue
}

func (r ValidateResult) HasErrors() bool {
	return len(r.Issues) > 0
}

// Human view implementation.

type validateHumanView struct {
	*HumanView
}

func (v *validateHumanView) Render(result ValidateResult) {
	if !result.HasErrors() {
		v.Println(color.RGB(50, 108, 229).Sprintf("Valid!"), "no errors found.")
		return
	}

	for _, issue := range result.Issues {
		loc := issue.File
		if issue.Path != "" {
			loc = fmt.Sprintf("%s: %s", loc, issue.Path)
		}
		line := fmt.Sprintf("%s: %s", loc, issue.Detail)
		if issue.Code != "" {
			line = fmt.Sprintf("%s (%s)", line, issue.Code)
		}
		v.Println(color.RGB(229, 50, 50).Sprintf("Error!"), line)
	}
}

// JSON view implementation.

type validateJSONView struct {
	*JSONView
}

type validateJSONResult struct {
	Type      string          `json:"type"`
	Status    string          `json:"status"`
	Timestamp time.Time       `json:"timestamp"`
	Files     int             `json:"files"`
	Issues    []ValidateIssue `json:"issues,omitempty"`
}

func (v *validateJSONView) Render(result ValidateResult) {
	out := validateJSONResult{
		Type:      "validate",
		Timestamp: time.Now(),
		Files:     result.FileCount,
	}

	if result.HasErrors() {
		out.Status = "error"
		out.Issues = result.Issues
	} else {
		out.Status = "success"
	}

	if data, err := json.Marshal(out); err == nil {
		v.Println(string(data))
	}
}
