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

package graph

import (
	"fmt"
	"strings"

	"k8s.io/apimachinery/pkg/util/validation/field"
)

// Stage identifies the pipeline stage that produced an error. The three
// stages never conflate: a document fails with parse errors, or structural
// errors, or validation errors.
type Stage string

const (
	StageParse    Stage = "parse"
	StageStruct   Stage = "structure"
	StageSemantic Stage = "semantic"
)

// ParseError reports malformed JSON. It is always fatal and always alone:
// nothing past the first syntax error is recoverable.
type ParseError struct {
	// Offset is the byte offset of the syntax error in the input.
	Offset int64
	// Line and Column are derived from Offset, 1-based.
	Line, Column int
	Err          error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse: line %d, column %d: %v", e.Line, e.Column, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }
func (e *ParseError) Stage() Stage  { return StageParse }

// Code classifies a structural error.
type Code string

const (
	// CodeBadRoot indicates the document root is not an object with a
	// "types" array.
	CodeBadRoot Code = "bad-root"
	// CodeBadShape indicates a node's JSON shape does not match its kind's
	// grammar (missing key, wrong value kind, unknown key).
	CodeBadShape Code = "bad-shape"
	// CodeUnknownKind indicates an unrecognized or missing "kind".
	CodeUnknownKind Code = "unknown-kind"
	// CodeLegacyKind indicates a legacy kind (bitset/enum/rune) used
	// without legacy kinds enabled.
	CodeLegacyKind Code = "legacy-kind"
	// CodeDuplicateTypeName indicates two named definitions share a name.
	CodeDuplicateTypeName Code = "duplicate-type-name"
	// CodeUnknownTypeReference indicates a string type reference that
	// matches no named definition.
	CodeUnknownTypeReference Code = "unknown-type-reference"
)

// StructuralError reports valid JSON that does not fit the ITL grammar, or a
// reference that cannot be resolved. The builder aggregates these across
// sibling nodes before failing.
type StructuralError struct {
	Code   Code
	Path   string
	Detail string
}

func (e *StructuralError) Error() string {
	return fmt.Sprintf("structure: %s: %s (%s)", e.Path, e.Detail, e.Code)
}

func (e *StructuralError) Stage() Stage { return StageStruct }

// Rule names a semantic invariant.
type Rule string

const (
	RuleFieldNameUnique    Rule = "field-name-unique"
	RuleValueNameUnique    Rule = "value-name-unique"
	RuleSizeCapacity       Rule = "size-capacity"
	RuleDimensionPositive  Rule = "dimension-positive"
	RuleFixedSanity        Rule = "fixed-sanity"
	RuleIntBits            Rule = "int-bits"
	RuleUnionNonEmpty      Rule = "union-nonempty"
	RuleLabelUnique        Rule = "union-label-unique"
	RuleLabelDisjoint      Rule = "union-label-disjoint"
	RuleDefaultCardinality Rule = "union-default-cardinality"
	RuleLabelValue         Rule = "union-label-value"
	RuleDiscriminator      Rule = "union-discriminator"
	RuleFiniteSize         Rule = "finite-size"
)

// ValidationError reports a semantic rule violation on the linked graph.
// The validator never stops at the first violation: every independent rule
// is checked and all violations are returned together.
type ValidationError struct {
	Rule   Rule
	Path   string
	Detail string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("semantic: %s: %s (%s)", e.Path, e.Detail, e.Rule)
}

func (e *ValidationError) Stage() Stage { return StageSemantic }

// ErrorList aggregates the errors of one pipeline run. All entries share a
// stage.
type ErrorList []error

func (l ErrorList) Error() string {
	msgs := make([]string, len(l))
	for i, err := range l {
		msgs[i] = err.Error()
	}
	return strings.Join(msgs, "\n")
}

// ErrorOrNil returns the list as an error, or nil when it is empty.
func (l ErrorList) ErrorOrNil() error {
	if len(l) == 0 {
		return nil
	}
	return l
}

func structural(code Code, path *field.Path, format string, a ...any) *StructuralError {
	return &StructuralError{Code: code, Path: pathString(path), Detail: fmt.Sprintf(format, a...)}
}

func semantic(rule Rule, path *field.Path, format string, a ...any) *ValidationError {
	return &ValidationError{Rule: rule, Path: pathString(path), Detail: fmt.Sprintf(format, a...)}
}

// pathString renders a field path; a nil path addresses the document root.
func pathString(path *field.Path) string {
	if path == nil {
		return "(root)"
	}
	return path.String()
}
