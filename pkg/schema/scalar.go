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

package schema

// Byte is a single octet.
type Byte struct {
	Header
}

func (*Byte) Kind() Kind { return KindByte }
func (*Byte) isTypeDef() {}

// Bool is a boolean value.
type Bool struct {
	Header
}

func (*Bool) Kind() Kind { return KindBool }
func (*Bool) isTypeDef() {}

// Int is an integer. A nil Bits means arbitrary-precision magnitude.
type Int struct {
	Header
	Bits     *int64
	Unsigned bool
}

func (*Int) Kind() Kind { return KindInt }
func (*Int) isTypeDef() {}

// FloatModel names a floating-point representation. The model is advisory:
// translators may pick a wider representation.
type FloatModel string

const (
	FloatBinary16   FloatModel = "binary16"
	FloatBinary32   FloatModel = "binary32"
	FloatBinary64   FloatModel = "binary64"
	FloatBinary128  FloatModel = "binary128"
	FloatDecimal32  FloatModel = "decimal32"
	FloatDecimal64  FloatModel = "decimal64"
	FloatDecimal128 FloatModel = "decimal128"
)

// IsValid reports whether m is one of the known float models.
func (m FloatModel) IsValid() bool {
	switch m {
	case FloatBinary16, FloatBinary32, FloatBinary64, FloatBinary128,
		FloatDecimal32, FloatDecimal64, FloatDecimal128:
		return true
	}
	return false
}

// Float is a floating-point number. Model is "" when unspecified.
type Float struct {
	Header
	Model FloatModel
}

func (*Float) Kind() Kind { return KindFloat }
func (*Float) isTypeDef() {}

// Fixed is a fixed-point decimal: Digits total digits in the given Base,
// Scale of them after the point.
type Fixed struct {
	Header
	Base   int64
	Digits int64
	Scale  int64
}

func (*Fixed) Kind() Kind { return KindFixed }
func (*Fixed) isTypeDef() {}

// String is a text value. Size is the exact length when present; Capacity is
// an advisory upper bound.
type String struct {
	Header
	Size     *int64
	Capacity *int64
}

func (*String) Kind() Kind { return KindString }
func (*String) isTypeDef() {}
