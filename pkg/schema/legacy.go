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

// Legacy kinds from the first, encoding-centric grammar generation. The
// current grammar dropped them; documents using them only compile when the
// graph package runs with legacy kinds enabled.

// EnumValue is a single named enum constant.
type EnumValue struct {
	// Name is unique within the owning enum.
	Name  string
	Value int64
	Note  Note
}

// Enum is a closed set of named integer constants.
type Enum struct {
	Header
	Values []EnumValue
}

func (*Enum) Kind() Kind { return KindEnum }
func (*Enum) isTypeDef() {}

// BitsetFlag is a single named bit position.
type BitsetFlag struct {
	// Name is unique within the owning bitset.
	Name string
	Bit  int64
	Note Note
}

// Bitset is a set of independent named flags packed by bit position.
type Bitset struct {
	Header
	Flags []BitsetFlag
}

func (*Bitset) Kind() Kind { return KindBitset }
func (*Bitset) isTypeDef() {}

// Rune is a single character. Encoding names the character encoding the
// first grammar generation attached to it, preserved as written.
type Rune struct {
	Header
	Encoding string
}

func (*Rune) Kind() Kind { return KindRune }
func (*Rune) isTypeDef() {}
