// Copyright 2026 Blink Labs Software
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

package cbor

import (
	"fmt"
)

// alternativeToTag converts a constructor/alternative number to its CBOR tag
// number. Returns the tag number and whether the fields must be wrapped as
// [alt_number, fields] (true for alternatives 128+).
func alternativeToTag(alt uint) (uint64, bool) {
	switch {
	case alt <= 6:
		return uint64(alt) + CborTagAlternative1Min, false
	case alt <= 127:
		return uint64(alt) - 7 + CborTagAlternative2Min, false
	default:
		return CborTagAlternative3, true
	}
}

// IsAlternativeTag returns true if the given CBOR tag number represents
// a constructor/alternative (tags 121-127, 1280-1400, or 101)
func IsAlternativeTag(tagNum uint64) bool {
	return (tagNum >= CborTagAlternative1Min && tagNum <= CborTagAlternative1Max) ||
		(tagNum >= CborTagAlternative2Min && tagNum <= CborTagAlternative2Max) ||
		tagNum == CborTagAlternative3
}

// NewConstructor builds the tagged value for a Plutus constructor with the
// given alternative number and fields
func NewConstructor(alt uint, fields ...Value) Value {
	tagNum, wrap := alternativeToTag(alt)
	if wrap {
		return Tagged{
			Number: tagNum,
			Content: Array{
				Items: []Value{
					Uint(alt),
					Array{Items: fields},
				},
			},
		}
	}
	return Tagged{
		Number:  tagNum,
		Content: Array{Items: fields},
	}
}

// ConstructorFields extracts the alternative number and field values from a
// tagged constructor value
func ConstructorFields(v Value) (uint, []Value, error) {
	tagged, ok := v.(Tagged)
	if !ok {
		return 0, nil, fmt.Errorf("value is not a tagged constructor: %T", v)
	}
	switch {
	case tagged.Number >= CborTagAlternative1Min &&
		tagged.Number <= CborTagAlternative1Max:
		// Alternatives 0-6 (tags 121-127)
		fields, err := constructorFieldArray(tagged.Content)
		if err != nil {
			return 0, nil, err
		}
		return uint(tagged.Number - CborTagAlternative1Min), fields, nil
	case tagged.Number >= CborTagAlternative2Min &&
		tagged.Number <= CborTagAlternative2Max:
		// Alternatives 7-127 (tags 1280-1400)
		fields, err := constructorFieldArray(tagged.Content)
		if err != nil {
			return 0, nil, err
		}
		return uint(tagged.Number - CborTagAlternative2Min + 7), fields, nil
	case tagged.Number == CborTagAlternative3:
		// Alternatives 128+ (tag 101): content is [constructor_number, fields]
		outer, err := constructorFieldArray(tagged.Content)
		if err != nil {
			return 0, nil, err
		}
		if len(outer) != 2 {
			return 0, nil, fmt.Errorf(
				"expected 2 elements for alternative 128+, got %d",
				len(outer),
			)
		}
		altNum, ok := outer[0].(Uint)
		if !ok {
			return 0, nil, fmt.Errorf(
				"alternative number is not an unsigned integer: %T",
				outer[0],
			)
		}
		fields, err := constructorFieldArray(outer[1])
		if err != nil {
			return 0, nil, err
		}
		return uint(altNum), fields, nil
	default:
		return 0, nil, fmt.Errorf(
			"unsupported constructor tag: %d",
			tagged.Number,
		)
	}
}

func constructorFieldArray(v Value) ([]Value, error) {
	arr, ok := v.(Array)
	if !ok {
		return nil, fmt.Errorf("constructor fields are not an array: %T", v)
	}
	return arr.Items, nil
}
