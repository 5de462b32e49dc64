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

package cddl

import (
	"fmt"
	"sort"

	"github.com/blinklabs-io/txcodec/cbor"
)

// Schema is the transform contract between a domain type and its CBOR
// shape. EncodeValue must not fail: domain invariants guarantee a valid
// shape. DecodeValue fails on wrong shape, out-of-range values, or violated
// domain invariants.
//
// Schemas compose locally: an entity schema calls the schemas of its
// constituent types directly. There is no global registry.
type Schema[T any] interface {
	EncodeValue(T) cbor.Value
	DecodeValue(cbor.Value) (T, error)
}

// SchemaError reports bytes that decode into structurally valid CBOR but
// violate a domain entity's shape or invariants
type SchemaError struct {
	Entity  string
	Message string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("%s: %s", e.Entity, e.Message)
}

func NewSchemaError(entity string, format string, args ...any) *SchemaError {
	return &SchemaError{
		Entity:  entity,
		Message: fmt.Sprintf(format, args...),
	}
}

// EncodeEntity encodes a domain value through its schema to wire bytes
func EncodeEntity[T any](
	s Schema[T],
	v T,
	opts cbor.EncodeOptions,
) []byte {
	return cbor.EncodeValue(s.EncodeValue(v), opts)
}

// DecodeEntity decodes wire bytes through a schema to a domain value. The
// bytes must contain exactly one data item.
func DecodeEntity[T any](s Schema[T], data []byte) (T, error) {
	v, err := cbor.DecodeValue(data)
	if err != nil {
		var zero T
		return zero, err
	}
	return s.DecodeValue(v)
}

// TupleFields returns the elements of a fixed-arity tuple. Optional trailing
// fields are represented by shorter tuples, so the accepted arity is a
// range.
func TupleFields(
	v cbor.Value,
	entity string,
	minArity int,
	maxArity int,
) ([]cbor.Value, error) {
	arr, ok := v.(cbor.Array)
	if !ok {
		return nil, NewSchemaError(entity, "expected array, got %T", v)
	}
	if len(arr.Items) < minArity || len(arr.Items) > maxArity {
		if minArity == maxArity {
			return nil, NewSchemaError(
				entity,
				"expected %d elements, got %d",
				minArity,
				len(arr.Items),
			)
		}
		return nil, NewSchemaError(
			entity,
			"expected %d to %d elements, got %d",
			minArity,
			maxArity,
			len(arr.Items),
		)
	}
	return arr.Items, nil
}

// MapBuilder accumulates the entries of an integer-keyed map shape. Absent
// optional fields are simply never added; the encoder applies canonical key
// ordering, so insertion order here does not matter.
type MapBuilder struct {
	pairs []cbor.MapPair
}

func (b *MapBuilder) Add(key uint64, v cbor.Value) {
	b.pairs = append(
		b.pairs,
		cbor.MapPair{Key: cbor.Uint(key), Value: v},
	)
}

func (b *MapBuilder) Build() cbor.Value {
	return cbor.Map{Pairs: b.pairs}
}

// MapFields provides keyed access to a decoded integer-keyed map shape
type MapFields struct {
	entity string
	fields map[uint64]cbor.Value
}

// NewMapFields validates that v is a map with unsigned integer keys and no
// duplicates, and indexes its entries
func NewMapFields(v cbor.Value, entity string) (*MapFields, error) {
	m, ok := v.(cbor.Map)
	if !ok {
		return nil, NewSchemaError(entity, "expected map, got %T", v)
	}
	fields := make(map[uint64]cbor.Value, len(m.Pairs))
	for _, pair := range m.Pairs {
		key, ok := pair.Key.(cbor.Uint)
		if !ok {
			return nil, NewSchemaError(
				entity,
				"expected unsigned integer map key, got %T",
				pair.Key,
			)
		}
		if _, exists := fields[uint64(key)]; exists {
			return nil, NewSchemaError(
				entity,
				"duplicate map key %d",
				uint64(key),
			)
		}
		fields[uint64(key)] = pair.Value
	}
	return &MapFields{entity: entity, fields: fields}, nil
}

// Required returns the value for a key that must be present
func (m *MapFields) Required(key uint64) (cbor.Value, error) {
	v, ok := m.fields[key]
	if !ok {
		return nil, NewSchemaError(
			m.entity,
			"missing required map key %d",
			key,
		)
	}
	delete(m.fields, key)
	return v, nil
}

// Optional returns the value for a key that may be absent. Absence yields
// (nil, false) and callers map it to the domain type's unset representation,
// never to a sentinel value.
func (m *MapFields) Optional(key uint64) (cbor.Value, bool) {
	v, ok := m.fields[key]
	if ok {
		delete(m.fields, key)
	}
	return v, ok
}

// Remaining returns the keys that were never consumed, sorted. Schemas use
// this to reject unknown fields.
func (m *MapFields) Remaining() []uint64 {
	keys := make([]uint64, 0, len(m.fields))
	for k := range m.fields {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// RejectUnknown returns a SchemaError if any keys were never consumed
func (m *MapFields) RejectUnknown() error {
	if keys := m.Remaining(); len(keys) > 0 {
		return NewSchemaError(m.entity, "unknown map keys %v", keys)
	}
	return nil
}

// UnionDiscriminant splits a tagged-union shape: an outer array whose first
// element is the unsigned integer selecting the alternative. The remaining
// elements are returned for the alternative's own schema.
func UnionDiscriminant(
	v cbor.Value,
	entity string,
) (uint64, []cbor.Value, error) {
	arr, ok := v.(cbor.Array)
	if !ok {
		return 0, nil, NewSchemaError(entity, "expected array, got %T", v)
	}
	if len(arr.Items) == 0 {
		return 0, nil, NewSchemaError(entity, "empty union array")
	}
	id, ok := arr.Items[0].(cbor.Uint)
	if !ok {
		return 0, nil, NewSchemaError(
			entity,
			"union discriminant is not an unsigned integer, got %T",
			arr.Items[0],
		)
	}
	return uint64(id), arr.Items[1:], nil
}

// WrapSet wraps items in tag 258, the CBOR marker for a mathematical set
func WrapSet(items []cbor.Value) cbor.Value {
	return cbor.Tagged{
		Number:  cbor.CborTagSet,
		Content: cbor.Array{Items: items},
	}
}

// UnwrapSet returns the elements of a tag-258 set. A bare array is also
// accepted: pre-Conway encodings omit the tag.
func UnwrapSet(v cbor.Value, entity string) ([]cbor.Value, error) {
	if tagged, ok := v.(cbor.Tagged); ok {
		if tagged.Number != cbor.CborTagSet {
			return nil, NewSchemaError(
				entity,
				"expected set tag %d, got tag %d",
				cbor.CborTagSet,
				tagged.Number,
			)
		}
		v = tagged.Content
	}
	arr, ok := v.(cbor.Array)
	if !ok {
		return nil, NewSchemaError(entity, "expected set array, got %T", v)
	}
	return arr.Items, nil
}

// UnwrapNonEmptySet is UnwrapSet plus the non-empty invariant used by
// required collections
func UnwrapNonEmptySet(v cbor.Value, entity string) ([]cbor.Value, error) {
	items, err := UnwrapSet(v, entity)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, NewSchemaError(entity, "empty required set")
	}
	return items, nil
}

// AsUint extracts an unsigned integer field
func AsUint(v cbor.Value, entity string, field string) (uint64, error) {
	n, ok := v.(cbor.Uint)
	if !ok {
		return 0, NewSchemaError(
			entity,
			"%s: expected unsigned integer, got %T",
			field,
			v,
		)
	}
	return uint64(n), nil
}

// AsBytes extracts a bytestring field
func AsBytes(v cbor.Value, entity string, field string) ([]byte, error) {
	b, ok := v.(cbor.Bytes)
	if !ok {
		return nil, NewSchemaError(
			entity,
			"%s: expected bytestring, got %T",
			field,
			v,
		)
	}
	return []byte(b), nil
}

// AsText extracts a text field
func AsText(v cbor.Value, entity string, field string) (string, error) {
	s, ok := v.(cbor.Text)
	if !ok {
		return "", NewSchemaError(
			entity,
			"%s: expected text, got %T",
			field,
			v,
		)
	}
	return string(s), nil
}

// AsArray extracts an array field
func AsArray(v cbor.Value, entity string, field string) (cbor.Array, error) {
	arr, ok := v.(cbor.Array)
	if !ok {
		return cbor.Array{}, NewSchemaError(
			entity,
			"%s: expected array, got %T",
			field,
			v,
		)
	}
	return arr, nil
}

// AsMap extracts a map field
func AsMap(v cbor.Value, entity string, field string) (cbor.Map, error) {
	m, ok := v.(cbor.Map)
	if !ok {
		return cbor.Map{}, NewSchemaError(
			entity,
			"%s: expected map, got %T",
			field,
			v,
		)
	}
	return m, nil
}

// FixedBytes extracts a bytestring field of an exact length
func FixedBytes(
	v cbor.Value,
	entity string,
	field string,
	length int,
) ([]byte, error) {
	b, err := AsBytes(v, entity, field)
	if err != nil {
		return nil, err
	}
	if len(b) != length {
		return nil, NewSchemaError(
			entity,
			"%s: expected %d bytes, got %d",
			field,
			length,
			len(b),
		)
	}
	return b, nil
}
