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

package cddl_test

import (
	"encoding/hex"
	"errors"
	"testing"

	"github.com/blinklabs-io/txcodec/cbor"
	"github.com/blinklabs-io/txcodec/cddl"
)

// pairSchema is a minimal schema for a [uint, bytes] tuple used to exercise
// the entity helpers
type testPair struct {
	Num  uint64
	Data []byte
}

type testPairSchema struct{}

func (testPairSchema) EncodeValue(p testPair) cbor.Value {
	return cbor.NewArray(cbor.NewUint(p.Num), cbor.NewBytes(p.Data))
}

func (testPairSchema) DecodeValue(v cbor.Value) (testPair, error) {
	fields, err := cddl.TupleFields(v, "test pair", 2, 2)
	if err != nil {
		return testPair{}, err
	}
	num, err := cddl.AsUint(fields[0], "test pair", "num")
	if err != nil {
		return testPair{}, err
	}
	data, err := cddl.AsBytes(fields[1], "test pair", "data")
	if err != nil {
		return testPair{}, err
	}
	return testPair{Num: num, Data: data}, nil
}

func TestEncodeDecodeEntity(t *testing.T) {
	p := testPair{Num: 7, Data: []byte{0xab, 0xcd}}
	cborData := cddl.EncodeEntity(
		testPairSchema{},
		p,
		cbor.CanonicalOptions(),
	)
	expectedHex := "820742abcd"
	if hex.EncodeToString(cborData) != expectedHex {
		t.Fatalf(
			"entity did not encode to expected CBOR\n  got: %s\n  wanted: %s",
			hex.EncodeToString(cborData),
			expectedHex,
		)
	}
	decoded, err := cddl.DecodeEntity(testPairSchema{}, cborData)
	if err != nil {
		t.Fatalf("failed to decode entity: %s", err)
	}
	if decoded.Num != p.Num || hex.EncodeToString(decoded.Data) != "abcd" {
		t.Fatalf("entity did not round-trip: %#v", decoded)
	}
}

func TestDecodeEntitySchemaError(t *testing.T) {
	// Structurally valid CBOR that violates the tuple shape
	cborData, err := hex.DecodeString("8107")
	if err != nil {
		t.Fatalf("failed to decode test CBOR hex: %s", err)
	}
	_, err = cddl.DecodeEntity(testPairSchema{}, cborData)
	var schemaErr *cddl.SchemaError
	if !errors.As(err, &schemaErr) {
		t.Fatalf("expected SchemaError, got %T (%v)", err, err)
	}
	if schemaErr.Entity != "test pair" {
		t.Fatalf("unexpected entity in error: %s", schemaErr.Entity)
	}
}

func TestDecodeEntityMalformed(t *testing.T) {
	// Malformed CBOR surfaces as a DecodeError, not a SchemaError
	_, err := cddl.DecodeEntity(testPairSchema{}, []byte{0x82, 0x07})
	var decodeErr *cbor.DecodeError
	if !errors.As(err, &decodeErr) {
		t.Fatalf("expected DecodeError, got %T (%v)", err, err)
	}
}

func TestTupleFieldsArity(t *testing.T) {
	v := cbor.NewArray(cbor.NewUint(1), cbor.NewUint(2))
	if _, err := cddl.TupleFields(v, "thing", 2, 3); err != nil {
		t.Fatalf("unexpected error for in-range arity: %s", err)
	}
	if _, err := cddl.TupleFields(v, "thing", 3, 3); err == nil {
		t.Fatalf("expected error for arity below range")
	}
	if _, err := cddl.TupleFields(cbor.NewUint(1), "thing", 1, 1); err == nil {
		t.Fatalf("expected error for non-array value")
	}
}

func TestMapFields(t *testing.T) {
	v := cbor.NewValueMap(
		cbor.MapPair{Key: cbor.NewUint(0), Value: cbor.NewUint(100)},
		cbor.MapPair{Key: cbor.NewUint(3), Value: cbor.NewText("x")},
	)
	fields, err := cddl.NewMapFields(v, "thing")
	if err != nil {
		t.Fatalf("failed to index map fields: %s", err)
	}
	required, err := fields.Required(0)
	if err != nil {
		t.Fatalf("failed to fetch required field: %s", err)
	}
	if !cbor.ValueEqual(required, cbor.NewUint(100)) {
		t.Fatalf("unexpected required field value: %#v", required)
	}
	if _, err := fields.Required(1); err == nil {
		t.Fatalf("expected error for missing required field")
	}
	if _, ok := fields.Optional(2); ok {
		t.Fatalf("expected absent optional field")
	}
	optional, ok := fields.Optional(3)
	if !ok {
		t.Fatalf("expected present optional field")
	}
	if !cbor.ValueEqual(optional, cbor.NewText("x")) {
		t.Fatalf("unexpected optional field value: %#v", optional)
	}
	if err := fields.RejectUnknown(); err != nil {
		t.Fatalf("unexpected unknown fields after consuming all: %s", err)
	}
}

func TestMapFieldsRejectUnknown(t *testing.T) {
	v := cbor.NewValueMap(
		cbor.MapPair{Key: cbor.NewUint(99), Value: cbor.NewUint(1)},
	)
	fields, err := cddl.NewMapFields(v, "thing")
	if err != nil {
		t.Fatalf("failed to index map fields: %s", err)
	}
	if err := fields.RejectUnknown(); err == nil {
		t.Fatalf("expected error for unknown field")
	}
}

func TestMapFieldsDuplicateKey(t *testing.T) {
	v := cbor.NewValueMap(
		cbor.MapPair{Key: cbor.NewUint(1), Value: cbor.NewUint(1)},
		cbor.MapPair{Key: cbor.NewUint(1), Value: cbor.NewUint(2)},
	)
	if _, err := cddl.NewMapFields(v, "thing"); err == nil {
		t.Fatalf("expected error for duplicate map key")
	}
}

func TestMapFieldsNonIntegerKey(t *testing.T) {
	v := cbor.NewValueMap(
		cbor.MapPair{Key: cbor.NewText("k"), Value: cbor.NewUint(1)},
	)
	if _, err := cddl.NewMapFields(v, "thing"); err == nil {
		t.Fatalf("expected error for non-integer map key")
	}
}

func TestUnionDiscriminant(t *testing.T) {
	v := cbor.NewArray(
		cbor.NewUint(2),
		cbor.NewBytes([]byte{0xaa}),
	)
	id, rest, err := cddl.UnionDiscriminant(v, "thing")
	if err != nil {
		t.Fatalf("failed to split union: %s", err)
	}
	if id != 2 || len(rest) != 1 {
		t.Fatalf("unexpected union split: id=%d rest=%d", id, len(rest))
	}
	if _, _, err := cddl.UnionDiscriminant(cbor.NewArray(), "thing"); err == nil {
		t.Fatalf("expected error for empty union array")
	}
	bad := cbor.NewArray(cbor.NewText("spend"))
	if _, _, err := cddl.UnionDiscriminant(bad, "thing"); err == nil {
		t.Fatalf("expected error for non-integer discriminant")
	}
}

func TestSetWrapping(t *testing.T) {
	items := []cbor.Value{cbor.NewUint(1), cbor.NewUint(2)}
	wrapped := cddl.WrapSet(items)
	expectedHex := "d9010282" + "0102"
	cborHex := hex.EncodeToString(
		cbor.EncodeValue(wrapped, cbor.CanonicalOptions()),
	)
	if cborHex != expectedHex {
		t.Fatalf(
			"set did not encode to expected CBOR\n  got: %s\n  wanted: %s",
			cborHex,
			expectedHex,
		)
	}
	unwrapped, err := cddl.UnwrapSet(wrapped, "thing")
	if err != nil {
		t.Fatalf("failed to unwrap set: %s", err)
	}
	if len(unwrapped) != 2 {
		t.Fatalf("expected 2 set items, got %d", len(unwrapped))
	}
	// Bare arrays are accepted for pre-Conway encodings
	bare, err := cddl.UnwrapSet(cbor.NewArray(cbor.NewUint(1)), "thing")
	if err != nil {
		t.Fatalf("failed to unwrap bare array: %s", err)
	}
	if len(bare) != 1 {
		t.Fatalf("expected 1 set item, got %d", len(bare))
	}
	// Other tags are rejected
	other := cbor.NewTagged(259, cbor.NewArray())
	if _, err := cddl.UnwrapSet(other, "thing"); err == nil {
		t.Fatalf("expected error for non-set tag")
	}
}

func TestUnwrapNonEmptySet(t *testing.T) {
	empty := cddl.WrapSet(nil)
	if _, err := cddl.UnwrapNonEmptySet(empty, "thing"); err == nil {
		t.Fatalf("expected error for empty required set")
	}
}

func TestFixedBytes(t *testing.T) {
	v := cbor.NewBytes([]byte{1, 2, 3, 4})
	b, err := cddl.FixedBytes(v, "thing", "id", 4)
	if err != nil {
		t.Fatalf("unexpected error for correct length: %s", err)
	}
	if len(b) != 4 {
		t.Fatalf("expected 4 bytes, got %d", len(b))
	}
	if _, err := cddl.FixedBytes(v, "thing", "id", 8); err == nil {
		t.Fatalf("expected error for wrong length")
	}
}

func TestGoValueBridge(t *testing.T) {
	v, err := cddl.FromGoValue(map[uint64]string{1: "a"})
	if err != nil {
		t.Fatalf("failed to convert Go value: %s", err)
	}
	expected := cbor.NewValueMap(
		cbor.MapPair{Key: cbor.NewUint(1), Value: cbor.NewText("a")},
	)
	if !cbor.ValueEqual(v, expected) {
		t.Fatalf(
			"unexpected value tree\n  got: %#v\n  wanted: %#v",
			v,
			expected,
		)
	}
	var back map[uint64]string
	if err := cddl.ToGoValue(v, &back); err != nil {
		t.Fatalf("failed to convert value tree: %s", err)
	}
	if back[1] != "a" {
		t.Fatalf("value did not round-trip: %#v", back)
	}
}
