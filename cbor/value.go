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
	"bytes"
	"math/big"
)

// Value represents a single CBOR data item from the wire subset used by the
// Cardano ledger: integers, bytestrings, text, arrays, maps, tags, and the
// simple values. Values are treated as immutable once constructed.
type Value interface {
	isValue()
}

// LengthMode records whether a container was (or should be) encoded with a
// definite-length header or as an indefinite-length sequence terminated by a
// break marker. The mode cannot be recovered from the decoded content, so
// containers carry it explicitly.
type LengthMode int

const (
	LengthDefinite LengthMode = iota
	LengthIndefinite
)

// Uint is a CBOR unsigned integer (major type 0)
type Uint uint64

// NInt is a CBOR negative integer (major type 1). The stored value is the
// encoded magnitude n, representing the integer -(n+1). This covers the full
// wire range down to -2^64, which does not fit in an int64.
type NInt uint64

// Bytes is a CBOR bytestring (major type 2)
type Bytes []byte

// Text is a CBOR UTF-8 text string (major type 3)
type Text string

// Array is a CBOR array (major type 4) with an explicit length mode
type Array struct {
	Items []Value
	Mode  LengthMode
}

// MapPair is a single key/value entry of a Map
type MapPair struct {
	Key   Value
	Value Value
}

// Map is a CBOR map (major type 5). Entries are kept as an ordered pair
// slice rather than a Go map so that the order found on the wire survives a
// decode. Canonical key ordering is applied at encode time only.
type Map struct {
	Pairs []MapPair
	Mode  LengthMode
}

// Tagged is a CBOR tagged value (major type 6)
type Tagged struct {
	Number  uint64
	Content Value
}

// Bool is a CBOR boolean (major type 7, simple values 20/21)
type Bool bool

// Null is the CBOR null value (major type 7, simple value 22)
type Null struct{}

// Simple is any other CBOR simple value (major type 7). Well-formed values
// are 0-19, 23, and 32-255; 20-22 are spelled Bool and Null, and 24-31 are
// reserved
type Simple uint8

func (Uint) isValue()   {}
func (NInt) isValue()   {}
func (Bytes) isValue()  {}
func (Text) isValue()   {}
func (Array) isValue()  {}
func (Map) isValue()    {}
func (Tagged) isValue() {}
func (Bool) isValue()   {}
func (Null) isValue()   {}
func (Simple) isValue() {}

func NewUint(n uint64) Uint {
	return Uint(n)
}

// NewInt builds the integer value for n, selecting the unsigned or negative
// major type from the sign
func NewInt(n int64) Value {
	if n >= 0 {
		return Uint(n)
	}
	return NInt(uint64(-(n + 1)))
}

func NewBytes(data []byte) Bytes {
	return Bytes(data)
}

func NewText(s string) Text {
	return Text(s)
}

func NewArray(items ...Value) Array {
	return Array{Items: items}
}

func NewIndefArray(items ...Value) Array {
	return Array{Items: items, Mode: LengthIndefinite}
}

func NewValueMap(pairs ...MapPair) Map {
	return Map{Pairs: pairs}
}

func NewTagged(number uint64, content Value) Tagged {
	return Tagged{Number: number, Content: content}
}

// Int returns the signed integer represented by the value. The second return
// is false when the value is not an integer or does not fit in an int64.
func Int(v Value) (int64, bool) {
	switch v := v.(type) {
	case Uint:
		if uint64(v) > uint64(1<<63-1) {
			return 0, false
		}
		return int64(v), true
	case NInt:
		if uint64(v) > uint64(1<<63-1) {
			return 0, false
		}
		return -(int64(v) + 1), true
	}
	return 0, false
}

// BigInt returns the integer represented by the value as a big.Int, covering
// the full wire range of both integer major types
func BigInt(v Value) (*big.Int, bool) {
	switch v := v.(type) {
	case Uint:
		return new(big.Int).SetUint64(uint64(v)), true
	case NInt:
		ret := new(big.Int).SetUint64(uint64(v))
		ret.Add(ret, big.NewInt(1))
		ret.Neg(ret)
		return ret, true
	}
	return nil, false
}

// ValueEqual reports structural equality of two values. Map entries compare
// pairwise in order, and container length modes are part of the comparison
// since re-encoding depends on them.
func ValueEqual(a Value, b Value) bool {
	switch av := a.(type) {
	case Uint:
		bv, ok := b.(Uint)
		return ok && av == bv
	case NInt:
		bv, ok := b.(NInt)
		return ok && av == bv
	case Bytes:
		bv, ok := b.(Bytes)
		return ok && bytes.Equal(av, bv)
	case Text:
		bv, ok := b.(Text)
		return ok && av == bv
	case Array:
		bv, ok := b.(Array)
		if !ok || av.Mode != bv.Mode || len(av.Items) != len(bv.Items) {
			return false
		}
		for i := range av.Items {
			if !ValueEqual(av.Items[i], bv.Items[i]) {
				return false
			}
		}
		return true
	case Map:
		bv, ok := b.(Map)
		if !ok || av.Mode != bv.Mode || len(av.Pairs) != len(bv.Pairs) {
			return false
		}
		for i := range av.Pairs {
			if !ValueEqual(av.Pairs[i].Key, bv.Pairs[i].Key) ||
				!ValueEqual(av.Pairs[i].Value, bv.Pairs[i].Value) {
				return false
			}
		}
		return true
	case Tagged:
		bv, ok := b.(Tagged)
		return ok && av.Number == bv.Number &&
			ValueEqual(av.Content, bv.Content)
	case Bool:
		bv, ok := b.(Bool)
		return ok && av == bv
	case Null:
		_, ok := b.(Null)
		return ok
	case Simple:
		bv, ok := b.(Simple)
		return ok && av == bv
	}
	return false
}
