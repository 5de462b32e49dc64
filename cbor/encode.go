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
	"fmt"
	"reflect"
	"slices"
	"sync"

	_cbor "github.com/fxamacker/cbor/v2"
	"github.com/jinzhu/copier"
)

// MapKeyOrdering selects how map entries are ordered on encode
type MapKeyOrdering int

const (
	// OrderingInsertion emits map entries in the order they appear in the
	// pair slice
	OrderingInsertion MapKeyOrdering = iota
	// OrderingCanonical sorts map entries by the length of the encoded key,
	// then byte-lexically. Ties are impossible: identical encoded keys mean
	// identical keys.
	OrderingCanonical
)

// EncodeOptions parameterizes the value encoder
type EncodeOptions struct {
	ArrayLengthMode LengthMode
	MapKeyOrdering  MapKeyOrdering
}

// CanonicalOptions returns the options used for all ledger-visible bytes:
// definite-length containers and canonical map-key ordering
func CanonicalOptions() EncodeOptions {
	return EncodeOptions{
		ArrayLengthMode: LengthDefinite,
		MapKeyOrdering:  OrderingCanonical,
	}
}

// LegacyPlutusV1Options returns the options for the historical PlutusV1
// cost-model encoding, which uses indefinite-length arrays. This exists only
// for wire compatibility and must not be used for anything else.
func LegacyPlutusV1Options() EncodeOptions {
	return EncodeOptions{
		ArrayLengthMode: LengthIndefinite,
		MapKeyOrdering:  OrderingCanonical,
	}
}

// EncodeValue encodes a value to CBOR bytes. Encoding is total for any
// well-formed Value: every branch of the sum type has exactly one encoding
// under a given set of options. Simple values 20-22 are spelled Bool and
// Null, and 24-31 are reserved by RFC 8949, so a Simple in those ranges is
// not well-formed and panics.
func EncodeValue(v Value, opts EncodeOptions) []byte {
	return appendValue(nil, v, opts)
}

// appendHead appends a major-type head with the minimal-width argument
// encoding for n. Anything wider than necessary would break canonical form.
func appendHead(buf []byte, major byte, n uint64) []byte {
	switch {
	case n <= uint64(CborMaxUintSimple):
		return append(buf, major|byte(n))
	case n <= 0xff:
		return append(buf, major|24, byte(n))
	case n <= 0xffff:
		return append(buf, major|25, byte(n>>8), byte(n))
	case n <= 0xffffffff:
		return append(
			buf,
			major|26,
			byte(n>>24),
			byte(n>>16),
			byte(n>>8),
			byte(n),
		)
	default:
		return append(
			buf,
			major|27,
			byte(n>>56),
			byte(n>>48),
			byte(n>>40),
			byte(n>>32),
			byte(n>>24),
			byte(n>>16),
			byte(n>>8),
			byte(n),
		)
	}
}

func appendValue(buf []byte, v Value, opts EncodeOptions) []byte {
	switch v := v.(type) {
	case Uint:
		return appendHead(buf, CborTypeUint, uint64(v))
	case NInt:
		return appendHead(buf, CborTypeNInt, uint64(v))
	case Bytes:
		buf = appendHead(buf, CborTypeByteString, uint64(len(v)))
		return append(buf, v...)
	case Text:
		buf = appendHead(buf, CborTypeTextString, uint64(len(v)))
		return append(buf, v...)
	case Array:
		if opts.ArrayLengthMode == LengthIndefinite {
			buf = append(buf, CborTypeArray|0x1f)
			for _, item := range v.Items {
				buf = appendValue(buf, item, opts)
			}
			return append(buf, CborBreak)
		}
		buf = appendHead(buf, CborTypeArray, uint64(len(v.Items)))
		for _, item := range v.Items {
			buf = appendValue(buf, item, opts)
		}
		return buf
	case Map:
		pairs := v.Pairs
		if opts.MapKeyOrdering == OrderingCanonical {
			pairs = sortMapPairs(pairs, opts)
		}
		if opts.ArrayLengthMode == LengthIndefinite {
			buf = append(buf, CborTypeMap|0x1f)
			for _, pair := range pairs {
				buf = appendValue(buf, pair.Key, opts)
				buf = appendValue(buf, pair.Value, opts)
			}
			return append(buf, CborBreak)
		}
		buf = appendHead(buf, CborTypeMap, uint64(len(pairs)))
		for _, pair := range pairs {
			buf = appendValue(buf, pair.Key, opts)
			buf = appendValue(buf, pair.Value, opts)
		}
		return buf
	case Tagged:
		buf = appendHead(buf, CborTypeTag, v.Number)
		return appendValue(buf, v.Content, opts)
	case Bool:
		if v {
			return append(buf, CborTypeSimple|21)
		}
		return append(buf, CborTypeSimple|20)
	case Null:
		return append(buf, CborTypeSimple|22)
	case Simple:
		// Simple carries only values with no dedicated spelling: 0-19, 23,
		// and 32-255. Encoding 20-22 here would alias Bool and Null on
		// decode, and 24-31 have no well-formed encoding at all.
		if (v >= 20 && v <= 22) || (v >= 24 && v <= 31) {
			panic(fmt.Sprintf(
				"cbor: simple value %d has no encoding",
				uint8(v),
			))
		}
		if v <= Simple(CborMaxUintSimple) {
			return append(buf, CborTypeSimple|byte(v))
		}
		return append(buf, CborTypeSimple|24, byte(v))
	}
	// The Value sum type is closed, so this is unreachable for values built
	// through this package
	panic(fmt.Sprintf("cbor: cannot encode value of type %T", v))
}

// sortMapPairs returns the pairs in canonical order: ascending by encoded
// key length, then byte-lexically
func sortMapPairs(pairs []MapPair, opts EncodeOptions) []MapPair {
	type keyedPair struct {
		keyBytes []byte
		pair     MapPair
	}
	keyed := make([]keyedPair, 0, len(pairs))
	for _, pair := range pairs {
		keyed = append(keyed, keyedPair{
			keyBytes: appendValue(nil, pair.Key, opts),
			pair:     pair,
		})
	}
	slices.SortStableFunc(keyed, func(a, b keyedPair) int {
		if len(a.keyBytes) != len(b.keyBytes) {
			return len(a.keyBytes) - len(b.keyBytes)
		}
		return bytes.Compare(a.keyBytes, b.keyBytes)
	})
	ret := make([]MapPair, 0, len(keyed))
	for _, kp := range keyed {
		ret = append(ret, kp.pair)
	}
	return ret
}

// Encode encodes an arbitrary Go object to CBOR via the generic struct
// codec, with deterministic map-key ordering
func Encode(data any) ([]byte, error) {
	buf := bytes.NewBuffer(nil)
	opts := _cbor.EncOptions{
		// Make sure that maps have ordered keys
		Sort: _cbor.SortCoreDeterministic,
	}
	em, err := opts.EncModeWithTags(customTagSet)
	if err != nil {
		return nil, err
	}
	enc := em.NewEncoder(buf)
	err = enc.Encode(data)
	return buf.Bytes(), err
}

var (
	encodeGenericTypeCache      = map[reflect.Type]reflect.Type{}
	encodeGenericTypeCacheMutex sync.RWMutex
)

// EncodeGeneric encodes the specified object to CBOR without using the
// source object's MarshalCBOR() function
func EncodeGeneric(src any) ([]byte, error) {
	// Get source type
	valueSrc := reflect.ValueOf(src)
	typeSrc := valueSrc.Elem().Type()
	// Check type cache
	encodeGenericTypeCacheMutex.RLock()
	tmpTypeSrc, ok := encodeGenericTypeCache[typeSrc]
	encodeGenericTypeCacheMutex.RUnlock()
	if !ok {
		// Create a duplicate(-ish) struct from the source
		// We do this so that we can bypass any custom MarshalCBOR() function
		// on the source object
		if valueSrc.Kind() != reflect.Pointer ||
			valueSrc.Elem().Kind() != reflect.Struct {
			return nil, fmt.Errorf("source must be a pointer to a struct")
		}
		srcTypeFields := []reflect.StructField{}
		for i := 0; i < typeSrc.NumField(); i++ {
			tmpField := typeSrc.Field(i)
			if tmpField.IsExported() && tmpField.Name != "DecodeStoreCbor" {
				srcTypeFields = append(srcTypeFields, tmpField)
			}
		}
		tmpTypeSrc = reflect.StructOf(srcTypeFields)
		// Populate cache
		encodeGenericTypeCacheMutex.Lock()
		encodeGenericTypeCache[typeSrc] = tmpTypeSrc
		encodeGenericTypeCacheMutex.Unlock()
	}
	// Create temporary object with the type created above
	tmpSrc := reflect.New(tmpTypeSrc)
	// Copy values from source object into temporary object
	if err := copier.Copy(tmpSrc.Interface(), src); err != nil {
		return nil, err
	}
	// Encode temporary object into CBOR
	cborData, err := Encode(tmpSrc.Interface())
	if err != nil {
		return nil, err
	}
	return cborData, nil
}

type IndefLengthList []any

func (i IndefLengthList) MarshalCBOR() ([]byte, error) {
	ret := []byte{
		// Start indefinite-length list
		CborTypeArray | 0x1f,
	}
	for _, item := range []any(i) {
		data, err := Encode(&item)
		if err != nil {
			return nil, err
		}
		ret = append(ret, data...)
	}
	ret = append(
		ret,
		// End indefinite length array
		CborBreak,
	)
	return ret, nil
}

type IndefLengthByteString []any

func (i IndefLengthByteString) MarshalCBOR() ([]byte, error) {
	ret := []byte{
		// Start indefinite-length bytestring
		CborTypeByteString | 0x1f,
	}
	for _, item := range []any(i) {
		data, err := Encode(&item)
		if err != nil {
			return nil, err
		}
		ret = append(ret, data...)
	}
	ret = append(
		ret,
		// End indefinite length bytestring
		CborBreak,
	)
	return ret, nil
}
