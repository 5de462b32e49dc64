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
	"errors"
	"reflect"
	"sync"
	"unicode/utf8"

	_cbor "github.com/fxamacker/cbor/v2"
	"github.com/jinzhu/copier"
)

// DecodeValue decodes a single CBOR data item, rejecting trailing bytes
// after the top-level value. The length mode actually present in the bytes
// is preserved on decoded arrays and maps.
func DecodeValue(data []byte) (Value, error) {
	v, used, err := DecodeValuePrefix(data)
	if err != nil {
		return nil, err
	}
	if used != len(data) {
		return nil, newDecodeErrorf(
			used,
			ReasonTrailingBytes,
			"%d bytes after top-level value",
			len(data)-used,
		)
	}
	return v, nil
}

// DecodeValuePrefix decodes a single CBOR data item from the front of data
// and returns the number of bytes consumed
func DecodeValuePrefix(data []byte) (Value, int, error) {
	d := &valueDecoder{data: data}
	v, err := d.decodeItem()
	if err != nil {
		return nil, 0, err
	}
	return v, d.pos, nil
}

type valueDecoder struct {
	data []byte
	pos  int
}

// head is the parsed initial byte(s) of a data item
type head struct {
	major      byte
	arg        uint64
	indefinite bool
	start      int
}

func (d *valueDecoder) readHead() (head, error) {
	start := d.pos
	if start >= len(d.data) {
		return head{}, newDecodeError(start, ReasonTruncatedInput)
	}
	first := d.data[start]
	major := first & CborTypeMask
	ai := first & 0x1f
	switch {
	case ai <= CborMaxUintSimple:
		d.pos++
		return head{major: major, arg: uint64(ai), start: start}, nil
	case ai >= 24 && ai <= 27:
		width := 1 << (ai - 24)
		if start+1+width > len(d.data) {
			return head{}, newDecodeError(start, ReasonTruncatedInput)
		}
		var arg uint64
		for _, b := range d.data[start+1 : start+1+width] {
			arg = arg<<8 | uint64(b)
		}
		d.pos = start + 1 + width
		return head{major: major, arg: arg, start: start}, nil
	case ai == 31:
		d.pos++
		return head{major: major, indefinite: true, start: start}, nil
	default:
		// Additional info 28-30 is reserved
		return head{}, newDecodeErrorf(
			start,
			ReasonMalformedHeader,
			"reserved additional info %d",
			ai,
		)
	}
}

// atBreak reports whether the next byte is the indefinite-length break
// marker, consuming it if so
func (d *valueDecoder) atBreak() bool {
	if d.pos < len(d.data) && d.data[d.pos] == CborBreak {
		d.pos++
		return true
	}
	return false
}

func (d *valueDecoder) decodeItem() (Value, error) {
	h, err := d.readHead()
	if err != nil {
		return nil, err
	}
	switch h.major {
	case CborTypeUint:
		if h.indefinite {
			return nil, newDecodeError(h.start, ReasonMalformedHeader)
		}
		return Uint(h.arg), nil
	case CborTypeNInt:
		if h.indefinite {
			return nil, newDecodeError(h.start, ReasonMalformedHeader)
		}
		return NInt(h.arg), nil
	case CborTypeByteString:
		data, err := d.readStringBody(h)
		if err != nil {
			return nil, err
		}
		return Bytes(data), nil
	case CborTypeTextString:
		data, err := d.readStringBody(h)
		if err != nil {
			return nil, err
		}
		if !utf8.Valid(data) {
			return nil, newDecodeError(h.start, ReasonInvalidUtf8)
		}
		return Text(data), nil
	case CborTypeArray:
		return d.decodeArray(h)
	case CborTypeMap:
		return d.decodeMap(h)
	case CborTypeTag:
		if h.indefinite {
			return nil, newDecodeError(h.start, ReasonMalformedHeader)
		}
		content, err := d.decodeItem()
		if err != nil {
			return nil, err
		}
		return Tagged{Number: h.arg, Content: content}, nil
	default:
		return d.decodeSimple(h)
	}
}

func (d *valueDecoder) readStringBody(h head) ([]byte, error) {
	if h.indefinite {
		// The ledger wire subset never contains indefinite-length strings
		return nil, newDecodeErrorf(
			h.start,
			ReasonUnsupportedMajorType,
			"indefinite-length string",
		)
	}
	if h.arg > uint64(len(d.data)-d.pos) {
		return nil, newDecodeError(d.pos, ReasonTruncatedInput)
	}
	data := make([]byte, h.arg)
	copy(data, d.data[d.pos:d.pos+int(h.arg)])
	d.pos += int(h.arg)
	return data, nil
}

func (d *valueDecoder) decodeArray(h head) (Value, error) {
	var items []Value
	mode := LengthDefinite
	if h.indefinite {
		mode = LengthIndefinite
		for !d.atBreak() {
			if d.pos >= len(d.data) {
				return nil, newDecodeError(d.pos, ReasonTruncatedInput)
			}
			item, err := d.decodeItem()
			if err != nil {
				return nil, withPartial(err, Array{Items: items, Mode: mode})
			}
			items = append(items, item)
		}
	} else {
		items = make([]Value, 0, capHint(h.arg))
		for range h.arg {
			item, err := d.decodeItem()
			if err != nil {
				return nil, withPartial(err, Array{Items: items, Mode: mode})
			}
			items = append(items, item)
		}
	}
	return Array{Items: items, Mode: mode}, nil
}

func (d *valueDecoder) decodeMap(h head) (Value, error) {
	var pairs []MapPair
	mode := LengthDefinite
	if h.indefinite {
		mode = LengthIndefinite
		for !d.atBreak() {
			if d.pos >= len(d.data) {
				return nil, newDecodeError(d.pos, ReasonTruncatedInput)
			}
			key, err := d.decodeItem()
			if err != nil {
				return nil, withPartial(err, Map{Pairs: pairs, Mode: mode})
			}
			// A break between a key and its value leaves a dangling key
			if d.pos < len(d.data) && d.data[d.pos] == CborBreak {
				return nil, newDecodeErrorf(
					d.pos,
					ReasonIndefiniteBreakMismatch,
					"break marker between map key and value",
				)
			}
			val, err := d.decodeItem()
			if err != nil {
				return nil, withPartial(err, Map{Pairs: pairs, Mode: mode})
			}
			pairs = append(pairs, MapPair{Key: key, Value: val})
		}
	} else {
		pairs = make([]MapPair, 0, capHint(h.arg))
		for range h.arg {
			key, err := d.decodeItem()
			if err != nil {
				return nil, withPartial(err, Map{Pairs: pairs, Mode: mode})
			}
			val, err := d.decodeItem()
			if err != nil {
				return nil, withPartial(err, Map{Pairs: pairs, Mode: mode})
			}
			pairs = append(pairs, MapPair{Key: key, Value: val})
		}
	}
	return Map{Pairs: pairs, Mode: mode}, nil
}

func (d *valueDecoder) decodeSimple(h head) (Value, error) {
	if h.indefinite {
		// A break marker outside an indefinite-length container
		return nil, newDecodeErrorf(
			h.start,
			ReasonIndefiniteBreakMismatch,
			"break marker outside indefinite-length container",
		)
	}
	ai := d.data[h.start] & 0x1f
	switch {
	case ai == 20:
		return Bool(false), nil
	case ai == 21:
		return Bool(true), nil
	case ai == 22:
		return Null{}, nil
	case ai <= CborMaxUintSimple:
		return Simple(ai), nil
	case ai == 24:
		// The two-byte form is only well-formed for values 32 and up
		if h.arg < 32 {
			return nil, newDecodeErrorf(
				h.start,
				ReasonMalformedHeader,
				"two-byte simple value %d",
				h.arg,
			)
		}
		return Simple(h.arg), nil
	default:
		// Additional info 25-27 is floating point, which the ledger wire
		// subset never contains
		return nil, newDecodeErrorf(
			h.start,
			ReasonUnsupportedMajorType,
			"floating point",
		)
	}
}

// capHint bounds container preallocation so a hostile length prefix cannot
// force a huge allocation before the truncation is noticed
func capHint(n uint64) int {
	if n > 1024 {
		return 1024
	}
	return int(n)
}

// withPartial attaches a partially-decoded container to a DecodeError for
// diagnostics, without clobbering a partial from deeper in the tree
func withPartial(err error, partial Value) error {
	var de *DecodeError
	if errors.As(err, &de) && de.Partial == nil {
		de.Partial = partial
	}
	return err
}

var (
	cachedDecMode     _cbor.DecMode
	cachedDecModeErr  error
	cachedDecModeOnce sync.Once
)

// getDecMode returns a cached DecMode, initializing it on first use.
// Uses sync.Once for thread-safe lazy initialization.
// Returns the cached error if initialization failed.
func getDecMode() (_cbor.DecMode, error) {
	cachedDecModeOnce.Do(func() {
		decOptions := _cbor.DecOptions{
			ExtraReturnErrors: _cbor.ExtraDecErrorUnknownField,
			// This defaults to 32, but there are structures in the wild
			// using >64 nested levels
			MaxNestedLevels: 256,
		}
		cachedDecMode, cachedDecModeErr = decOptions.DecModeWithTags(
			customTagSet,
		)
	})
	return cachedDecMode, cachedDecModeErr
}

// Decode decodes CBOR into an arbitrary Go object via the generic struct
// codec and returns the number of bytes read
func Decode(dataBytes []byte, dest any) (int, error) {
	data := bytes.NewReader(dataBytes)
	decMode, err := getDecMode()
	if err != nil {
		return 0, err
	}
	if decMode == nil {
		return 0, errors.New("CBOR decoder mode not initialized")
	}
	dec := decMode.NewDecoder(data)
	err = dec.Decode(dest)
	return dec.NumBytesRead(), err
}

var (
	decodeGenericTypeCache      = map[reflect.Type]reflect.Type{}
	decodeGenericTypeCacheMutex sync.RWMutex
)

// DecodeGeneric decodes the specified CBOR into the destination object
// without using the destination object's UnmarshalCBOR() function
func DecodeGeneric(cborData []byte, dest any) error {
	// Get destination type
	valueDest := reflect.ValueOf(dest)
	typeDest := valueDest.Elem().Type()
	// Check type cache
	decodeGenericTypeCacheMutex.RLock()
	tmpTypeDest, ok := decodeGenericTypeCache[typeDest]
	decodeGenericTypeCacheMutex.RUnlock()
	if !ok {
		// Create a duplicate(-ish) struct from the destination
		// We do this so that we can bypass any custom UnmarshalCBOR()
		// function on the destination object
		if valueDest.Kind() != reflect.Pointer ||
			valueDest.Elem().Kind() != reflect.Struct {
			return errors.New("destination must be a pointer to a struct")
		}
		destTypeFields := []reflect.StructField{}
		for i := range typeDest.NumField() {
			tmpField := typeDest.Field(i)
			if tmpField.IsExported() && tmpField.Name != "DecodeStoreCbor" {
				destTypeFields = append(destTypeFields, tmpField)
			}
		}
		tmpTypeDest = reflect.StructOf(destTypeFields)
		// Populate cache
		decodeGenericTypeCacheMutex.Lock()
		decodeGenericTypeCache[typeDest] = tmpTypeDest
		decodeGenericTypeCacheMutex.Unlock()
	}
	// Create temporary object with the type created above
	tmpDest := reflect.New(tmpTypeDest)
	// Decode CBOR into temporary object
	if _, err := Decode(cborData, tmpDest.Interface()); err != nil {
		return err
	}
	// Copy values from temporary object into destination object
	if err := copier.Copy(dest, tmpDest.Interface()); err != nil {
		return err
	}
	return nil
}
