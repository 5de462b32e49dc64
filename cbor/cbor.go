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
	_cbor "github.com/fxamacker/cbor/v2"
)

const (
	CborTypeUint       byte = 0x00
	CborTypeNInt       byte = 0x20
	CborTypeByteString byte = 0x40
	CborTypeTextString byte = 0x60
	CborTypeArray      byte = 0x80
	CborTypeMap        byte = 0xa0
	CborTypeTag        byte = 0xc0
	CborTypeSimple     byte = 0xe0

	// Only the top 3 bits select the major type
	CborTypeMask byte = 0xe0

	// Max value able to be stored in the head byte without a length prefix
	CborMaxUintSimple byte = 0x17

	// Terminator for indefinite-length containers
	CborBreak byte = 0xff
)

// Create an alias for RawMessage for convenience
type RawMessage = _cbor.RawMessage

// Aliases for Tag types for convenience
type (
	Tag    = _cbor.Tag
	RawTag = _cbor.RawTag
)

// Useful for embedding and easier to remember
type StructAsArray struct {
	// Tells the CBOR decoder to convert to/from a struct and a CBOR array
	_ struct{} `cbor:",toarray"`
}

type DecodeStoreCborInterface interface {
	Cbor() []byte
	SetCbor([]byte)
}

// DecodeStoreCbor is embedded in domain types that need their original wire
// bytes preserved across a decode. Deterministic hashes are computed over
// these bytes, never over a re-encoding, so that non-canonical input still
// hashes to the value the chain saw.
type DecodeStoreCbor struct {
	cborData []byte
}

func (d *DecodeStoreCbor) SetCbor(cborData []byte) {
	if cborData == nil {
		d.cborData = nil
		return
	}
	d.cborData = make([]byte, len(cborData))
	copy(d.cborData, cborData)
}

// Cbor returns the original CBOR for the object
func (d *DecodeStoreCbor) Cbor() []byte {
	return d.cborData
}

// UnmarshalCbor decodes the specified CBOR into the destination object and
// stores a copy of the original CBOR, bypassing the destination object's own
// UnmarshalCBOR() function
func (d *DecodeStoreCbor) UnmarshalCbor(
	cborData []byte,
	dest DecodeStoreCborInterface,
) error {
	if err := DecodeGeneric(cborData, dest); err != nil {
		return err
	}
	// Store a copy of the original CBOR data
	// This must be done after DecodeGeneric, or it gets wiped out when the
	// temporary object is copied back over the destination
	d.SetCbor(cborData)
	return nil
}
