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

// Package cbor provides the canonical CBOR codec underlying Cardano
// transaction serialization.
//
// # Value model
//
// Value is a closed sum type over the wire subset used by the ledger:
// Uint, NInt, Bytes, Text, Array, Map, Tagged, Bool, Null, and Simple.
// Arrays and maps carry an explicit LengthMode because the definite vs
// indefinite encoding of a container cannot be recovered from its content,
// and re-encoding legacy structures must preserve it.
//
// EncodeValue is total for well-formed values and deterministic:
// minimal-width integer heads,
// definite-length strings, and (under CanonicalOptions) definite-length
// containers with map keys sorted by encoded length then byte order.
// DecodeValue is the mirror path and fails with a *DecodeError carrying the
// byte offset and a reason code.
//
// # Generic struct codec
//
// Encode and Decode wrap github.com/fxamacker/cbor/v2 with deterministic
// encode options and a custom tag set (tag 24 WrappedCbor, tag 258 Set) for
// types that are naturally expressed with struct tags:
//
//	type MyType struct {
//	    cbor.StructAsArray
//	    Field1 uint64
//	    Field2 []byte
//	}
//
// # Critical pattern: DecodeStoreCbor
//
// When a type needs its original CBOR bytes preserved for hashing:
//
//	type MyType struct {
//	    cbor.DecodeStoreCbor
//	    Field1 string
//	}
//
//	func (m *MyType) UnmarshalCBOR(data []byte) error {
//	    return m.UnmarshalCbor(data, m)
//	}
//
// Later, m.Cbor() returns the original bytes for hash computation. Hashing a
// re-encoding instead of the stored bytes causes hash mismatches whenever
// the input was not already canonical.
package cbor
