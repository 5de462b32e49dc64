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
	"github.com/blinklabs-io/txcodec/cbor"
)

// FromGoValue converts an arbitrary Go value to a value tree by running it
// through the generic struct codec. Struct tags, custom MarshalCBOR
// implementations, and the package tag set (WrappedCbor, Set) all apply.
func FromGoValue(src any) (cbor.Value, error) {
	data, err := cbor.Encode(src)
	if err != nil {
		return nil, err
	}
	return cbor.DecodeValue(data)
}

// ToGoValue converts a value tree into an arbitrary Go destination via the
// generic struct codec
func ToGoValue(v cbor.Value, dest any) error {
	data := cbor.EncodeValue(v, cbor.CanonicalOptions())
	_, err := cbor.Decode(data, dest)
	return err
}
