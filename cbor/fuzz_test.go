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

package cbor_test

import (
	"bytes"
	"encoding/hex"
	"testing"

	"github.com/blinklabs-io/txcodec/cbor"
)

func FuzzDecodeValue(f *testing.F) {
	seeds := []string{
		"",
		"00",
		"1b0000000100000000",
		"3901f3",
		"42dead",
		"6568656c6c6f",
		"83010203",
		"9f0102ff",
		"bf0102ff",
		"a302020a00616101",
		"d87a820102",
		"d9010281" + "01",
		"5f41aaff",
		"f5",
		"f6",
		"f800",
		"f93c00",
		"ff",
	}
	for _, seed := range seeds {
		seedData, err := hex.DecodeString(seed)
		if err != nil {
			f.Fatalf("failed to decode seed hex: %s", err)
		}
		f.Add(seedData)
	}
	f.Fuzz(func(t *testing.T, data []byte) {
		v, err := cbor.DecodeValue(data)
		if err != nil {
			// Malformed input must produce an error, never a panic
			return
		}
		// Anything that decodes must re-encode, and the canonical encoding
		// must be a fixed point
		canonical := cbor.EncodeValue(v, cbor.CanonicalOptions())
		v2, err := cbor.DecodeValue(canonical)
		if err != nil {
			t.Fatalf("canonical re-encode did not decode: %s", err)
		}
		again := cbor.EncodeValue(v2, cbor.CanonicalOptions())
		if !bytes.Equal(canonical, again) {
			t.Fatalf(
				"canonical encoding is not a fixed point\n  first: %x\n  second: %x",
				canonical,
				again,
			)
		}
	})
}
