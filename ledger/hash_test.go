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

package ledger_test

import (
	"encoding/hex"
	"strings"
	"testing"

	"github.com/blinklabs-io/txcodec/ledger"
	"github.com/btcsuite/btcd/btcutil/bech32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBlake2b256Hash(t *testing.T) {
	// Published BLAKE2b-256 test vectors
	tests := []struct {
		Input    []byte
		Expected string
	}{
		{
			Input:    nil,
			Expected: "0e5751c026e543b2e8ab2eb06099daa1d1e5df47778f7787faab45cdf12fe3a8",
		},
		{
			Input:    []byte("abc"),
			Expected: "bddd813c634239723171ef3fee98579b94964e3bb1cb3e427262c8c068d52319",
		},
	}
	for _, test := range tests {
		hash := ledger.Blake2b256Hash(test.Input)
		assert.Equal(t, test.Expected, hash.String())
	}
}

func TestBlake2b256RoundTrip(t *testing.T) {
	hashBytes, err := hex.DecodeString(
		"0e5751c026e543b2e8ab2eb06099daa1d1e5df47778f7787faab45cdf12fe3a8",
	)
	require.NoError(t, err)
	hash := ledger.NewBlake2b256(hashBytes)
	assert.Equal(t, hashBytes, hash.Bytes())
	assert.Len(t, hash.String(), 2*ledger.Blake2b256Size)
}

func TestBlake2b256MarshalCBOR(t *testing.T) {
	// A zero-valued hash still encodes as a full-size bytestring
	var hash ledger.Blake2b256
	cborData, err := hash.MarshalCBOR()
	require.NoError(t, err)
	assert.Equal(
		t,
		"5820"+strings.Repeat("00", ledger.Blake2b256Size),
		hex.EncodeToString(cborData),
	)
}

func TestBlake2b256MarshalJSON(t *testing.T) {
	hash := ledger.Blake2b256Hash([]byte("abc"))
	jsonData, err := hash.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(
		t,
		`"bddd813c634239723171ef3fee98579b94964e3bb1cb3e427262c8c068d52319"`,
		string(jsonData),
	)
}

func TestBlake2b256Bech32(t *testing.T) {
	hash := ledger.Blake2b256Hash([]byte("abc"))
	encoded := hash.Bech32("datum")
	assert.True(t, strings.HasPrefix(encoded, "datum1"))
	// The encoding must carry the full hash through a decode
	hrp, decoded, err := bech32.Decode(encoded)
	require.NoError(t, err)
	assert.Equal(t, "datum", hrp)
	converted, err := bech32.ConvertBits(decoded, 5, 8, false)
	require.NoError(t, err)
	assert.Equal(t, hash.Bytes(), converted)
}

func TestBlake2b224Hash(t *testing.T) {
	hash := ledger.Blake2b224Hash([]byte("abc"))
	assert.Len(t, hash.Bytes(), ledger.Blake2b224Size)
	assert.Len(t, hash.String(), 2*ledger.Blake2b224Size)
	// Different sizes of the same input are unrelated digests
	assert.NotEqual(
		t,
		hash.String(),
		ledger.Blake2b256Hash([]byte("abc")).String()[:2*ledger.Blake2b224Size],
	)
}

func TestBlake2b160Hash(t *testing.T) {
	hash := ledger.Blake2b160Hash([]byte("abc"))
	assert.Len(t, hash.Bytes(), ledger.Blake2b160Size)
}

func TestDatumHashToBech32(t *testing.T) {
	hash := ledger.Blake2b256Hash([]byte("abc"))
	assert.Equal(t, hash.Bech32("datum"), ledger.DatumHashToBech32(hash))
}
