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
	"math/big"
	"testing"

	"github.com/blinklabs-io/plutigo/data"
	"github.com/blinklabs-io/txcodec/ledger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedeemerTagString(t *testing.T) {
	assert.Equal(t, "spend", ledger.RedeemerTagSpend.String())
	assert.Equal(t, "mint", ledger.RedeemerTagMint.String())
	assert.Equal(t, "cert", ledger.RedeemerTagCert.String())
	assert.Equal(t, "reward", ledger.RedeemerTagReward.String())
}

func TestRedeemersEncode(t *testing.T) {
	redeemers := ledger.Redeemers{
		{
			Tag:     ledger.RedeemerTagSpend,
			Index:   0,
			Data:    ledger.ConstrDatum(0),
			ExUnits: ledger.ExUnits{Memory: 1, Steps: 2},
		},
	}
	cborData, err := redeemers.MarshalCBOR()
	require.NoError(t, err)
	assert.Equal(
		t,
		"81"+"84"+"00"+"00"+"d87980"+"820102",
		hex.EncodeToString(cborData),
	)
}

func TestRedeemersEncodeOrdering(t *testing.T) {
	// Encoding orders by (tag, index) regardless of input order
	redeemers := ledger.Redeemers{
		{Tag: ledger.RedeemerTagMint, Index: 1, Data: ledger.ConstrDatum(0)},
		{Tag: ledger.RedeemerTagSpend, Index: 2, Data: ledger.ConstrDatum(0)},
		{Tag: ledger.RedeemerTagSpend, Index: 1, Data: ledger.ConstrDatum(0)},
	}
	cborData, err := redeemers.MarshalCBOR()
	require.NoError(t, err)
	var decoded ledger.Redeemers
	require.NoError(t, decoded.UnmarshalCBOR(cborData))
	require.Len(t, decoded, 3)
	assert.Equal(t, ledger.RedeemerTagSpend, decoded[0].Tag)
	assert.Equal(t, uint32(1), decoded[0].Index)
	assert.Equal(t, ledger.RedeemerTagSpend, decoded[1].Tag)
	assert.Equal(t, uint32(2), decoded[1].Index)
	assert.Equal(t, ledger.RedeemerTagMint, decoded[2].Tag)
	assert.Equal(t, uint32(1), decoded[2].Index)
}

func TestRedeemersRoundTrip(t *testing.T) {
	redeemers := ledger.Redeemers{
		{
			Tag:   ledger.RedeemerTagCert,
			Index: 3,
			Data: ledger.NewDatum(
				data.NewConstr(1, data.NewInteger(big.NewInt(42))),
			),
			ExUnits: ledger.ExUnits{Memory: 1000, Steps: 2000},
		},
	}
	cborData, err := redeemers.MarshalCBOR()
	require.NoError(t, err)
	var decoded ledger.Redeemers
	require.NoError(t, decoded.UnmarshalCBOR(cborData))
	require.Len(t, decoded, 1)
	assert.Equal(t, redeemers[0].Tag, decoded[0].Tag)
	assert.Equal(t, redeemers[0].Index, decoded[0].Index)
	assert.Equal(t, redeemers[0].ExUnits, decoded[0].ExUnits)
	// Compare the datum payloads by their encodings
	wantData, err := redeemers[0].Data.MarshalCBOR()
	require.NoError(t, err)
	gotData, err := decoded[0].Data.MarshalCBOR()
	require.NoError(t, err)
	assert.Equal(t, wantData, gotData)
}

func TestRedeemersDecodeErrors(t *testing.T) {
	errorTests := []struct {
		Name    string
		CborHex string
	}{
		{
			Name:    "unknown tag",
			CborHex: "81" + "84" + "09" + "00" + "d87980" + "820102",
		},
		{
			Name:    "wrong arity",
			CborHex: "81" + "83" + "00" + "00" + "d87980",
		},
		{
			Name:    "index out of range",
			CborHex: "81" + "84" + "00" + "1b0000000100000000" + "d87980" + "820102",
		},
	}
	for _, test := range errorTests {
		cborData, err := hex.DecodeString(test.CborHex)
		require.NoError(t, err, test.Name)
		var decoded ledger.Redeemers
		assert.Error(t, decoded.UnmarshalCBOR(cborData), test.Name)
	}
}

func TestExUnitsRoundTrip(t *testing.T) {
	u := ledger.ExUnits{Memory: 500, Steps: 100000}
	v := ledger.ExUnitsSchema.EncodeValue(u)
	decoded, err := ledger.ExUnitsSchema.DecodeValue(v)
	require.NoError(t, err)
	assert.Equal(t, u, decoded)
}
