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

	"github.com/blinklabs-io/txcodec/cbor"
	"github.com/blinklabs-io/txcodec/cddl"
	"github.com/blinklabs-io/txcodec/ledger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLanguageViewsPlutusV1(t *testing.T) {
	// The frozen PlutusV1 form: the key is the canonical encoding of 0
	// wrapped in a bytestring, and the value is the indefinite-length
	// parameter array wrapped in a bytestring
	costModels := ledger.CostModels{
		ledger.LanguagePlutusV1: make([]int64, 166),
	}
	expectedHex := "a1" + "4100" + "58a8" +
		"9f" + strings.Repeat("00", 166) + "ff"
	assert.Equal(
		t,
		expectedHex,
		hex.EncodeToString(costModels.LanguageViews()),
	)
}

func TestLanguageViewsPlutusV2(t *testing.T) {
	costModels := ledger.CostModels{
		ledger.LanguagePlutusV2: {0, 1},
	}
	assert.Equal(
		t,
		"a1"+"01"+"820001",
		hex.EncodeToString(costModels.LanguageViews()),
	)
}

func TestLanguageViewsMixed(t *testing.T) {
	// Canonical key ordering puts the 1-byte PlutusV2 key before the 2-byte
	// bytestring-wrapped PlutusV1 key
	costModels := ledger.CostModels{
		ledger.LanguagePlutusV1: {0},
		ledger.LanguagePlutusV2: {1, 2},
	}
	expectedHex := "a2" +
		"01" + "820102" +
		"4100" + "43" + "9f00ff"
	assert.Equal(
		t,
		expectedHex,
		hex.EncodeToString(costModels.LanguageViews()),
	)
}

func TestLanguageViewsEmpty(t *testing.T) {
	costModels := ledger.CostModels{}
	assert.Equal(t, "a0", hex.EncodeToString(costModels.LanguageViews()))
}

func TestCostModelsSchemaRoundTrip(t *testing.T) {
	costModels := ledger.CostModels{
		ledger.LanguagePlutusV3: {-1, 5, 100000},
	}
	cborData := cddl.EncodeEntity(
		ledger.CostModelsSchema,
		costModels,
		cbor.CanonicalOptions(),
	)
	assert.Equal(
		t,
		"a1"+"02"+"83"+"20"+"05"+"1a000186a0",
		hex.EncodeToString(cborData),
	)
	decoded, err := cddl.DecodeEntity(ledger.CostModelsSchema, cborData)
	require.NoError(t, err)
	assert.Equal(t, costModels, decoded)
}

func TestCostModelsLanguages(t *testing.T) {
	costModels := ledger.CostModels{
		2: {1},
		0: {2},
		1: {3},
	}
	assert.Equal(t, []uint{0, 1, 2}, costModels.Languages())
}
