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

package ledger

import (
	"sort"

	"github.com/blinklabs-io/txcodec/cbor"
	"github.com/blinklabs-io/txcodec/cddl"
)

// Plutus language identifiers
const (
	LanguagePlutusV1 = 0
	LanguagePlutusV2 = 1
	LanguagePlutusV3 = 2
)

// CostModels maps a Plutus language identifier to its cost model parameters
type CostModels map[uint][]int64

// Languages returns the language identifiers present, in ascending order
func (c CostModels) Languages() []uint {
	languages := make([]uint, 0, len(c))
	for language := range c {
		languages = append(languages, language)
	}
	sort.Slice(
		languages,
		func(i, j int) bool { return languages[i] < languages[j] },
	)
	return languages
}

// LanguageViews encodes the cost models in the form committed to by the
// script data hash.
//
// PlutusV1 views were frozen with two historical accidents that must be
// reproduced bit for bit: the map key is the canonical encoding of the
// integer 0 wrapped in a bytestring rather than the bare integer, and the
// value is the cost model array encoded with an indefinite-length header and
// then itself wrapped in a bytestring. PlutusV2 and later use the plain
// integer key and a definite-length array.
func (c CostModels) LanguageViews() []byte {
	var builder []cbor.MapPair
	for _, language := range c.Languages() {
		costModel := c[language]
		if language == LanguagePlutusV1 {
			keyBytes := cbor.EncodeValue(
				cbor.NewUint(uint64(language)),
				cbor.CanonicalOptions(),
			)
			valueBytes := cbor.EncodeValue(
				costModelArray(costModel),
				cbor.LegacyPlutusV1Options(),
			)
			builder = append(builder, cbor.MapPair{
				Key:   cbor.NewBytes(keyBytes),
				Value: cbor.NewBytes(valueBytes),
			})
			continue
		}
		builder = append(builder, cbor.MapPair{
			Key:   cbor.NewUint(uint64(language)),
			Value: costModelArray(costModel),
		})
	}
	return cbor.EncodeValue(
		cbor.Map{Pairs: builder},
		cbor.CanonicalOptions(),
	)
}

func costModelArray(costModel []int64) cbor.Value {
	items := make([]cbor.Value, 0, len(costModel))
	for _, param := range costModel {
		items = append(items, cbor.NewInt(param))
	}
	return cbor.Array{Items: items}
}

// CostModelsSchema is the plain map shape used when cost models travel inside
// protocol parameters: integer language keys and definite parameter arrays
// for every language. The language-view double encoding applies only to the
// script data hash.
var CostModelsSchema cddl.Schema[CostModels] = costModelsSchema{}

type costModelsSchema struct{}

func (costModelsSchema) EncodeValue(c CostModels) cbor.Value {
	var builder cddl.MapBuilder
	for _, language := range c.Languages() {
		builder.Add(uint64(language), costModelArray(c[language]))
	}
	return builder.Build()
}

func (costModelsSchema) DecodeValue(v cbor.Value) (CostModels, error) {
	fields, err := cddl.NewMapFields(v, "cost models")
	if err != nil {
		return nil, err
	}
	ret := make(CostModels)
	for _, language := range fields.Remaining() {
		arrValue, _ := fields.Optional(language)
		arr, err := cddl.AsArray(arrValue, "cost models", "parameters")
		if err != nil {
			return nil, err
		}
		params := make([]int64, 0, len(arr.Items))
		for _, item := range arr.Items {
			param, ok := cbor.Int(item)
			if !ok {
				return nil, cddl.NewSchemaError(
					"cost models",
					"parameter is not an integer, got %T",
					item,
				)
			}
			params = append(params, param)
		}
		ret[uint(language)] = params
	}
	return ret, nil
}
