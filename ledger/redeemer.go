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
	"math"
	"slices"

	"github.com/blinklabs-io/txcodec/cbor"
	"github.com/blinklabs-io/txcodec/cddl"
)

type RedeemerTag uint8

const (
	RedeemerTagSpend  RedeemerTag = 0
	RedeemerTagMint   RedeemerTag = 1
	RedeemerTagCert   RedeemerTag = 2
	RedeemerTagReward RedeemerTag = 3
)

func (t RedeemerTag) String() string {
	switch t {
	case RedeemerTagSpend:
		return "spend"
	case RedeemerTagMint:
		return "mint"
	case RedeemerTagCert:
		return "cert"
	case RedeemerTagReward:
		return "reward"
	}
	return "unknown"
}

// ExUnits represents the steps and memory usage for script execution
type ExUnits struct {
	Memory uint64
	Steps  uint64
}

// Redeemer carries the execution arguments for one script invocation
type Redeemer struct {
	Tag     RedeemerTag
	Index   uint32
	Data    Datum
	ExUnits ExUnits
}

type Redeemers []Redeemer

func (r Redeemers) MarshalCBOR() ([]byte, error) {
	return cddl.EncodeEntity(RedeemersSchema, r, cbor.CanonicalOptions()), nil
}

func (r *Redeemers) UnmarshalCBOR(cborData []byte) error {
	tmp, err := cddl.DecodeEntity(RedeemersSchema, cborData)
	if err != nil {
		return err
	}
	*r = tmp
	return nil
}

// ExUnitsSchema is the [memory, steps] tuple shape
var ExUnitsSchema cddl.Schema[ExUnits] = exUnitsSchema{}

type exUnitsSchema struct{}

func (exUnitsSchema) EncodeValue(u ExUnits) cbor.Value {
	return cbor.NewArray(cbor.NewUint(u.Memory), cbor.NewUint(u.Steps))
}

func (exUnitsSchema) DecodeValue(v cbor.Value) (ExUnits, error) {
	fields, err := cddl.TupleFields(v, "ex units", 2, 2)
	if err != nil {
		return ExUnits{}, err
	}
	memory, err := cddl.AsUint(fields[0], "ex units", "memory")
	if err != nil {
		return ExUnits{}, err
	}
	steps, err := cddl.AsUint(fields[1], "ex units", "steps")
	if err != nil {
		return ExUnits{}, err
	}
	return ExUnits{Memory: memory, Steps: steps}, nil
}

// RedeemerSchema is the [tag, index, data, ex_units] tuple shape
var RedeemerSchema cddl.Schema[Redeemer] = redeemerSchema{}

type redeemerSchema struct{}

func (redeemerSchema) EncodeValue(r Redeemer) cbor.Value {
	return cbor.NewArray(
		cbor.NewUint(uint64(r.Tag)),
		cbor.NewUint(uint64(r.Index)),
		datumValue(r.Data),
		ExUnitsSchema.EncodeValue(r.ExUnits),
	)
}

func (redeemerSchema) DecodeValue(v cbor.Value) (Redeemer, error) {
	fields, err := cddl.TupleFields(v, "redeemer", 4, 4)
	if err != nil {
		return Redeemer{}, err
	}
	tag, err := cddl.AsUint(fields[0], "redeemer", "tag")
	if err != nil {
		return Redeemer{}, err
	}
	if tag > uint64(RedeemerTagReward) {
		return Redeemer{}, cddl.NewSchemaError(
			"redeemer",
			"unknown redeemer tag %d",
			tag,
		)
	}
	index, err := cddl.AsUint(fields[1], "redeemer", "index")
	if err != nil {
		return Redeemer{}, err
	}
	if index > math.MaxUint32 {
		return Redeemer{}, cddl.NewSchemaError(
			"redeemer",
			"index %d out of range",
			index,
		)
	}
	redeemerDatum, err := DatumFromValue(fields[2])
	if err != nil {
		return Redeemer{}, cddl.NewSchemaError(
			"redeemer",
			"invalid redeemer data: %s",
			err,
		)
	}
	exUnits, err := ExUnitsSchema.DecodeValue(fields[3])
	if err != nil {
		return Redeemer{}, err
	}
	return Redeemer{
		Tag:     RedeemerTag(tag),
		Index:   uint32(index),
		Data:    redeemerDatum,
		ExUnits: exUnits,
	}, nil
}

// RedeemersSchema is the redeemer list shape. Encoding always emits the
// entries ordered by (tag, index); wire order is accepted as-is on decode.
var RedeemersSchema cddl.Schema[Redeemers] = redeemersSchema{}

type redeemersSchema struct{}

func (redeemersSchema) EncodeValue(r Redeemers) cbor.Value {
	sorted := make(Redeemers, len(r))
	copy(sorted, r)
	slices.SortFunc(
		sorted,
		func(a, b Redeemer) int {
			if a.Tag < b.Tag || (a.Tag == b.Tag && a.Index < b.Index) {
				return -1
			}
			if a.Tag > b.Tag || (a.Tag == b.Tag && a.Index > b.Index) {
				return 1
			}
			return 0
		},
	)
	items := make([]cbor.Value, 0, len(sorted))
	for _, redeemer := range sorted {
		items = append(items, RedeemerSchema.EncodeValue(redeemer))
	}
	return cbor.Array{Items: items}
}

func (redeemersSchema) DecodeValue(v cbor.Value) (Redeemers, error) {
	arr, err := cddl.AsArray(v, "redeemers", "list")
	if err != nil {
		return nil, err
	}
	ret := make(Redeemers, 0, len(arr.Items))
	for _, item := range arr.Items {
		redeemer, err := RedeemerSchema.DecodeValue(item)
		if err != nil {
			return nil, err
		}
		ret = append(ret, redeemer)
	}
	return ret, nil
}

// datumValue converts a datum to its value tree. A datum always holds
// encodable Plutus data, so failure here means corrupted state.
func datumValue(d Datum) cbor.Value {
	v, err := d.Value()
	if err != nil {
		panic("datum does not encode: " + err.Error())
	}
	return v
}
