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
	"fmt"

	"github.com/blinklabs-io/plutigo/data"
	"github.com/blinklabs-io/txcodec/cbor"
)

// Datum represents a Plutus datum
type Datum struct {
	cbor.DecodeStoreCbor
	Data data.PlutusData `json:"data"`
}

func NewDatum(pd data.PlutusData) Datum {
	return Datum{Data: pd}
}

func (d *Datum) UnmarshalCBOR(cborData []byte) error {
	tmpData, err := data.Decode(cborData)
	if err != nil {
		return err
	}
	d.Data = tmpData
	d.SetCbor(cborData)
	return nil
}

func (d *Datum) MarshalCBOR() ([]byte, error) {
	if stored := d.Cbor(); len(stored) > 0 {
		return stored, nil
	}
	tmpCbor, err := data.Encode(d.Data)
	if err != nil {
		return nil, err
	}
	return tmpCbor, nil
}

func (d *Datum) Hash() (DatumHash, error) {
	return HashDatum(d)
}

// Value returns the datum as a decoded value tree
func (d *Datum) Value() (cbor.Value, error) {
	cborData, err := d.MarshalCBOR()
	if err != nil {
		return nil, err
	}
	return cbor.DecodeValue(cborData)
}

// DatumFromValue builds a datum from a decoded value tree
func DatumFromValue(v cbor.Value) (Datum, error) {
	cborData := cbor.EncodeValue(v, cbor.CanonicalOptions())
	tmpData, err := data.Decode(cborData)
	if err != nil {
		return Datum{}, fmt.Errorf("decode plutus data: %w", err)
	}
	return Datum{Data: tmpData}, nil
}

// DatumHashToBech32 encodes a DatumHash as a CIP-0005 bech32 string with "datum" prefix.
func DatumHashToBech32(d DatumHash) string {
	return d.Bech32("datum")
}

// ConstrDatum builds a constructor datum for the given alternative
func ConstrDatum(alternative uint, fields ...data.PlutusData) Datum {
	return Datum{Data: data.NewConstr(alternative, fields...)}
}

// DatumConstructor splits a constructor datum into its alternative number and
// field datums. It fails when the datum is not a constructor.
func (d *Datum) DatumConstructor() (uint, []Datum, error) {
	v, err := d.Value()
	if err != nil {
		return 0, nil, err
	}
	alternative, fieldValues, err := cbor.ConstructorFields(v)
	if err != nil {
		return 0, nil, err
	}
	fields := make([]Datum, 0, len(fieldValues))
	for _, fieldValue := range fieldValues {
		field, err := DatumFromValue(fieldValue)
		if err != nil {
			return 0, nil, err
		}
		fields = append(fields, field)
	}
	return alternative, fields, nil
}
