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
	"github.com/blinklabs-io/txcodec/cddl"
)

// HashTransactionBody computes the transaction identifier. A body decoded
// from the wire hashes over its original bytes, so the identifier survives
// even when the peer used a non-canonical encoding.
func HashTransactionBody(body *TransactionBody) (TransactionHash, error) {
	cborData, err := body.MarshalCBOR()
	if err != nil {
		return TransactionHash{}, fmt.Errorf("encode transaction body: %w", err)
	}
	return Blake2b256Hash(cborData), nil
}

// HashAuxiliaryData computes the hash committed to by the transaction body's
// auxiliary data hash field
func HashAuxiliaryData(aux *AuxiliaryData) (AuxiliaryDataHash, error) {
	cborData, err := aux.MarshalCBOR()
	if err != nil {
		return AuxiliaryDataHash{}, fmt.Errorf("encode auxiliary data: %w", err)
	}
	return Blake2b256Hash(cborData), nil
}

// HashDatum computes a datum hash, preferring the datum's original wire
// bytes when it was decoded
func HashDatum(d *Datum) (DatumHash, error) {
	cborData, err := d.MarshalCBOR()
	if err != nil {
		return DatumHash{}, fmt.Errorf("encode datum: %w", err)
	}
	return Blake2b256Hash(cborData), nil
}

// HashPlutusData computes the datum hash of bare Plutus data
func HashPlutusData(pd data.PlutusData) (DatumHash, error) {
	cborData, err := data.Encode(pd)
	if err != nil {
		return DatumHash{}, fmt.Errorf("encode plutus data: %w", err)
	}
	return Blake2b256Hash(cborData), nil
}

// HashScriptData computes the script data hash committed to by the
// transaction body. The hash covers the redeemers, the supplemental datums,
// and the language views of the cost models.
func HashScriptData(
	redeemers Redeemers,
	costModels CostModels,
	datums []Datum,
) (ScriptDataHash, error) {
	payload, err := scriptDataPayload(redeemers, costModels, datums)
	if err != nil {
		return ScriptDataHash{}, err
	}
	return Blake2b256Hash(payload), nil
}

// scriptDataPayload builds the preimage of the script data hash.
//
// When there are no redeemers but at least one datum, the preimage is the
// fixed form { A0 | datums | A0 }: an empty map, the datum set, and a second
// empty map where the language views would go. This historical shape is
// reproduced literally rather than derived from the general form.
func scriptDataPayload(
	redeemers Redeemers,
	costModels CostModels,
	datums []Datum,
) ([]byte, error) {
	var datumBytes []byte
	if len(datums) > 0 {
		var err error
		datumBytes, err = encodeDatumSet(datums)
		if err != nil {
			return nil, err
		}
	}
	if len(redeemers) == 0 && len(datums) > 0 {
		payload := []byte{0xa0}
		payload = append(payload, datumBytes...)
		payload = append(payload, 0xa0)
		return payload, nil
	}
	payload, err := redeemers.MarshalCBOR()
	if err != nil {
		return nil, fmt.Errorf("encode redeemers: %w", err)
	}
	payload = append(payload, datumBytes...)
	payload = append(payload, costModels.LanguageViews()...)
	return payload, nil
}

// encodeDatumSet encodes the supplemental datums as a tag-258 set
func encodeDatumSet(datums []Datum) ([]byte, error) {
	items := make([]cbor.Value, 0, len(datums))
	for i := range datums {
		v, err := datums[i].Value()
		if err != nil {
			return nil, fmt.Errorf("encode datum: %w", err)
		}
		items = append(items, v)
	}
	return cbor.EncodeValue(
		cddl.WrapSet(items),
		cbor.CanonicalOptions(),
	), nil
}
