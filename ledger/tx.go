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
	"math"

	"github.com/blinklabs-io/txcodec/cbor"
	"github.com/blinklabs-io/txcodec/cddl"
)

// Transaction body map keys from the Conway CDDL. Only the subset needed by
// the codec core is modeled; the full per-era field catalogue lives with the
// consumers of this library.
const (
	txBodyKeyInputs                = 0
	txBodyKeyOutputs               = 1
	txBodyKeyFee                   = 2
	txBodyKeyTTL                   = 3
	txBodyKeyAuxDataHash           = 7
	txBodyKeyValidityIntervalStart = 8
	txBodyKeyScriptDataHash        = 11
	txBodyKeyCollateral            = 13
	txBodyKeyRequiredSigners       = 14
	txBodyKeyNetworkId             = 15
)

type TransactionInput struct {
	TxId        Blake2b256
	OutputIndex uint32
}

func (i TransactionInput) Id() Blake2b256 {
	return i.TxId
}

func (i TransactionInput) Index() uint32 {
	return i.OutputIndex
}

func (i TransactionInput) String() string {
	return fmt.Sprintf("%s#%d", i.TxId, i.OutputIndex)
}

func (i TransactionInput) MarshalCBOR() ([]byte, error) {
	return cddl.EncodeEntity(InputSchema, i, cbor.CanonicalOptions()), nil
}

func (i *TransactionInput) UnmarshalCBOR(cborData []byte) error {
	tmpInput, err := cddl.DecodeEntity(InputSchema, cborData)
	if err != nil {
		return err
	}
	*i = tmpInput
	return nil
}

// InputSchema maps a transaction input onto its tuple shape:
// [transaction_id, index]
var InputSchema cddl.Schema[TransactionInput] = inputSchema{}

type inputSchema struct{}

func (inputSchema) EncodeValue(i TransactionInput) cbor.Value {
	return cbor.NewArray(
		cbor.NewBytes(i.TxId.Bytes()),
		cbor.NewUint(uint64(i.OutputIndex)),
	)
}

func (inputSchema) DecodeValue(v cbor.Value) (TransactionInput, error) {
	var ret TransactionInput
	fields, err := cddl.TupleFields(v, "transaction input", 2, 2)
	if err != nil {
		return ret, err
	}
	txId, err := cddl.FixedBytes(
		fields[0],
		"transaction input",
		"transaction id",
		Blake2b256Size,
	)
	if err != nil {
		return ret, err
	}
	idx, err := cddl.AsUint(fields[1], "transaction input", "index")
	if err != nil {
		return ret, err
	}
	if idx > math.MaxUint32 {
		return ret, cddl.NewSchemaError(
			"transaction input",
			"index %d out of range",
			idx,
		)
	}
	ret.TxId = NewBlake2b256(txId)
	ret.OutputIndex = uint32(idx)
	return ret, nil
}

type TransactionOutput struct {
	OutputAddress   []byte
	OutputAmount    uint64
	OutputDatumHash *Blake2b256
}

func (o TransactionOutput) Address() []byte {
	return o.OutputAddress
}

func (o TransactionOutput) Amount() uint64 {
	return o.OutputAmount
}

func (o TransactionOutput) DatumHash() *Blake2b256 {
	return o.OutputDatumHash
}

func (o TransactionOutput) MarshalCBOR() ([]byte, error) {
	return cddl.EncodeEntity(OutputSchema, o, cbor.CanonicalOptions()), nil
}

func (o *TransactionOutput) UnmarshalCBOR(cborData []byte) error {
	tmpOutput, err := cddl.DecodeEntity(OutputSchema, cborData)
	if err != nil {
		return err
	}
	*o = tmpOutput
	return nil
}

// OutputSchema maps a transaction output onto its tuple shape:
// [address, amount, ? datum_hash]. The optional trailing datum hash is
// represented by the shorter tuple when absent.
var OutputSchema cddl.Schema[TransactionOutput] = outputSchema{}

type outputSchema struct{}

func (outputSchema) EncodeValue(o TransactionOutput) cbor.Value {
	items := []cbor.Value{
		cbor.NewBytes(o.OutputAddress),
		cbor.NewUint(o.OutputAmount),
	}
	if o.OutputDatumHash != nil {
		items = append(items, cbor.NewBytes(o.OutputDatumHash.Bytes()))
	}
	return cbor.Array{Items: items}
}

func (outputSchema) DecodeValue(v cbor.Value) (TransactionOutput, error) {
	var ret TransactionOutput
	fields, err := cddl.TupleFields(v, "transaction output", 2, 3)
	if err != nil {
		return ret, err
	}
	addr, err := cddl.AsBytes(fields[0], "transaction output", "address")
	if err != nil {
		return ret, err
	}
	amount, err := cddl.AsUint(fields[1], "transaction output", "amount")
	if err != nil {
		return ret, err
	}
	ret.OutputAddress = addr
	ret.OutputAmount = amount
	if len(fields) == 3 {
		datumHash, err := cddl.FixedBytes(
			fields[2],
			"transaction output",
			"datum hash",
			Blake2b256Size,
		)
		if err != nil {
			return ret, err
		}
		tmpHash := NewBlake2b256(datumHash)
		ret.OutputDatumHash = &tmpHash
	}
	return ret, nil
}

// TransactionBody models the integer-keyed-map body shape. The original
// wire bytes are preserved across a decode so that the body hash matches
// what the chain saw even for non-canonical input.
type TransactionBody struct {
	cbor.DecodeStoreCbor
	TxInputs                []TransactionInput
	TxOutputs               []TransactionOutput
	TxFee                   uint64
	TxTTL                   uint64
	TxAuxDataHash           *Blake2b256
	TxValidityIntervalStart uint64
	TxScriptDataHash        *Blake2b256
	TxCollateral            []TransactionInput
	TxRequiredSigners       []Blake2b224
	TxNetworkId             *uint8
}

func (b *TransactionBody) Inputs() []TransactionInput {
	return b.TxInputs
}

func (b *TransactionBody) Outputs() []TransactionOutput {
	return b.TxOutputs
}

func (b *TransactionBody) Fee() uint64 {
	return b.TxFee
}

func (b *TransactionBody) TTL() uint64 {
	return b.TxTTL
}

func (b *TransactionBody) AuxDataHash() *Blake2b256 {
	return b.TxAuxDataHash
}

func (b *TransactionBody) ValidityIntervalStart() uint64 {
	return b.TxValidityIntervalStart
}

func (b *TransactionBody) ScriptDataHash() *Blake2b256 {
	return b.TxScriptDataHash
}

func (b *TransactionBody) Collateral() []TransactionInput {
	return b.TxCollateral
}

func (b *TransactionBody) RequiredSigners() []Blake2b224 {
	return b.TxRequiredSigners
}

func (b *TransactionBody) NetworkId() *uint8 {
	return b.TxNetworkId
}

// Hash returns the transaction id for the body
func (b *TransactionBody) Hash() (TransactionHash, error) {
	return HashTransactionBody(b)
}

func (b *TransactionBody) UnmarshalCBOR(cborData []byte) error {
	tmpBody, err := cddl.DecodeEntity(BodySchema, cborData)
	if err != nil {
		return err
	}
	*b = *tmpBody
	b.SetCbor(cborData)
	return nil
}

func (b *TransactionBody) MarshalCBOR() ([]byte, error) {
	if stored := b.Cbor(); len(stored) > 0 {
		return stored, nil
	}
	if len(b.TxInputs) == 0 {
		return nil, &cbor.EncodeError{
			Message: "transaction body has no inputs",
		}
	}
	return cddl.EncodeEntity(BodySchema, b, cbor.CanonicalOptions()), nil
}

// BodySchema maps a transaction body onto its integer-keyed map shape.
// Absent optional fields are omitted from the map entirely; on decode their
// absence yields the zero/nil unset representation.
var BodySchema cddl.Schema[*TransactionBody] = bodySchema{}

type bodySchema struct{}

func (bodySchema) EncodeValue(b *TransactionBody) cbor.Value {
	var builder cddl.MapBuilder
	builder.Add(txBodyKeyInputs, cddl.WrapSet(encodeInputs(b.TxInputs)))
	outputs := make([]cbor.Value, 0, len(b.TxOutputs))
	for _, output := range b.TxOutputs {
		outputs = append(outputs, OutputSchema.EncodeValue(output))
	}
	builder.Add(txBodyKeyOutputs, cbor.Array{Items: outputs})
	builder.Add(txBodyKeyFee, cbor.NewUint(b.TxFee))
	if b.TxTTL > 0 {
		builder.Add(txBodyKeyTTL, cbor.NewUint(b.TxTTL))
	}
	if b.TxAuxDataHash != nil {
		builder.Add(
			txBodyKeyAuxDataHash,
			cbor.NewBytes(b.TxAuxDataHash.Bytes()),
		)
	}
	if b.TxValidityIntervalStart > 0 {
		builder.Add(
			txBodyKeyValidityIntervalStart,
			cbor.NewUint(b.TxValidityIntervalStart),
		)
	}
	if b.TxScriptDataHash != nil {
		builder.Add(
			txBodyKeyScriptDataHash,
			cbor.NewBytes(b.TxScriptDataHash.Bytes()),
		)
	}
	if len(b.TxCollateral) > 0 {
		builder.Add(
			txBodyKeyCollateral,
			cddl.WrapSet(encodeInputs(b.TxCollateral)),
		)
	}
	if len(b.TxRequiredSigners) > 0 {
		signers := make([]cbor.Value, 0, len(b.TxRequiredSigners))
		for _, signer := range b.TxRequiredSigners {
			signers = append(signers, cbor.NewBytes(signer.Bytes()))
		}
		builder.Add(txBodyKeyRequiredSigners, cddl.WrapSet(signers))
	}
	if b.TxNetworkId != nil {
		builder.Add(txBodyKeyNetworkId, cbor.NewUint(uint64(*b.TxNetworkId)))
	}
	return builder.Build()
}

func (bodySchema) DecodeValue(v cbor.Value) (*TransactionBody, error) {
	fields, err := cddl.NewMapFields(v, "transaction body")
	if err != nil {
		return nil, err
	}
	ret := &TransactionBody{}
	// Inputs (required, non-empty set)
	inputsValue, err := fields.Required(txBodyKeyInputs)
	if err != nil {
		return nil, err
	}
	ret.TxInputs, err = decodeInputSet(inputsValue, true)
	if err != nil {
		return nil, err
	}
	// Outputs (required)
	outputsValue, err := fields.Required(txBodyKeyOutputs)
	if err != nil {
		return nil, err
	}
	outputsArray, err := cddl.AsArray(
		outputsValue,
		"transaction body",
		"outputs",
	)
	if err != nil {
		return nil, err
	}
	ret.TxOutputs = make([]TransactionOutput, 0, len(outputsArray.Items))
	for _, item := range outputsArray.Items {
		output, err := OutputSchema.DecodeValue(item)
		if err != nil {
			return nil, err
		}
		ret.TxOutputs = append(ret.TxOutputs, output)
	}
	// Fee (required)
	feeValue, err := fields.Required(txBodyKeyFee)
	if err != nil {
		return nil, err
	}
	ret.TxFee, err = cddl.AsUint(feeValue, "transaction body", "fee")
	if err != nil {
		return nil, err
	}
	// TTL
	if ttlValue, ok := fields.Optional(txBodyKeyTTL); ok {
		ret.TxTTL, err = cddl.AsUint(ttlValue, "transaction body", "ttl")
		if err != nil {
			return nil, err
		}
	}
	// Auxiliary data hash
	if hashValue, ok := fields.Optional(txBodyKeyAuxDataHash); ok {
		hashBytes, err := cddl.FixedBytes(
			hashValue,
			"transaction body",
			"auxiliary data hash",
			Blake2b256Size,
		)
		if err != nil {
			return nil, err
		}
		tmpHash := NewBlake2b256(hashBytes)
		ret.TxAuxDataHash = &tmpHash
	}
	// Validity interval start
	if startValue, ok := fields.Optional(txBodyKeyValidityIntervalStart); ok {
		ret.TxValidityIntervalStart, err = cddl.AsUint(
			startValue,
			"transaction body",
			"validity interval start",
		)
		if err != nil {
			return nil, err
		}
	}
	// Script data hash
	if hashValue, ok := fields.Optional(txBodyKeyScriptDataHash); ok {
		hashBytes, err := cddl.FixedBytes(
			hashValue,
			"transaction body",
			"script data hash",
			Blake2b256Size,
		)
		if err != nil {
			return nil, err
		}
		tmpHash := NewBlake2b256(hashBytes)
		ret.TxScriptDataHash = &tmpHash
	}
	// Collateral
	if collateralValue, ok := fields.Optional(txBodyKeyCollateral); ok {
		ret.TxCollateral, err = decodeInputSet(collateralValue, false)
		if err != nil {
			return nil, err
		}
	}
	// Required signers
	if signersValue, ok := fields.Optional(txBodyKeyRequiredSigners); ok {
		items, err := cddl.UnwrapSet(signersValue, "transaction body")
		if err != nil {
			return nil, err
		}
		ret.TxRequiredSigners = make([]Blake2b224, 0, len(items))
		for _, item := range items {
			signerBytes, err := cddl.FixedBytes(
				item,
				"transaction body",
				"required signer",
				Blake2b224Size,
			)
			if err != nil {
				return nil, err
			}
			ret.TxRequiredSigners = append(
				ret.TxRequiredSigners,
				NewBlake2b224(signerBytes),
			)
		}
	}
	// Network id
	if networkValue, ok := fields.Optional(txBodyKeyNetworkId); ok {
		networkId, err := cddl.AsUint(
			networkValue,
			"transaction body",
			"network id",
		)
		if err != nil {
			return nil, err
		}
		if networkId > math.MaxUint8 {
			return nil, cddl.NewSchemaError(
				"transaction body",
				"network id %d out of range",
				networkId,
			)
		}
		tmpNetworkId := uint8(networkId)
		ret.TxNetworkId = &tmpNetworkId
	}
	if err := fields.RejectUnknown(); err != nil {
		return nil, err
	}
	return ret, nil
}

func encodeInputs(inputs []TransactionInput) []cbor.Value {
	items := make([]cbor.Value, 0, len(inputs))
	for _, input := range inputs {
		items = append(items, InputSchema.EncodeValue(input))
	}
	return items
}

func decodeInputSet(
	v cbor.Value,
	required bool,
) ([]TransactionInput, error) {
	var items []cbor.Value
	var err error
	if required {
		items, err = cddl.UnwrapNonEmptySet(v, "transaction body")
	} else {
		items, err = cddl.UnwrapSet(v, "transaction body")
	}
	if err != nil {
		return nil, err
	}
	ret := make([]TransactionInput, 0, len(items))
	for _, item := range items {
		input, err := InputSchema.DecodeValue(item)
		if err != nil {
			return nil, err
		}
		ret = append(ret, input)
	}
	return ret, nil
}
