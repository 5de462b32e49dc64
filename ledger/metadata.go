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
	"math/big"
	"sort"

	"github.com/blinklabs-io/txcodec/cbor"
	"github.com/blinklabs-io/txcodec/cddl"
)

// TransactionMetadatum is the recursive metadata value model: integers,
// bytestrings, text, lists, and maps. Tags, booleans, and floats are not
// valid metadata.
type TransactionMetadatum interface {
	isTransactionMetadatum()
	TypeName() string
}

type MetaInt struct{ Value *big.Int }

// NewMetaInt builds an integer metadatum. Metadata integers are limited to
// the 64-bit wire range [-2^64, 2^64-1]; anything wider has no encoding.
func NewMetaInt(n *big.Int) (MetaInt, error) {
	if !metaIntInRange(n) {
		return MetaInt{}, cddl.NewSchemaError(
			"metadatum",
			"integer %s out of range",
			n,
		)
	}
	return MetaInt{Value: n}, nil
}

func metaIntInRange(n *big.Int) bool {
	if n.Sign() >= 0 {
		return n.IsUint64()
	}
	magnitude := new(big.Int).Add(n, big.NewInt(1))
	magnitude.Neg(magnitude)
	return magnitude.IsUint64()
}

type MetaBytes struct{ Value []byte }

type MetaText struct{ Value string }

type MetaList struct {
	Items []TransactionMetadatum
}

type MetaPair struct {
	Key   TransactionMetadatum
	Value TransactionMetadatum
}

type MetaMap struct {
	Pairs []MetaPair
}

func (MetaInt) isTransactionMetadatum()   {}
func (MetaBytes) isTransactionMetadatum() {}
func (MetaText) isTransactionMetadatum()  {}
func (MetaList) isTransactionMetadatum()  {}
func (MetaMap) isTransactionMetadatum()   {}

func (m MetaInt) TypeName() string   { return "int" }
func (m MetaBytes) TypeName() string { return "bytes" }
func (m MetaText) TypeName() string  { return "text" }
func (m MetaList) TypeName() string  { return "list" }
func (m MetaMap) TypeName() string   { return "map" }

// MetadatumSchema maps metadata values onto the CBOR subset that the ledger
// allows for them
var MetadatumSchema cddl.Schema[TransactionMetadatum] = metadatumSchema{}

type metadatumSchema struct{}

func (s metadatumSchema) EncodeValue(m TransactionMetadatum) cbor.Value {
	switch m := m.(type) {
	case MetaInt:
		// Uint64() on a wider magnitude would silently truncate, emitting
		// bytes for a different integer
		if !metaIntInRange(m.Value) {
			panic("metadata integer out of range: " + m.Value.String())
		}
		if m.Value.Sign() >= 0 {
			return cbor.NewUint(m.Value.Uint64())
		}
		// Negative major type carries the magnitude minus one
		magnitude := new(big.Int).Add(m.Value, big.NewInt(1))
		magnitude.Neg(magnitude)
		return cbor.NInt(magnitude.Uint64())
	case MetaBytes:
		return cbor.NewBytes(m.Value)
	case MetaText:
		return cbor.NewText(m.Value)
	case MetaList:
		items := make([]cbor.Value, 0, len(m.Items))
		for _, item := range m.Items {
			items = append(items, s.EncodeValue(item))
		}
		return cbor.Array{Items: items}
	case MetaMap:
		pairs := make([]cbor.MapPair, 0, len(m.Pairs))
		for _, pair := range m.Pairs {
			pairs = append(pairs, cbor.MapPair{
				Key:   s.EncodeValue(pair.Key),
				Value: s.EncodeValue(pair.Value),
			})
		}
		return cbor.Map{Pairs: pairs}
	}
	// The metadatum sum type is closed
	panic("unknown metadatum type")
}

func (s metadatumSchema) DecodeValue(
	v cbor.Value,
) (TransactionMetadatum, error) {
	switch v := v.(type) {
	case cbor.Uint, cbor.NInt:
		n, _ := cbor.BigInt(v)
		return MetaInt{Value: n}, nil
	case cbor.Bytes:
		return MetaBytes{Value: []byte(v)}, nil
	case cbor.Text:
		return MetaText{Value: string(v)}, nil
	case cbor.Array:
		items := make([]TransactionMetadatum, 0, len(v.Items))
		for _, item := range v.Items {
			md, err := s.DecodeValue(item)
			if err != nil {
				return nil, err
			}
			items = append(items, md)
		}
		return MetaList{Items: items}, nil
	case cbor.Map:
		// Wire order of the pairs is preserved
		pairs := make([]MetaPair, 0, len(v.Pairs))
		for _, pair := range v.Pairs {
			key, err := s.DecodeValue(pair.Key)
			if err != nil {
				return nil, err
			}
			val, err := s.DecodeValue(pair.Value)
			if err != nil {
				return nil, err
			}
			pairs = append(pairs, MetaPair{Key: key, Value: val})
		}
		return MetaMap{Pairs: pairs}, nil
	default:
		return nil, cddl.NewSchemaError(
			"metadatum",
			"unsupported CBOR type %T in metadata",
			v,
		)
	}
}

// TransactionMetadataSet is the label-keyed metadata map attached to a
// transaction via its auxiliary data
type TransactionMetadataSet struct {
	cbor.DecodeStoreCbor
	metadata map[uint64]TransactionMetadatum
}

func NewTransactionMetadataSet(
	metadata map[uint64]TransactionMetadatum,
) TransactionMetadataSet {
	return TransactionMetadataSet{metadata: metadata}
}

// Labels returns the metadata labels in ascending order
func (m TransactionMetadataSet) Labels() []uint64 {
	labels := make([]uint64, 0, len(m.metadata))
	for label := range m.metadata {
		labels = append(labels, label)
	}
	sort.Slice(labels, func(i, j int) bool { return labels[i] < labels[j] })
	return labels
}

func (m TransactionMetadataSet) Metadatum(
	label uint64,
) (TransactionMetadatum, bool) {
	md, ok := m.metadata[label]
	return md, ok
}

func (m *TransactionMetadataSet) UnmarshalCBOR(cborData []byte) error {
	v, err := cbor.DecodeValue(cborData)
	if err != nil {
		return err
	}
	fields, err := cddl.NewMapFields(v, "transaction metadata")
	if err != nil {
		return err
	}
	metadata := make(map[uint64]TransactionMetadatum)
	for _, label := range fields.Remaining() {
		mdValue, _ := fields.Optional(label)
		md, err := MetadatumSchema.DecodeValue(mdValue)
		if err != nil {
			return err
		}
		metadata[label] = md
	}
	m.metadata = metadata
	m.SetCbor(cborData)
	return nil
}

func (m TransactionMetadataSet) MarshalCBOR() ([]byte, error) {
	if stored := m.Cbor(); len(stored) > 0 {
		return stored, nil
	}
	var builder cddl.MapBuilder
	for _, label := range m.Labels() {
		builder.Add(label, MetadatumSchema.EncodeValue(m.metadata[label]))
	}
	return cbor.EncodeValue(builder.Build(), cbor.CanonicalOptions()), nil
}

// AuxiliaryData is the Alonzo-era auxiliary data shape: a tag-259 wrapped
// integer-keyed map. The earlier metadata-only map form is still accepted
// on decode.
type AuxiliaryData struct {
	cbor.DecodeStoreCbor
	Metadata        *TransactionMetadataSet `cbor:"0,keyasint,omitempty"`
	NativeScripts   []cbor.RawMessage       `cbor:"1,keyasint,omitempty"`
	PlutusV1Scripts [][]byte                `cbor:"2,keyasint,omitempty"`
	PlutusV2Scripts [][]byte                `cbor:"3,keyasint,omitempty"`
	PlutusV3Scripts [][]byte                `cbor:"4,keyasint,omitempty"`
}

func (a *AuxiliaryData) UnmarshalCBOR(cborData []byte) error {
	if len(cborData) == 0 {
		return &cbor.DecodeError{Reason: cbor.ReasonTruncatedInput}
	}
	if cborData[0]&cbor.CborTypeMask == cbor.CborTypeMap {
		// Shelley form: bare metadata map
		var tmpMetadata TransactionMetadataSet
		if err := tmpMetadata.UnmarshalCBOR(cborData); err != nil {
			return err
		}
		*a = AuxiliaryData{Metadata: &tmpMetadata}
		a.SetCbor(cborData)
		return nil
	}
	// Alonzo form: tag 259 wrapping an integer-keyed map
	var tmpTag cbor.RawTag
	if _, err := cbor.Decode(cborData, &tmpTag); err != nil {
		return err
	}
	if tmpTag.Number != cbor.CborTagMap {
		return cddl.NewSchemaError(
			"auxiliary data",
			"expected tag %d, got tag %d",
			cbor.CborTagMap,
			tmpTag.Number,
		)
	}
	if err := cbor.DecodeGeneric([]byte(tmpTag.Content), a); err != nil {
		return err
	}
	a.SetCbor(cborData)
	return nil
}

func (a *AuxiliaryData) MarshalCBOR() ([]byte, error) {
	if stored := a.Cbor(); len(stored) > 0 {
		return stored, nil
	}
	mapData, err := cbor.EncodeGeneric(a)
	if err != nil {
		return nil, err
	}
	return cbor.Encode(cbor.RawTag{
		Number:  cbor.CborTagMap,
		Content: cbor.RawMessage(mapData),
	})
}
