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
	utxorpc "github.com/utxorpc/go-codegen/utxorpc/v1alpha/cardano"
)

func (i TransactionInput) Utxorpc() *utxorpc.TxInput {
	return &utxorpc.TxInput{
		TxHash:      i.TxId.Bytes(),
		OutputIndex: i.OutputIndex,
	}
}

func (o TransactionOutput) Utxorpc() *utxorpc.TxOutput {
	ret := &utxorpc.TxOutput{
		Address: o.OutputAddress,
		Coin:    o.OutputAmount,
	}
	if o.OutputDatumHash != nil {
		ret.Datum = &utxorpc.Datum{
			Hash: o.OutputDatumHash.Bytes(),
		}
	}
	return ret
}

func (b *TransactionBody) Utxorpc() (*utxorpc.Tx, error) {
	txi := []*utxorpc.TxInput{}
	txo := []*utxorpc.TxOutput{}
	for _, i := range b.Inputs() {
		txi = append(txi, i.Utxorpc())
	}
	for _, o := range b.Outputs() {
		txo = append(txo, o.Utxorpc())
	}
	hash, err := b.Hash()
	if err != nil {
		return nil, err
	}
	tx := &utxorpc.Tx{
		Inputs:  txi,
		Outputs: txo,
		Fee:     b.Fee(),
		Hash:    hash.Bytes(),
	}
	return tx, nil
}
