// (c) 2019-2020, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package ledgervm

import "github.com/ava-labs/ledgervm/state"

// TransactionOutput is the result of executing one transaction
type TransactionOutput struct {
	WriteSet state.WriteSet    `json:"writeSet"`
	GasUsed  uint64            `json:"gasUsed"`
	Status   TransactionStatus `json:"status"`
}

func NewTransactionOutput(ws state.WriteSet, gasUsed uint64, status TransactionStatus) *TransactionOutput {
	return &TransactionOutput{
		WriteSet: ws,
		GasUsed:  gasUsed,
		Status:   status,
	}
}
