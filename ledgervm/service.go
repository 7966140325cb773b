// (c) 2019-2020, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package ledgervm

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/avalanchego/utils/formatting"
	"github.com/ava-labs/avalanchego/utils/json"
)

var errNotUserTransaction = errors.New("only signed user transactions can be issued through the API")

// Service is the API service for this VM
type Service struct{ vm *VM }

// GetAccountArgs are the arguments to GetAccount
type GetAccountArgs struct {
	Address ids.ShortID `json:"address"`
}

// GetAccountReply is the reply from GetAccount
type GetAccountReply struct {
	Exists            bool              `json:"exists"`
	Balance           json.Uint64       `json:"balance"`
	SequenceNumber    json.Uint64       `json:"sequenceNumber"`
	AuthenticationKey AuthenticationKey `json:"authenticationKey"`
}

// GetAccount returns the account resource of [args.Address]. A missing account
// is reported through [reply.Exists], not as an error.
func (s *Service) GetAccount(_ *http.Request, args *GetAccountArgs, reply *GetAccountReply) error {
	account, found, err := s.vm.GetAccount(args.Address)
	if err != nil {
		return err
	}
	reply.Exists = found
	if !found {
		return nil
	}
	reply.Balance = json.Uint64(account.Balance)
	reply.SequenceNumber = json.Uint64(account.SequenceNumber)
	reply.AuthenticationKey = account.AuthenticationKey
	return nil
}

// IssueTransactionArgs are the arguments to IssueTransaction
type IssueTransactionArgs struct {
	// Tx is the hex encoded transaction
	Tx string `json:"tx"`
}

// IssueTransactionReply is the reply from IssueTransaction
type IssueTransactionReply struct {
	TxID      ids.ID       `json:"txID"`
	Discard   bool         `json:"discard"`
	Status    json.Uint64  `json:"status"`
	SubStatus *json.Uint64 `json:"subStatus,omitempty"`
	GasUsed   json.Uint64  `json:"gasUsed"`
	Writes    json.Uint32  `json:"writes"`
}

// IssueTransaction executes the signed user transaction in [args.Tx] and
// reports its outcome. Block metadata and state sets belong to the block
// driver and genesis, and are refused.
func (s *Service) IssueTransaction(_ *http.Request, args *IssueTransactionArgs, reply *IssueTransactionReply) error {
	txBytes, err := formatting.Decode(formatting.Hex, args.Tx)
	if err != nil {
		return fmt.Errorf("couldn't decode tx: %w", err)
	}
	tx, err := ParseTransaction(txBytes)
	if err != nil {
		return fmt.Errorf("couldn't parse tx: %w", err)
	}
	if _, ok := tx.(*SignedUserTransaction); !ok {
		return fmt.Errorf("%w: got %s", errNotUserTransaction, tx.Kind())
	}
	txID, err := TransactionID(tx)
	if err != nil {
		return err
	}

	output, err := s.vm.IssueTransaction(tx)
	if err != nil {
		return err
	}

	reply.TxID = txID
	reply.Discard = output.Status.Discard
	reply.Status = json.Uint64(output.Status.Status.Code)
	if sub := output.Status.Status.SubStatus; sub != nil {
		subStatus := json.Uint64(*sub)
		reply.SubStatus = &subStatus
	}
	reply.GasUsed = json.Uint64(output.GasUsed)
	reply.Writes = json.Uint32(len(output.WriteSet))
	return nil
}
