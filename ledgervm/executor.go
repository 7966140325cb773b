// (c) 2019-2020, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package ledgervm

import (
	"errors"
	"fmt"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/prometheus/client_golang/prometheus"

	safemath "github.com/ava-labs/avalanchego/utils/math"
	log "github.com/inconshreveable/log15"

	"github.com/ava-labs/ledgervm/state"
)

var (
	ErrAccountNotFound = errors.New("account not found")
	ErrBalanceOverflow = errors.New("balance overflow")

	errSequenceOverflow = errors.New("sequence number overflow")
)

// Executor runs transactions against a chain state. It keeps nothing between
// calls: everything a transaction does is in the chain state once
// ExecuteTransaction returns, or nothing is.
//
// Callers must not run transactions against the same chain state
// concurrently; the order of calls is the order of the ledger.
type Executor struct {
	config  Config
	metrics *metrics
}

func NewExecutor(config Config, registerer prometheus.Registerer) (*Executor, error) {
	m, err := newMetrics(Name, registerer)
	if err != nil {
		return nil, fmt.Errorf("failed to register metrics: %w", err)
	}
	return &Executor{
		config:  config,
		metrics: m,
	}, nil
}

// CreateAccount stores a zero balance account for [addr] unless it exists
func (e *Executor) CreateAccount(addr ids.ShortID, authKey AuthenticationKey, chainState state.ChainState) error {
	return NewStateStore(chainState).CreateAccount(addr, authKey)
}

// ExecuteTransaction runs [tx] and returns its outcome.
//
// A StateSet the backend refuses is reported as a discarded outcome. Every
// other failure, including a user transaction this executor doesn't support,
// is returned as an error and leaves the chain state untouched.
func (e *Executor) ExecuteTransaction(chainState state.ChainState, tx Transaction) (*TransactionOutput, error) {
	if tx == nil {
		return nil, errNilTransaction
	}

	output, err := e.execute(chainState, tx)
	e.metrics.observe(tx.Kind(), output, err)
	if err != nil {
		log.Debug("transaction failed", "kind", tx.Kind(), "err", err)
		return nil, err
	}
	log.Debug("transaction executed", "kind", tx.Kind(), "status", output.Status, "writes", len(output.WriteSet))
	return output, nil
}

func (e *Executor) execute(chainState state.ChainState, tx Transaction) (*TransactionOutput, error) {
	store := NewStateStore(chainState)
	switch tx := tx.(type) {
	case *SignedUserTransaction:
		mockTx, err := decodeTransaction(tx)
		if err != nil {
			return nil, err
		}
		switch mockTx := mockTx.(type) {
		case *mintTx:
			return e.mint(store, mockTx)
		case *paymentTx:
			return e.payment(store, mockTx)
		}
	case *BlockMetadata:
		return e.blockMetadata(store, tx)
	case *StateSet:
		return e.stateSet(chainState, tx), nil
	}
	return nil, fmt.Errorf("%w: %T", ErrUnsupportedTransaction, tx)
}

// mint replaces the sender's balance with the minted amount
func (e *Executor) mint(store *StateStore, tx *mintTx) (*TransactionOutput, error) {
	path := state.NewForAccount(tx.Sender)
	sender, err := getAccount(store, path)
	if err != nil {
		return nil, err
	}

	ws := state.WriteSet{}
	if err := writeResource(&ws, path, NewAccountResource(tx.Amount, 1, sender.AuthenticationKey)); err != nil {
		return nil, err
	}
	log.Debug("mint", "sender", tx.sender(), "amount", tx.Amount)
	return commit(store, ws)
}

// payment moves min(amount, sender balance) from the sender to the recipient,
// creating the recipient if needed.
func (e *Executor) payment(store *StateStore, tx *paymentTx) (*TransactionOutput, error) {
	senderPath := state.NewForAccount(tx.Sender)
	sender, err := getAccount(store, senderPath)
	if err != nil {
		return nil, err
	}

	deduction := safemath.Min64(tx.Amount, sender.Balance)
	senderSequence, err := safemath.Add64(sender.SequenceNumber, 1)
	if err != nil {
		return nil, fmt.Errorf("%w for %s", errSequenceOverflow, tx.Sender)
	}

	ws := state.WriteSet{}
	if tx.Sender == tx.Recipient {
		// Paying oneself moves nothing. In legacy mode the recipient's
		// sequence number is written last, so the increment is lost.
		if e.config.LegacyRecipientSequence {
			senderSequence = sender.SequenceNumber
		}
		if err := writeResource(&ws, senderPath, NewAccountResource(sender.Balance, senderSequence, sender.AuthenticationKey)); err != nil {
			return nil, err
		}
		return commit(store, ws)
	}

	recipientPath := state.NewForAccount(tx.Recipient)
	recipient, found, err := store.GetResource(recipientPath)
	if err != nil {
		return nil, err
	}
	if !found {
		recipient = NewAccountResource(0, 0, AuthenticationKeyFromAddress(tx.Recipient))
	}

	recipientBalance, err := safemath.Add64(recipient.Balance, deduction)
	if err != nil {
		return nil, fmt.Errorf("%w: crediting %d to %s", ErrBalanceOverflow, deduction, tx.Recipient)
	}
	recipientSequence := recipient.SequenceNumber
	if e.config.LegacyRecipientSequence {
		recipientSequence = sender.SequenceNumber
	}

	if err := writeResource(&ws, senderPath, NewAccountResource(sender.Balance-deduction, senderSequence, sender.AuthenticationKey)); err != nil {
		return nil, err
	}
	if err := writeResource(&ws, recipientPath, NewAccountResource(recipientBalance, recipientSequence, recipient.AuthenticationKey)); err != nil {
		return nil, err
	}
	log.Debug("payment", "sender", tx.sender(), "recipient", tx.Recipient, "requested", tx.Amount, "moved", deduction)
	return commit(store, ws)
}

// blockMetadata credits the block reward to the author, creating it if needed
func (e *Executor) blockMetadata(store *StateStore, tx *BlockMetadata) (*TransactionOutput, error) {
	path := state.NewForAccount(tx.Author)
	author, found, err := store.GetResource(path)
	if err != nil {
		return nil, err
	}
	if !found {
		author = NewAccountResource(0, 0, AuthenticationKeyFromAddress(tx.Author))
	}

	balance, err := safemath.Add64(author.Balance, e.config.BlockReward)
	if err != nil {
		return nil, fmt.Errorf("%w: rewarding %s", ErrBalanceOverflow, tx.Author)
	}

	ws := state.WriteSet{}
	if err := writeResource(&ws, path, NewAccountResource(balance, author.SequenceNumber, author.AuthenticationKey)); err != nil {
		return nil, err
	}
	log.Debug("block reward", "block", tx.ID, "author", tx.Author, "reward", e.config.BlockReward)
	return commit(store, ws)
}

// stateSet hands the payload to the backend. A refusal is the one failure
// reported as an outcome rather than an error.
func (e *Executor) stateSet(chainState state.ChainState, tx *StateSet) *TransactionOutput {
	status := KeepStatus()
	if err := chainState.Apply(tx.WriteSet); err != nil {
		log.Warn("state set rejected by backend", "ops", len(tx.WriteSet), "err", err)
		status = DiscardStatus()
	}
	return NewTransactionOutput(state.WriteSet{}, 0, status)
}

func getAccount(store *StateStore, path state.AccessPath) (*AccountResource, error) {
	r, found, err := store.GetResource(path)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("%w: %s", ErrAccountNotFound, path.Address)
	}
	return r, nil
}

func writeResource(ws *state.WriteSet, path state.AccessPath, r *AccountResource) error {
	blob, err := r.Bytes()
	if err != nil {
		return err
	}
	ws.Write(path, blob)
	return nil
}

func commit(store *StateStore, ws state.WriteSet) (*TransactionOutput, error) {
	if err := store.ApplyWriteSet(ws); err != nil {
		return nil, err
	}
	return NewTransactionOutput(ws, 0, KeepStatus()), nil
}
