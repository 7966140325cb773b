// (c) 2019-2020, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package ledgervm

import (
	"errors"
	"fmt"

	"github.com/ava-labs/avalanchego/ids"
)

// ErrUnsupportedTransaction is returned for user transactions this executor
// can't run. Processing of such a transaction is abandoned instead of being
// turned into a Discard.
var ErrUnsupportedTransaction = errors.New("unsupported transaction")

type mockTransaction interface {
	sender() ids.ShortID
}

type mintTx struct {
	Sender ids.ShortID
	Amount uint64
}

func (tx *mintTx) sender() ids.ShortID { return tx.Sender }

type paymentTx struct {
	Sender    ids.ShortID
	Recipient ids.ShortID
	Amount    uint64
}

func (tx *paymentTx) sender() ids.ShortID { return tx.Sender }

// decodeTransaction maps a code-less script to a mint (one integer argument)
// or a payment (an address then an integer).
func decodeTransaction(tx *SignedUserTransaction) (mockTransaction, error) {
	sender := tx.Sender()
	switch payload := tx.Payload().(type) {
	case *Script:
		if len(payload.Code) != 0 {
			return nil, fmt.Errorf("%w: code should be empty", ErrUnsupportedTransaction)
		}
		args := payload.Args
		switch len(args) {
		case 1:
			amount, ok := args[0].(*U64Argument)
			if !ok {
				return nil, fmt.Errorf("%w: only one integer argument is allowed for mint transactions", ErrUnsupportedTransaction)
			}
			return &mintTx{Sender: sender, Amount: amount.Value}, nil
		case 2:
			recipient, ok := args[0].(*AddressArgument)
			amount, ok2 := args[1].(*U64Argument)
			if !ok || !ok2 {
				return nil, fmt.Errorf(
					"%w: the first argument for payment transaction must be recipient address and the second argument must be amount",
					ErrUnsupportedTransaction,
				)
			}
			return &paymentTx{Sender: sender, Recipient: recipient.Address, Amount: amount.Value}, nil
		default:
			return nil, fmt.Errorf("%w: transaction must have one or two arguments but has %d", ErrUnsupportedTransaction, len(args))
		}
	case *Module:
		return nil, fmt.Errorf("%w: module payload", ErrUnsupportedTransaction)
	case *StateSet:
		return nil, fmt.Errorf("%w: state set payload", ErrUnsupportedTransaction)
	default:
		return nil, fmt.Errorf("%w: unknown payload %T", ErrUnsupportedTransaction, payload)
	}
}
