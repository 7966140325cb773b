// (c) 2019-2020, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package ledgervm

import (
	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/avalanchego/utils/crypto"
)

// EncodeMintProgram returns a code-less script minting [amount] to its sender
func EncodeMintProgram(amount uint64) *Script {
	return NewScript(nil, []TransactionArgument{
		&U64Argument{Value: amount},
	})
}

// EncodeTransferProgram returns a code-less script paying [amount] to
// [recipient]
func EncodeTransferProgram(recipient ids.ShortID, amount uint64) *Script {
	return NewScript(nil, []TransactionArgument{
		&AddressArgument{Address: recipient},
		&U64Argument{Value: amount},
	})
}

// EncodeMintTransaction returns a mint of [amount] signed by [key]
func EncodeMintTransaction(key crypto.PrivateKey, amount uint64) (*SignedUserTransaction, error) {
	return encodeTransaction(key, EncodeMintProgram(amount))
}

// EncodeTransferTransaction returns a payment of [amount] to [recipient]
// signed by [key]
func EncodeTransferTransaction(key crypto.PrivateKey, recipient ids.ShortID, amount uint64) (*SignedUserTransaction, error) {
	return encodeTransaction(key, EncodeTransferProgram(recipient, amount))
}

func encodeTransaction(key crypto.PrivateKey, program *Script) (*SignedUserTransaction, error) {
	raw := NewScriptTransaction(key.PublicKey().Address(), 0, program, 0, 0, 0)
	return raw.Sign(key)
}
