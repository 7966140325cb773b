// (c) 2019-2020, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package ledgervm

import (
	"errors"
	"fmt"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/avalanchego/utils/crypto"
	"github.com/ava-labs/avalanchego/utils/hashing"

	"github.com/ava-labs/ledgervm/state"
)

var (
	errNilTransaction   = errors.New("nil transaction")
	errInvalidSignature = errors.New("transaction signature doesn't match sender")
	errTxWrongVersion   = errors.New("wrong transaction codec version")

	_ Transaction = &SignedUserTransaction{}
	_ Transaction = &BlockMetadata{}
	_ Transaction = &StateSet{}

	_ TransactionPayload = &Script{}
	_ TransactionPayload = &Module{}
	_ TransactionPayload = &StateSet{}

	_ TransactionArgument = &U64Argument{}
	_ TransactionArgument = &AddressArgument{}
	_ TransactionArgument = &ByteArrayArgument{}
	_ TransactionArgument = &StringArgument{}
)

// TransactionKind names the variant of a Transaction
type TransactionKind string

const (
	UserTransactionKind TransactionKind = "user"
	BlockMetadataKind   TransactionKind = "blockMetadata"
	StateSetKind        TransactionKind = "stateSet"
)

// Transaction is one of *SignedUserTransaction, *BlockMetadata or *StateSet.
type Transaction interface {
	Kind() TransactionKind
}

// txEnvelope lets the codec tag the concrete transaction type
type txEnvelope struct {
	Tx Transaction `serialize:"true"`
}

// TransactionBytes returns the wire encoding of [tx]
func TransactionBytes(tx Transaction) ([]byte, error) {
	if tx == nil {
		return nil, errNilTransaction
	}
	return Codec.Marshal(CodecVersion, &txEnvelope{Tx: tx})
}

// TransactionID is the hash of the wire encoding of [tx]
func TransactionID(tx Transaction) (ids.ID, error) {
	b, err := TransactionBytes(tx)
	if err != nil {
		return ids.Empty, err
	}
	return hashing.ComputeHash256Array(b), nil
}

// ParseTransaction decodes bytes produced by TransactionBytes
func ParseTransaction(b []byte) (Transaction, error) {
	env := txEnvelope{}
	parsedVersion, err := Codec.Unmarshal(b, &env)
	if err != nil {
		return nil, err
	}
	if parsedVersion != CodecVersion {
		return nil, errTxWrongVersion
	}
	if env.Tx == nil {
		return nil, errNilTransaction
	}
	return env.Tx, nil
}

// TransactionPayload is one of *Script, *Module or *StateSet.
type TransactionPayload interface {
	isPayload()
}

// Script carries code to run and the arguments to run it with
type Script struct {
	Code []byte                `serialize:"true" json:"code"`
	Args []TransactionArgument `serialize:"true" json:"args"`
}

func NewScript(code []byte, args []TransactionArgument) *Script {
	return &Script{Code: code, Args: args}
}

func (*Script) isPayload() {}

// Module publishes code
type Module struct {
	Code []byte `serialize:"true" json:"code"`
}

func (*Module) isPayload() {}

// TransactionArgument is one of *U64Argument, *AddressArgument,
// *ByteArrayArgument or *StringArgument.
type TransactionArgument interface {
	isArgument()
}

type U64Argument struct {
	Value uint64 `serialize:"true" json:"value"`
}

func (*U64Argument) isArgument() {}

type AddressArgument struct {
	Address ids.ShortID `serialize:"true" json:"address"`
}

func (*AddressArgument) isArgument() {}

type ByteArrayArgument struct {
	Value []byte `serialize:"true" json:"value"`
}

func (*ByteArrayArgument) isArgument() {}

type StringArgument struct {
	Value string `serialize:"true" json:"value"`
}

func (*StringArgument) isArgument() {}

// RawUserTransaction is the signed portion of a user transaction
type RawUserTransaction struct {
	Sender         ids.ShortID        `serialize:"true" json:"sender"`
	SequenceNumber uint64             `serialize:"true" json:"sequenceNumber"`
	Payload        TransactionPayload `serialize:"true" json:"payload"`
	MaxGasAmount   uint64             `serialize:"true" json:"maxGasAmount"`
	GasUnitPrice   uint64             `serialize:"true" json:"gasUnitPrice"`
	// Unix time in seconds
	ExpirationTime uint64 `serialize:"true" json:"expirationTime"`
}

// NewScriptTransaction returns a raw transaction from [sender] running
// [script].
func NewScriptTransaction(
	sender ids.ShortID,
	sequenceNumber uint64,
	script *Script,
	maxGasAmount uint64,
	gasUnitPrice uint64,
	expirationTime uint64,
) *RawUserTransaction {
	return &RawUserTransaction{
		Sender:         sender,
		SequenceNumber: sequenceNumber,
		Payload:        script,
		MaxGasAmount:   maxGasAmount,
		GasUnitPrice:   gasUnitPrice,
		ExpirationTime: expirationTime,
	}
}

// Bytes returns the message a sender signs
func (tx *RawUserTransaction) Bytes() ([]byte, error) {
	return Codec.Marshal(CodecVersion, tx)
}

// Sign returns [tx] signed by [key]
func (tx *RawUserTransaction) Sign(key crypto.PrivateKey) (*SignedUserTransaction, error) {
	msg, err := tx.Bytes()
	if err != nil {
		return nil, err
	}
	sig, err := key.Sign(msg)
	if err != nil {
		return nil, err
	}
	signed := &SignedUserTransaction{Raw: *tx}
	copy(signed.Signature[:], sig)
	return signed, nil
}

// SignedUserTransaction is a transaction submitted by a user
type SignedUserTransaction struct {
	Raw       RawUserTransaction             `serialize:"true" json:"raw"`
	Signature [crypto.SECP256K1RSigLen]byte `serialize:"true" json:"signature"`
}

func (*SignedUserTransaction) Kind() TransactionKind { return UserTransactionKind }

func (tx *SignedUserTransaction) Sender() ids.ShortID { return tx.Raw.Sender }

func (tx *SignedUserTransaction) Payload() TransactionPayload { return tx.Raw.Payload }

// Verify returns nil iff the signature was produced by the key of the sender.
func (tx *SignedUserTransaction) Verify() error {
	msg, err := tx.Raw.Bytes()
	if err != nil {
		return err
	}
	factory := crypto.FactorySECP256K1R{}
	pk, err := factory.RecoverPublicKey(msg, tx.Signature[:])
	if err != nil {
		return fmt.Errorf("%w: %s", errInvalidSignature, err)
	}
	if pk.Address() != tx.Raw.Sender {
		return errInvalidSignature
	}
	return nil
}

// BlockMetadata opens a block and names the proposer to be rewarded
type BlockMetadata struct {
	ID ids.ID `serialize:"true" json:"id"`
	// Unix time in microseconds
	Timestamp uint64      `serialize:"true" json:"timestamp"`
	Author    ids.ShortID `serialize:"true" json:"author"`
}

func NewBlockMetadata(id ids.ID, timestamp uint64, author ids.ShortID) *BlockMetadata {
	return &BlockMetadata{ID: id, Timestamp: timestamp, Author: author}
}

func (*BlockMetadata) Kind() TransactionKind { return BlockMetadataKind }

// StateSet replaces chain state wholesale. It bypasses the account resource
// codec and is handed to the backend as is.
type StateSet struct {
	WriteSet state.WriteSet `serialize:"true" json:"writeSet"`
}

func NewStateSet(ws state.WriteSet) *StateSet {
	return &StateSet{WriteSet: ws}
}

func (*StateSet) Kind() TransactionKind { return StateSetKind }

func (*StateSet) isPayload() {}
