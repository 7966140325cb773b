// (c) 2019-2020, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package ledgervm

import (
	"fmt"
	"testing"

	"github.com/ava-labs/avalanchego/database/memdb"
	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/avalanchego/utils/formatting"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ava-labs/ledgervm/state"
)

func genesisBytes(accounts ...ids.ShortID) []byte {
	s := `{"accounts":[`
	for i, addr := range accounts {
		if i > 0 {
			s += ","
		}
		s += fmt.Sprintf(`{"address":"%s","balance":"1000"}`, addr)
	}
	return []byte(s + "]}")
}

func newTestVM(t *testing.T, st state.State, genesis []byte, config []byte) *VM {
	vm := &VM{}
	require.NoError(t, vm.Initialize(st, genesis, config, prometheus.NewRegistry()))
	return vm
}

// Assert that after initialization, the vm has the state we expect
func TestGenesis(t *testing.T) {
	assert := assert.New(t)

	addr := ids.GenerateTestShortID()
	st := state.NewState(memdb.New())
	vm := newTestVM(t, st, genesisBytes(addr), nil)

	initialized, err := st.IsInitialized()
	assert.NoError(err)
	assert.True(initialized)

	account, found, err := vm.GetAccount(addr)
	assert.NoError(err)
	assert.True(found)
	assert.Equal(NewAccountResource(1000, 0, AuthenticationKeyFromAddress(addr)), account)
}

func TestGenesisAuthenticationKey(t *testing.T) {
	require := require.New(t)

	addr := ids.GenerateTestShortID()
	authKey := AuthenticationKey{9, 8, 7}
	keyJSON, err := authKey.MarshalJSON()
	require.NoError(err)
	genesis := fmt.Sprintf(`{"accounts":[{"address":"%s","balance":"5","authenticationKey":%s}]}`, addr, keyJSON)

	vm := newTestVM(t, newTestState(), []byte(genesis), nil)
	account, found, err := vm.GetAccount(addr)
	require.NoError(err)
	require.True(found)
	require.Equal(NewAccountResource(5, 0, authKey), account)
}

func TestGenesisAppliedOnce(t *testing.T) {
	require := require.New(t)

	addr := ids.GenerateTestShortID()
	db := memdb.New()
	vm := newTestVM(t, state.NewState(db), genesisBytes(addr), nil)

	_, err := vm.IssueTransaction(NewBlockMetadata(ids.Empty, 0, addr))
	require.NoError(err)

	// Reopening with the same genesis must not reset the rewarded balance.
	vm = newTestVM(t, state.NewState(db), genesisBytes(addr), nil)
	account, found, err := vm.GetAccount(addr)
	require.NoError(err)
	require.True(found)
	require.Equal(uint64(1000+DefaultBlockReward), account.Balance)
}

func TestGenesisRejected(t *testing.T) {
	require := require.New(t)

	st := newFailingState()
	st.failApply = true
	vm := &VM{}
	err := vm.Initialize(st, genesisBytes(ids.ShortID{1}), nil, prometheus.NewRegistry())
	require.ErrorIs(err, errGenesisDiscarded)

	addr := ids.ShortID{1}
	dup := fmt.Sprintf(`{"accounts":[{"address":"%s"},{"address":"%s"}]}`, addr, addr)
	err = (&VM{}).Initialize(newTestState(), []byte(dup), nil, prometheus.NewRegistry())
	require.Error(err)

	err = (&VM{}).Initialize(newTestState(), nil, []byte(`{"blockReward":"x"}`), prometheus.NewRegistry())
	require.Error(err)
}

func TestIssueTransaction(t *testing.T) {
	require := require.New(t)

	key := newTestKey(t)
	sender := key.PublicKey().Address()
	recipient := ids.GenerateTestShortID()
	vm := newTestVM(t, newTestState(), genesisBytes(sender), []byte(`{"blockReward":7}`))

	mint, err := EncodeMintTransaction(key, 500)
	require.NoError(err)
	output, err := vm.IssueTransaction(mint)
	require.NoError(err)
	require.Equal(KeepStatus(), output.Status)

	transfer, err := EncodeTransferTransaction(key, recipient, 200)
	require.NoError(err)
	_, err = vm.IssueTransaction(transfer)
	require.NoError(err)

	_, err = vm.IssueTransaction(NewBlockMetadata(ids.Empty, 0, recipient))
	require.NoError(err)

	account, _, err := vm.GetAccount(sender)
	require.NoError(err)
	require.Equal(NewAccountResource(300, 2, AuthenticationKeyFromAddress(sender)), account)
	account, _, err = vm.GetAccount(recipient)
	require.NoError(err)
	require.Equal(uint64(207), account.Balance)

	// Unsigned transactions never reach the executor.
	forged := *transfer
	forged.Raw.Sender = recipient
	_, err = vm.IssueTransaction(&forged)
	require.ErrorIs(err, errInvalidSignature)
}

// Signatures are not bound to the account sequence number: a signed payment
// executes every time it is issued.
func TestIssueTransactionReplay(t *testing.T) {
	require := require.New(t)

	key := newTestKey(t)
	sender := key.PublicKey().Address()
	recipient := ids.GenerateTestShortID()
	vm := newTestVM(t, newTestState(), genesisBytes(sender), nil)

	transfer, err := EncodeTransferTransaction(key, recipient, 100)
	require.NoError(err)
	for i := 0; i < 3; i++ {
		_, err := vm.IssueTransaction(transfer)
		require.NoError(err)
	}

	account, _, err := vm.GetAccount(sender)
	require.NoError(err)
	require.Equal(NewAccountResource(700, 3, AuthenticationKeyFromAddress(sender)), account)
}

func TestCreateAccountThroughVM(t *testing.T) {
	require := require.New(t)

	vm := newTestVM(t, newTestState(), nil, nil)
	addr := ids.GenerateTestShortID()

	_, found, err := vm.GetAccount(addr)
	require.NoError(err)
	require.False(found)

	require.NoError(vm.CreateAccount(addr, AuthenticationKey{1}))
	account, found, err := vm.GetAccount(addr)
	require.NoError(err)
	require.True(found)
	require.Equal(NewAccountResource(0, 0, AuthenticationKey{1}), account)
}

func TestUninitializedVM(t *testing.T) {
	require := require.New(t)

	vm := &VM{}
	_, err := vm.IssueTransaction(NewBlockMetadata(ids.Empty, 0, ids.ShortEmpty))
	require.ErrorIs(err, errNotInitialized)
	_, _, err = vm.GetAccount(ids.ShortEmpty)
	require.ErrorIs(err, errNotInitialized)
	require.ErrorIs(vm.CreateAccount(ids.ShortEmpty, AuthenticationKey{}), errNotInitialized)
	require.NoError(vm.Shutdown())
}

func TestService(t *testing.T) {
	require := require.New(t)

	key := newTestKey(t)
	sender := key.PublicKey().Address()
	vm := newTestVM(t, newTestState(), genesisBytes(sender), nil)
	service := Service{vm: vm}

	reply := GetAccountReply{}
	require.NoError(service.GetAccount(nil, &GetAccountArgs{Address: sender}, &reply))
	require.True(reply.Exists)
	require.Equal(uint64(1000), uint64(reply.Balance))
	require.Equal(AuthenticationKeyFromAddress(sender), reply.AuthenticationKey)

	missing := GetAccountReply{}
	require.NoError(service.GetAccount(nil, &GetAccountArgs{Address: ids.GenerateTestShortID()}, &missing))
	require.False(missing.Exists)

	tx, err := EncodeTransferTransaction(key, ids.GenerateTestShortID(), 10)
	require.NoError(err)
	txBytes, err := TransactionBytes(tx)
	require.NoError(err)
	txStr, err := formatting.EncodeWithChecksum(formatting.Hex, txBytes)
	require.NoError(err)

	issued := IssueTransactionReply{}
	require.NoError(service.IssueTransaction(nil, &IssueTransactionArgs{Tx: txStr}, &issued))
	txID, err := TransactionID(tx)
	require.NoError(err)
	require.Equal(txID, issued.TxID)
	require.False(issued.Discard)
	require.Equal(uint64(StatusExecuted), uint64(issued.Status))
	require.Nil(issued.SubStatus)
	require.Equal(uint32(2), uint32(issued.Writes))

	require.NoError(service.GetAccount(nil, &GetAccountArgs{Address: sender}, &reply))
	require.Equal(uint64(990), uint64(reply.Balance))
	require.Equal(uint64(1), uint64(reply.SequenceNumber))

	require.Error(service.IssueTransaction(nil, &IssueTransactionArgs{Tx: "not hex"}, &IssueTransactionReply{}))
}

func TestServiceRejectsDriverTransactions(t *testing.T) {
	key := newTestKey(t)
	victim := key.PublicKey().Address()
	attacker := ids.GenerateTestShortID()

	tests := map[string]Transaction{
		"state set": NewStateSet(state.WriteSet{
			state.Write(state.NewForAccount(victim), []byte{1}),
		}),
		"block metadata": NewBlockMetadata(ids.GenerateTestID(), 0, attacker),
	}
	for name, tx := range tests {
		t.Run(name, func(t *testing.T) {
			require := require.New(t)

			vm := newTestVM(t, newTestState(), genesisBytes(victim), nil)
			service := Service{vm: vm}

			txBytes, err := TransactionBytes(tx)
			require.NoError(err)
			txStr, err := formatting.EncodeWithChecksum(formatting.Hex, txBytes)
			require.NoError(err)

			err = service.IssueTransaction(nil, &IssueTransactionArgs{Tx: txStr}, &IssueTransactionReply{})
			require.ErrorIs(err, errNotUserTransaction)

			account, found, err := vm.GetAccount(victim)
			require.NoError(err)
			require.True(found)
			require.Equal(NewAccountResource(1000, 0, AuthenticationKeyFromAddress(victim)), account)
			_, found, err = vm.GetAccount(attacker)
			require.NoError(err)
			require.False(found)

			// The in-process driver path still executes it.
			_, err = vm.IssueTransaction(tx)
			require.NoError(err)
		})
	}
}

func TestCreateHandlers(t *testing.T) {
	require := require.New(t)

	vm := newTestVM(t, newTestState(), nil, nil)
	handlers, err := vm.CreateHandlers()
	require.NoError(err)
	require.Contains(handlers, "")
	require.NotNil(handlers[""].Handler)

	version, err := vm.Version()
	require.NoError(err)
	require.Equal(Version, version)
	require.NoError(vm.Shutdown())
}

func TestFactory(t *testing.T) {
	vmIntf, err := (&Factory{}).New(nil)
	require.NoError(t, err)
	require.IsType(t, &VM{}, vmIntf)
}
