// (c) 2019-2020, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package ledgervm

import (
	"errors"
	"testing"

	"github.com/ava-labs/avalanchego/database/memdb"
	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/avalanchego/utils/crypto"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/ava-labs/ledgervm/state"
)

var errTestBackend = errors.New("backend failure")

// failingState fails the operations whose flag is set and passes the rest
// through to an in-memory state.
type failingState struct {
	state.State

	failGet, failSet, failDelete, failApply bool
}

func newFailingState() *failingState {
	return &failingState{State: state.NewState(memdb.New())}
}

func (s *failingState) Get(path state.AccessPath) ([]byte, error) {
	if s.failGet {
		return nil, errTestBackend
	}
	return s.State.Get(path)
}

func (s *failingState) Set(path state.AccessPath, blob []byte) error {
	if s.failSet {
		return errTestBackend
	}
	return s.State.Set(path, blob)
}

func (s *failingState) Delete(path state.AccessPath) error {
	if s.failDelete {
		return errTestBackend
	}
	return s.State.Delete(path)
}

func (s *failingState) Apply(ws state.WriteSet) error {
	if s.failApply {
		return errTestBackend
	}
	return s.State.Apply(ws)
}

func newTestState() state.State {
	return state.NewState(memdb.New())
}

func newTestExecutor(t *testing.T, config Config) *Executor {
	executor, err := NewExecutor(config, prometheus.NewRegistry())
	require.NoError(t, err)
	return executor
}

func newTestKey(t *testing.T) crypto.PrivateKey {
	factory := crypto.FactorySECP256K1R{}
	key, err := factory.NewPrivateKey()
	require.NoError(t, err)
	return key
}

// putAccount stores [r] as the account resource of [addr]
func putAccount(t *testing.T, cs state.ChainState, addr ids.ShortID, r *AccountResource) {
	require.NoError(t, NewStateStore(cs).SetResource(state.NewForAccount(addr), r))
}

// mustGetAccount returns the account resource of [addr], failing if it is missing
func mustGetAccount(t *testing.T, cs state.ChainState, addr ids.ShortID) *AccountResource {
	r, found, err := NewStateStore(cs).GetAccountResource(addr)
	require.NoError(t, err)
	require.True(t, found, "account %s should exist", addr)
	return r
}

// snapshot returns the blobs of the account resources of [addrs]
func snapshot(t *testing.T, cs state.ChainState, addrs ...ids.ShortID) [][]byte {
	paths := make([]state.AccessPath, len(addrs))
	for i, addr := range addrs {
		paths[i] = state.NewForAccount(addr)
	}
	blobs, err := NewStateStore(cs).MultiGet(paths)
	require.NoError(t, err)
	return blobs
}
