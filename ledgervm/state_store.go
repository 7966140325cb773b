// (c) 2019-2020, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package ledgervm

import (
	"errors"
	"fmt"

	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/ids"

	log "github.com/inconshreveable/log15"

	"github.com/ava-labs/ledgervm/state"
)

var (
	_ StateView = &StateStore{}
	_ StateView = &stateView{}
)

// StateView is a read-only view of the chain state. Nothing reachable through
// it writes.
type StateView interface {
	// Get returns the blob at [path]; found is false if there is none.
	Get(path state.AccessPath) (blob []byte, found bool, err error)
	MultiGet(paths []state.AccessPath) ([][]byte, error)
	GetAccountResource(addr ids.ShortID) (*AccountResource, bool, error)
}

// StateStore is the only way the executor touches the chain state
type StateStore struct {
	chainState state.ChainState
}

func NewStateStore(chainState state.ChainState) *StateStore {
	return &StateStore{chainState: chainState}
}

// View returns a read-only view of the same chain state
func (s *StateStore) View() StateView {
	return &stateView{chainState: s.chainState}
}

func (s *StateStore) Get(path state.AccessPath) ([]byte, bool, error) {
	return get(s.chainState, path)
}

func (s *StateStore) MultiGet(paths []state.AccessPath) ([][]byte, error) {
	return multiGet(s.chainState, paths)
}

// Set upserts [blob] at [path]
func (s *StateStore) Set(path state.AccessPath, blob []byte) error {
	log.Debug("set access path", "path", path, "size", len(blob))
	if err := s.chainState.Set(path, blob); err != nil {
		return fmt.Errorf("failed to set %s: %w", path, err)
	}
	return nil
}

// Remove deletes [path]
func (s *StateStore) Remove(path state.AccessPath) error {
	log.Debug("remove access path", "path", path)
	if err := s.chainState.Delete(path); err != nil {
		return fmt.Errorf("failed to remove %s: %w", path, err)
	}
	return nil
}

// ApplyWriteSet applies every operation of [ws] in order. Either all of them
// take effect or none do.
func (s *StateStore) ApplyWriteSet(ws state.WriteSet) error {
	for _, op := range ws {
		log.Debug("apply write op", "op", op)
	}
	if err := s.chainState.Apply(ws); err != nil {
		return fmt.Errorf("failed to apply write set of %d ops: %w", len(ws), err)
	}
	return nil
}

// GetResource decodes the account resource at [path]
func (s *StateStore) GetResource(path state.AccessPath) (*AccountResource, bool, error) {
	return getResource(s.chainState, path)
}

func (s *StateStore) GetAccountResource(addr ids.ShortID) (*AccountResource, bool, error) {
	return getResource(s.chainState, state.NewForAccount(addr))
}

// SetResource encodes [r] and stores it at [path]
func (s *StateStore) SetResource(path state.AccessPath, r *AccountResource) error {
	blob, err := r.Bytes()
	if err != nil {
		return err
	}
	return s.Set(path, blob)
}

// CreateAccount stores a fresh account resource for [addr] unless one exists.
// An existing account is never reset.
func (s *StateStore) CreateAccount(addr ids.ShortID, authKey AuthenticationKey) error {
	path := state.NewForAccount(addr)
	_, found, err := s.Get(path)
	if err != nil {
		return err
	}
	if found {
		log.Debug("account already exists", "address", addr)
		return nil
	}
	return s.SetResource(path, NewAccountResource(0, 0, authKey))
}

type stateView struct {
	chainState state.ChainState
}

func (v *stateView) Get(path state.AccessPath) ([]byte, bool, error) {
	return get(v.chainState, path)
}

func (v *stateView) MultiGet(paths []state.AccessPath) ([][]byte, error) {
	return multiGet(v.chainState, paths)
}

func (v *stateView) GetAccountResource(addr ids.ShortID) (*AccountResource, bool, error) {
	return getResource(v.chainState, state.NewForAccount(addr))
}

func get(cs state.ChainState, path state.AccessPath) ([]byte, bool, error) {
	blob, err := cs.Get(path)
	switch {
	case err == nil:
		return blob, true, nil
	case errors.Is(err, database.ErrNotFound):
		return nil, false, nil
	default:
		return nil, false, fmt.Errorf("failed to get %s: %w", path, err)
	}
}

// multiGet returns one entry per path, nil where nothing is stored.
func multiGet(cs state.ChainState, paths []state.AccessPath) ([][]byte, error) {
	blobs := make([][]byte, len(paths))
	for i, path := range paths {
		blob, _, err := get(cs, path)
		if err != nil {
			return nil, err
		}
		blobs[i] = blob
	}
	return blobs, nil
}

func getResource(cs state.ChainState, path state.AccessPath) (*AccountResource, bool, error) {
	blob, found, err := get(cs, path)
	if err != nil || !found {
		return nil, false, err
	}
	r, err := ParseAccountResource(blob)
	if err != nil {
		return nil, false, fmt.Errorf("failed to decode resource at %s: %w", path, err)
	}
	return r, true, nil
}
