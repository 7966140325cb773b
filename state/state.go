// Copyright (C) 2019-2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package state

import (
	"sync"

	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/database/prefixdb"
	"github.com/ava-labs/avalanchego/database/versiondb"
)

var (
	// These are prefixes for db keys.
	// It's important to set different prefixes for each separate database objects.
	singletonStatePrefix = []byte("singleton")
	resourceStatePrefix  = []byte("resource")

	_ State = &state{}
)

// State is the chain state plus the bookkeeping needed to host it: the
// genesis marker and the lifetime of the underlying database.
type State interface {
	ChainState
	InitializedState

	Close() error
}

type state struct {
	ChainState

	initialized InitializedState

	// lock serializes commits to baseDB. Pending writes in baseDB are visible
	// to its readers, so reads take the lock as well.
	lock   sync.RWMutex
	baseDB *versiondb.Database
}

// NewState returns a State whose resources and singletons live in [db] under
// separate prefixes. Every write is committed to [db] before returning.
func NewState(db database.Database) State {
	// create a new baseDB
	baseDB := versiondb.New(db)

	// create a prefixed "singletonDB" from baseDB
	singletonDB := prefixdb.New(singletonStatePrefix, baseDB)
	// create a prefixed "resourceDB" from baseDB
	resourceDB := prefixdb.New(resourceStatePrefix, baseDB)

	s := &state{
		initialized: NewInitializedState(singletonDB),
		baseDB:      baseDB,
	}
	s.ChainState = newResourceState(resourceDB, s)
	return s
}

func (s *state) IsInitialized() (bool, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()

	return s.initialized.IsInitialized()
}

func (s *state) SetInitialized() error {
	return s.commit(func() error {
		return s.initialized.SetInitialized()
	})
}

// commit runs [write] against baseDB and flushes it to the underlying
// database. Nothing written by [write] survives if it, or the flush, fails.
func (s *state) commit(write func() error) error {
	s.lock.Lock()
	defer s.lock.Unlock()
	defer s.baseDB.Abort()

	if err := write(); err != nil {
		return err
	}
	return s.baseDB.Commit()
}

// Close closes the underlying base database
func (s *state) Close() error {
	s.lock.Lock()
	defer s.lock.Unlock()

	return s.baseDB.Close()
}
