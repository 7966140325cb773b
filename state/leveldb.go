// (c) 2021, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package state

import (
	"github.com/ava-labs/avalanchego/database"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/opt"
)

var (
	_ State = &levelDBState{}

	syncWrites = &opt.WriteOptions{Sync: true}
)

type levelDBState struct {
	db *leveldb.DB
}

// NewLevelDBState opens (or creates) an on-disk State at [path]. Each Apply is
// written as a single leveldb batch.
func NewLevelDBState(path string) (State, error) {
	db, err := leveldb.OpenFile(path, nil)
	if err != nil {
		return nil, err
	}
	return &levelDBState{db: db}, nil
}

func (s *levelDBState) Get(path AccessPath) ([]byte, error) {
	blob, err := s.db.Get(resourceKey(path), nil)
	if err == leveldb.ErrNotFound {
		return nil, database.ErrNotFound
	}
	return blob, err
}

func (s *levelDBState) Set(path AccessPath, blob []byte) error {
	return s.db.Put(resourceKey(path), blob, syncWrites)
}

func (s *levelDBState) Delete(path AccessPath) error {
	return s.db.Delete(resourceKey(path), syncWrites)
}

func (s *levelDBState) Apply(ws WriteSet) error {
	batch := new(leveldb.Batch)
	for _, op := range ws {
		if op.Deletion {
			batch.Delete(resourceKey(op.Path))
		} else {
			batch.Put(resourceKey(op.Path), op.Value)
		}
	}
	return s.db.Write(batch, syncWrites)
}

func (s *levelDBState) IsInitialized() (bool, error) {
	return s.db.Has(singletonKey(isInitializedKey), nil)
}

func (s *levelDBState) SetInitialized() error {
	return s.db.Put(singletonKey(isInitializedKey), nil, syncWrites)
}

func (s *levelDBState) Close() error {
	return s.db.Close()
}

func resourceKey(path AccessPath) []byte {
	return prefixed(resourceStatePrefix, path.Key())
}

func singletonKey(key []byte) []byte {
	return prefixed(singletonStatePrefix, key)
}

func prefixed(prefix, key []byte) []byte {
	b := make([]byte, 0, len(prefix)+1+len(key))
	b = append(b, prefix...)
	b = append(b, '/')
	return append(b, key...)
}
