// (c) 2021, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package state

import (
	"github.com/ava-labs/avalanchego/cache"
	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/utils"
)

const (
	resourceCacheSize = 8192
)

var _ ChainState = &resourceState{}

// resourceState stores resource blobs in [resourceDB] keyed by AccessPath.Key.
// Writes go through [parent] so they are committed atomically.
type resourceState struct {
	parent *state

	blobCache  cache.Cacher
	resourceDB database.Database
}

func newResourceState(db database.Database, parent *state) *resourceState {
	return &resourceState{
		parent:     parent,
		blobCache:  &cache.LRU{Size: resourceCacheSize},
		resourceDB: db,
	}
}

func (s *resourceState) Get(path AccessPath) ([]byte, error) {
	s.parent.lock.RLock()
	defer s.parent.lock.RUnlock()

	key := path.Key()
	if blobIntf, ok := s.blobCache.Get(string(key)); ok {
		return utils.CopyBytes(blobIntf.([]byte)), nil
	}

	blob, err := s.resourceDB.Get(key)
	if err != nil {
		return nil, err
	}
	s.blobCache.Put(string(key), utils.CopyBytes(blob))
	return blob, nil
}

func (s *resourceState) Set(path AccessPath, blob []byte) error {
	return s.Apply(WriteSet{Write(path, blob)})
}

func (s *resourceState) Delete(path AccessPath) error {
	return s.Apply(WriteSet{Delete(path)})
}

// Apply writes every operation of [ws] in order and commits them together.
func (s *resourceState) Apply(ws WriteSet) error {
	return s.parent.commit(func() error {
		for _, op := range ws {
			key := op.Path.Key()
			s.blobCache.Evict(string(key))

			var err error
			if op.Deletion {
				err = s.resourceDB.Delete(key)
			} else {
				err = s.resourceDB.Put(key, op.Value)
			}
			if err != nil {
				return err
			}
		}
		return nil
	})
}
