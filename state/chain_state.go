// (c) 2019-2020, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package state

// ChainState is the backend the ledger reads from and writes to. Every call is
// atomic on its own; Apply is atomic over the whole write set, so no reader
// ever observes it partially applied.
//
// Get returns database.ErrNotFound if nothing is stored at [path].
type ChainState interface {
	Get(path AccessPath) ([]byte, error)
	Set(path AccessPath, blob []byte) error
	Delete(path AccessPath) error
	Apply(ws WriteSet) error
}
