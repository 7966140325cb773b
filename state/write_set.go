// (c) 2019-2020, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package state

import "fmt"

// WriteOp is either a write of [Value] at [Path] or, if [Deletion] is set, the
// removal of [Path].
type WriteOp struct {
	Path     AccessPath `serialize:"true" json:"path"`
	Value    []byte     `serialize:"true" json:"value"`
	Deletion bool       `serialize:"true" json:"deletion"`
}

// Write returns an operation that upserts [blob] at [path].
func Write(path AccessPath, blob []byte) WriteOp {
	return WriteOp{Path: path, Value: blob}
}

// Delete returns an operation that removes [path].
func Delete(path AccessPath) WriteOp {
	return WriteOp{Path: path, Deletion: true}
}

func (op WriteOp) String() string {
	if op.Deletion {
		return fmt.Sprintf("Delete(%s)", op.Path)
	}
	return fmt.Sprintf("Write(%s, %d bytes)", op.Path, len(op.Value))
}

// WriteSet is the ordered effect of one transaction on the chain state. It is
// applied as a unit.
type WriteSet []WriteOp

// Write appends an upsert of [blob] at [path].
func (ws *WriteSet) Write(path AccessPath, blob []byte) {
	*ws = append(*ws, Write(path, blob))
}

// Delete appends the removal of [path].
func (ws *WriteSet) Delete(path AccessPath) {
	*ws = append(*ws, Delete(path))
}

func (ws WriteSet) Len() int { return len(ws) }
