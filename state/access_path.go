// (c) 2019-2020, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package state

import (
	"bytes"
	"fmt"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/avalanchego/utils/hashing"
)

const (
	// ResourceTag marks a path as addressing a typed resource (as opposed to
	// code) owned by an address.
	ResourceTag byte = 0x01

	// AccountResourceType is the type name the account resource is stored
	// under.
	AccountResourceType = "0x0::LibraAccount::T"
)

// AccessPath addresses a single typed value owned by [Address] inside the
// chain state. The key space of each address is disjoint from any other
// address because the address is always the fixed-length key prefix.
type AccessPath struct {
	Address ids.ShortID `serialize:"true" json:"address"`
	Path    []byte      `serialize:"true" json:"path"`
}

// NewForResource returns the path of the resource of type [typeName] held by
// [addr].
func NewForResource(addr ids.ShortID, typeName string) AccessPath {
	tag := hashing.ComputeHash256([]byte(typeName))
	path := make([]byte, 0, 1+len(tag))
	path = append(path, ResourceTag)
	path = append(path, tag...)
	return AccessPath{
		Address: addr,
		Path:    path,
	}
}

// NewForAccount returns the canonical path of the account resource of [addr].
func NewForAccount(addr ids.ShortID) AccessPath {
	return NewForResource(addr, AccountResourceType)
}

// Key returns the flat database key of this path.
func (p AccessPath) Key() []byte {
	key := make([]byte, 0, len(p.Address)+len(p.Path))
	key = append(key, p.Address[:]...)
	return append(key, p.Path...)
}

// Equal returns true iff [p] and [other] address the same value.
func (p AccessPath) Equal(other AccessPath) bool {
	return p.Address == other.Address && bytes.Equal(p.Path, other.Path)
}

func (p AccessPath) String() string {
	return fmt.Sprintf("%s/%x", p.Address, p.Path)
}
