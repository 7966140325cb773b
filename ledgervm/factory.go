// (c) 2019-2020, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package ledgervm

import (
	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/avalanchego/snow"
	"github.com/ava-labs/avalanchego/vms"
)

// ID is a unique identifier for this VM
var (
	ID             = ids.ID{'l', 'e', 'd', 'g', 'e', 'r'}
	_  vms.Factory = &Factory{}
)

// Factory creates uninitialized VMs
type Factory struct{}

func (f *Factory) New(*snow.Context) (interface{}, error) { return &VM{}, nil }
