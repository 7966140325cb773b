// (c) 2019-2020, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package ledgervm

import (
	"errors"
	"fmt"
	"sync"

	"github.com/gorilla/rpc/v2"
	"github.com/prometheus/client_golang/prometheus"

	log "github.com/inconshreveable/log15"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/avalanchego/snow/engine/common"

	cjson "github.com/ava-labs/avalanchego/utils/json"

	"github.com/ava-labs/ledgervm/state"
)

const (
	Name = "ledgervm"
)

var (
	Version = "v0.1.0"

	errGenesisDiscarded = errors.New("genesis state set was discarded")
	errNotInitialized   = errors.New("vm not initialized")
)

// VM hosts an Executor over a persistent chain state. It is the driver that
// decides transaction order: transactions are executed one at a time, in the
// order IssueTransaction is called.
type VM struct {
	config   Config
	executor *Executor

	// lock serializes execution against [state]
	lock  sync.Mutex
	state state.State
}

// Initialize this vm
// [st] is the chain state, which the vm takes ownership of
// The genesis accounts in [genesisBytes] are installed the first time
// [st] is used
// [configBytes] is a JSON Config, empty for the defaults
func (vm *VM) Initialize(
	st state.State,
	genesisBytes []byte,
	configBytes []byte,
	registerer prometheus.Registerer,
) error {
	log.Info("Initializing Ledger VM", "Version", Version)

	config, err := ParseConfig(configBytes)
	if err != nil {
		return err
	}
	executor, err := NewExecutor(config, registerer)
	if err != nil {
		return err
	}
	vm.config = config
	vm.executor = executor
	vm.state = st

	initialized, err := st.IsInitialized()
	if err != nil {
		return fmt.Errorf("failed to read initialized marker: %w", err)
	}
	if initialized {
		return nil
	}
	return vm.initGenesis(genesisBytes)
}

func (vm *VM) initGenesis(genesisBytes []byte) error {
	genesis, err := ParseGenesis(genesisBytes)
	if err != nil {
		return err
	}
	stateSet, err := genesis.StateSet()
	if err != nil {
		return err
	}

	output, err := vm.executor.ExecuteTransaction(vm.state, stateSet)
	if err != nil {
		return fmt.Errorf("error while applying genesis: %w", err)
	}
	if output.Status.Discard {
		return errGenesisDiscarded
	}

	if err := vm.state.SetInitialized(); err != nil {
		return fmt.Errorf("error while setting db to initialized: %w", err)
	}
	log.Info("Installed genesis", "accounts", len(genesis.Accounts))
	return nil
}

// IssueTransaction verifies and executes [tx] of any kind. It is the
// in-process path of the block driver; Service only admits user transactions.
func (vm *VM) IssueTransaction(tx Transaction) (*TransactionOutput, error) {
	if vm.state == nil {
		return nil, errNotInitialized
	}
	if userTx, ok := tx.(*SignedUserTransaction); ok {
		if err := userTx.Verify(); err != nil {
			return nil, err
		}
	}

	vm.lock.Lock()
	defer vm.lock.Unlock()

	return vm.executor.ExecuteTransaction(vm.state, tx)
}

// CreateAccount creates [addr] with [authKey] unless it exists
func (vm *VM) CreateAccount(addr ids.ShortID, authKey AuthenticationKey) error {
	if vm.state == nil {
		return errNotInitialized
	}

	vm.lock.Lock()
	defer vm.lock.Unlock()

	return vm.executor.CreateAccount(addr, authKey, vm.state)
}

// StateView returns a read-only view of the chain state
func (vm *VM) StateView() StateView {
	return NewStateStore(vm.state).View()
}

// GetAccount returns the account resource of [addr], if any
func (vm *VM) GetAccount(addr ids.ShortID) (*AccountResource, bool, error) {
	if vm.state == nil {
		return nil, false, errNotInitialized
	}
	return vm.StateView().GetAccountResource(addr)
}

// CreateHandlers returns a map where:
// Keys: The path extension for this VM's API (empty in this case)
// Values: The handler for the API
func (vm *VM) CreateHandlers() (map[string]*common.HTTPHandler, error) {
	server := rpc.NewServer()
	codec := cjson.NewCodec()
	server.RegisterCodec(codec, "application/json")
	server.RegisterCodec(codec, "application/json;charset=UTF-8")

	return map[string]*common.HTTPHandler{
		"": {LockOptions: common.NoLock, Handler: server},
	}, server.RegisterService(&Service{vm: vm}, "ledger")
}

// Shutdown closes the chain state
func (vm *VM) Shutdown() error {
	if vm.state == nil {
		return nil
	}

	vm.lock.Lock()
	defer vm.lock.Unlock()

	return vm.state.Close()
}

// Returns this VM's version
func (vm *VM) Version() (string, error) {
	return Version, nil
}
