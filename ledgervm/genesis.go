// (c) 2019-2020, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package ledgervm

import (
	"encoding/json"
	"fmt"

	"github.com/ava-labs/avalanchego/ids"

	cjson "github.com/ava-labs/avalanchego/utils/json"

	"github.com/ava-labs/ledgervm/state"
)

// GenesisAccount is an account that exists from the start
type GenesisAccount struct {
	Address ids.ShortID `json:"address"`
	Balance cjson.Uint64 `json:"balance"`
	// Defaults to AuthenticationKeyFromAddress(Address)
	AuthenticationKey *AuthenticationKey `json:"authenticationKey,omitempty"`
}

// Genesis is the initial chain state
type Genesis struct {
	Accounts []GenesisAccount `json:"accounts"`
}

// ParseGenesis reads a JSON genesis. Empty input is an empty genesis.
func ParseGenesis(b []byte) (*Genesis, error) {
	genesis := &Genesis{}
	if len(b) == 0 {
		return genesis, nil
	}
	if err := json.Unmarshal(b, genesis); err != nil {
		return nil, fmt.Errorf("failed to parse genesis: %w", err)
	}
	return genesis, nil
}

// StateSet returns the transaction that installs [g]
func (g *Genesis) StateSet() (*StateSet, error) {
	ws := state.WriteSet{}
	seen := make(map[ids.ShortID]struct{}, len(g.Accounts))
	for _, account := range g.Accounts {
		if _, ok := seen[account.Address]; ok {
			return nil, fmt.Errorf("duplicate genesis account %s", account.Address)
		}
		seen[account.Address] = struct{}{}

		authKey := AuthenticationKeyFromAddress(account.Address)
		if account.AuthenticationKey != nil {
			authKey = *account.AuthenticationKey
		}
		r := NewAccountResource(uint64(account.Balance), 0, authKey)
		if err := writeResource(&ws, state.NewForAccount(account.Address), r); err != nil {
			return nil, err
		}
	}
	return NewStateSet(ws), nil
}
