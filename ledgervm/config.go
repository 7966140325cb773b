// (c) 2019-2020, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package ledgervm

import (
	"encoding/json"
	"fmt"
)

const (
	// DefaultBlockReward is credited to the author of every block
	DefaultBlockReward uint64 = 50_00000000
)

// Config tunes the executor
type Config struct {
	BlockReward uint64 `json:"blockReward"`
	// LegacyRecipientSequence sets a payment recipient's sequence number to
	// the sender's sequence number before the payment, instead of leaving it
	// unchanged. A payment to oneself then leaves the sequence number as it
	// was.
	LegacyRecipientSequence bool `json:"legacyRecipientSequence"`
}

func DefaultConfig() Config {
	return Config{
		BlockReward: DefaultBlockReward,
	}
}

// ParseConfig reads a JSON config. Fields left out keep their defaults.
func ParseConfig(b []byte) (Config, error) {
	config := DefaultConfig()
	if len(b) == 0 {
		return config, nil
	}
	if err := json.Unmarshal(b, &config); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}
	return config, nil
}
