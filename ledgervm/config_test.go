// (c) 2019-2020, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package ledgervm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseConfig(t *testing.T) {
	assert := assert.New(t)

	config, err := ParseConfig(nil)
	assert.NoError(err)
	assert.Equal(DefaultConfig(), config)
	assert.Equal(uint64(5_000_000_000), config.BlockReward)
	assert.False(config.LegacyRecipientSequence)

	config, err = ParseConfig([]byte(`{"legacyRecipientSequence":true}`))
	assert.NoError(err)
	assert.Equal(DefaultBlockReward, config.BlockReward)
	assert.True(config.LegacyRecipientSequence)

	config, err = ParseConfig([]byte(`{"blockReward":1}`))
	assert.NoError(err)
	assert.Equal(uint64(1), config.BlockReward)

	_, err = ParseConfig([]byte(`{`))
	assert.Error(err)
}

func TestStatus(t *testing.T) {
	assert := assert.New(t)

	assert.Equal("Keep(EXECUTED)", KeepStatus().String())
	assert.Equal("Discard(ABORTED(10))", DiscardStatus().String())
	assert.False(KeepStatus().Discard)
	assert.True(DiscardStatus().Discard)

	// Constructors hand out independent values.
	discard := DiscardStatus()
	*discard.Status.SubStatus = 11
	assert.Equal(InsufficientBalanceSubStatus, *DiscardStatus().Status.SubStatus)
}
