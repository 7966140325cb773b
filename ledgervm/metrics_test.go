// (c) 2021, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package ledgervm

import (
	"testing"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/ava-labs/ledgervm/state"
)

func TestExecutorMetrics(t *testing.T) {
	require := require.New(t)

	cs := newFailingState()
	executor := newTestExecutor(t, DefaultConfig())
	key := newTestKey(t)
	sender := key.PublicKey().Address()
	putAccount(t, cs, sender, NewAccountResource(10, 0, AuthenticationKey{}))

	mint, err := EncodeMintTransaction(key, 1)
	require.NoError(err)
	_, err = executor.ExecuteTransaction(cs, mint)
	require.NoError(err)

	// Mint of an unknown sender fails.
	other, err := EncodeMintTransaction(newTestKey(t), 1)
	require.NoError(err)
	_, err = executor.ExecuteTransaction(cs, other)
	require.ErrorIs(err, ErrAccountNotFound)

	cs.failApply = true
	path := state.NewForAccount(ids.ShortID{1})
	_, err = executor.ExecuteTransaction(cs, NewStateSet(state.WriteSet{state.Write(path, []byte{1})}))
	require.NoError(err)

	outcomes := executor.metrics.outcomes
	require.Equal(1.0, testutil.ToFloat64(outcomes.WithLabelValues(string(UserTransactionKind), KeepStatus().String())))
	require.Equal(1.0, testutil.ToFloat64(outcomes.WithLabelValues(string(StateSetKind), DiscardStatus().String())))
	require.Equal(1.0, testutil.ToFloat64(executor.metrics.failures.WithLabelValues(string(UserTransactionKind))))
}

func TestExecutorMetricsRegisteredOnce(t *testing.T) {
	registry := prometheus.NewRegistry()
	_, err := NewExecutor(DefaultConfig(), registry)
	require.NoError(t, err)

	_, err = NewExecutor(DefaultConfig(), registry)
	require.Error(t, err)
}
