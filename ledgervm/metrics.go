// (c) 2021, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package ledgervm

import (
	"github.com/ava-labs/avalanchego/utils/wrappers"
	"github.com/prometheus/client_golang/prometheus"
)

type metrics struct {
	outcomes *prometheus.CounterVec
	failures *prometheus.CounterVec
}

func newMetrics(namespace string, registerer prometheus.Registerer) (*metrics, error) {
	m := &metrics{
		outcomes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "tx_outcomes",
				Help:      "Number of executed transactions by kind and status",
			},
			[]string{"kind", "status"},
		),
		failures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "tx_failures",
				Help:      "Number of transactions whose processing returned an error, by kind",
			},
			[]string{"kind"},
		),
	}

	errs := wrappers.Errs{}
	errs.Add(
		registerer.Register(m.outcomes),
		registerer.Register(m.failures),
	)
	return m, errs.Err
}

func (m *metrics) observe(kind TransactionKind, output *TransactionOutput, err error) {
	if err != nil {
		m.failures.WithLabelValues(string(kind)).Inc()
		return
	}
	m.outcomes.WithLabelValues(string(kind), output.Status.String()).Inc()
}
