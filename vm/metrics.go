// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package vm

import (
	"github.com/ava-labs/avalanchego/utils/wrappers"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/ava-labs/countervm/chain"
)

var _ chain.Metrics = (*Metrics)(nil)

type Metrics struct {
	txsSubmitted       prometheus.Counter
	txsRejected        prometheus.Counter
	txsSucceeded       prometheus.Counter
	txsFailed          prometheus.Counter
	executorBlocked    prometheus.Counter
	executorExecutable prometheus.Counter
	batchSize          prometheus.Histogram
	actions            *prometheus.CounterVec
	queries            *prometheus.CounterVec
}

func newMetrics() (*prometheus.Registry, *Metrics, error) {
	r := prometheus.NewRegistry()

	m := &Metrics{
		txsSubmitted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "vm",
			Name:      "txs_submitted",
			Help:      "number of txs submitted to vm",
		}),
		txsRejected: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "vm",
			Name:      "txs_rejected",
			Help:      "number of txs rejected before execution",
		}),
		txsSucceeded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "chain",
			Name:      "txs_succeeded",
			Help:      "number of txs executed successfully",
		}),
		txsFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "chain",
			Name:      "txs_failed",
			Help:      "number of txs whose action returned an error",
		}),
		executorBlocked: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "chain",
			Name:      "executor_blocked",
			Help:      "executor tasks blocked during processing",
		}),
		executorExecutable: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "chain",
			Name:      "executor_executable",
			Help:      "executor tasks executable during processing",
		}),
		batchSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "vm",
			Name:      "batch_size",
			Help:      "number of txs submitted together",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 11),
		}),
		actions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "vm",
			Name:      "actions",
			Help:      "number of submitted actions by type",
		}, []string{"action"}),
		queries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "vm",
			Name:      "queries",
			Help:      "number of state queries by kind",
		}, []string{"query"}),
	}
	errs := wrappers.Errs{}
	errs.Add(
		r.Register(m.txsSubmitted),
		r.Register(m.txsRejected),
		r.Register(m.txsSucceeded),
		r.Register(m.txsFailed),
		r.Register(m.executorBlocked),
		r.Register(m.executorExecutable),
		r.Register(m.batchSize),
		r.Register(m.actions),
		r.Register(m.queries),
	)
	return r, m, errs.Err
}

func (m *Metrics) RecordBlocked() {
	m.executorBlocked.Inc()
}

func (m *Metrics) RecordExecutable() {
	m.executorExecutable.Inc()
}

func (m *Metrics) RecordResult(success bool) {
	if success {
		m.txsSucceeded.Inc()
	} else {
		m.txsFailed.Inc()
	}
}

func (m *Metrics) recordSubmitted(txs []*chain.Transaction) {
	m.txsSubmitted.Add(float64(len(txs)))
	m.batchSize.Observe(float64(len(txs)))
	for _, tx := range txs {
		m.actions.WithLabelValues(actionName(tx.Action)).Inc()
	}
}

func (m *Metrics) recordQuery(kind string) {
	m.queries.WithLabelValues(kind).Inc()
}
