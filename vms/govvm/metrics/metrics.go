// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/luxfi/multigov/vms/govvm/events"
	"github.com/luxfi/multigov/vms/govvm/txs"
)

const (
	txLabel    = "tx"
	eventLabel = "event"
)

var _ Metrics = (*metrics)(nil)

type Metrics interface {
	// Mark that the given tx was accepted and emitted [emitted].
	MarkAccepted(tx *txs.Tx, emitted []events.Event) error
	// Mark that the given tx failed execution.
	MarkRejected(tx *txs.Tx) error
}

func New(registerer prometheus.Registerer) (Metrics, error) {
	m := &metrics{
		txsAccepted: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "txs_accepted",
				Help: "number of operations accepted",
			},
			[]string{txLabel},
		),
		txsRejected: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "txs_rejected",
				Help: "number of operations rejected",
			},
			[]string{txLabel},
		),
		eventsEmitted: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "events_emitted",
				Help: "number of events emitted by accepted operations",
			},
			[]string{eventLabel},
		),
		lastAccepted: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "last_accepted_unix",
			Help: "unix time of the last accepted operation",
		}),
	}
	err := errors.Join(
		registerer.Register(m.txsAccepted),
		registerer.Register(m.txsRejected),
		registerer.Register(m.eventsEmitted),
		registerer.Register(m.lastAccepted),
	)
	return m, err
}

type metrics struct {
	txsAccepted   *prometheus.CounterVec
	txsRejected   *prometheus.CounterVec
	eventsEmitted *prometheus.CounterVec
	lastAccepted  prometheus.Gauge
}

func (m *metrics) MarkAccepted(tx *txs.Tx, emitted []events.Event) error {
	label, err := txName(tx)
	if err != nil {
		return err
	}
	m.txsAccepted.With(prometheus.Labels{txLabel: label}).Inc()
	for _, e := range emitted {
		m.eventsEmitted.With(prometheus.Labels{eventLabel: e.Name()}).Inc()
	}
	m.lastAccepted.SetToCurrentTime()
	return nil
}

func (m *metrics) MarkRejected(tx *txs.Tx) error {
	label, err := txName(tx)
	if err != nil {
		return err
	}
	m.txsRejected.With(prometheus.Labels{txLabel: label}).Inc()
	return nil
}

func txName(tx *txs.Tx) (string, error) {
	if tx == nil || tx.Unsigned == nil {
		return "", txs.ErrNilTx
	}
	var n txNamer
	return n.name, tx.Unsigned.Visit(&n)
}
