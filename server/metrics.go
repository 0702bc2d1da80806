package main

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const instrumentationName = "serpentine/server"

// Metrics records simulation and connection counters. It uses the global
// OTel meter provider, which is a no-op unless one is installed.
type Metrics struct {
	ticks     metric.Int64Counter
	retargets metric.Int64Counter
	rejected  metric.Int64Counter
	viewers   metric.Int64ObservableGauge
	snakes    metric.Int64ObservableGauge
}

// NewMetrics creates the instruments. The gauges observe conns and world on
// every collection.
func NewMetrics(conns *ConnManager, world *World) (*Metrics, error) {
	m := otel.Meter(instrumentationName)
	mt := &Metrics{}

	var err error
	mt.ticks, err = m.Int64Counter(
		"sim.ticks",
		metric.WithDescription("Simulation ticks executed"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating ticks counter: %w", err)
	}

	mt.retargets, err = m.Int64Counter(
		"sim.retargets",
		metric.WithDescription("Destinations drawn after a snake reached its target"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating retargets counter: %w", err)
	}

	mt.rejected, err = m.Int64Counter(
		"server.connections.rejected",
		metric.WithDescription("Viewer connections refused"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating rejected counter: %w", err)
	}

	mt.viewers, err = m.Int64ObservableGauge(
		"server.viewers",
		metric.WithDescription("Connected viewers"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating viewers gauge: %w", err)
	}

	mt.snakes, err = m.Int64ObservableGauge(
		"sim.snakes",
		metric.WithDescription("Snakes in the world"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating snakes gauge: %w", err)
	}

	_, err = m.RegisterCallback(
		func(ctx context.Context, o metric.Observer) error {
			o.ObserveInt64(mt.viewers, int64(conns.Count()))
			world.mu.RLock()
			o.ObserveInt64(mt.snakes, int64(len(world.Agents)))
			world.mu.RUnlock()
			return nil
		},
		mt.viewers, mt.snakes,
	)
	if err != nil {
		return nil, fmt.Errorf("registering gauge callback: %w", err)
	}
	return mt, nil
}

// Tick records one executed tick and the retargets it produced
func (mt *Metrics) Tick(ctx context.Context, retargets int) {
	mt.ticks.Add(ctx, 1)
	if retargets > 0 {
		mt.retargets.Add(ctx, int64(retargets))
	}
}

// Rejected records a refused connection with its reason
func (mt *Metrics) Rejected(ctx context.Context, reason string) {
	mt.rejected.Add(ctx, 1, metric.WithAttributes(attribute.String("reason", reason)))
}
