package engine

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

// searchMetrics wires the engine's per-search counters into OpenTelemetry.
// No exporter is configured anywhere in this module, so these record
// against the global no-op MeterProvider unless the embedding application
// wires one up — the instrumentation has a home without requiring a
// collector for the engine to build or run standalone.
type searchMetrics struct {
	nodesSearched metric.Int64Counter
	depthGauge    metric.Int64Gauge
}

func newSearchMetrics() *searchMetrics {
	meter := otel.GetMeterProvider().Meter("github.com/kestrelchess/engine/internal/engine")

	nodes, _ := meter.Int64Counter("chessplay.search.nodes",
		metric.WithDescription("total nodes visited by the search"))
	depth, _ := meter.Int64Gauge("chessplay.search.depth",
		metric.WithDescription("deepest iterative-deepening depth completed by the current search"))

	return &searchMetrics{nodesSearched: nodes, depthGauge: depth}
}

func (m *searchMetrics) recordDepth(ctx context.Context, depth int, nodesDelta uint64) {
	if m == nil {
		return
	}
	if nodesDelta > 0 {
		m.nodesSearched.Add(ctx, int64(nodesDelta))
	}
	m.depthGauge.Record(ctx, int64(depth))
}
