// Package metrics records chain stage timings and failures.
package metrics

import (
	"context"
	"time"
)

// Collector is the interface for metrics collection.
// Implementations include the Prometheus-backed collector and the no-op collector.
type Collector interface {
	RecordStage(ctx context.Context, chain, stage, status string, d time.Duration)
	RecordError(ctx context.Context, chain, stage, errorType string)
}
