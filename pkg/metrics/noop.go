package metrics

import (
	"context"
	"time"
)

// NoopCollector discards everything.
type NoopCollector struct{}

var _ Collector = NoopCollector{}

// RecordStage does nothing.
func (NoopCollector) RecordStage(context.Context, string, string, string, time.Duration) {}

// RecordError does nothing.
func (NoopCollector) RecordError(context.Context, string, string, string) {}
