package metrics

import (
	"context"
	"time"

	"github.com/kilianp07/courseadvisor/core/events"
	coremetrics "github.com/kilianp07/courseadvisor/core/metrics"
	"github.com/kilianp07/courseadvisor/internal/eventbus"
)

// StartEventCollector subscribes to bus and records extraction events on
// sinks implementing ExtractionRecorder. Engine runs are recorded by the
// engine itself. It stops when ctx is canceled or the bus is closed.
func StartEventCollector(ctx context.Context, bus eventbus.EventBus, sink coremetrics.MetricsSink) {
	if bus == nil || sink == nil {
		return
	}
	rec, ok := sink.(coremetrics.ExtractionRecorder)
	if !ok {
		return
	}
	sub := bus.Subscribe()
	go func() {
		defer bus.Unsubscribe(sub)
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-sub:
				if !ok {
					return
				}
				if e, ok := ev.(events.ExtractionEvent); ok {
					_ = rec.RecordExtraction(coremetrics.ExtractionRecord{
						Extractor: e.Extractor,
						Result:    e.Result,
						Questions: e.Questions,
						Duration:  e.Duration,
						Time:      time.Now(),
					})
				}
			}
		}
	}()
}
