package metrics

import (
	"context"
	"testing"
	"time"

	"github.com/kilianp07/courseadvisor/core/events"
	coremetrics "github.com/kilianp07/courseadvisor/core/metrics"
	"github.com/kilianp07/courseadvisor/internal/eventbus"
)

type extractionSink struct {
	coremetrics.NopSink
	got chan coremetrics.ExtractionRecord
}

func (s *extractionSink) RecordExtraction(r coremetrics.ExtractionRecord) error {
	s.got <- r
	return nil
}

func TestStartEventCollector_RecordsExtraction(t *testing.T) {
	bus := eventbus.New()
	defer bus.Close()
	sink := &extractionSink{got: make(chan coremetrics.ExtractionRecord, 1)}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	StartEventCollector(ctx, bus, sink)
	// unrelated events are ignored
	bus.Publish(events.RequestEvent{RequestID: "r1"})
	bus.Publish(events.ExtractionEvent{Extractor: "chat", Result: "questions", Questions: 3})

	select {
	case r := <-sink.got:
		if r.Extractor != "chat" || r.Result != "questions" || r.Questions != 3 {
			t.Fatalf("unexpected record %+v", r)
		}
	case <-time.After(time.Second):
		t.Fatal("extraction not recorded")
	}
}
