package metrics

// MultiSink fans records out to several sinks.
type MultiSink struct {
	Sinks []MetricsSink
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...MetricsSink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

// RecordRecommendation forwards the record to all sinks, returning the first error encountered.
func (m *MultiSink) RecordRecommendation(rec RecommendationRecord) error {
	for _, s := range m.Sinks {
		if err := s.RecordRecommendation(rec); err != nil {
			return err
		}
	}
	return nil
}

// RecordCandidates forwards candidate outcomes to sinks that support them.
func (m *MultiSink) RecordCandidates(recs []CandidateRecord) error {
	for _, s := range m.Sinks {
		if cr, ok := s.(CandidateRecorder); ok {
			if err := cr.RecordCandidates(recs); err != nil {
				return err
			}
		}
	}
	return nil
}

// RecordExtraction forwards extraction attempts to sinks that support them.
func (m *MultiSink) RecordExtraction(rec ExtractionRecord) error {
	for _, s := range m.Sinks {
		if er, ok := s.(ExtractionRecorder); ok {
			if err := er.RecordExtraction(rec); err != nil {
				return err
			}
		}
	}
	return nil
}
