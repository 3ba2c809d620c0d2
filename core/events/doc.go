// Package events defines the recommendation events emitted on the event bus.
//
// Available event types:
//   - RequestEvent: a recommendation request was accepted
//   - CandidateEvent: a scored course was skipped during selection
//   - RecommendationEvent: a recommendation finished
//   - ExtractionEvent: free text went through a preference extractor
package events
