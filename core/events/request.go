package events

// RequestEvent is published when the engine starts processing a request.
type RequestEvent struct {
	RequestID       string
	StudentID       string
	RequiredCredits int
	Catalog         int
}
