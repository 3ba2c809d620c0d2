// Package notify delivers finished recommendations to students.
package notify

import (
	"context"

	"github.com/kilianp07/courseadvisor/core/model"
)

// Notification is a finished recommendation addressed to one student.
type Notification struct {
	RequestID       string
	StudentID       string
	Schedule        *model.Schedule
	RequiredCredits int
	Shortfall       int
}

// Notifier publishes notifications. Implementations must be safe for
// concurrent use.
type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}

// NopNotifier drops every notification.
type NopNotifier struct{}

func (NopNotifier) Notify(context.Context, Notification) error { return nil }
