package notify

import (
	"context"
	"time"
)

// Severity represents the notification severity.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeveritySuccess Severity = "success"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// DefaultDuration is applied when a notification does not specify how long
// it should stay visible.
const DefaultDuration = 4 * time.Second

// Notification is a single transient message shown to the user.
type Notification struct {
	Message  string        `json:"message"`
	Severity Severity      `json:"severity"`
	Duration time.Duration `json:"duration,omitempty"`
}

// Notifier delivers transient messages to the user. Implementations must not
// block the caller; delivery failures are the implementation's problem.
type Notifier interface {
	Notify(ctx context.Context, n Notification)
}

// Func adapts a plain function to the Notifier interface.
type Func func(ctx context.Context, n Notification)

func (f Func) Notify(ctx context.Context, n Notification) {
	f(ctx, n)
}
