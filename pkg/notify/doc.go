// Package notify defines the transient-message interface the SDK uses to
// surface user-facing feedback (login succeeded, follow failed, please sign
// in). Delivery is fire-and-forget: producers never block on, or observe the
// outcome of, showing a message.
//
// The package ships three implementations: LogNotifier writes messages to a
// slog.Logger, NopNotifier discards them, and Recorder captures them for
// assertions in tests. UI layers provide their own implementation (toasts,
// terminal output, system notifications) by satisfying the one-method
// Notifier interface.
//
// Usage:
//
//	n := notify.NewLogNotifier(slog.Default())
//	n.Notify(ctx, notify.Notification{
//	    Message:  "Signed in successfully",
//	    Severity: notify.SeveritySuccess,
//	})
package notify
