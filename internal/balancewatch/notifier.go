package balancewatch

import "context"

// Notifier is the presentation boundary the monitoring core reports through.
// The core emits plain structured text lines; rendering (chat markup,
// terminal colors, ...) is entirely the implementation's concern.
//
// Delivery is best-effort: a failed notification is logged by the core and
// monitoring continues. There is no exactly-once guarantee.
type Notifier interface {
	// Notify delivers one per-cycle report to the session's owner.
	Notify(ctx context.Context, sessionID, text string) error

	// TrackingStarted signals that the session entered the active state.
	TrackingStarted(ctx context.Context, sessionID string) error

	// TrackingStopped signals that the session left the active state, with a
	// human-readable reason ("tracking stopped", "no wallets found, stopping", ...).
	TrackingStopped(ctx context.Context, sessionID, reason string) error
}
