package cli

import (
	"context"
	"fmt"

	"github.com/gabapcia/btcwatch/internal/balancewatch"
	"github.com/gabapcia/btcwatch/internal/pkg/x/chflow"
)

// notificationBufferSize bounds how many undelivered notifications may queue
// up before the monitoring loop blocks on delivery.
const notificationBufferSize = 10

// notification is one message from the monitoring core to the terminal.
type notification struct {
	sessionID string
	text      string
}

// StdoutNotifier renders the monitoring core's plain-text notifications on
// stdout. Messages travel through a buffered channel so the poll loop never
// interleaves writes with the command's own output; a single printer
// goroutine owns the terminal.
type StdoutNotifier struct {
	ch chan notification
}

// Ensure compile-time compliance with the balancewatch.Notifier interface.
var _ balancewatch.Notifier = (*StdoutNotifier)(nil)

// NewStdoutNotifier creates the notifier and starts its printer goroutine.
// The goroutine exits when ctx is canceled.
func NewStdoutNotifier(ctx context.Context) *StdoutNotifier {
	n := &StdoutNotifier{
		ch: make(chan notification, notificationBufferSize),
	}

	go n.print(ctx)
	return n
}

// print consumes queued notifications and writes them to stdout until the
// context is canceled.
func (n *StdoutNotifier) print(ctx context.Context) {
	for {
		msg, ok := chflow.Receive(ctx, n.ch)
		if !ok {
			return
		}

		fmt.Printf("[%s] %s\n", msg.sessionID, msg.text)
	}
}

// Notify implements balancewatch.Notifier.
func (n *StdoutNotifier) Notify(ctx context.Context, sessionID, text string) error {
	if ok := chflow.Send(ctx, n.ch, notification{sessionID: sessionID, text: text}); !ok {
		return ctx.Err()
	}
	return nil
}

// TrackingStarted implements balancewatch.Notifier.
func (n *StdoutNotifier) TrackingStarted(ctx context.Context, sessionID string) error {
	return n.Notify(ctx, sessionID, "transaction tracking started")
}

// TrackingStopped implements balancewatch.Notifier.
func (n *StdoutNotifier) TrackingStopped(ctx context.Context, sessionID, reason string) error {
	return n.Notify(ctx, sessionID, reason)
}
