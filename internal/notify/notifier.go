// Package notify delivers private messages to participants through the
// chat platform.
package notify

import "context"

// Notifier sends a direct message to a single user. Delivery is
// best-effort: callers treat an error as "this one message was lost" and
// carry on.
//
// The abstraction keeps the chat platform out of the core; the default
// implementation posts to a gateway webhook, and tests substitute a
// recorder.
type Notifier interface {
	DirectMessage(ctx context.Context, userID, text string) error
}

// Func adapts a plain function to the Notifier interface.
type Func func(ctx context.Context, userID, text string) error

// DirectMessage calls f.
func (f Func) DirectMessage(ctx context.Context, userID, text string) error {
	return f(ctx, userID, text)
}
