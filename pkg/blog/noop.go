package blog

import "context"

// NoopNotifier is a no-operation implementation of Notifier
// Useful when outbound mail is not configured or for testing
type NoopNotifier struct{}

// NewNoopNotifier creates a new no-operation notifier
func NewNoopNotifier() Notifier {
	return &NoopNotifier{}
}

// ContactReceived does nothing and returns nil
func (n *NoopNotifier) ContactReceived(ctx context.Context, query *ContactQuery) error {
	return nil
}
