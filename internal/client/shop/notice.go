package shop

import "context"

type Severity int

const (
	// SeverityInfo is a non-blocking message.
	SeverityInfo Severity = iota
	// SeverityModal must be acknowledged by the user.
	SeverityModal
)

type Notice struct {
	Severity Severity
	Title    string
	Message  string
}

// Notifier surfaces user-visible messages. Implementations must not call back
// into the Manager's mutating methods.
type Notifier interface {
	Notify(Notice)
}

type NotifierFunc func(Notice)

func (f NotifierFunc) Notify(n Notice) { f(n) }

// Confirmer asks the user a yes/no question.
type Confirmer interface {
	Confirm(ctx context.Context, title, message string) bool
}

type ConfirmerFunc func(ctx context.Context, title, message string) bool

func (f ConfirmerFunc) Confirm(ctx context.Context, title, message string) bool {
	return f(ctx, title, message)
}

const (
	offlineMessage = "You are currently in offline mode. Cart operations are not available until you reconnect to the server."
	fetchMessage   = "Failed to fetch cart items. Please try again later."
)
