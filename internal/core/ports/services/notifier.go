package services

import "context"

// Notifier is the external notification sink (chat delivery). Implementations
// are fire-and-forget: they must return promptly and their failure never
// affects a committed state transition.
type Notifier interface {
	Notify(ctx context.Context, phone string, title string, message string)
}
