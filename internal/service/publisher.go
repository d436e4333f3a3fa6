package service

import "context"

// Publisher is the event sink services emit to. *events.Producer satisfies it.
type Publisher interface {
	Publish(ctx context.Context, key string, event map[string]any) error
}
