package queue

import "context"

// Client publishes outcome feedback messages to the configured queue backend.
// A nil Client means feedback is applied synchronously in the API process.
type Client interface {
	Send(ctx context.Context, msg Message) error
}
