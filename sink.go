package relay

import "context"

// ObjectWriter stores a serialized record under a key. Implementations live
// in the sink packages.
type ObjectWriter interface {
	Put(ctx context.Context, key string, body []byte, contentType string) error
}

// Publisher sends a message with a subject line to a notification topic and
// returns the id assigned to the message.
type Publisher interface {
	Publish(ctx context.Context, subject, message string) (string, error)
}
