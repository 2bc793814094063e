package outbox

import "time"

// Message is a pending event waiting for the relay. Payload is the JSON
// encoded events.Envelope.
type Message struct {
	OutboxID     string
	EventType    string
	Sequence     uint64
	PartitionKey string
	Payload      []byte
	CreatedAt    time.Time
}
