package events

// Topic constants for domain events emitted by the intake flow.
const (
	TopicRequestCreated  = "request.created"
	TopicRequestReceived = "request.received"
	TopicRequestDone     = "request.done"
)

// DefaultTopics returns the canonical list of topics that support notifications.
func DefaultTopics() []string {
	return []string{
		TopicRequestCreated,
		TopicRequestReceived,
		TopicRequestDone,
	}
}
