package common

const (
	// TopicAllEvents carries every committed event on the in-process pubsub.
	// Per kind topics use the event kind itself.
	TopicAllEvents = "all"

	EventSubscriberBuffer = 100

	// Routing keys on the event and command exchanges.
	EventRoutingKeyPrefix   = "event."
	EventRoutingKeyAll      = "event.#"
	CommandRoutingKeyPrefix = "command."

	// ContextKeyAddress is where the authenticated caller address lives on
	// the echo context.
	ContextKeyAddress = "Address"

	HeaderAdminToken = "X-Admin-Token"
)
