package publisher

// Publisher represents a service for publishing newly stored deals
type Publisher interface {
	// Publish publishes one deal message
	Publish(message []byte) error

	// Close closes the publisher connection
	Close() error
}
