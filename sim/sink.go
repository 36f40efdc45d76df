package sim

// Sink delivers readings to an external consumer. Implementations must not
// block the caller indefinitely: the same worker pool serves every patient's
// tasks, so network sinks apply write deadlines and drop on failure.
type Sink interface {
	// Name identifies the sink in logs and metrics (e.g. "tcp").
	Name() string

	// Deliver writes one reading. A non-nil error means this reading was
	// dropped; the caller logs it and the schedule continues.
	Deliver(r Reading) error

	// Close releases listeners, connections, and handles held by the sink.
	Close() error
}
