package sim

import "fmt"

// Reading is one immutable timestamped data point for one patient and one label.
// Within a single task's sequence of fires, TimestampMillis never decreases;
// no ordering holds across tasks.
type Reading struct {
	PatientID       int
	TimestampMillis int64
	Label           string
	Data            string
}

// Wire renders the comma-separated representation used by the streaming
// sinks (TCP, WebSocket, Kafka, MQTT), without a trailing newline.
func (r Reading) Wire() string {
	return fmt.Sprintf("%d,%d,%s,%s", r.PatientID, r.TimestampMillis, r.Label, r.Data)
}

// String renders the prose representation used by the console and file sinks.
func (r Reading) String() string {
	return fmt.Sprintf("Patient ID: %d, Timestamp: %d, Label: %s, Data: %s",
		r.PatientID, r.TimestampMillis, r.Label, r.Data)
}
