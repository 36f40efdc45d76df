// Package output implements the delivery sinks: console, per-label files, a
// single-client TCP stream, a broadcast WebSocket stream, and Kafka/MQTT
// publishers. All sinks serialize writes so concurrent tasks never interleave
// a line or frame, and all network writes carry deadlines so a stalled
// consumer cannot stall the scheduler's worker pool.
package output
