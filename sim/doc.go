// Package sim provides the core scheduling engine for the vitalsim telemetry
// feed: fixed-rate periodic tasks fanned out across simulated patients, with
// readings forwarded to a pluggable output sink.
//
// # Reading Guide
//
// Start with these three files to understand the engine:
//   - reading.go: the Reading value and its two wire representations
//   - scheduler.go: the worker pool, fixed-rate dispatch, and the fault boundary
//   - simulator.go: task composition (one task per patient and generator kind)
//
// # Architecture
//
// The sim package defines interfaces and the engine; implementations live in
// sub-packages:
//   - sim/vitals/: the concrete generators (ECG, saturation, pressure, levels, alerts)
//   - sim/output/: the sinks (console, file, TCP, WebSocket, Kafka, MQTT)
//   - sim/ops/: the optional health/status/metrics HTTP endpoint
//   - sim/metrics/: shared Prometheus instruments
//
// # Key Interfaces
//
// The extension points are two small interfaces:
//   - Generator: produce the readings for one patient tick
//   - Sink: deliver one reading to an external consumer
//
// Randomness is partitioned: every (generator kind, patient) pair draws from
// its own deterministically-seeded stream (see rng.go), so a run is
// reproducible for a fixed seed and patient count.
package sim
