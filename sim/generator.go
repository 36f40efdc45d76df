package sim

import "time"

// Generator produces readings for one patient tick. Implementations keep
// per-patient state partitioned by patient ID: each (generator, patient)
// slot is touched by exactly one task for the life of the run, so no
// locking is required inside a generator.
//
// Produce must not fail for a patient ID in range; unexpected internal
// faults surface as panics and are contained at the task boundary.
type Generator interface {
	// Kind names the vital this generator synthesizes (e.g. "ECG").
	Kind() string

	// Produce returns the readings for one tick. Multi-channel vitals
	// (blood pressure, blood levels) return several readings; event-style
	// generators may return an empty slice when nothing changed.
	Produce(patientID int) []Reading
}

// GeneratorSpec binds a generator to the period its tasks fire at.
type GeneratorSpec struct {
	Gen    Generator
	Period time.Duration
}
