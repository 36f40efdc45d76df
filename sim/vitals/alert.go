package vitals

import (
	"math"
	"math/rand"
	"time"

	"github.com/vitalsim/vitalsim/sim"
)

// Alert data values.
const (
	AlertTriggered = "triggered"
	AlertResolved  = "resolved"
)

// resolveProbability is the chance an active alert resolves on a tick.
const resolveProbability = 0.9

// Alert simulates clinical alert events as a two-state machine per patient.
// An inactive patient triggers an alert with probability 1 - e^(-rate) per
// period (the chance of at least one arrival in a Poisson process); an
// active alert resolves with probability 0.9 per period. Ticks that change
// neither state emit no reading.
type Alert struct {
	triggerP float64
	active   []bool
	streams  []*rand.Rand
}

// NewAlert creates an alert generator for patients 1..patientCount with the
// given Poisson rate of alerts per period.
func NewAlert(patientCount int, rate float64, rng *sim.PartitionedRNG) *Alert {
	return &Alert{
		triggerP: -math.Expm1(-rate),
		active:   make([]bool, patientCount+1),
		streams:  patientStreams(KindAlert, patientCount, rng),
	}
}

// Kind returns the generator kind name.
func (a *Alert) Kind() string { return KindAlert }

// Produce advances the patient's alert state machine one tick.
func (a *Alert) Produce(patientID int) []sim.Reading {
	r := a.streams[patientID]

	if a.active[patientID] {
		if r.Float64() < resolveProbability {
			a.active[patientID] = false
			return []sim.Reading{alertReading(patientID, AlertResolved)}
		}
		return nil
	}

	if r.Float64() < a.triggerP {
		a.active[patientID] = true
		return []sim.Reading{alertReading(patientID, AlertTriggered)}
	}
	return nil
}

func alertReading(patientID int, state string) sim.Reading {
	return sim.Reading{
		PatientID:       patientID,
		TimestampMillis: time.Now().UnixMilli(),
		Label:           LabelAlert,
		Data:            state,
	}
}
