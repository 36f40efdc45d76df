package vitals

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/vitalsim/vitalsim/sim"
)

// Saturation simulates blood oxygen saturation (SpO2) as a bounded integer
// walk: each tick moves the previous value by -1, 0, or +1 and clamps to
// [min, max]. Baselines start in the healthy 95-100% band.
type Saturation struct {
	min, max int
	last     []int
	streams  []*rand.Rand
}

// NewSaturation creates a saturation generator for patients 1..patientCount
// clamped to [min, max].
func NewSaturation(patientCount, min, max int, rng *sim.PartitionedRNG) *Saturation {
	s := &Saturation{
		min:     min,
		max:     max,
		last:    make([]int, patientCount+1),
		streams: patientStreams(KindSaturation, patientCount, rng),
	}
	for id := 1; id <= patientCount; id++ {
		s.last[id] = 95 + s.streams[id].Intn(6)
		if s.last[id] > max {
			s.last[id] = max
		}
		if s.last[id] < min {
			s.last[id] = min
		}
	}
	return s
}

// Kind returns the generator kind name.
func (s *Saturation) Kind() string { return KindSaturation }

// Produce advances the walk one step for the given patient.
func (s *Saturation) Produce(patientID int) []sim.Reading {
	variation := s.streams[patientID].Intn(3) - 1
	value := s.last[patientID] + variation
	if value > s.max {
		value = s.max
	}
	if value < s.min {
		value = s.min
	}
	s.last[patientID] = value

	return []sim.Reading{{
		PatientID:       patientID,
		TimestampMillis: time.Now().UnixMilli(),
		Label:           LabelSaturation,
		Data:            fmt.Sprintf("%.1f%%", float64(value)),
	}}
}
