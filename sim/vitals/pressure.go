package vitals

import (
	"math/rand"
	"strconv"
	"time"

	"github.com/vitalsim/vitalsim/sim"
)

// Systolic/diastolic clamps in mmHg.
const (
	systolicMin  = 90
	systolicMax  = 180
	diastolicMin = 60
	diastolicMax = 120
)

// Pressure simulates blood pressure as two coupled integer walks, emitting a
// systolic and a diastolic reading per tick.
type Pressure struct {
	systolic  []int
	diastolic []int
	streams   []*rand.Rand
}

// NewPressure creates a blood pressure generator for patients 1..patientCount.
// Baselines start near 110/70 with per-patient offsets.
func NewPressure(patientCount int, rng *sim.PartitionedRNG) *Pressure {
	p := &Pressure{
		systolic:  make([]int, patientCount+1),
		diastolic: make([]int, patientCount+1),
		streams:   patientStreams(KindPressure, patientCount, rng),
	}
	for id := 1; id <= patientCount; id++ {
		p.systolic[id] = 110 + p.streams[id].Intn(20)
		p.diastolic[id] = 70 + p.streams[id].Intn(15)
	}
	return p
}

// Kind returns the generator kind name.
func (p *Pressure) Kind() string { return KindPressure }

// Produce advances both walks one step and emits the pair.
func (p *Pressure) Produce(patientID int) []sim.Reading {
	r := p.streams[patientID]
	now := time.Now().UnixMilli()

	p.systolic[patientID] = clampInt(p.systolic[patientID]+r.Intn(5)-2, systolicMin, systolicMax)
	p.diastolic[patientID] = clampInt(p.diastolic[patientID]+r.Intn(5)-2, diastolicMin, diastolicMax)

	return []sim.Reading{
		{
			PatientID:       patientID,
			TimestampMillis: now,
			Label:           LabelSystolic,
			Data:            strconv.Itoa(p.systolic[patientID]),
		},
		{
			PatientID:       patientID,
			TimestampMillis: now,
			Label:           LabelDiastolic,
			Data:            strconv.Itoa(p.diastolic[patientID]),
		},
	}
}

func clampInt(v, min, max int) int {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
