package vitals

import (
	"math/rand"
	"strconv"
	"time"

	"github.com/vitalsim/vitalsim/sim"
)

// Levels simulates periodic blood-work results: cholesterol (mg/dL) and
// white/red blood cell counts. Each patient gets fixed baselines at
// construction; every tick emits baseline plus a small uniform variation,
// so values hover rather than walk away.
type Levels struct {
	cholesterol []float64
	whiteCells  []float64
	redCells    []float64
	streams     []*rand.Rand
}

// NewLevels creates a blood-levels generator for patients 1..patientCount.
func NewLevels(patientCount int, rng *sim.PartitionedRNG) *Levels {
	l := &Levels{
		cholesterol: make([]float64, patientCount+1),
		whiteCells:  make([]float64, patientCount+1),
		redCells:    make([]float64, patientCount+1),
		streams:     patientStreams(KindLevels, patientCount, rng),
	}
	for id := 1; id <= patientCount; id++ {
		r := l.streams[id]
		l.cholesterol[id] = 150 + r.Float64()*50 // mg/dL
		l.whiteCells[id] = 4 + r.Float64()*6     // 10^3 cells/uL
		l.redCells[id] = 4.5 + r.Float64()*1.5   // 10^6 cells/uL
	}
	return l
}

// Kind returns the generator kind name.
func (l *Levels) Kind() string { return KindLevels }

// Produce emits one reading per analyte around the patient's baseline.
func (l *Levels) Produce(patientID int) []sim.Reading {
	r := l.streams[patientID]
	now := time.Now().UnixMilli()

	cholesterol := l.cholesterol[patientID] + (r.Float64()-0.5)*10 // +/- 5
	white := l.whiteCells[patientID] + (r.Float64()-0.5)*1        // +/- 0.5
	red := l.redCells[patientID] + (r.Float64()-0.5)*0.2          // +/- 0.1

	return []sim.Reading{
		{PatientID: patientID, TimestampMillis: now, Label: LabelCholesterol, Data: formatLevel(cholesterol)},
		{PatientID: patientID, TimestampMillis: now, Label: LabelWhiteCells, Data: formatLevel(white)},
		{PatientID: patientID, TimestampMillis: now, Label: LabelRedCells, Data: formatLevel(red)},
	}
}

func formatLevel(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
