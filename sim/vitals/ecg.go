package vitals

import (
	"math"
	"math/rand"
	"strconv"
	"time"

	"github.com/vitalsim/vitalsim/sim"
)

// ECG synthesizes a simplified electrocardiogram trace: three sinusoidal
// components standing in for the P wave, QRS complex, and T wave, plus a
// small uniform noise term. Each patient gets a fixed heart rate in
// [60, 80) bpm drawn at construction.
type ECG struct {
	rates   []float64 // per-patient heart rate in bpm
	streams []*rand.Rand
}

// NewECG creates an ECG generator for patients 1..patientCount.
func NewECG(patientCount int, rng *sim.PartitionedRNG) *ECG {
	e := &ECG{
		rates:   make([]float64, patientCount+1),
		streams: patientStreams(KindECG, patientCount, rng),
	}
	for id := 1; id <= patientCount; id++ {
		e.rates[id] = 60 + e.streams[id].Float64()*20
	}
	return e
}

// Kind returns the generator kind name.
func (e *ECG) Kind() string { return KindECG }

// Produce samples the waveform at the current wall time.
func (e *ECG) Produce(patientID int) []sim.Reading {
	now := time.Now()
	t := float64(now.UnixMilli()) / 1000.0
	f := e.rates[patientID] / 60.0 // beats per second

	// P wave, QRS complex, T wave, then noise.
	value := 0.1*math.Sin(2*math.Pi*f*t) +
		0.5*math.Sin(6*math.Pi*f*t) +
		0.2*math.Sin(4*math.Pi*f*t+math.Pi/4) +
		(e.streams[patientID].Float64()-0.5)*0.05

	return []sim.Reading{{
		PatientID:       patientID,
		TimestampMillis: now.UnixMilli(),
		Label:           LabelECG,
		Data:            strconv.FormatFloat(value, 'f', -1, 64),
	}}
}
