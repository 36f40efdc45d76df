// Package vitals implements the concrete vital-sign generators. Each
// generator keeps per-patient state in arrays indexed by patient ID
// (index 0 unused, IDs are 1-based) and draws from its own per-patient
// RNG stream, so identical seeds reproduce identical sequences.
package vitals

import (
	"math/rand"

	"github.com/vitalsim/vitalsim/sim"
)

// Generator kind names, also used for task naming and RNG stream derivation.
const (
	KindECG        = "ECG"
	KindSaturation = "Saturation"
	KindPressure   = "Pressure"
	KindLevels     = "Levels"
	KindAlert      = "Alert"
)

// Reading labels emitted by the generators.
const (
	LabelECG         = "ECG"
	LabelSaturation  = "Saturation"
	LabelSystolic    = "SystolicPressure"
	LabelDiastolic   = "DiastolicPressure"
	LabelCholesterol = "Cholesterol"
	LabelWhiteCells  = "WhiteBloodCells"
	LabelRedCells    = "RedBloodCells"
	LabelAlert       = "Alert"
)

// Generators builds the full generator set with the periods and bounds from
// cfg, claiming one RNG stream per (kind, patient) from rng.
func Generators(cfg sim.VitalsConfig, patientCount int, rng *sim.PartitionedRNG) []sim.GeneratorSpec {
	return []sim.GeneratorSpec{
		{Gen: NewECG(patientCount, rng), Period: cfg.ECGPeriod},
		{Gen: NewSaturation(patientCount, cfg.SaturationMin, cfg.SaturationMax, rng), Period: cfg.SaturationPeriod},
		{Gen: NewPressure(patientCount, rng), Period: cfg.PressurePeriod},
		{Gen: NewLevels(patientCount, rng), Period: cfg.LevelsPeriod},
		{Gen: NewAlert(patientCount, cfg.AlertRate, rng), Period: cfg.AlertPeriod},
	}
}

// patientStreams claims one RNG stream per patient for the given kind.
// Index 0 is unused, matching the 1-based patient IDs.
func patientStreams(kind string, patientCount int, rng *sim.PartitionedRNG) []*rand.Rand {
	streams := make([]*rand.Rand, patientCount+1)
	for id := 1; id <= patientCount; id++ {
		streams[id] = rng.ForStream(sim.StreamName(kind, id))
	}
	return streams
}
