package sim

import (
	"fmt"
	"time"
)

// Config groups the parameters the driver composes a simulation from.
type Config struct {
	PatientCount      int           // number of simulated patients (IDs 1..N)
	Seed              int64         // master seed; 0 = derive from wall clock
	JitterMax         time.Duration // upper bound for per-task initial delay
	WorkersPerPatient int           // worker pool size = PatientCount * WorkersPerPatient
	Vitals            VitalsConfig
}

// VitalsConfig groups per-kind generator cadence and bounds.
type VitalsConfig struct {
	ECGPeriod        time.Duration
	SaturationPeriod time.Duration
	PressurePeriod   time.Duration
	LevelsPeriod     time.Duration
	AlertPeriod      time.Duration

	SaturationMin int     // lower clamp for the saturation walk (percent)
	SaturationMax int     // upper clamp for the saturation walk (percent)
	AlertRate     float64 // expected alerts per period (Poisson rate)
}

// DefaultConfig returns the stock configuration: 50 patients, seed 42,
// 0-4s jitter, 4 workers per patient, and the standard vitals cadence.
func DefaultConfig() Config {
	return Config{
		PatientCount:      50,
		Seed:              42,
		JitterMax:         4 * time.Second,
		WorkersPerPatient: 4,
		Vitals: VitalsConfig{
			ECGPeriod:        time.Second,
			SaturationPeriod: time.Second,
			PressurePeriod:   time.Minute,
			LevelsPeriod:     2 * time.Minute,
			AlertPeriod:      20 * time.Second,
			SaturationMin:    90,
			SaturationMax:    100,
			AlertRate:        0.1,
		},
	}
}

// Validate reports the first composition error, or nil.
func (c Config) Validate() error {
	if c.PatientCount < 1 {
		return fmt.Errorf("patient count must be >= 1, got %d", c.PatientCount)
	}
	if c.JitterMax < 0 {
		return fmt.Errorf("jitter must be >= 0, got %v", c.JitterMax)
	}
	if c.WorkersPerPatient < 1 {
		return fmt.Errorf("workers per patient must be >= 1, got %d", c.WorkersPerPatient)
	}
	return c.Vitals.validate()
}

func (v VitalsConfig) validate() error {
	periods := map[string]time.Duration{
		"ecg":        v.ECGPeriod,
		"saturation": v.SaturationPeriod,
		"pressure":   v.PressurePeriod,
		"levels":     v.LevelsPeriod,
		"alert":      v.AlertPeriod,
	}
	for name, p := range periods {
		if p <= 0 {
			return fmt.Errorf("%s period must be positive, got %v", name, p)
		}
	}
	if v.SaturationMin >= v.SaturationMax {
		return fmt.Errorf("saturation bounds must satisfy min < max, got [%d, %d]",
			v.SaturationMin, v.SaturationMax)
	}
	if v.AlertRate <= 0 || v.AlertRate > 1 {
		return fmt.Errorf("alert rate must be in (0, 1], got %v", v.AlertRate)
	}
	return nil
}
