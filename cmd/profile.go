package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	sim "github.com/vitalsim/vitalsim/sim"
)

// vitalOverride holds one generator's optional overrides. Pointer fields
// distinguish an absent field from a zero value.
type vitalOverride struct {
	PeriodSeconds *float64 `yaml:"periodSeconds"`
	Min           *int     `yaml:"min"`
	Max           *int     `yaml:"max"`
	Rate          *float64 `yaml:"rate"`
}

// vitalsProfile is the YAML shape accepted by --profile.
type vitalsProfile struct {
	JitterMaxSeconds *float64 `yaml:"jitterMaxSeconds"`
	Vitals           struct {
		ECG        vitalOverride `yaml:"ecg"`
		Saturation vitalOverride `yaml:"saturation"`
		Pressure   vitalOverride `yaml:"pressure"`
		Levels     vitalOverride `yaml:"levels"`
		Alert      vitalOverride `yaml:"alert"`
	} `yaml:"vitals"`
}

// ApplyVitalsProfile overlays the profile at path onto cfg. Fields absent
// from the file keep their current values. cfg is only touched once the
// whole file has parsed, so a bad file leaves every default in place.
func ApplyVitalsProfile(path string, cfg *sim.Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read profile: %w", err)
	}

	var p vitalsProfile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&p); err != nil {
		// An empty profile is valid and overrides nothing.
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("parse profile: %w", err)
	}

	if p.JitterMaxSeconds != nil {
		cfg.JitterMax = secondsToDuration(*p.JitterMaxSeconds)
	}
	applyPeriod(p.Vitals.ECG.PeriodSeconds, &cfg.Vitals.ECGPeriod)
	applyPeriod(p.Vitals.Saturation.PeriodSeconds, &cfg.Vitals.SaturationPeriod)
	applyPeriod(p.Vitals.Pressure.PeriodSeconds, &cfg.Vitals.PressurePeriod)
	applyPeriod(p.Vitals.Levels.PeriodSeconds, &cfg.Vitals.LevelsPeriod)
	applyPeriod(p.Vitals.Alert.PeriodSeconds, &cfg.Vitals.AlertPeriod)

	if p.Vitals.Saturation.Min != nil {
		cfg.Vitals.SaturationMin = *p.Vitals.Saturation.Min
	}
	if p.Vitals.Saturation.Max != nil {
		cfg.Vitals.SaturationMax = *p.Vitals.Saturation.Max
	}
	if p.Vitals.Alert.Rate != nil {
		cfg.Vitals.AlertRate = *p.Vitals.Alert.Rate
	}
	return nil
}

func applyPeriod(seconds *float64, dst *time.Duration) {
	if seconds != nil {
		*dst = secondsToDuration(*seconds)
	}
}

func secondsToDuration(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}
