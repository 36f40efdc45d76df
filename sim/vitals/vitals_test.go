package vitals

import (
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vitalsim/vitalsim/sim"
)

func newRNG(seed int64) *sim.PartitionedRNG {
	return sim.NewPartitionedRNG(sim.NewSimulationKey(seed))
}

// === Generator set ===

func TestGenerators_FullSetWithConfiguredPeriods(t *testing.T) {
	cfg := sim.DefaultConfig().Vitals
	specs := Generators(cfg, 3, newRNG(42))

	require.Len(t, specs, 5)

	periods := map[string]string{}
	for _, spec := range specs {
		periods[spec.Gen.Kind()] = spec.Period.String()
	}
	assert.Equal(t, cfg.ECGPeriod.String(), periods[KindECG])
	assert.Equal(t, cfg.SaturationPeriod.String(), periods[KindSaturation])
	assert.Equal(t, cfg.PressurePeriod.String(), periods[KindPressure])
	assert.Equal(t, cfg.LevelsPeriod.String(), periods[KindLevels])
	assert.Equal(t, cfg.AlertPeriod.String(), periods[KindAlert])
}

// === Saturation ===

func TestSaturation_StaysInBoundsForLongSequences(t *testing.T) {
	// GIVEN a saturation generator clamped to [90, 100]
	g := NewSaturation(5, 90, 100, newRNG(42))

	// WHEN each patient produces an arbitrarily long sequence
	for id := 1; id <= 5; id++ {
		for i := 0; i < 10000; i++ {
			readings := g.Produce(id)
			require.Len(t, readings, 1)

			raw := strings.TrimSuffix(readings[0].Data, "%")
			value, err := strconv.ParseFloat(raw, 64)
			require.NoError(t, err)

			// THEN the value never leaves the clamp
			if value < 90 || value > 100 {
				t.Fatalf("patient %d tick %d: saturation %v out of [90, 100]", id, i, value)
			}
		}
	}
}

func TestSaturation_WalkMovesAtMostOneStep(t *testing.T) {
	g := NewSaturation(1, 90, 100, newRNG(42))

	prev := -1.0
	for i := 0; i < 200; i++ {
		raw := strings.TrimSuffix(g.Produce(1)[0].Data, "%")
		value, err := strconv.ParseFloat(raw, 64)
		require.NoError(t, err)
		if prev >= 0 {
			diff := value - prev
			assert.LessOrEqual(t, diff, 1.0)
			assert.GreaterOrEqual(t, diff, -1.0)
		}
		prev = value
	}
}

func TestSaturation_SameSeedSameSequence(t *testing.T) {
	// GIVEN two generators built from the same seed
	g1 := NewSaturation(2, 90, 100, newRNG(7))
	g2 := NewSaturation(2, 90, 100, newRNG(7))

	// THEN their value sequences are identical per patient
	for i := 0; i < 100; i++ {
		assert.Equal(t, g1.Produce(1)[0].Data, g2.Produce(1)[0].Data)
		assert.Equal(t, g1.Produce(2)[0].Data, g2.Produce(2)[0].Data)
	}
}

func TestSaturation_PatientsEvolveIndependently(t *testing.T) {
	// Burning patient 1's stream must not change patient 2's sequence.
	g1 := NewSaturation(2, 90, 100, newRNG(7))
	g2 := NewSaturation(2, 90, 100, newRNG(7))

	for i := 0; i < 50; i++ {
		g1.Produce(1)
	}
	for i := 0; i < 20; i++ {
		assert.Equal(t, g2.Produce(2)[0].Data, g1.Produce(2)[0].Data)
	}
}

// === Pressure ===

func TestPressure_EmitsSystolicAndDiastolicInClamps(t *testing.T) {
	g := NewPressure(3, newRNG(42))

	for id := 1; id <= 3; id++ {
		for i := 0; i < 5000; i++ {
			readings := g.Produce(id)
			require.Len(t, readings, 2)
			require.Equal(t, LabelSystolic, readings[0].Label)
			require.Equal(t, LabelDiastolic, readings[1].Label)

			sys, err := strconv.Atoi(readings[0].Data)
			require.NoError(t, err)
			dia, err := strconv.Atoi(readings[1].Data)
			require.NoError(t, err)

			if sys < 90 || sys > 180 {
				t.Fatalf("patient %d tick %d: systolic %d out of [90, 180]", id, i, sys)
			}
			if dia < 60 || dia > 120 {
				t.Fatalf("patient %d tick %d: diastolic %d out of [60, 120]", id, i, dia)
			}
		}
	}
}

func TestPressure_PairSharesOneTimestamp(t *testing.T) {
	g := NewPressure(1, newRNG(42))
	readings := g.Produce(1)
	require.Len(t, readings, 2)
	assert.Equal(t, readings[0].TimestampMillis, readings[1].TimestampMillis)
}

// === Levels ===

func TestLevels_ThreeAnalytesInPlausibleWindows(t *testing.T) {
	// Baselines are cholesterol 150-200, white 4-10, red 4.5-6; variation
	// adds at most +/-5, +/-0.5, +/-0.1 respectively.
	g := NewLevels(3, newRNG(42))

	for id := 1; id <= 3; id++ {
		for i := 0; i < 1000; i++ {
			readings := g.Produce(id)
			require.Len(t, readings, 3)

			byLabel := map[string]float64{}
			for _, r := range readings {
				v, err := strconv.ParseFloat(r.Data, 64)
				require.NoError(t, err)
				byLabel[r.Label] = v
			}

			assert.InDelta(t, 177.5, byLabel[LabelCholesterol], 32.5)
			assert.InDelta(t, 7.25, byLabel[LabelWhiteCells], 3.75)
			assert.InDelta(t, 5.3, byLabel[LabelRedCells], 0.9)
		}
	}
}

func TestLevels_HoversAroundFixedBaseline(t *testing.T) {
	// GIVEN one patient's level sequence
	g := NewLevels(1, newRNG(42))

	// WHEN sampling many ticks
	var min, max float64
	for i := 0; i < 500; i++ {
		v, err := strconv.ParseFloat(g.Produce(1)[0].Data, 64)
		require.NoError(t, err)
		if i == 0 {
			min, max = v, v
		}
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}

	// THEN the spread stays within the variation band, i.e. no drift
	assert.LessOrEqual(t, max-min, 10.0, "cholesterol drifted off its baseline")
}

// === ECG ===

func TestECG_ValuesBoundedByWaveformAmplitude(t *testing.T) {
	// Component amplitudes sum to 0.8, noise adds at most 0.025.
	g := NewECG(2, newRNG(42))

	for i := 0; i < 2000; i++ {
		readings := g.Produce(1)
		require.Len(t, readings, 1)
		require.Equal(t, LabelECG, readings[0].Label)

		v, err := strconv.ParseFloat(readings[0].Data, 64)
		require.NoError(t, err)
		assert.LessOrEqual(t, v, 0.825)
		assert.GreaterOrEqual(t, v, -0.825)
	}
}

// === Alert ===

func TestAlert_AlternatesTriggeredAndResolved(t *testing.T) {
	// GIVEN an alert generator run for many periods
	g := NewAlert(1, 0.9, newRNG(42))

	var states []string
	for i := 0; i < 5000; i++ {
		for _, r := range g.Produce(1) {
			require.Equal(t, LabelAlert, r.Label)
			states = append(states, r.Data)
		}
	}

	// THEN events strictly alternate: a trigger can only resolve, a
	// resolution can only be followed by a new trigger
	require.NotEmpty(t, states)
	assert.Equal(t, AlertTriggered, states[0])
	for i := 1; i < len(states); i++ {
		if states[i] == states[i-1] {
			t.Fatalf("event %d: %q repeated without the opposite transition", i, states[i])
		}
	}
}

func TestAlert_QuietTicksEmitNothing(t *testing.T) {
	// With a tiny rate, most ticks change nothing and emit no reading.
	g := NewAlert(1, 0.0001, newRNG(42))

	emitted := 0
	for i := 0; i < 1000; i++ {
		emitted += len(g.Produce(1))
	}
	assert.Less(t, emitted, 10, "near-zero rate should rarely emit")
}

func TestAlert_TriggerRateTracksPoissonProbability(t *testing.T) {
	// GIVEN rate 0.1, the per-tick trigger probability is 1-e^-0.1 ~ 0.095.
	// With resolve probability 0.9 the chain spends most ticks inactive, so
	// the trigger count over 20000 ticks concentrates near 0.095 * inactive.
	g := NewAlert(1, 0.1, newRNG(42))

	triggers := 0
	for i := 0; i < 20000; i++ {
		for _, r := range g.Produce(1) {
			if r.Data == AlertTriggered {
				triggers++
			}
		}
	}

	assert.Greater(t, triggers, 1200, "trigger rate far below the Poisson law")
	assert.Less(t, triggers, 2400, "trigger rate far above the Poisson law")
}
