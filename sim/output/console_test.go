package output

import (
	"bytes"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vitalsim/vitalsim/sim"
)

func TestConsoleSink_WritesProseLine(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsoleSink(&buf)

	r := sim.Reading{PatientID: 1, TimestampMillis: 1000, Label: "ECG", Data: "0.5"}
	require.NoError(t, c.Deliver(r))

	assert.Equal(t, "Patient ID: 1, Timestamp: 1000, Label: ECG, Data: 0.5\n", buf.String())
}

func TestConsoleSink_ConcurrentLinesNeverInterleave(t *testing.T) {
	// GIVEN 20 tasks hammering one console sink
	var buf bytes.Buffer
	c := NewConsoleSink(&buf)

	var wg sync.WaitGroup
	for id := 1; id <= 20; id++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				_ = c.Deliver(sim.Reading{
					PatientID:       id,
					TimestampMillis: int64(i),
					Label:           "ECG",
					Data:            fmt.Sprintf("%d-%d", id, i),
				})
			}
		}(id)
	}
	wg.Wait()

	// THEN every line is intact and the count matches
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	assert.Len(t, lines, 20*50)
	for _, line := range lines {
		assert.True(t, strings.HasPrefix(line, "Patient ID: "), "corrupted line: %q", line)
	}
}

func TestConsoleSink_CloseLeavesStreamOpen(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsoleSink(&buf)
	require.NoError(t, c.Close())

	// The sink does not own the stream; delivery still works.
	assert.NoError(t, c.Deliver(sim.Reading{PatientID: 1, Label: "ECG"}))
}
