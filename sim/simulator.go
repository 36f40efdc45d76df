// sim/simulator.go
package sim

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/vitalsim/vitalsim/sim/metrics"
)

// Simulator is the composition root for one run: it owns the scheduler, the
// configured sink, and the generator set, and builds one task per
// (patient, generator-kind) pair. Several independent Simulators can coexist
// in one process; there is no shared global state.
type Simulator struct {
	cfg   Config
	sink  Sink
	specs []GeneratorSpec
	rng   *PartitionedRNG
	sched *Scheduler

	startedAt time.Time
	delivered atomic.Int64
}

// Status is the snapshot served by the ops endpoint.
type Status struct {
	Patients          int     `json:"patients"`
	Sink              string  `json:"sink"`
	UptimeSeconds     float64 `json:"uptimeSeconds"`
	ReadingsDelivered int64   `json:"readingsDelivered"`
}

// NewSimulator creates a Simulator from a validated Config and the sink every
// task delivers to. A Seed of 0 is replaced with the wall clock so unseeded
// runs still differ. Generators are attached afterwards with Register, which
// lets their constructors claim streams from this simulator's RNG.
func NewSimulator(cfg Config, sink Sink) *Simulator {
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Simulator{
		cfg:  cfg,
		sink: sink,
		rng:  NewPartitionedRNG(NewSimulationKey(seed)),
	}
}

// RNG exposes the run's partitioned RNG so generator constructors can claim
// their per-(kind, patient) streams before Start.
func (s *Simulator) RNG() *PartitionedRNG {
	return s.rng
}

// Register attaches generators to the run. Must be called before Start.
func (s *Simulator) Register(specs ...GeneratorSpec) {
	s.specs = append(s.specs, specs...)
}

// Start builds and registers every task, then launches the scheduler.
// Patient IDs are scheduled in shuffled order and each task gets an
// independent initial delay in [0, JitterMax] so first fires do not
// coincide across patients.
func (s *Simulator) Start() {
	s.startedAt = time.Now()
	s.sched = NewScheduler(s.cfg.PatientCount * s.cfg.WorkersPerPatient)

	patientIDs := make([]int, s.cfg.PatientCount)
	for i := range patientIDs {
		patientIDs[i] = i + 1
	}
	driverRNG := s.rng.ForStream(StreamDriver)
	driverRNG.Shuffle(len(patientIDs), func(i, j int) {
		patientIDs[i], patientIDs[j] = patientIDs[j], patientIDs[i]
	})

	for _, id := range patientIDs {
		for _, spec := range s.specs {
			jitter := time.Duration(0)
			if s.cfg.JitterMax > 0 {
				jitter = time.Duration(driverRNG.Int63n(int64(s.cfg.JitterMax) + 1))
			}
			s.sched.Schedule(&Task{
				Name:      fmt.Sprintf("%s/patient_%d", spec.Gen.Kind(), id),
				PatientID: id,
				Body:      s.taskBody(spec.Gen, id),
			}, jitter, spec.Period)
		}
	}

	s.sched.Start()
	logrus.Infof("Simulation started: %d patients, %d generators, output=%s",
		s.cfg.PatientCount, len(s.specs), s.sink.Name())
}

// Stop halts the scheduler and waits for in-flight task executions.
// The sink is left open; the driver owns its lifecycle.
func (s *Simulator) Stop() {
	if s.sched != nil {
		s.sched.Stop()
	}
	logrus.Info("Simulation stopped.")
}

// Status reports a point-in-time snapshot for the ops endpoint.
func (s *Simulator) Status() Status {
	return Status{
		Patients:          s.cfg.PatientCount,
		Sink:              s.sink.Name(),
		UptimeSeconds:     time.Since(s.startedAt).Seconds(),
		ReadingsDelivered: s.delivered.Load(),
	}
}

// taskBody builds the periodic body for one (generator, patient) task:
// produce readings, clamp timestamps to be non-decreasing within this task,
// and forward each reading to the sink. Delivery failures drop that one
// reading and never propagate; generator panics are contained by the
// scheduler's fault boundary.
func (s *Simulator) taskBody(g Generator, patientID int) func() {
	// Owned exclusively by this task; tasks execute serially with respect
	// to themselves, so no locking.
	var lastTS int64

	return func() {
		readings := g.Produce(patientID)
		metrics.ReadingsGenerated.WithLabelValues(g.Kind()).Add(float64(len(readings)))

		for _, r := range readings {
			if r.TimestampMillis < lastTS {
				r.TimestampMillis = lastTS
			}
			lastTS = r.TimestampMillis

			if err := s.sink.Deliver(r); err != nil {
				metrics.DeliverErrors.WithLabelValues(s.sink.Name()).Inc()
				logrus.Errorf("Dropped %s reading for patient %d: %v", r.Label, r.PatientID, err)
				continue
			}
			s.delivered.Add(1)
			metrics.ReadingsDelivered.WithLabelValues(s.sink.Name()).Inc()
		}
	}
}
