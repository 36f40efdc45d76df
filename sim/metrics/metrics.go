// Package metrics defines the Prometheus instruments shared by the scheduler,
// the sinks, and the ops endpoint. All instruments are registered on the
// default registry via promauto so that importing this package is enough to
// expose them through promhttp.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ReadingsGenerated counts readings produced by generators, per vital kind.
	ReadingsGenerated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vitalsim_readings_generated_total",
		Help: "Total number of readings produced by generators",
	}, []string{"kind"})

	// ReadingsDelivered counts readings accepted by a sink, per sink name.
	ReadingsDelivered = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vitalsim_readings_delivered_total",
		Help: "Total number of readings delivered to the output sink",
	}, []string{"sink"})

	// DeliverErrors counts readings dropped because a sink write failed.
	DeliverErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vitalsim_deliver_errors_total",
		Help: "Total number of readings dropped due to sink delivery errors",
	}, []string{"sink"})

	// TaskFaults counts faults recovered at the task boundary.
	TaskFaults = promauto.NewCounter(prometheus.CounterOpts{
		Name: "vitalsim_task_faults_total",
		Help: "Total number of faults recovered during periodic task execution",
	})

	// TaskOverruns counts executions that finished at or after their next
	// nominal fire time, i.e. fires that trigger catch-up.
	TaskOverruns = promauto.NewCounter(prometheus.CounterOpts{
		Name: "vitalsim_task_overruns_total",
		Help: "Total number of task executions that overran their period",
	})

	// ConnectedClients tracks currently connected consumers per network sink.
	ConnectedClients = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "vitalsim_connected_clients",
		Help: "Number of currently connected output clients",
	}, []string{"sink"})
)
