package output

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"

	"github.com/vitalsim/vitalsim/sim"
)

const kafkaWriteTimeout = 5 * time.Second

// KafkaSink publishes readings to a single topic, keyed by patient ID so
// that a patient's readings land on one partition in order.
type KafkaSink struct {
	w *kafka.Writer
}

// NewKafkaSink builds a writer for the given brokers and topic. The writer
// connects lazily, so an unreachable broker surfaces as Deliver errors, not
// here.
func NewKafkaSink(brokers []string, topic string) *KafkaSink {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.LeastBytes{},
		AllowAutoTopicCreation: true,
		BatchTimeout:           10 * time.Millisecond,
	}
	logrus.Infof("Kafka sink created: topic %s via %s", topic, strings.Join(brokers, ","))
	return &KafkaSink{w: w}
}

// Name implements sim.Sink.
func (k *KafkaSink) Name() string { return "kafka" }

// Deliver publishes one message and waits for the broker acknowledgement.
func (k *KafkaSink) Deliver(r sim.Reading) error {
	ctx, cancel := context.WithTimeout(context.Background(), kafkaWriteTimeout)
	defer cancel()

	if err := k.w.WriteMessages(ctx, buildMessage(r)); err != nil {
		return fmt.Errorf("write to topic %s: %w", k.w.Topic, err)
	}
	return nil
}

func buildMessage(r sim.Reading) kafka.Message {
	return kafka.Message{
		Key:   []byte(strconv.Itoa(r.PatientID)),
		Value: []byte(r.Wire()),
		Time:  time.UnixMilli(r.TimestampMillis),
	}
}

// Close flushes pending batches and releases the writer.
func (k *KafkaSink) Close() error {
	return k.w.Close()
}
