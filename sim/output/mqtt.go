package output

import (
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/vitalsim/vitalsim/sim"
)

const (
	mqttConnectTimeout = 10 * time.Second
	mqttPublishTimeout = 5 * time.Second
)

// MQTTSink publishes each reading to <prefix>/<patientID>/<label> at QoS 0.
type MQTTSink struct {
	client mqtt.Client
	prefix string
}

// NewMQTTSink connects to the broker eagerly; an unreachable broker is an
// error here rather than on every Deliver.
func NewMQTTSink(brokerURL, prefix string) (*MQTTSink, error) {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(brokerURL)
	opts.SetClientID("vitalsim-" + uuid.NewString()[:8])
	opts.SetConnectTimeout(mqttConnectTimeout)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("connect to broker %s: %w", brokerURL, token.Error())
	}

	logrus.Infof("MQTT sink connected to %s, topic prefix %s", brokerURL, prefix)
	return &MQTTSink{client: client, prefix: prefix}, nil
}

// Name implements sim.Sink.
func (m *MQTTSink) Name() string { return "mqtt" }

// Deliver publishes one reading and waits for the send to complete.
func (m *MQTTSink) Deliver(r sim.Reading) error {
	topic := fmt.Sprintf("%s/%d/%s", m.prefix, r.PatientID, r.Label)
	token := m.client.Publish(topic, 0, false, r.Wire())
	if !token.WaitTimeout(mqttPublishTimeout) {
		return fmt.Errorf("publish to %s: timed out after %s", topic, mqttPublishTimeout)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("publish to %s: %w", topic, err)
	}
	return nil
}

// Close disconnects from the broker, allowing in-flight publishes 250ms to
// finish.
func (m *MQTTSink) Close() error {
	m.client.Disconnect(250)
	return nil
}
