package cmd

import (
	"fmt"
	"strconv"
	"strings"
)

// OutputKind names the supported sink families.
type OutputKind string

const (
	OutputConsole   OutputKind = "console"
	OutputFile      OutputKind = "file"
	OutputTCP       OutputKind = "tcp"
	OutputWebSocket OutputKind = "websocket"
	OutputKafka     OutputKind = "kafka"
	OutputMQTT      OutputKind = "mqtt"
)

// OutputSpec is a parsed --output value. Only the fields for Kind are set.
type OutputSpec struct {
	Kind      OutputKind
	Directory string   // file
	Port      int      // tcp, websocket
	Brokers   []string // kafka
	Topic     string   // kafka
	BrokerURL string   // mqtt
	Prefix    string   // mqtt
}

// ParseOutputSpec parses an --output value. The caller treats an error as a
// warning and falls back to console output.
func ParseOutputSpec(raw string) (OutputSpec, error) {
	kind, rest, _ := strings.Cut(raw, ":")
	switch OutputKind(kind) {
	case OutputConsole:
		if rest != "" {
			return OutputSpec{}, fmt.Errorf("console output takes no argument, got %q", raw)
		}
		return OutputSpec{Kind: OutputConsole}, nil

	case OutputFile:
		if rest == "" {
			return OutputSpec{}, fmt.Errorf("file output needs a directory, e.g. file:./output")
		}
		return OutputSpec{Kind: OutputFile, Directory: rest}, nil

	case OutputTCP, OutputWebSocket:
		port, err := parsePort(rest)
		if err != nil {
			return OutputSpec{}, err
		}
		return OutputSpec{Kind: OutputKind(kind), Port: port}, nil

	case OutputKafka:
		idx := strings.LastIndex(rest, "/")
		if idx <= 0 || idx == len(rest)-1 {
			return OutputSpec{}, fmt.Errorf("kafka output needs brokers and a topic, e.g. kafka:localhost:9092/vitals")
		}
		return OutputSpec{
			Kind:    OutputKafka,
			Brokers: strings.Split(rest[:idx], ","),
			Topic:   rest[idx+1:],
		}, nil

	case OutputMQTT:
		idx := strings.LastIndex(rest, "/")
		if idx <= 0 || idx == len(rest)-1 {
			return OutputSpec{}, fmt.Errorf("mqtt output needs a broker URL and a topic prefix, e.g. mqtt:tcp://localhost:1883/vitals")
		}
		return OutputSpec{
			Kind:      OutputMQTT,
			BrokerURL: rest[:idx],
			Prefix:    rest[idx+1:],
		}, nil

	default:
		return OutputSpec{}, fmt.Errorf("unknown output type %q", raw)
	}
}

func parsePort(s string) (int, error) {
	port, err := strconv.Atoi(s)
	if err != nil || port < 1 || port > 65535 {
		return 0, fmt.Errorf("invalid port %q: must be an integer in 1-65535", s)
	}
	return port, nil
}
