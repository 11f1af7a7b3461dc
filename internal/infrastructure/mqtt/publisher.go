package mqtt

import (
	"context"
	"encoding/json"
	"time"

	"github.com/nerrad567/luxctl/internal/action"
)

// Publisher announces completed cycles over MQTT.
// It implements action.Observer.
type Publisher struct {
	client publisher
	topics Topics
	logger Logger
}

// publisher is the subset of *Client used by Publisher.
type publisher interface {
	Publish(topic string, payload []byte, retained bool) error
}

// illuminancePayload is published retained on the illuminance topic.
type illuminancePayload struct {
	Lux       int    `json:"lux"`
	CycleID   string `json:"cycle_id"`
	Timestamp string `json:"timestamp"`
}

// actionPayload is published for every executed action.
type actionPayload struct {
	CycleID   string `json:"cycle_id"`
	Scope     string `json:"scope"`
	Level     int    `json:"level"`
	Observed  int    `json:"observed"`
	Delay     int    `json:"delay"`
	Command   string `json:"command"`
	OK        bool   `json:"ok"`
	Error     string `json:"error,omitempty"`
	Timestamp string `json:"timestamp"`
}

// NewPublisher creates a Publisher sending through client and logging
// failures to the client's logger.
func NewPublisher(client *Client) *Publisher {
	return &Publisher{
		client: client,
		topics: client.Topics(),
		logger: client.logger,
	}
}

// ObserveCycle publishes the reading and one event per execution.
// Publish failures are logged and otherwise ignored.
func (p *Publisher) ObserveCycle(_ context.Context, cycle *action.Cycle) {
	reading, err := json.Marshal(illuminancePayload{
		Lux:       cycle.Level,
		CycleID:   cycle.ID,
		Timestamp: cycle.StartedAt.UTC().Format(time.RFC3339),
	})
	if err == nil {
		err = p.client.Publish(p.topics.Illuminance(), reading, true)
	}
	if err != nil {
		p.warn("publishing illuminance failed", "cycle_id", cycle.ID, "error", err)
	}

	for _, exec := range cycle.Executions {
		payload := actionPayload{
			CycleID:   cycle.ID,
			Scope:     exec.Scope,
			Level:     exec.Level,
			Observed:  cycle.Level,
			Delay:     exec.Delay,
			Command:   exec.Command,
			OK:        exec.Err == nil,
			Timestamp: exec.StartedAt.UTC().Format(time.RFC3339),
		}
		if exec.Err != nil {
			payload.Error = exec.Err.Error()
		}

		data, err := json.Marshal(payload)
		if err == nil {
			err = p.client.Publish(p.topics.Action(exec.Scope), data, false)
		}
		if err != nil {
			p.warn("publishing action event failed", "cycle_id", cycle.ID, "scope", exec.Scope, "error", err)
		}
	}
}

func (p *Publisher) warn(msg string, args ...any) {
	if p.logger != nil {
		p.logger.Warn(msg, args...)
	}
}

var _ action.Observer = (*Publisher)(nil)
