package influxdb

import (
	"context"
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"

	"github.com/nerrad567/luxctl/internal/action"
)

// Measurement names.
const (
	MeasurementIlluminance = "illuminance"
	MeasurementActionFired = "action_fired"
)

// pointWriter is the subset of *Client used by Recorder.
type pointWriter interface {
	WritePoint(p *write.Point)
}

// Recorder writes every completed cycle to InfluxDB.
// It implements action.Observer.
type Recorder struct {
	w    pointWriter
	site string
}

// NewRecorder creates a Recorder tagging points with site.
func NewRecorder(w pointWriter, site string) *Recorder {
	return &Recorder{w: w, site: site}
}

// ObserveCycle writes the reading and one point per execution.
func (r *Recorder) ObserveCycle(_ context.Context, cycle *action.Cycle) {
	r.w.WritePoint(illuminancePoint(r.site, cycle.Level, cycle.StartedAt))

	for _, exec := range cycle.Executions {
		r.w.WritePoint(actionFiredPoint(r.site, cycle.ID, exec))
	}
}

// illuminancePoint is one sensor reading.
func illuminancePoint(site string, lux int, at time.Time) *write.Point {
	return write.NewPoint(MeasurementIlluminance,
		map[string]string{"site": site},
		map[string]interface{}{"lux": lux},
		at,
	)
}

// actionFiredPoint is one executed action, stamped with its start time.
// run_id ties it to the cycle's log lines and MQTT events.
func actionFiredPoint(site, cycleID string, exec action.Execution) *write.Point {
	return write.NewPoint(MeasurementActionFired,
		map[string]string{
			"site":  site,
			"scope": exec.Scope,
		},
		map[string]interface{}{
			"level":  exec.Level,
			"delay":  exec.Delay,
			"ok":     exec.Err == nil,
			"run_id": cycleID,
		},
		exec.StartedAt,
	)
}

var _ action.Observer = (*Recorder)(nil)
