package influxdb

import "time"

// Measurement names.
const (
	MeasurementCueDispatch     = "cue_dispatch"
	MeasurementTimelinePublish = "timeline_publish"
)

// WriteCueDispatch records the outcome of sending one cue to an output.
// source is "timeline" or "trigger"; via is the delivery path and may be
// empty for disabled or failed sends.
func (c *Client) WriteCueDispatch(cueType, source, via, status string, latency time.Duration) {
	if via == "" {
		via = "none"
	}
	c.WritePoint(MeasurementCueDispatch,
		map[string]string{
			"type":   cueType,
			"source": source,
			"via":    via,
			"status": status,
		},
		map[string]any{
			"latency_ms": float64(latency) / float64(time.Millisecond),
		},
	)
}

// WriteTimelinePublish records one publish.
func (c *Client) WriteTimelinePublish(events, warnings int, duration time.Duration) {
	c.WritePoint(MeasurementTimelinePublish,
		nil,
		map[string]any{
			"events":      events,
			"warnings":    warnings,
			"duration_ms": duration.Milliseconds(),
		},
	)
}

// WritePoint writes a point stamped with the current time. It is dropped
// when the client is not connected.
func (c *Client) WritePoint(measurement string, tags map[string]string, fields map[string]any) {
	if !c.IsConnected() || c.emit == nil {
		return
	}
	c.emit(measurement, tags, fields, c.now())
}
