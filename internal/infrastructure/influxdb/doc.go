// Package influxdb records show telemetry in InfluxDB.
//
// Two measurements are written:
//
//	cue_dispatch       one point per cue sent to an output
//	                   tags: type, source, via, status  fields: latency_ms
//	timeline_publish   one point per publish
//	                   fields: events, warnings, duration_ms
//
// Every point also carries a show tag.
//
// Writes go through the non-blocking batched write API of
// influxdb-client-go v2, so they never stall playback. Failed batches are
// reported through the SetOnError callback.
//
// # Usage
//
//	client, err := influxdb.Connect(cfg.InfluxDB, cfg.Show.ID)
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	client.WriteCueDispatch("lighting.level", "timeline", "direct", "delivered", 2*time.Millisecond)
package influxdb
