// Package influxdb provides InfluxDB connectivity for luxctl.
//
// A Recorder turns each completed cycle into points: one for the reading
// and one per executed action. Points are batched by the client and sent
// in the background.
//
// # Measurements
//
//	illuminance   tags: site         fields: lux
//	action_fired  tags: site, scope  fields: level, delay, ok, run_id
//
// # Usage
//
//	client, err := influxdb.Connect(ctx, cfg.InfluxDB, logger)
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	runner.AddObserver(influxdb.NewRecorder(client, cfg.Site.ID))
//
// # Error Handling
//
// Connect returns ErrConnectionFailed when the server cannot be pinged.
// Rejected batches are logged as warnings and never reach the cycle.
package influxdb
