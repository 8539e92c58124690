// Package influxdb provides optional time-series telemetry for BeaconTrack Core.
//
// When enabled, every merged device position is written to the configured
// bucket as a "position" measurement tagged by device address. Writes are
// batched and non-blocking so the tracking loop never waits on the store.
//
// # Usage
//
//	client, err := influxdb.Connect(cfg.InfluxDB)
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	client.WritePosition(101, 3.21, 4.87, 78)
//
// Asynchronous write failures are delivered through SetOnError; callers
// typically log them and carry on.
package influxdb
