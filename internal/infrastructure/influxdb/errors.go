package influxdb

import "errors"

// ErrConnectionFailed is returned when Connect cannot reach a ready server.
var ErrConnectionFailed = errors.New("influxdb: cannot reach server")
