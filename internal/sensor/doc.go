// Package sensor reads the ambient light level from a BH1750 sensor.
//
// Three sources are supported:
//   - sysctl: the FreeBSD bh1750 driver's sysctl node (default)
//   - file:   an integer attribute file such as a Linux IIO sysfs node
//   - fixed:  a constant, for testing and dry runs
//
// Every failure is an *Error whose Kind tells a missing driver apart from
// a failed read, so callers can map them to distinct exit statuses.
package sensor
