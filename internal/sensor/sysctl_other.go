//go:build !freebsd

package sensor

import (
	"context"
	"errors"
)

var errNoSysctl = errors.New("sysctl sensor is only available on FreeBSD")

// Level always fails: the bh1750 sysctl node exists only on FreeBSD.
func (s *Sysctl) Level(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	return 0, &Error{Kind: KindDriverMissing, Source: s.oid, Err: errNoSysctl}
}
