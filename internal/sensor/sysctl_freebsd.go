//go:build freebsd

package sensor

import (
	"context"
	"errors"

	"golang.org/x/sys/unix"
)

// Level reads the sysctl node. An unknown OID means the driver is not loaded.
func (s *Sysctl) Level(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	v, err := unix.SysctlUint32(s.oid)
	if err != nil {
		kind := KindReadFailure
		if errors.Is(err, unix.ENOENT) {
			kind = KindDriverMissing
		}
		return 0, &Error{Kind: kind, Source: s.oid, Err: err}
	}
	return int(v), nil
}
