package sensor

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"strconv"
	"strings"
)

// File reads an integer attribute file, such as the Linux IIO
// in_illuminance_raw or in_illuminance_input attribute.
type File struct {
	path string
}

// NewFile creates a File sensor for path.
func NewFile(path string) *File {
	return &File{path: path}
}

// Level reads and parses the attribute. A missing file means the driver is
// not loaded. Fractional readings are rounded to the nearest lux.
func (f *File) Level(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	data, err := os.ReadFile(f.path)
	if err != nil {
		kind := KindReadFailure
		if errors.Is(err, fs.ErrNotExist) {
			kind = KindDriverMissing
		}
		return 0, &Error{Kind: kind, Source: f.path, Err: err}
	}

	text := strings.TrimSpace(string(data))
	if n, err := strconv.Atoi(text); err == nil {
		if n < 0 {
			return 0, &Error{Kind: KindReadFailure, Source: f.path, Err: fmt.Errorf("negative reading %d", n)}
		}
		return n, nil
	}

	v, err := strconv.ParseFloat(text, 64)
	if err != nil || v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, &Error{Kind: KindReadFailure, Source: f.path, Err: fmt.Errorf("invalid reading %q", text)}
	}
	return int(math.Round(v)), nil
}
