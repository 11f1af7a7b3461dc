package sensor

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/nerrad567/luxctl/internal/infrastructure/config"
)

func writeAttr(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "in_illuminance_raw")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("writing attribute: %v", err)
	}
	return path
}

func TestFile_Level(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    int
		wantErr bool
	}{
		{"integer", "412\n", 412, false},
		{"zero", "0", 0, false},
		{"fractional rounds", "12.6\n", 13, false},
		{"garbage", "lux\n", 0, true},
		{"empty", "", 0, true},
		{"negative", "-3\n", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewFile(writeAttr(t, tt.content))
			got, err := s.Level(context.Background())
			if (err != nil) != tt.wantErr {
				t.Fatalf("Level() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				if IsDriverMissing(err) {
					t.Errorf("bad content reported as missing driver: %v", err)
				}
				return
			}
			if got != tt.want {
				t.Errorf("Level() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestFile_Missing(t *testing.T) {
	s := NewFile(filepath.Join(t.TempDir(), "absent"))
	_, err := s.Level(context.Background())
	if !IsDriverMissing(err) {
		t.Fatalf("Level() error = %v, want driver missing", err)
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("error does not unwrap to os.ErrNotExist: %v", err)
	}
}

func TestFixed_Level(t *testing.T) {
	got, err := Fixed(75).Level(context.Background())
	if err != nil || got != 75 {
		t.Errorf("Level() = %d, %v; want 75, nil", got, err)
	}
}

func TestSysctl_NonFreeBSD(t *testing.T) {
	if runtime.GOOS == "freebsd" {
		t.Skip("sysctl node may exist on FreeBSD")
	}
	_, err := NewSysctl("dev.bh1750.0.illuminance").Level(context.Background())
	if !IsDriverMissing(err) {
		t.Errorf("Level() error = %v, want driver missing", err)
	}
}

func TestSysctl_UnknownOID(t *testing.T) {
	_, err := NewSysctl("dev.luxctl_test_absent.0.illuminance").Level(context.Background())
	if !IsDriverMissing(err) {
		t.Errorf("Level() error = %v, want driver missing", err)
	}
}

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.SensorConfig
		want    any
		wantErr bool
	}{
		{"sysctl", config.SensorConfig{Source: config.SensorSysctl, OID: "dev.bh1750.0.illuminance"}, &Sysctl{}, false},
		{"file", config.SensorConfig{Source: config.SensorFile, Path: "/tmp/x"}, &File{}, false},
		{"fixed", config.SensorConfig{Source: config.SensorFixed, Level: 9}, Fixed(0), false},
		{"unknown", config.SensorConfig{Source: "camera"}, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := New(tt.cfg)
			if (err != nil) != tt.wantErr {
				t.Fatalf("New() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				return
			}
			switch tt.want.(type) {
			case *Sysctl:
				if _, ok := s.(*Sysctl); !ok {
					t.Errorf("New() = %T, want *Sysctl", s)
				}
			case *File:
				if _, ok := s.(*File); !ok {
					t.Errorf("New() = %T, want *File", s)
				}
			case Fixed:
				if _, ok := s.(Fixed); !ok {
					t.Errorf("New() = %T, want Fixed", s)
				}
			}
		})
	}
}

func TestError_Message(t *testing.T) {
	err := &Error{Kind: KindDriverMissing, Source: "dev.bh1750.0.illuminance", Err: errors.New("no such file or directory")}
	want := "sensor dev.bh1750.0.illuminance: driver not loaded: no such file or directory"
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if KindReadFailure.String() != "read failure" {
		t.Errorf("KindReadFailure.String() = %q", KindReadFailure.String())
	}
}
