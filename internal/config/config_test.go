package config

import (
	"os"
	"sync"
	"testing"
)

func TestLoad(t *testing.T) {
	tempConfig := `resample:
  spline_order: 3
  timedelta_minutes: 15
  max_interval_minutes: 120
  mode: "bspline"
  keep_old: true
server:
  addr: ":9090"
  cache_ttl_seconds: 30
`
	tmpFile, err := os.CreateTemp("", "config-*.yaml")
	if err != nil {
		t.Fatalf("Failed to create temp file: %v", err)
	}
	defer os.Remove(tmpFile.Name())

	if _, err := tmpFile.Write([]byte(tempConfig)); err != nil {
		t.Fatalf("Failed to write temp file: %v", err)
	}
	tmpFile.Close()

	instance = nil
	once = *new(sync.Once)

	cfg, err := Load(tmpFile.Name())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg == nil {
		t.Fatal("Load() returned nil config")
	}

	if cfg.Resample.SplineOrder != 3 {
		t.Errorf("Expected spline order 3, got %d", cfg.Resample.SplineOrder)
	}

	if cfg.Resample.TimedeltaMinutes != 15 {
		t.Errorf("Expected timedelta 15, got %d", cfg.Resample.TimedeltaMinutes)
	}

	if cfg.Resample.Mode != "bspline" {
		t.Errorf("Expected mode 'bspline', got '%s'", cfg.Resample.Mode)
	}

	if !cfg.Resample.KeepOld {
		t.Error("Expected keep_old to be true")
	}

	if cfg.Server.Addr != ":9090" {
		t.Errorf("Expected server addr ':9090', got '%s'", cfg.Server.Addr)
	}
}

func TestLoad_Defaults(t *testing.T) {
	instance = nil
	once = *new(sync.Once)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Resample.SplineOrder != 1 {
		t.Errorf("Expected default spline order 1, got %d", cfg.Resample.SplineOrder)
	}

	if cfg.Resample.TimedeltaMinutes != 60 {
		t.Errorf("Expected default timedelta 60, got %d", cfg.Resample.TimedeltaMinutes)
	}

	if cfg.Resample.Mode != "interp1d" {
		t.Errorf("Expected default mode 'interp1d', got '%s'", cfg.Resample.Mode)
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	tmpFile, err := os.CreateTemp("", "config-*.yaml")
	if err != nil {
		t.Fatalf("Failed to create temp file: %v", err)
	}
	defer os.Remove(tmpFile.Name())

	tmpFile.Write([]byte("invalid: [yaml: content"))
	tmpFile.Close()

	instance = nil
	once = *new(sync.Once)

	_, err = Load(tmpFile.Name())
	if err == nil {
		t.Error("Expected error for invalid YAML, got nil")
	}
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{
			name: "order out of range",
			yaml: "resample:\n  spline_order: 7\n  timedelta_minutes: 60\n  mode: interp1d\n",
		},
		{
			name: "zero timedelta",
			yaml: "resample:\n  spline_order: 1\n  timedelta_minutes: 0\n  mode: interp1d\n",
		},
		{
			name: "unknown mode",
			yaml: "resample:\n  spline_order: 1\n  timedelta_minutes: 60\n  mode: cubic\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpFile, err := os.CreateTemp("", "config-*.yaml")
			if err != nil {
				t.Fatalf("Failed to create temp file: %v", err)
			}
			defer os.Remove(tmpFile.Name())

			tmpFile.Write([]byte(tt.yaml))
			tmpFile.Close()

			instance = nil
			once = *new(sync.Once)

			if _, err := Load(tmpFile.Name()); err == nil {
				t.Error("Expected validation error, got nil")
			}
		})
	}
}

func TestGet_PanicsWithoutLoad(t *testing.T) {
	instance = nil
	once = *new(sync.Once)

	defer func() {
		if r := recover(); r == nil {
			t.Error("Expected Get() to panic without Load()")
		}
	}()
	Get()
}
