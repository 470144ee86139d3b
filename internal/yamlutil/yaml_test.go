package yamlutil_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/alnah/go-c2md/internal/yamlutil"
)

type testConfig struct {
	Host    string `yaml:"host"`
	Timeout string `yaml:"timeout"`
	Enabled bool   `yaml:"enabled"`
}

func TestUnmarshalStrict(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		data      []byte
		dest      any
		wantErr   error
		wantInErr string
		check     func(t *testing.T, v any)
	}{
		{
			name: "valid YAML",
			data: []byte("host: log.concept2.com\ntimeout: 30s\nenabled: true"),
			dest: &testConfig{},
			check: func(t *testing.T, v any) {
				cfg := v.(*testConfig)
				if cfg.Host != "log.concept2.com" || cfg.Timeout != "30s" || !cfg.Enabled {
					t.Errorf("decoded = %+v", cfg)
				}
			},
		},
		{
			name: "absent fields keep existing values",
			data: []byte("host: other.test"),
			dest: &testConfig{Timeout: "10s", Enabled: true},
			check: func(t *testing.T, v any) {
				cfg := v.(*testConfig)
				if cfg.Timeout != "10s" || !cfg.Enabled {
					t.Errorf("defaults lost: %+v", cfg)
				}
			},
		},
		{
			name:    "nil data",
			data:    nil,
			dest:    &testConfig{},
			wantErr: yamlutil.ErrNilData,
		},
		{
			name:    "nil destination",
			data:    []byte("host: x"),
			dest:    nil,
			wantErr: yamlutil.ErrNilDestination,
		},
		{
			name:    "too large",
			data:    []byte("host: " + strings.Repeat("a", yamlutil.MaxInputSize)),
			dest:    &testConfig{},
			wantErr: yamlutil.ErrInputTooLarge,
		},
		{
			name:      "unknown field",
			data:      []byte("host: x\ncolour: red"),
			dest:      &testConfig{},
			wantInErr: "yamlutil:",
		},
		{
			name:      "invalid syntax",
			data:      []byte("host: [unclosed"),
			dest:      &testConfig{},
			wantInErr: "yamlutil:",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := yamlutil.UnmarshalStrict(tt.data, tt.dest)

			switch {
			case tt.wantErr != nil:
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("error = %v, want %v", err, tt.wantErr)
				}
			case tt.wantInErr != "":
				if err == nil || !strings.Contains(err.Error(), tt.wantInErr) {
					t.Fatalf("error = %v, want it to contain %q", err, tt.wantInErr)
				}
			default:
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				tt.check(t, tt.dest)
			}
		})
	}
}

func TestMarshal(t *testing.T) {
	t.Parallel()

	out, err := yamlutil.Marshal(testConfig{Host: "log.concept2.com", Enabled: true})
	if err != nil {
		t.Fatalf("Marshal() unexpected error: %v", err)
	}

	for _, want := range []string{"host: log.concept2.com", "enabled: true"} {
		if !strings.Contains(string(out), want) {
			t.Errorf("Marshal() output %q missing %q", out, want)
		}
	}

	var back testConfig
	if err := yamlutil.UnmarshalStrict(out, &back); err != nil {
		t.Fatalf("UnmarshalStrict(Marshal()) error: %v", err)
	}
	if back.Host != "log.concept2.com" {
		t.Errorf("decoded Host = %q", back.Host)
	}
}
