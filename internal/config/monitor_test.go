package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"
)

var monitorEnvKeys = []string{
	"ADDRESS", "SOURCE_HOST", "SOURCE_PORTS", "SOURCE_HEALTH_PATH", "SOURCE_METRICS_PATH",
	"SINK_URL", "KEY", "POLL_INTERVAL", "REQUEST_TIMEOUT", "PROBE_TIMEOUT",
	"STABILITY_WINDOW", "FAILURE_THRESHOLD", "BUFFER_SIZE", "DEBUG",
}

func clearMonitorEnv(t *testing.T) {
	t.Helper()
	for _, k := range monitorEnvKeys {
		t.Setenv(k, "")
	}
}

func noEnvFile(t *testing.T) string {
	t.Helper()
	return "-env=" + filepath.Join(t.TempDir(), "missing.env")
}

func defaultCandidates() []string {
	return []string{
		"http://localhost:5000", "http://localhost:5001", "http://localhost:5002",
		"http://localhost:5003", "http://localhost:5004", "http://localhost:5005",
	}
}

func TestLoadMonitorConfig(t *testing.T) {
	tests := []struct {
		env       map[string]string
		name      string
		wantError string
		args      []string
		want      MonitorConfig
	}{
		{
			name: "defaults",
			want: MonitorConfig{
				Address:          defaultListenAddr,
				Candidates:       defaultCandidates(),
				HealthPath:       defaultHealthPath,
				MetricsPath:      defaultMetricsPath,
				PollInterval:     defaultPollInterval,
				RequestTimeout:   defaultRequestTimeout,
				ProbeTimeout:     defaultProbeTimeout,
				StabilityWindow:  defaultStabilityWindow,
				FailureThreshold: defaultFailureThreshold,
				BufferSize:       defaultBufferSize,
			},
		},
		{
			name: "only flags",
			args: []string{
				"-a", "localhost:4040", "-s", "10.0.0.2", "-ports", "6000,6001",
				"-health", "health", "-metrics", "/m", "-sink", "http://ui:1420/event",
				"-k", "secret", "-p", "1s", "-t", "900ms", "-w", "3s", "-f", "3", "-b", "10", "-debug",
			},
			want: MonitorConfig{
				Address:          "localhost:4040",
				Candidates:       []string{"http://10.0.0.2:6000", "http://10.0.0.2:6001"},
				HealthPath:       "/health",
				MetricsPath:      "/m",
				SinkURL:          "http://ui:1420/event",
				Key:              "secret",
				PollInterval:     time.Second,
				RequestTimeout:   900 * time.Millisecond,
				ProbeTimeout:     defaultProbeTimeout,
				StabilityWindow:  3 * time.Second,
				FailureThreshold: 3,
				BufferSize:       10,
				Debug:            true,
			},
		},
		{
			name: "env overrides flags",
			args: []string{"-a", ":4040", "-ports", "6000", "-p", "1s", "-f", "3"},
			env: map[string]string{
				"ADDRESS":           "http://0.0.0.0:9999",
				"SOURCE_PORTS":      "7000",
				"POLL_INTERVAL":     "2s",
				"PROBE_TIMEOUT":     "50ms",
				"FAILURE_THRESHOLD": "8",
				"DEBUG":             "true",
			},
			want: MonitorConfig{
				Address:          "0.0.0.0:9999",
				Candidates:       []string{"http://localhost:7000"},
				HealthPath:       defaultHealthPath,
				MetricsPath:      defaultMetricsPath,
				PollInterval:     2 * time.Second,
				RequestTimeout:   defaultRequestTimeout,
				ProbeTimeout:     50 * time.Millisecond,
				StabilityWindow:  defaultStabilityWindow,
				FailureThreshold: 8,
				BufferSize:       defaultBufferSize,
				Debug:            true,
			},
		},
		{
			name:      "bad port",
			args:      []string{"-ports", "5000,70000"},
			wantError: "invalid source port",
		},
		{
			name:      "zero threshold",
			env:       map[string]string{"FAILURE_THRESHOLD": "0"},
			wantError: "failure threshold",
		},
		{
			name:      "bad buffer",
			env:       map[string]string{"BUFFER_SIZE": "many"},
			wantError: "buffer size",
		},
		{
			name:      "timeout longer than cadence",
			args:      []string{"-p", "100ms", "-t", "200ms"},
			wantError: "exceeds poll interval",
		},
		{
			name:      "probe longer than cadence",
			args:      []string{"-p", "150ms", "-t", "100ms"},
			wantError: "probe timeout",
		},
		{
			name:      "non-positive window",
			env:       map[string]string{"STABILITY_WINDOW": "-1s"},
			wantError: "stability window",
		},
		{
			name:      "bad sink url",
			args:      []string{"-sink", "::nope"},
			wantError: "invalid sink url",
		},
		{
			name:      "unknown flag",
			args:      []string{"-x"},
			wantError: "flag provided but not defined",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			clearMonitorEnv(t)
			for k, v := range tc.env {
				t.Setenv(k, v)
			}
			args := append([]string{noEnvFile(t)}, tc.args...)

			got, err := LoadMonitorConfig(args, nil)
			if tc.wantError != "" {
				if err == nil || !strings.Contains(err.Error(), tc.wantError) {
					t.Fatalf("err=%v, want containing %q", err, tc.wantError)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("got  %+v\nwant %+v", got, tc.want)
			}
		})
	}
}

func TestLoadMonitorConfig_DotEnv(t *testing.T) {
	clearMonitorEnv(t)
	os.Unsetenv("SINK_URL")
	os.Unsetenv("BUFFER_SIZE")
	t.Setenv("KEY", "from-process")

	path := filepath.Join(t.TempDir(), "test.env")
	content := "SINK_URL=http://desktop:1420/api/event\nBUFFER_SIZE=42\nKEY=from-file\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}

	cfg, err := LoadMonitorConfig([]string{"-env", path}, nil)
	if err != nil {
		t.Fatalf("LoadMonitorConfig: %v", err)
	}
	if cfg.SinkURL != "http://desktop:1420/api/event" {
		t.Errorf("SinkURL=%q", cfg.SinkURL)
	}
	if cfg.BufferSize != 42 {
		t.Errorf("BufferSize=%d", cfg.BufferSize)
	}
	if cfg.Key != "from-process" {
		t.Errorf("process env must win over .env, got Key=%q", cfg.Key)
	}
}

func TestNormalizeListenAddr(t *testing.T) {
	tests := map[string]string{
		"":                      defaultListenAddr,
		"3030":                  ":3030",
		"http://127.0.0.1:3030": "127.0.0.1:3030",
		"localhost:1":           "localhost:1",
	}
	for in, want := range tests {
		if got := normalizeListenAddr(in); got != want {
			t.Errorf("normalizeListenAddr(%q)=%q want %q", in, got, want)
		}
	}
}
