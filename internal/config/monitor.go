// Package config resolves runtime settings for the focus monitor.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultListenAddr       = "127.0.0.1:3030"
	defaultSourceHost       = "http://localhost"
	defaultHealthPath       = "/api/metrics"
	defaultMetricsPath      = "/api/metrics"
	defaultPollInterval     = 500 * time.Millisecond
	defaultRequestTimeout   = 400 * time.Millisecond
	defaultProbeTimeout     = 200 * time.Millisecond
	defaultStabilityWindow  = 2 * time.Second
	defaultFailureThreshold = 5
	defaultBufferSize       = 100
	defaultEnvFile          = ".env"
)

var defaultSourcePorts = []string{"5000", "5001", "5002", "5003", "5004", "5005"}

type MonitorConfig struct {
	Address          string
	Candidates       []string
	HealthPath       string
	MetricsPath      string
	SinkURL          string
	Key              string
	PollInterval     time.Duration
	RequestTimeout   time.Duration
	ProbeTimeout     time.Duration
	StabilityWindow  time.Duration
	FailureThreshold int
	BufferSize       int
	Debug            bool
}

// LoadMonitorConfig merges .env, ENV, CLI flags and defaults (ENV > CLI > defaults).
// Variables already present in the process environment are never overridden by the .env file.
func LoadMonitorConfig(args []string, out io.Writer) (MonitorConfig, error) {
	if out == nil {
		out = io.Discard
	}

	fs := flag.NewFlagSet("monitor", flag.ContinueOnError)
	fs.SetOutput(out)

	var (
		addrOpt, hostOpt, portsOpt, healthOpt, metricsOpt string
		sinkOpt, keyOpt, envFileOpt                      string
		pollOpt, reqOpt, windowOpt                       time.Duration
		thresholdOpt, bufferOpt                          int
		debugOpt                                         bool
	)

	fs.StringVar(&addrOpt, "a", "", fmt.Sprintf("HTTP listen address, default: %s", defaultListenAddr))
	fs.StringVar(&hostOpt, "s", "", fmt.Sprintf("metrics source host, default: %s", defaultSourceHost))
	fs.StringVar(&portsOpt, "ports", "", fmt.Sprintf("candidate source ports in priority order, default: %s", strings.Join(defaultSourcePorts, ",")))
	fs.StringVar(&healthOpt, "health", "", fmt.Sprintf("source health probe path, default: %s", defaultHealthPath))
	fs.StringVar(&metricsOpt, "metrics", "", fmt.Sprintf("source metrics path, default: %s", defaultMetricsPath))
	fs.StringVar(&sinkOpt, "sink", "", "desktop sink URL receiving every event (empty: log only)")
	fs.StringVar(&keyOpt, "k", "", "secret key for HashSHA256 signatures")
	fs.StringVar(&envFileOpt, "env", defaultEnvFile, "dotenv file loaded before reading the environment")
	fs.DurationVar(&pollOpt, "p", 0, fmt.Sprintf("poll interval, default: %s", defaultPollInterval))
	fs.DurationVar(&reqOpt, "t", 0, fmt.Sprintf("per-request timeout, default: %s", defaultRequestTimeout))
	fs.DurationVar(&windowOpt, "w", 0, fmt.Sprintf("focus stability window, default: %s", defaultStabilityWindow))
	fs.IntVar(&thresholdOpt, "f", 0, fmt.Sprintf("consecutive failures before disconnect, default: %d", defaultFailureThreshold))
	fs.IntVar(&bufferOpt, "b", 0, fmt.Sprintf("per-subscriber buffer size, default: %d", defaultBufferSize))
	fs.BoolVar(&debugOpt, "debug", false, "development logging")

	if err := fs.Parse(args); err != nil {
		return MonitorConfig{}, err
	}

	if err := loadDotEnv(envFileOpt); err != nil {
		return MonitorConfig{}, err
	}

	addr := normalizeListenAddr(FromEnvOrFlag("ADDRESS", addrOpt, defaultListenAddr))
	if _, port, err := net.SplitHostPort(addr); err != nil || port == "" {
		return MonitorConfig{}, fmt.Errorf("invalid listen address: %q", addr)
	}

	host := normalizeSourceHost(FromEnvOrFlag("SOURCE_HOST", hostOpt, defaultSourceHost))
	if u, err := url.ParseRequestURI(host); err != nil || u.Host == "" {
		return MonitorConfig{}, fmt.Errorf("invalid source host: %q", host)
	}

	ports := FromEnvOrFlagList("SOURCE_PORTS", portsOpt, defaultSourcePorts)
	candidates, err := buildCandidates(host, ports)
	if err != nil {
		return MonitorConfig{}, err
	}

	threshold, ok := FromEnvOrFlagInt("FAILURE_THRESHOLD", thresholdOpt, 0, defaultFailureThreshold)
	if !ok || threshold < 1 {
		return MonitorConfig{}, fmt.Errorf("failure threshold must be >= 1")
	}
	buffer, ok := FromEnvOrFlagInt("BUFFER_SIZE", bufferOpt, 0, defaultBufferSize)
	if !ok || buffer < 1 {
		return MonitorConfig{}, fmt.Errorf("buffer size must be >= 1")
	}

	cfg := MonitorConfig{
		Address:          addr,
		Candidates:       candidates,
		HealthPath:       normalizePath(FromEnvOrFlag("SOURCE_HEALTH_PATH", healthOpt, defaultHealthPath)),
		MetricsPath:      normalizePath(FromEnvOrFlag("SOURCE_METRICS_PATH", metricsOpt, defaultMetricsPath)),
		SinkURL:          FromEnvOrFlag("SINK_URL", sinkOpt, ""),
		Key:              FromEnvOrFlag("KEY", keyOpt, ""),
		PollInterval:     FromEnvOrFlagDuration("POLL_INTERVAL", pollOpt, defaultPollInterval),
		RequestTimeout:   FromEnvOrFlagDuration("REQUEST_TIMEOUT", reqOpt, defaultRequestTimeout),
		ProbeTimeout:     FromEnvOrFlagDuration("PROBE_TIMEOUT", 0, defaultProbeTimeout),
		StabilityWindow:  FromEnvOrFlagDuration("STABILITY_WINDOW", windowOpt, defaultStabilityWindow),
		FailureThreshold: threshold,
		BufferSize:       buffer,
		Debug:            FromEnvOrFlagBool("DEBUG", debugOpt, false),
	}
	if err := cfg.validate(); err != nil {
		return MonitorConfig{}, err
	}
	return cfg, nil
}

func (c MonitorConfig) validate() error {
	for name, d := range map[string]time.Duration{
		"poll interval":    c.PollInterval,
		"request timeout":  c.RequestTimeout,
		"probe timeout":    c.ProbeTimeout,
		"stability window": c.StabilityWindow,
	} {
		if d <= 0 {
			return fmt.Errorf("%s must be > 0, got %v", name, d)
		}
	}
	// each poll cycle is capped at PollInterval as a whole
	if c.RequestTimeout > c.PollInterval {
		return fmt.Errorf("request timeout %v exceeds poll interval %v", c.RequestTimeout, c.PollInterval)
	}
	if c.ProbeTimeout > c.PollInterval {
		return fmt.Errorf("probe timeout %v exceeds poll interval %v", c.ProbeTimeout, c.PollInterval)
	}
	if c.SinkURL != "" {
		if _, err := url.ParseRequestURI(c.SinkURL); err != nil {
			return fmt.Errorf("invalid sink url: %q", c.SinkURL)
		}
	}
	return nil
}

func loadDotEnv(path string) error {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

func buildCandidates(host string, ports []string) ([]string, error) {
	if len(ports) == 0 {
		return nil, fmt.Errorf("at least one source port is required")
	}
	out := make([]string, 0, len(ports))
	for _, p := range ports {
		n, err := strconv.Atoi(p)
		if err != nil || n < 1 || n > 65535 {
			return nil, fmt.Errorf("invalid source port: %q", p)
		}
		out = append(out, fmt.Sprintf("%s:%d", host, n))
	}
	return out, nil
}

func normalizeSourceHost(s string) string {
	s = strings.TrimRight(strings.TrimSpace(s), "/")
	if strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://") {
		return s
	}
	return "http://" + s
}

func normalizeListenAddr(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return defaultListenAddr
	}
	if strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://") {
		if u, err := url.Parse(s); err == nil && u.Host != "" {
			return u.Host
		}
	}
	if !strings.Contains(s, ":") {
		return ":" + s
	}
	return s
}

func normalizePath(p string) string {
	if !strings.HasPrefix(p, "/") {
		return "/" + p
	}
	return p
}
