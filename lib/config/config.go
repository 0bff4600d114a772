// Copyright 2026 The Vertex SDK Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"slices"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// EnvironmentVariable names the variable Load reads the config path
// from.
const EnvironmentVariable = "VERTEX_CONFIG"

// DefaultServer is the Vertex production NATS endpoint.
const DefaultServer = "wss://hermes.sava.africa:443"

// Environment represents the deployment environment.
type Environment string

const (
	// Development is for local development against test partners.
	Development Environment = "development"
	// Staging is for pre-production integration.
	Staging Environment = "staging"
	// Production is for live partner traffic.
	Production Environment = "production"
)

// Config is the complete client configuration.
type Config struct {
	// Environment identifies the deployment type (development, staging, production).
	Environment Environment `yaml:"environment"`

	// Server is the NATS server URL.
	// Default: wss://hermes.sava.africa:443
	Server string `yaml:"server"`

	// CredsFile is the path to the NATS user credentials (.creds) file.
	CredsFile string `yaml:"creds_file"`

	// Token is the bearer token sent in the "token" header of every
	// request.
	Token string `yaml:"token"`

	// PartnerID fills the wildcard of every service subject.
	PartnerID string `yaml:"partner_id"`

	// InsecureTLS accepts any server certificate. Development only.
	InsecureTLS bool `yaml:"insecure_tls"`

	// ClientName is reported to the server as the connection name.
	// Default: vertex-go
	ClientName string `yaml:"client_name"`

	// RequestTimeout bounds each request/reply call.
	// Default: 30s
	RequestTimeout time.Duration `yaml:"request_timeout"`

	// JetStreamTimeout bounds each object store management request.
	// Default: 10s
	JetStreamTimeout time.Duration `yaml:"jetstream_timeout"`

	// RequestRate caps outgoing requests per second across the client.
	// Zero means unlimited.
	RequestRate float64 `yaml:"request_rate"`

	// Codec is the wire encoding of request and reply bodies: "json",
	// or "cbor" behind a CBOR gateway.
	// Default: json
	Codec string `yaml:"codec"`

	// Dropbox configures document uploads.
	Dropbox DropboxConfig `yaml:"dropbox"`

	// Metrics configures Prometheus instrumentation.
	Metrics MetricsConfig `yaml:"metrics"`

	// Per-environment overrides, applied after the base config is
	// loaded.
	Development *ConfigOverrides `yaml:"development,omitempty"`
	Staging     *ConfigOverrides `yaml:"staging,omitempty"`
	Production  *ConfigOverrides `yaml:"production,omitempty"`
}

// DropboxConfig configures document uploads.
type DropboxConfig struct {
	// KeySuffix selects the object key suffix: "epoch_seconds" or
	// "epoch_unique".
	// Default: epoch_seconds
	KeySuffix string `yaml:"key_suffix"`

	// BandwidthKBps caps upload throughput in KiB/s. Zero means
	// unlimited.
	BandwidthKBps int `yaml:"bandwidth_kbps"`
}

// MetricsConfig configures Prometheus instrumentation.
type MetricsConfig struct {
	// Enabled registers request and upload collectors on the client's
	// registry.
	Enabled bool `yaml:"enabled"`

	// Listen is the address the CLI serves /metrics on while a command
	// runs. Empty disables serving.
	Listen string `yaml:"listen"`
}

// ConfigOverrides contains fields that can be overridden per environment.
// Unset fields leave the base value in place.
type ConfigOverrides struct {
	Server           string         `yaml:"server,omitempty"`
	CredsFile        string         `yaml:"creds_file,omitempty"`
	Token            string         `yaml:"token,omitempty"`
	PartnerID        string         `yaml:"partner_id,omitempty"`
	InsecureTLS      *bool          `yaml:"insecure_tls,omitempty"`
	RequestTimeout   time.Duration  `yaml:"request_timeout,omitempty"`
	JetStreamTimeout time.Duration  `yaml:"jetstream_timeout,omitempty"`
	RequestRate      float64        `yaml:"request_rate,omitempty"`
	Dropbox          *DropboxConfig `yaml:"dropbox,omitempty"`
	Metrics          *MetricsConfig `yaml:"metrics,omitempty"`
}

// Default returns the default configuration. The credentials, token and
// partner id have no defaults and must come from the file.
func Default() *Config {
	return &Config{
		Environment:      Development,
		Server:           DefaultServer,
		ClientName:       "vertex-go",
		RequestTimeout:   30 * time.Second,
		JetStreamTimeout: 10 * time.Second,
		Codec:            "json",
		Dropbox: DropboxConfig{
			KeySuffix: "epoch_seconds",
		},
	}
}

// Load loads configuration from the file named by VERTEX_CONFIG.
//
// There are no fallbacks: if VERTEX_CONFIG is not set, this fails.
func Load() (*Config, error) {
	configPath := os.Getenv(EnvironmentVariable)
	if configPath == "" {
		return nil, fmt.Errorf("%s environment variable not set; "+
			"set it to the path of your vertex.yaml config file, or use --config flag", EnvironmentVariable)
	}
	return LoadFile(configPath)
}

// LoadFile loads configuration from a specific file path. The result is
// not validated; call Validate before connecting.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	if err := cfg.Parse(data); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return cfg, nil
}

// Parse merges YAML data into c, then applies environment overrides
// and variable expansion.
func (c *Config) Parse(data []byte) error {
	if err := yaml.Unmarshal(data, c); err != nil {
		return err
	}
	c.applyEnvironmentOverrides()
	c.expandVariables()
	return nil
}

// applyEnvironmentOverrides applies the section matching Environment.
func (c *Config) applyEnvironmentOverrides() {
	var overrides *ConfigOverrides
	switch c.Environment {
	case Development:
		overrides = c.Development
	case Staging:
		overrides = c.Staging
	case Production:
		overrides = c.Production
	}
	if overrides == nil {
		return
	}

	if overrides.Server != "" {
		c.Server = overrides.Server
	}
	if overrides.CredsFile != "" {
		c.CredsFile = overrides.CredsFile
	}
	if overrides.Token != "" {
		c.Token = overrides.Token
	}
	if overrides.PartnerID != "" {
		c.PartnerID = overrides.PartnerID
	}
	if overrides.InsecureTLS != nil {
		c.InsecureTLS = *overrides.InsecureTLS
	}
	if overrides.RequestTimeout != 0 {
		c.RequestTimeout = overrides.RequestTimeout
	}
	if overrides.JetStreamTimeout != 0 {
		c.JetStreamTimeout = overrides.JetStreamTimeout
	}
	if overrides.RequestRate != 0 {
		c.RequestRate = overrides.RequestRate
	}
	if overrides.Dropbox != nil {
		if overrides.Dropbox.KeySuffix != "" {
			c.Dropbox.KeySuffix = overrides.Dropbox.KeySuffix
		}
		if overrides.Dropbox.BandwidthKBps != 0 {
			c.Dropbox.BandwidthKBps = overrides.Dropbox.BandwidthKBps
		}
	}
	if overrides.Metrics != nil {
		// Enabled is a bool, so an overriding section always sets it.
		c.Metrics.Enabled = overrides.Metrics.Enabled
		if overrides.Metrics.Listen != "" {
			c.Metrics.Listen = overrides.Metrics.Listen
		}
	}
}

// expandVariables expands ${VAR} and ${VAR:-default} patterns in the
// fields that commonly carry secrets or host-specific paths.
func (c *Config) expandVariables() {
	c.Server = expandVars(c.Server)
	c.CredsFile = expandVars(c.CredsFile)
	c.Token = expandVars(c.Token)
}

var varPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

// expandVars expands ${VAR} and ${VAR:-default} patterns from the
// process environment.
func expandVars(s string) string {
	return varPattern.ReplaceAllStringFunc(s, func(match string) string {
		parts := varPattern.FindStringSubmatch(match)
		if len(parts) < 2 {
			return match
		}
		if value := os.Getenv(parts[1]); value != "" {
			return value
		}
		if len(parts) >= 3 {
			return parts[2]
		}
		return ""
	})
}

var (
	keySuffixes = []string{"epoch_seconds", "epoch_unique"}
	codecs      = []string{"json", "cbor"}
)

// Validate checks the configuration for errors. All problems are
// reported together.
func (c *Config) Validate() error {
	var errs []error

	if c.Environment != Development && c.Environment != Staging && c.Environment != Production {
		errs = append(errs, fmt.Errorf("invalid environment: %s", c.Environment))
	}
	if strings.TrimSpace(c.Server) == "" {
		errs = append(errs, errors.New("server is required"))
	}
	if strings.TrimSpace(c.CredsFile) == "" {
		errs = append(errs, errors.New("creds_file is required"))
	}
	if strings.TrimSpace(c.Token) == "" {
		errs = append(errs, errors.New("token is required"))
	}
	if strings.TrimSpace(c.PartnerID) == "" {
		errs = append(errs, errors.New("partner_id is required"))
	}
	if c.RequestTimeout <= 0 {
		errs = append(errs, fmt.Errorf("request_timeout must be positive, got %s", c.RequestTimeout))
	}
	if c.JetStreamTimeout <= 0 {
		errs = append(errs, fmt.Errorf("jetstream_timeout must be positive, got %s", c.JetStreamTimeout))
	}
	if c.RequestRate < 0 {
		errs = append(errs, fmt.Errorf("request_rate must not be negative, got %g", c.RequestRate))
	}
	if !slices.Contains(codecs, c.Codec) {
		errs = append(errs, fmt.Errorf("codec must be one of: %v", codecs))
	}
	if !slices.Contains(keySuffixes, c.Dropbox.KeySuffix) {
		errs = append(errs, fmt.Errorf("dropbox.key_suffix must be one of: %v", keySuffixes))
	}
	if c.Dropbox.BandwidthKBps < 0 {
		errs = append(errs, fmt.Errorf("dropbox.bandwidth_kbps must not be negative, got %d", c.Dropbox.BandwidthKBps))
	}
	if c.Environment == Production && c.InsecureTLS {
		errs = append(errs, errors.New("insecure_tls is not allowed in production"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}
