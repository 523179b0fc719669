// Package config provides configuration parsing and validation for sudotun.
package config

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the complete configuration for a sudotun server or client
// process, covering the cryptographic parameters shared by both peers
// (key/cipher/layout), the server's upstream destination and poll-transport
// timing, and the client's local SOCKS5 front-end and remote relay address.
type Config struct {
	Log       LogConfig       `yaml:"log"`
	Tunnel    TunnelConfig    `yaml:"tunnel"`
	Server    ServerConfig    `yaml:"server"`
	Client    ClientConfig    `yaml:"client"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
}

// LogConfig controls structured logging, matching internal/logging's
// level/format vocabulary.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// TunnelConfig holds the parameters both the server and client must agree
// on out of band: the symmetric key, AEAD cipher, and codec layout.
type TunnelConfig struct {
	// Key is either 64 hex characters (32 bytes exactly) or an arbitrary
	// string, which is passed through SHA-256 to derive 32 bytes.
	Key    string `yaml:"key"`
	Cipher string `yaml:"cipher"` // none | aes-128-gcm | chacha20-poly1305
	Layout string `yaml:"layout"` // ascii | entropy

	// AuthSecret, if set, enables HMAC request authentication on the poll
	// transport (internal/auth). Sixteen bytes minimum once decoded the
	// same way as Key.
	AuthSecret string `yaml:"auth_secret"`
}

// ServerConfig controls the relay process: where it listens for the poll
// transport and which upstream destination it forwards decrypted bytes to.
type ServerConfig struct {
	ListenAddr   string `yaml:"listen_addr"`
	UpstreamHost string `yaml:"upstream_host"`
	UpstreamPort int    `yaml:"upstream_port"`

	SessionIdleTimeout time.Duration `yaml:"session_idle_timeout"`
	LongPollTotal      time.Duration `yaml:"long_poll_total"`
	LongPollHeartbeat  time.Duration `yaml:"long_poll_heartbeat"`
	DialTimeout        time.Duration `yaml:"dial_timeout"`
}

// ClientConfig controls the local front-end: a SOCKS5 listener whose
// connections are tunneled through the relay named by RelayAddr.
type ClientConfig struct {
	SOCKS5ListenAddr string `yaml:"socks5_listen_addr"`
	RelayAddr        string `yaml:"relay_addr"` // e.g. https://relay.example.com
}

// RateLimitConfig bounds poll-transport call rates per token/address.
type RateLimitConfig struct {
	Enabled            bool    `yaml:"enabled"`
	RequestsPerSecond  float64 `yaml:"requests_per_second"`
	Burst              int     `yaml:"burst"`
}

// Default returns the documented configuration defaults.
func Default() *Config {
	return &Config{
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Tunnel: TunnelConfig{
			Cipher: "chacha20-poly1305",
			Layout: "ascii",
		},
		Server: ServerConfig{
			ListenAddr:         ":8443",
			UpstreamPort:       443,
			SessionIdleTimeout: 300 * time.Second,
			LongPollTotal:      25 * time.Second,
			LongPollHeartbeat:  5 * time.Second,
			DialTimeout:        10 * time.Second,
		},
		Client: ClientConfig{
			SOCKS5ListenAddr: "127.0.0.1:1080",
		},
		RateLimit: RateLimitConfig{
			Enabled:           true,
			RequestsPerSecond: 50,
			Burst:             100,
		},
	}
}

// Load reads and parses configuration from a YAML file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse parses configuration from YAML bytes, expanding environment
// variable references first and validating the result.
func Parse(data []byte) (*Config, error) {
	expanded := expandEnvVars(string(data))

	cfg := Default()
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// envVarRegex matches ${VAR} or $VAR patterns, with an optional
// ${VAR:-default} fallback.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}|\$([A-Za-z_][A-Za-z0-9_]*)`)

func expandEnvVars(s string) string {
	return envVarRegex.ReplaceAllStringFunc(s, func(match string) string {
		var name string
		if strings.HasPrefix(match, "${") {
			name = match[2 : len(match)-1]
		} else {
			name = match[1:]
		}

		if idx := strings.Index(name, ":-"); idx != -1 {
			varName := name[:idx]
			defaultVal := name[idx+2:]
			if val, ok := os.LookupEnv(varName); ok {
				return val
			}
			return defaultVal
		}

		if val, ok := os.LookupEnv(name); ok {
			return val
		}
		return match
	})
}

// DeriveKey turns TunnelConfig.Key into the 32-byte symmetric key the
// session layer requires: 64 hex characters decode directly to 32 bytes,
// anything else is passed through SHA-256.
func (t TunnelConfig) DeriveKey() ([]byte, error) {
	if t.Key == "" {
		return nil, fmt.Errorf("tunnel.key is required")
	}
	if len(t.Key) == 64 {
		if raw, err := hex.DecodeString(t.Key); err == nil {
			return raw, nil
		}
	}
	sum := sha256.Sum256([]byte(t.Key))
	return sum[:], nil
}

// Validate checks the configuration for errors common to both server and
// client invocations; command-specific required fields (e.g. upstream
// host for the server) are checked by the command that needs them.
func (c *Config) Validate() error {
	var errs []string

	if !isValidLogLevel(c.Log.Level) {
		errs = append(errs, fmt.Sprintf("invalid log.level: %s", c.Log.Level))
	}
	if !isValidLogFormat(c.Log.Format) {
		errs = append(errs, fmt.Sprintf("invalid log.format: %s", c.Log.Format))
	}
	if !isValidCipher(c.Tunnel.Cipher) {
		errs = append(errs, fmt.Sprintf("invalid tunnel.cipher: %s", c.Tunnel.Cipher))
	}
	if !isValidLayout(c.Tunnel.Layout) {
		errs = append(errs, fmt.Sprintf("invalid tunnel.layout: %s", c.Tunnel.Layout))
	}
	if c.RateLimit.Enabled && c.RateLimit.RequestsPerSecond <= 0 {
		errs = append(errs, "rate_limit.requests_per_second must be positive when enabled")
	}

	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

// ValidateServer additionally requires the fields a server invocation
// cannot run without.
func (c *Config) ValidateServer() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.Tunnel.Key == "" {
		return fmt.Errorf("tunnel.key is required")
	}
	if c.Server.UpstreamHost == "" {
		return fmt.Errorf("server.upstream_host is required")
	}
	if _, err := net.LookupPort("tcp", strconv.Itoa(c.Server.UpstreamPort)); err != nil {
		return fmt.Errorf("invalid server.upstream_port: %w", err)
	}
	return nil
}

// ValidateClient additionally requires the fields a client invocation
// cannot run without.
func (c *Config) ValidateClient() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.Tunnel.Key == "" {
		return fmt.Errorf("tunnel.key is required")
	}
	if c.Client.RelayAddr == "" {
		return fmt.Errorf("client.relay_addr is required")
	}
	return nil
}

func isValidLogLevel(level string) bool {
	switch strings.ToLower(level) {
	case "debug", "info", "warn", "warning", "error":
		return true
	}
	return false
}

func isValidLogFormat(format string) bool {
	switch strings.ToLower(format) {
	case "text", "json":
		return true
	}
	return false
}

func isValidCipher(cipher string) bool {
	switch cipher {
	case "none", "aes-128-gcm", "chacha20-poly1305":
		return true
	}
	return false
}

func isValidLayout(layout string) bool {
	switch layout {
	case "ascii", "entropy":
		return true
	}
	return false
}

// redactedValue is the placeholder for sensitive values in Redacted.
const redactedValue = "[REDACTED]"

// Redacted returns a copy of the config with the symmetric key and auth
// secret replaced, safe to log or display.
func (c *Config) Redacted() *Config {
	data, err := yaml.Marshal(c)
	if err != nil {
		return c
	}
	redacted := &Config{}
	if err := yaml.Unmarshal(data, redacted); err != nil {
		return c
	}
	if redacted.Tunnel.Key != "" {
		redacted.Tunnel.Key = redactedValue
	}
	if redacted.Tunnel.AuthSecret != "" {
		redacted.Tunnel.AuthSecret = redactedValue
	}
	return redacted
}

// String returns a redacted YAML representation.
func (c *Config) String() string {
	data, _ := yaml.Marshal(c.Redacted())
	return string(data)
}
