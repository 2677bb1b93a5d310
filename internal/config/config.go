// Package config loads runtime settings from a YAML file and HYPERWAY_* environment variables.
package config

import (
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"reflect"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes environment overrides, e.g. HYPERWAY_TIMEOUT=5s.
const EnvPrefix = "HYPERWAY_"

// Config holds the settings shared by the CLI commands.
type Config struct {
	// History enables history mutation by soft navigations.
	History bool `mapstructure:"history" yaml:"history"`

	// Timeout bounds each navigation round trip. Zero means no limit.
	Timeout time.Duration `mapstructure:"timeout" yaml:"timeout"`

	// Headers are added to every navigation request.
	Headers map[string]string `mapstructure:"headers" yaml:"headers"`

	UserAgent string `mapstructure:"user_agent" yaml:"user_agent"`

	LogLevel string `mapstructure:"log_level" yaml:"log_level"`
	LogFile  string `mapstructure:"log_file" yaml:"log_file"`

	// RedisAddr selects the Redis snapshot store; empty means in-memory.
	RedisAddr string        `mapstructure:"redis_addr" yaml:"redis_addr"`
	RedisTTL  time.Duration `mapstructure:"redis_ttl" yaml:"redis_ttl"`

	// SnapshotKey is a base64 AES-256 key; when set, snapshots are stored encrypted.
	SnapshotKey string `mapstructure:"snapshot_key" yaml:"snapshot_key"`

	// Redact lists patterns of form field names masked in saved snapshots.
	Redact []string `mapstructure:"redact" yaml:"redact"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		History:   true,
		Timeout:   30 * time.Second,
		UserAgent: "hyperway",
		LogLevel:  "info",
	}
}

// Load reads path (optional; a missing file is not an error when path is empty)
// and applies environment overrides from environ (KEY=VALUE pairs, as os.Environ returns).
func Load(path string, environ []string) (Config, error) {
	raw := map[string]any{}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("failed to read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return Config{}, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
		if raw == nil {
			raw = map[string]any{}
		}
	}

	for _, kv := range environ {
		key, value, ok := strings.Cut(kv, "=")
		if !ok || !strings.HasPrefix(key, EnvPrefix) {
			continue
		}
		raw[strings.ToLower(strings.TrimPrefix(key, EnvPrefix))] = value
	}

	cfg := Default()
	if err := decode(raw, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, cfg.Validate()
}

func decode(raw map[string]any, cfg *Config) error {
	var md mapstructure.Metadata
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           cfg,
		Metadata:         &md,
		WeaklyTypedInput: true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
			mapstructure.DecodeHookFuncType(headersHook),
		),
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(raw); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if len(md.Unused) > 0 {
		return fmt.Errorf("invalid config: unknown keys %v", md.Unused)
	}
	return nil
}

// headersHook accepts "Name: value, Other: value" strings (as set through the environment) for the headers map.
func headersHook(from, to reflect.Type, data any) (any, error) {
	s, ok := data.(string)
	if !ok || to != reflect.TypeOf(map[string]string(nil)) {
		return data, nil
	}
	headers := map[string]string{}
	for _, pair := range strings.Split(s, ",") {
		name, value, ok := strings.Cut(pair, ":")
		if !ok {
			continue
		}
		headers[strings.TrimSpace(name)] = strings.TrimSpace(value)
	}
	return headers, nil
}

// Validate rejects settings that cannot work.
func (c Config) Validate() error {
	var errs []error
	if c.Timeout < 0 {
		errs = append(errs, errors.New("timeout must not be negative"))
	}
	if c.RedisTTL < 0 {
		errs = append(errs, errors.New("redis_ttl must not be negative"))
	}
	if c.SnapshotKey != "" {
		if _, err := c.Key(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Key decodes SnapshotKey. It returns nil when no key is configured.
func (c Config) Key() ([]byte, error) {
	if c.SnapshotKey == "" {
		return nil, nil
	}
	key, err := base64.StdEncoding.DecodeString(c.SnapshotKey)
	if err != nil {
		return nil, fmt.Errorf("snapshot_key must be base64: %w", err)
	}
	if len(key) != 32 {
		return nil, fmt.Errorf("snapshot_key must decode to 32 bytes, got %d", len(key))
	}
	return key, nil
}
