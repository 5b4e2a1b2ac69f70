// Package config loads slackpost's optional defaults file.
//
// The file may be YAML or JSON; both go through the same strict decoder so
// unknown fields are rejected regardless of format. Every field has a
// built-in default and explicit CLI flags override file values, so the file
// is purely a convenience for pipelines that post repeatedly.
package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"
)

// Defaults applied when a field is absent from the file (or no file is given).
const (
	DefaultAPIBase  = "https://slack.com/api/"
	DefaultUsername = "Ansible"
	DefaultIconURL  = "https://www.ansible.com/favicon.ico"
	DefaultTimeout  = 30 * time.Second
	DefaultLogLevel = "info"
)

type Config struct {
	// APIBase is the Slack Web API root; method names are appended to it.
	APIBase  string `json:"api_base,omitempty"`
	Username string `json:"username,omitempty"`
	IconURL  string `json:"icon_url,omitempty"`

	// LinkNames is a pointer so an explicit false is distinguishable from
	// "omitted" (which defaults to true).
	LinkNames *bool `json:"link_names,omitempty"`

	// Timeout is a Go duration string (e.g. "10s", "1m").
	Timeout string `json:"timeout,omitempty"`

	// InsecureSkipVerify disables TLS certificate validation. Only for
	// personally controlled endpoints with self-signed certificates.
	InsecureSkipVerify bool `json:"insecure_skip_verify,omitempty"`

	LogLevel string `json:"log_level,omitempty"`
}

// Default returns the built-in configuration.
func Default() Config {
	linkNames := true
	return Config{
		APIBase:   DefaultAPIBase,
		Username:  DefaultUsername,
		IconURL:   DefaultIconURL,
		LinkNames: &linkNames,
		Timeout:   DefaultTimeout.String(),
		LogLevel:  DefaultLogLevel,
	}
}

// Load reads path and merges its fields over the built-in defaults.
func Load(path string) (Config, error) {
	cfg := Default()

	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	jb, format, err := coerceToJSONBytes(path, b)
	if err != nil {
		return cfg, fmt.Errorf("config %s (%s): %w", path, format, err)
	}

	var file Config
	dec := json.NewDecoder(bytes.NewReader(jb))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&file); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	// reject trailing tokens (e.g. concatenated JSON)
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		if err == nil {
			return cfg, fmt.Errorf("config %s: trailing data", path)
		}
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}

	cfg.merge(file)
	if _, err := cfg.TimeoutDuration(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) merge(o Config) {
	if o.APIBase != "" {
		c.APIBase = o.APIBase
	}
	if o.Username != "" {
		c.Username = o.Username
	}
	if o.IconURL != "" {
		c.IconURL = o.IconURL
	}
	if o.LinkNames != nil {
		c.LinkNames = o.LinkNames
	}
	if o.Timeout != "" {
		c.Timeout = o.Timeout
	}
	if o.InsecureSkipVerify {
		c.InsecureSkipVerify = true
	}
	if o.LogLevel != "" {
		c.LogLevel = o.LogLevel
	}
}

// TimeoutDuration parses the Timeout field.
func (c *Config) TimeoutDuration() (time.Duration, error) {
	if c.Timeout == "" {
		return DefaultTimeout, nil
	}
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 0, fmt.Errorf("invalid timeout %q: %w", c.Timeout, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("invalid timeout %q: must be positive", c.Timeout)
	}
	return d, nil
}
