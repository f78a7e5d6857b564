// Package config is the YAML file form of the interceptor options, used by
// the reqtap demo binary. Library consumers configure pkg/tap
// programmatically; this package only exists at the composition boundary.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/reqtap/reqtap/pkg/tap"
)

// Config mirrors tap.Options in file form, plus host concerns (listen
// address, operational logging, optional file sink).
type Config struct {
	// Addr is the listen address of the demo server.
	Addr string `yaml:"addr"`

	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"log"`

	Capture CaptureConfig `yaml:"capture"`

	// File, when set, adds a rotating JSON-lines sink next to the slog one.
	File FileConfig `yaml:"file"`
}

// CaptureConfig holds the facet modes and masking settings.
type CaptureConfig struct {
	LogMode               string   `yaml:"logMode"`
	RequestHeaders        string   `yaml:"requestHeaders"`
	RequestBody           string   `yaml:"requestBody"`
	ResponseHeaders       string   `yaml:"responseHeaders"`
	ResponseBody          string   `yaml:"responseBody"`
	MaskedFields          []string `yaml:"maskedFields"`
	MaskToken             string   `yaml:"maskToken"`
	RequestBodyLimit      int      `yaml:"requestBodyLimit"`
	ResponseBodyLimit     int      `yaml:"responseBodyLimit"`
	StructuredBodies      *bool    `yaml:"structuredBodies"`
	IncludeQueryInPath    bool     `yaml:"includeQueryInPath"`
	MaskQuery             *bool    `yaml:"maskQuery"`
	CorrelationHeader     string   `yaml:"correlationHeader"`
	EchoCorrelationHeader *bool    `yaml:"echoCorrelationHeader"`
}

// FileConfig configures the optional rotating file sink.
type FileConfig struct {
	Path       string `yaml:"path"`
	MaxSizeMB  int    `yaml:"maxSizeMB"`
	MaxBackups int    `yaml:"maxBackups"`
	MaxAgeDays int    `yaml:"maxAgeDays"`
}

// Load reads and parses a YAML config file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}
	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	if cfg.Addr == "" {
		cfg.Addr = ":8080"
	}
	return cfg, nil
}

// Options converts the capture section into validated tap.Options. The sink
// is supplied by the caller; defaults follow tap.DefaultOptions.
func (c *Config) Options() (tap.Options, error) {
	opts := tap.DefaultOptions()
	cc := c.Capture

	var err error
	if opts.LogMode, err = tap.ParseMode(cc.LogMode); err != nil {
		return opts, err
	}
	if opts.RequestHeaderMode, err = tap.ParseMode(cc.RequestHeaders); err != nil {
		return opts, err
	}
	if opts.RequestBodyMode, err = tap.ParseMode(cc.RequestBody); err != nil {
		return opts, err
	}
	if opts.ResponseHeaderMode, err = tap.ParseMode(cc.ResponseHeaders); err != nil {
		return opts, err
	}
	if opts.ResponseBodyMode, err = tap.ParseMode(cc.ResponseBody); err != nil {
		return opts, err
	}

	if len(cc.MaskedFields) > 0 {
		opts.MaskedFields = cc.MaskedFields
	}
	if cc.MaskToken != "" {
		opts.MaskToken = cc.MaskToken
	}
	if cc.RequestBodyLimit > 0 {
		opts.RequestBodyLimit = cc.RequestBodyLimit
	}
	if cc.ResponseBodyLimit > 0 {
		opts.ResponseBodyLimit = cc.ResponseBodyLimit
	}
	if cc.StructuredBodies != nil {
		opts.StructuredRequestBody = *cc.StructuredBodies
		opts.StructuredResponseBody = *cc.StructuredBodies
	}
	opts.IncludeQueryInPath = cc.IncludeQueryInPath
	if cc.MaskQuery != nil {
		opts.MaskQuery = *cc.MaskQuery
	}
	if cc.CorrelationHeader != "" {
		opts.CorrelationHeader = cc.CorrelationHeader
	}
	if cc.EchoCorrelationHeader != nil {
		opts.EchoCorrelationHeader = *cc.EchoCorrelationHeader
	}
	return opts, nil
}
