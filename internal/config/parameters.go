// Package config provides a centralized entrypoint for the application parameters.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/creasty/defaults"
	"gopkg.in/yaml.v3"
)

// Runtime modes.
const (
	ModePoller = "poller"
	ModeLambda = "lambda"
)

var (
	// Global is a struct that contains the global configuration.
	Global global
	// Queue is a struct that contains the notification queue configuration.
	Queue queue
	// Sink is a struct that contains the event sink configuration.
	Sink sinks
	// Lambda is a struct that contains the configuration for the lambda mode.
	Lambda lambda
)

type global struct {
	// Mode is the runtime mode of the application.
	Mode string `yaml:"mode,omitempty" default:"poller"`
	// Logging is a struct that contains the logging configuration.
	Logging struct {
		// Verbosity is the verbosity level of the application. It represents slog levels.
		Verbosity int `yaml:"verbosity,omitempty"`
		// CallerTrace is a flag that enables the caller trace in the logger.
		CallerTrace bool `yaml:"callerTrace,omitempty"`
	} `yaml:"logging,omitempty"`
	// Metrics is a struct that contains the Prometheus endpoint configuration.
	Metrics struct {
		Enabled bool   `yaml:"enabled,omitempty" default:"true"`
		Addr    string `yaml:"addr,omitempty" default:":9102"`
	} `yaml:"metrics,omitempty"`
}

type queue struct {
	// URL is the notification queue URL.
	URL string `yaml:"url,omitempty"`
	// SSMKey is the SSM parameter holding the queue URL when URL is unset.
	SSMKey string `yaml:"ssmKey,omitempty"`
	// Workers is the size of the log-file worker pool.
	Workers int `yaml:"workers,omitempty" default:"4"`
	// BatchSize is the maximum number of messages fetched per receive call.
	BatchSize int32 `yaml:"batchSize,omitempty" default:"10"`
	// WaitTime is the long-poll duration.
	WaitTime time.Duration `yaml:"waitTime,omitempty" default:"20s"`
}

type sinks struct {
	// Log is a struct that contains the structured-log sink configuration.
	Log struct {
		Enabled bool `yaml:"enabled,omitempty" default:"true"`
	} `yaml:"log,omitempty"`
	// CloudEvents is a struct that contains the CloudEvents sink configuration.
	CloudEvents struct {
		Enabled bool   `yaml:"enabled,omitempty"`
		Target  string `yaml:"target,omitempty"`
	} `yaml:"cloudEvents,omitempty"`
}

type lambda struct {
	// PayloadType selects the Lambda trigger shape. Supported values are
	// 'sqs' and 's3'.
	PayloadType string `yaml:"payloadType,omitempty" default:"sqs"`
}

// SetDefaults sets the default values for the configuration.
func SetDefaults() error {
	return errors.Join(
		defaults.Set(&Global),
		defaults.Set(&Queue),
		defaults.Set(&Sink),
		defaults.Set(&Lambda),
	)
}

// LoadFromFile loads the configuration from a file.
func LoadFromFile(path string) error {
	if len(path) == 0 {
		return nil
	}
	fstat, err := os.Stat(path)
	if err != nil {
		return nil //nolint:nilerr // If the file does not exist, we ignore it.
	}
	if fstat.IsDir() {
		return fmt.Errorf("configuration file %s is a directory", path)
	}
	if !fstat.Mode().IsRegular() {
		return fmt.Errorf("configuration file %s is not a regular file", path)
	}

	content, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return fmt.Errorf("failed to read configuration file %s: %w", path, err)
	}
	type all struct {
		Global global `yaml:"global,omitempty"`
		Queue  queue  `yaml:"queue,omitempty"`
		Sink   sinks  `yaml:"sink,omitempty"`
		Lambda lambda `yaml:"lambda,omitempty"`
	}
	var a all
	if err = yaml.Unmarshal(content, &a); err != nil {
		return fmt.Errorf("failed to unmarshal configuration file %s: %w", path, err)
	}
	Global = a.Global
	Queue = a.Queue
	Sink = a.Sink
	Lambda = a.Lambda

	return nil
}
