package workerpool

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// Options configure a worker Pool.
//
// All zero values are replaced with sensible defaults in FillDefaults.
// The serializable part can be loaded from YAML with LoadOptions.
type Options struct {
	// Workers is the number of workers started by New. Zero or negative
	// means one per CPU reported by HardwareConcurrency.
	Workers int `yaml:"workers"`

	// Name identifies the pool in logs and metrics. Defaults to a UUID.
	Name string `yaml:"name"`

	// PinWorkers locks every worker to an OS thread bound to one CPU.
	// Linux only; elsewhere worker setup fails.
	PinWorkers bool `yaml:"pin_workers"`

	// Retry is the default policy for SubmitRetry. Zero fields are
	// replaced by package defaults.
	Retry RetryPolicy `yaml:"retry"`

	// Ctx carries the logger (see zlog.FromContext). Defaults to
	// context.Background().
	Ctx context.Context `yaml:"-"`

	// Metrics receives queue and execution counters. Defaults to NoopMetrics.
	Metrics MetricsPolicy `yaml:"-"`

	// WorkerInit, if set, runs on each worker goroutine before it takes
	// its first task. An error aborts Start.
	WorkerInit func(worker int) error `yaml:"-"`

	// OnTaskError is called with every error a task returns or panics with.
	OnTaskError func(error) `yaml:"-"`

	// OnInternalError is called with pool failures not tied to a task.
	OnInternalError func(error) `yaml:"-"`
}

// FillDefaults replaces zero fields with the package defaults.
func (o *Options) FillDefaults() {
	if o.Workers <= 0 {
		o.Workers = HardwareConcurrency()
	}
	if o.Name == "" {
		o.Name = uuid.NewString()
	}
	if o.Ctx == nil {
		o.Ctx = context.Background()
	}
	if o.Metrics == nil {
		o.Metrics = &NoopMetrics{}
	}
	o.Retry.fillDefaults()
}

// LoadOptions reads Options from a YAML file and fills the defaults.
//
//	workers: 8
//	name: ingest
//	pin_workers: false
//	retry:
//	  attempts: 5
//	  initial: 100ms
//	  max: 2s
func LoadOptions(path string) (Options, error) {
	var o Options
	data, err := os.ReadFile(path)
	if err != nil {
		return o, fmt.Errorf("workerpool: read options: %w", err)
	}
	if err := yaml.Unmarshal(data, &o); err != nil {
		return o, fmt.Errorf("workerpool: parse options %s: %w", path, err)
	}
	o.FillDefaults()
	return o, nil
}
