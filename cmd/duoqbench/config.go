// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config describes one benchmark run.
type Config struct {
	Duration time.Duration `yaml:"duration" json:"duration"`
	Maxsize  int           `yaml:"maxsize" json:"maxsize"`
	// fifo, lifo or priority
	Order string `yaml:"order" json:"order"`

	ThreadProducers int `yaml:"thread_producers" json:"thread_producers"`
	ThreadConsumers int `yaml:"thread_consumers" json:"thread_consumers"`
	TaskProducers   int `yaml:"task_producers" json:"task_producers"`
	TaskConsumers   int `yaml:"task_consumers" json:"task_consumers"`

	// Thread producers use PutNowait with backoff instead of Put.
	Nowait bool `yaml:"nowait" json:"nowait"`

	// Task bodies yield to the loop every YieldEvery operations.
	YieldEvery int `yaml:"yield_every" json:"yield_every"`

	JSON     bool `yaml:"json" json:"-"`
	Progress bool `yaml:"progress" json:"-"`
}

// DefaultConfig returns the configuration used when neither a file nor a
// flag says otherwise.
func DefaultConfig() Config {
	return Config{
		Duration:        2 * time.Second,
		Maxsize:         64,
		Order:           "fifo",
		ThreadProducers: 2,
		ThreadConsumers: 2,
		TaskProducers:   2,
		TaskConsumers:   2,
		YieldEvery:      32,
	}
}

// LoadConfig reads a YAML scenario file over the defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate reports the first invalid field.
func (c Config) Validate() error {
	switch {
	case c.Duration <= 0:
		return errors.New("duration must be positive")
	case c.Order != "fifo" && c.Order != "lifo" && c.Order != "priority":
		return fmt.Errorf("unknown order %q", c.Order)
	case c.ThreadProducers < 0 || c.ThreadConsumers < 0 || c.TaskProducers < 0 || c.TaskConsumers < 0:
		return errors.New("worker counts must be non-negative")
	case c.ThreadProducers+c.TaskProducers == 0:
		return errors.New("at least one producer is required")
	case c.ThreadConsumers+c.TaskConsumers == 0:
		return errors.New("at least one consumer is required")
	case c.YieldEvery <= 0:
		return errors.New("yield_every must be positive")
	}
	return nil
}

// parseArgs builds the run configuration: defaults, then the -config file,
// then every flag given explicitly.
func parseArgs(args []string, stderr io.Writer) (Config, error) {
	def := DefaultConfig()
	fs := flag.NewFlagSet("duoqbench", flag.ContinueOnError)
	fs.SetOutput(stderr)

	path := fs.String("config", "", "YAML scenario file")
	var c Config
	fs.DurationVar(&c.Duration, "duration", def.Duration, "Run duration")
	fs.IntVar(&c.Maxsize, "maxsize", def.Maxsize, "Queue capacity; <= 0 means unbounded")
	fs.StringVar(&c.Order, "order", def.Order, "Ordering: fifo, lifo or priority")
	fs.IntVar(&c.ThreadProducers, "thread-producers", def.ThreadProducers, "Producer goroutines")
	fs.IntVar(&c.ThreadConsumers, "thread-consumers", def.ThreadConsumers, "Consumer goroutines")
	fs.IntVar(&c.TaskProducers, "task-producers", def.TaskProducers, "Producer tasks on the loop")
	fs.IntVar(&c.TaskConsumers, "task-consumers", def.TaskConsumers, "Consumer tasks on the loop")
	fs.BoolVar(&c.Nowait, "nowait", def.Nowait, "Thread producers use PutNowait with backoff")
	fs.IntVar(&c.YieldEvery, "yield-every", def.YieldEvery, "Operations between task yields")
	fs.BoolVar(&c.JSON, "json", def.JSON, "Print the report as JSON")
	fs.BoolVar(&c.Progress, "progress", def.Progress, "Display a progress bar")
	if err := fs.Parse(args); err != nil {
		return def, err
	}

	cfg := def
	if *path != "" {
		var err error
		if cfg, err = LoadConfig(*path); err != nil {
			return cfg, err
		}
	}
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "duration":
			cfg.Duration = c.Duration
		case "maxsize":
			cfg.Maxsize = c.Maxsize
		case "order":
			cfg.Order = c.Order
		case "thread-producers":
			cfg.ThreadProducers = c.ThreadProducers
		case "thread-consumers":
			cfg.ThreadConsumers = c.ThreadConsumers
		case "task-producers":
			cfg.TaskProducers = c.TaskProducers
		case "task-consumers":
			cfg.TaskConsumers = c.TaskConsumers
		case "nowait":
			cfg.Nowait = c.Nowait
		case "yield-every":
			cfg.YieldEvery = c.YieldEvery
		case "json":
			cfg.JSON = c.JSON
		case "progress":
			cfg.Progress = c.Progress
		}
	})
	return cfg, cfg.Validate()
}
