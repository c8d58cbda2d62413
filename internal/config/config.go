// Package config loads demo program settings from the environment.
package config

import (
	"errors"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

var (
	// ErrParsingConfig is returned when environment variables cannot be parsed into the config struct
	ErrParsingConfig = errors.New("failed to parse environment variables into config")

	// ErrNilPointer is returned when a nil pointer is provided to Load
	ErrNilPointer = errors.New("nil pointer provided to config loader")
)

var dotenvLoaded sync.Once

// App is the configuration shared by the example programs.
type App struct {
	Workers    int    `env:"SCHEDEXEC_WORKERS" envDefault:"4"`
	LogLevel   string `env:"SCHEDEXEC_LOG_LEVEL" envDefault:"info"`
	LogConsole bool   `env:"SCHEDEXEC_LOG_CONSOLE" envDefault:"true"`
	Metrics    bool   `env:"SCHEDEXEC_METRICS" envDefault:"false"`

	// MetricsAddr is where /metrics is served when Metrics is set.
	MetricsAddr string `env:"SCHEDEXEC_METRICS_ADDR" envDefault:":2112"`
}

// Load fills v from environment variables according to its struct tags.
// A .env file in the working directory is read on first use; a missing
// file is not an error.
func Load[T any](v *T) error {
	dotenvLoaded.Do(func() {
		_ = godotenv.Load()
	})
	if v == nil {
		return ErrNilPointer
	}
	if err := env.Parse(v); err != nil {
		return errors.Join(ErrParsingConfig, err)
	}
	return nil
}

// MustLoad works like Load but panics if configuration loading fails.
func MustLoad[T any](v *T) {
	if err := Load(v); err != nil {
		panic("failed to load required configuration: " + err.Error())
	}
}
