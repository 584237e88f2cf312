package config

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
)

// Structs

// Env holds information specific to the
// system the demo runs on. This enables
// host adaptions without needing to
// maintain two different config files.
type Env struct {
	LogLevel       string
	PrometheusAddr string
}

// Functions

// LoadEnv reads in the .env file at path, if
// there is one, and collects the override
// variables. Variables already set in the
// process environment take precedence over
// the file.
func LoadEnv(path string) (*Env, error) {

	_, err := os.Stat(path)
	if err == nil {

		// Load environment file.
		err = godotenv.Load(path)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to read in .env file at '%s'", path)
		}
	} else if !os.IsNotExist(err) {
		return nil, errors.Wrapf(err, "failed to access .env file at '%s'", path)
	}

	return &Env{
		LogLevel:       os.Getenv("LWW_LOGLEVEL"),
		PrometheusAddr: os.Getenv("LWW_PROMETHEUS_ADDR"),
	}, nil
}

// Apply overrides all values in conf for which
// env carries a non-empty value.
func (env *Env) Apply(conf *Config) {

	if env.LogLevel != "" {
		conf.LogLevel = env.LogLevel
	}

	if env.PrometheusAddr != "" {
		conf.PrometheusAddr = env.PrometheusAddr
	}
}
