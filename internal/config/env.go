package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Env holds configuration read from NETREPORT_* environment variables.
// Environment values sit between the config file and CLI flags in the
// override order: they beat file values and lose to explicit flags.
type Env struct {
	// Endpoint is the reporting service base URL (NETREPORT_ENDPOINT).
	Endpoint string `envconfig:"ENDPOINT"`

	// Timeout is the per-request timeout, parsed from RawTimeout.
	// Zero means unset.
	Timeout time.Duration `ignored:"true"`

	// RawTimeout is the unparsed NETREPORT_TIMEOUT value (e.g. "90s").
	// Decoded as a string so a variable exported empty counts as unset
	// instead of failing duration parsing.
	RawTimeout string `envconfig:"TIMEOUT"`

	// DBDir overrides the query-log location (NETREPORT_DB_DIR).
	DBDir string `envconfig:"DB_DIR"`
}

// LoadEnv reads NETREPORT_* environment variables. Variables that are
// set but empty are treated as unset.
func LoadEnv() (*Env, error) {
	var e Env
	if err := envconfig.Process(AppName, &e); err != nil {
		return nil, err
	}
	if e.RawTimeout != "" {
		d, err := time.ParseDuration(e.RawTimeout)
		if err != nil {
			return nil, fmt.Errorf("invalid NETREPORT_TIMEOUT: %w", err)
		}
		e.Timeout = d
	}
	return &e, nil
}
