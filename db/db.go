// Package db stores user attributes so they can be retrieved after the server restarts.
package db

import (
	"fmt"
	"time"
)

// Config contains common properties of the databases.
type Config struct {
	// QueryPeriod is the amount of time a query can take before it times out.
	QueryPeriod time.Duration
}

// Validate ensures the configuration has no errors.
func (cfg Config) Validate() error {
	if cfg.QueryPeriod <= 0 {
		return fmt.Errorf("positive query period required")
	}
	return nil
}
