package config

import (
	"fmt"
	"time"
)

type PaymentsConfig struct {
	MinAmount     float64
	MaxAmount     float64
	DefaultAmount float64
	Currency      string
	PollInterval  time.Duration
	DisplayDelay  time.Duration
	// PollTimeout bounds how long a payment may stay in processing, zero disables it
	PollTimeout time.Duration
}

func (c *PaymentsConfig) Validate() error {
	if c.MinAmount <= 0 {
		return fmt.Errorf("the minimum payment amount has to be positive, got %v", c.MinAmount)
	}
	if c.MaxAmount < c.MinAmount {
		return fmt.Errorf("the maximum payment amount (%v) cannot be less than the minimum (%v)", c.MaxAmount, c.MinAmount)
	}
	if c.DefaultAmount < c.MinAmount || c.DefaultAmount > c.MaxAmount {
		return fmt.Errorf("the default payment amount %v is outside of [%v, %v]", c.DefaultAmount, c.MinAmount, c.MaxAmount)
	}
	if c.PollInterval <= 0 {
		return fmt.Errorf("the poll interval has to be positive, got %s", c.PollInterval)
	}
	if c.DisplayDelay < 0 || c.PollTimeout < 0 {
		return fmt.Errorf("payment durations cannot be negative")
	}
	return nil
}
