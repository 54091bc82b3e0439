package config

import (
	"fmt"
	"net/url"
	"time"
)

// APIConfig points the client at the remote payments API.
type APIConfig struct {
	BaseURL *url.URL
	Timeout time.Duration
}

func (c *APIConfig) Validate() error {
	if c.BaseURL == nil {
		return fmt.Errorf("the api base URL is not set")
	}
	if c.BaseURL.Scheme != "http" && c.BaseURL.Scheme != "https" {
		return fmt.Errorf("the api base URL has to use http or https, got %q", c.BaseURL.Scheme)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("the api timeout cannot be negative")
	}
	return nil
}
