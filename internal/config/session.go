package config

import (
	"fmt"
	"time"
)

type TokenEncryptionConfig struct {
	Enabled   bool
	SecretKey RedactedString
}

type SessionConfig struct {
	// ID is the key under which the token pair of the operator is stored
	ID             string
	ExpiryMargin   time.Duration
	RefreshTimeout time.Duration
	// TTL of the stored token pair, zero keeps it until logout
	TTL             time.Duration
	TokenEncryption TokenEncryptionConfig
}

func (c *SessionConfig) Validate() error {
	if c.ID == "" {
		return fmt.Errorf("the session id cannot be empty")
	}
	if c.ExpiryMargin < 0 || c.TTL < 0 {
		return fmt.Errorf("session durations cannot be negative")
	}
	if c.RefreshTimeout <= 0 {
		return fmt.Errorf("the refresh timeout has to be positive, got %s", c.RefreshTimeout)
	}
	if c.TokenEncryption.Enabled && len(c.TokenEncryption.SecretKey) != 32 {
		return fmt.Errorf(
			"token encryption key has to be 32 bytes long, the provided one is %d long",
			len(c.TokenEncryption.SecretKey),
		)
	}
	return nil
}
