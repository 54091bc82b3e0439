package config

import "fmt"

type RunningEnvironment string

const (
	Development RunningEnvironment = "development"
	Production  RunningEnvironment = "production"
)

type Config struct {
	RunningEnvironment RunningEnvironment
	DebugMode          bool
	API                APIConfig
	Session            SessionConfig
	Payments           PaymentsConfig
	Redis              RedisConfig
	Server             ServerConfig
	Monitoring         MonitoringConfig
}

func (c *Config) Validate() error {
	switch c.RunningEnvironment {
	case Development, Production:
	default:
		return fmt.Errorf("unknown running environment %q", c.RunningEnvironment)
	}
	err := c.API.Validate()
	if err != nil {
		return err
	}
	err = c.Session.Validate()
	if err != nil {
		return err
	}
	err = c.Payments.Validate()
	if err != nil {
		return err
	}
	err = c.Redis.Validate(c.RunningEnvironment)
	if err != nil {
		return err
	}
	return c.Server.Validate()
}
