package config

import (
	"errors"
	"fmt"
)

// Validate checks all configuration values and returns aggregated errors.
func (c *Config) Validate() error {
	var errs []error

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port))
	}
	switch c.Server.GinMode {
	case "debug", "release", "test":
	default:
		errs = append(errs, fmt.Errorf("server.gin_mode must be one of: debug, release, test; got %q", c.Server.GinMode))
	}

	switch c.Store.Backend {
	case "gorm":
		switch c.Database.Driver {
		case "mysql", "postgres", "sqlite":
		default:
			errs = append(errs, fmt.Errorf("database.driver must be one of: mysql, postgres, sqlite; got %q", c.Database.Driver))
		}
	case "mongo":
		if c.Mongo.URI == "" || c.Mongo.Database == "" {
			errs = append(errs, errors.New("mongo.uri and mongo.database are required for the mongo backend"))
		}
	default:
		errs = append(errs, fmt.Errorf("store.backend must be one of: gorm, mongo; got %q", c.Store.Backend))
	}

	if c.Auth.JWTSecret == "" {
		errs = append(errs, errors.New("auth.jwt_secret must not be empty"))
	} else if c.Server.GinMode == "release" && c.Auth.JWTSecret == DefaultJWTSecret {
		errs = append(errs, errors.New("auth.jwt_secret must be changed in release mode"))
	}
	if c.Auth.TokenTTL <= 0 {
		errs = append(errs, errors.New("auth.token_ttl must be positive"))
	}

	if c.Telemetry.Enabled {
		switch c.Telemetry.Exporter {
		case "stdout":
		case "otlp":
			if c.Telemetry.Endpoint == "" {
				errs = append(errs, errors.New("telemetry.endpoint is required for the otlp exporter"))
			}
		default:
			errs = append(errs, fmt.Errorf("telemetry.exporter must be one of: stdout, otlp; got %q", c.Telemetry.Exporter))
		}
	}

	return errors.Join(errs...)
}
