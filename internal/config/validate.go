package config

import (
	"errors"
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/getfitter/go-service-core/internal/storage"
)

// Validate checks all configuration values and returns aggregated errors.
func (c *Config) Validate() error {
	return errors.Join(
		section("log", c.Log.Validate()),
		section("cache.timed", c.Cache.Timed.Validate()),
		section("database", validateDatabase(c.Database)),
	)
}

func validateDatabase(d storage.Config) error {
	return validation.ValidateStruct(&d,
		validation.Field(&d.Driver, validation.Required, validation.In(storage.DriverSQLite, storage.DriverPostgres)),
		validation.Field(&d.DSN, validation.Required),
	)
}

func section(name string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", name, err)
}
