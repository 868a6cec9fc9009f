package config

import (
	"fmt"
	"os"

	"github.com/hay-kot/criterio"
)

// ValidationWarning represents a non-fatal configuration issue.
type ValidationWarning struct {
	Category string `json:"category"`
	Item     string `json:"item,omitempty"`
	Message  string `json:"message"`
}

// ValidateDeep performs comprehensive validation of the configuration including
// file accessibility. The configPath argument specifies the config file
// location to validate (empty string skips config file check).
// This calls Validate() first for basic structural validation, then adds I/O checks.
func (c *Config) ValidateDeep(configPath string) error {
	if err := c.Validate(); err != nil {
		return err
	}

	return criterio.ValidateStruct(
		c.validateFileAccess(configPath),
		c.validateDatabase(),
	)
}

// Warnings returns non-fatal configuration issues.
func (c *Config) Warnings() []ValidationWarning {
	var warnings []ValidationWarning

	if c.Storage.Backend == BackendMemory {
		warnings = append(warnings, ValidationWarning{
			Category: "Storage",
			Item:     "storage.backend",
			Message:  "memory backend does not persist tasks between runs",
		})
	}

	if !c.Storage.SeedSamples && c.Storage.ReseedEmpty {
		warnings = append(warnings, ValidationWarning{
			Category: "Storage",
			Item:     "storage.reseed_empty",
			Message:  "reseed_empty has no effect when seed_samples is false",
		})
	}

	if c.Database.MaxIdleConns > c.Database.MaxOpenConns {
		warnings = append(warnings, ValidationWarning{
			Category: "Database",
			Item:     "database.max_idle_conns",
			Message:  "max_idle_conns is larger than max_open_conns",
		})
	}

	return warnings
}

// validateFileAccess checks config file and data directories.
func (c *Config) validateFileAccess(configPath string) error {
	errs := []error{
		validateConfigFile(configPath),
		criterio.Run("data_dir", c.DataDir, isDirectoryOrNotExist),
	}
	if c.Storage.Backend == BackendFile {
		errs = append(errs, criterio.Run("storage.kv_dir", c.KVDir(), isDirectoryOrNotExist))
	}
	return criterio.ValidateStruct(errs...)
}

func (c *Config) validateDatabase() error {
	if c.Storage.Backend != BackendSQLite {
		return nil
	}

	var errs criterio.FieldErrorsBuilder
	if c.Database.MaxOpenConns > 1 && c.Database.BusyTimeout == 0 {
		errs = errs.Append("database.busy_timeout", fmt.Errorf("must be set when max_open_conns > 1"))
	}
	return errs.ToError()
}

func validateConfigFile(configPath string) error {
	if configPath == "" {
		return nil
	}

	info, err := os.Stat(configPath)
	if os.IsNotExist(err) {
		return nil // not found is fine, using defaults
	}
	if err != nil {
		return criterio.NewFieldErrors("config_file", fmt.Errorf("cannot access: %w", err))
	}
	if info.IsDir() {
		return criterio.NewFieldErrors("config_file", fmt.Errorf("%s is a directory, not a file", configPath))
	}
	return nil
}

// isDirectoryOrNotExist validates that a path is a directory or doesn't exist.
func isDirectoryOrNotExist(path string) error {
	if path == "" {
		return nil
	}
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil // will be created
	}
	if err != nil {
		return fmt.Errorf("cannot access: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("exists but is not a directory")
	}
	return nil
}
