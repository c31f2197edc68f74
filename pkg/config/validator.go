package config

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"

	"github.com/nodewee/scan-to-text/pkg/constants"
	"github.com/nodewee/scan-to-text/pkg/utils"
)

// ConfigValidator validates a Config and reports every problem at once
type ConfigValidator struct{}

// NewConfigValidator creates a configuration validator
func NewConfigValidator() *ConfigValidator {
	return &ConfigValidator{}
}

// Validate validates the configuration
func (v *ConfigValidator) Validate(c *Config) error {
	var errors []string

	if err := v.validateLanguage(c.Language); err != nil {
		errors = append(errors, err.Error())
	}

	if err := v.validateNumericValues(c); err != nil {
		errors = append(errors, err.Error())
	}

	if err := v.validateLogging(c.LogLevel, c.LogFormat); err != nil {
		errors = append(errors, err.Error())
	}

	if len(errors) > 0 {
		return utils.NewValidationError("configuration validation failed",
			fmt.Errorf("validation errors: %s", strings.Join(errors, "; ")))
	}

	return nil
}

// validateLanguage requires a two-letter ISO 639-1 code
func (v *ConfigValidator) validateLanguage(lang string) error {
	if len(lang) != 2 {
		return fmt.Errorf("language must be a two-letter ISO 639-1 code: %q", lang)
	}
	if _, err := language.ParseBase(lang); err != nil {
		return fmt.Errorf("unknown language code %q", lang)
	}
	return nil
}

// validateNumericValues checks ranges of numeric settings
func (v *ConfigValidator) validateNumericValues(c *Config) error {
	var problems []string

	if c.ConfidenceThreshold < 0 || c.ConfidenceThreshold > 1 {
		problems = append(problems, "confidence threshold must be within [0, 1]")
	}
	if c.RasterDPI < constants.MinRasterDPI || c.RasterDPI > constants.MaxRasterDPI {
		problems = append(problems, fmt.Sprintf("raster DPI must be within [%d, %d]",
			constants.MinRasterDPI, constants.MaxRasterDPI))
	}
	if c.MaxConcurrency < 1 {
		problems = append(problems, "max concurrency must be at least 1")
	}
	if c.MaxConcurrency > constants.MaxConcurrentPages {
		problems = append(problems, fmt.Sprintf("max concurrency should not exceed %d", constants.MaxConcurrentPages))
	}
	if c.TimeoutMinutes < 1 {
		problems = append(problems, "timeout must be at least 1 minute")
	}
	if c.MaxFileSize <= 0 {
		problems = append(problems, "max file size must be positive")
	}
	if c.MaxConcurrentDocuments < 1 {
		problems = append(problems, "max concurrent documents must be at least 1")
	}
	if c.CacheEnabled && c.CacheDir == "" {
		problems = append(problems, "cache directory is required when the cache is enabled")
	}

	if len(problems) > 0 {
		return fmt.Errorf("%s", strings.Join(problems, "; "))
	}
	return nil
}

// validateLogging checks log level and format
func (v *ConfigValidator) validateLogging(level, format string) error {
	validLevels := []string{"debug", "info", "warn", "error"}

	levelOK := false
	for _, valid := range validLevels {
		if strings.ToLower(level) == valid {
			levelOK = true
			break
		}
	}
	if !levelOK {
		return fmt.Errorf("invalid log level: %s", level)
	}

	if format != "console" && format != "json" {
		return fmt.Errorf("invalid log format: %s", format)
	}

	return nil
}
