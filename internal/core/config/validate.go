package config

import (
	"fmt"
	"os"
	"regexp"

	"github.com/hay-kot/criterio"

	"github.com/hay-kot/jtl/internal/core/validate"
)

// ValidationWarning represents a non-fatal configuration issue.
type ValidationWarning struct {
	Category string `json:"category"`
	Item     string `json:"item,omitempty"`
	Message  string `json:"message"`
}

// ValidateDeep performs comprehensive validation of the configuration
// including regex patterns, the JIRA URL and file accessibility. The
// configPath argument specifies the config file location to validate (empty
// string skips the config file check). This calls Validate() first for
// basic structural validation.
func (c *Config) ValidateDeep(configPath string) error {
	if err := c.Validate(); err != nil {
		return err
	}

	return criterio.ValidateStruct(
		c.validateFileAccess(configPath),
		c.validatePatterns(),
		c.validateJira(),
		c.validateProject(),
	)
}

// Warnings returns non-fatal configuration issues.
func (c *Config) Warnings() []ValidationWarning {
	var warnings []ValidationWarning

	if !c.Jira.Configured() {
		warnings = append(warnings, ValidationWarning{
			Category: "JIRA",
			Item:     "jira.url",
			Message:  "no JIRA instance configured; lookups and worklogs will fail",
		})
	} else if c.Jira.Username == "" || c.Jira.Token == "" {
		warnings = append(warnings, ValidationWarning{
			Category: "JIRA",
			Item:     "jira.token",
			Message:  "username or token missing; requests will be anonymous",
		})
	}

	if _, ok := c.DefaultProjectKey(); !ok {
		warnings = append(warnings, ValidationWarning{
			Category: "Patterns",
			Item:     "default_project_key",
			Message:  "bare issue numbers will be rejected",
		})
	}

	return warnings
}

// validateFileAccess checks the config file and data directory.
func (c *Config) validateFileAccess(configPath string) error {
	return criterio.ValidateStruct(
		validateConfigFile(configPath),
		criterio.Run("data_dir", c.DataDir, isDirectoryOrNotExist),
	)
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

// validatePatterns checks the patterns accept the values they exist for.
func (c *Config) validatePatterns() error {
	var errs criterio.FieldErrorsBuilder

	samples := []struct {
		field   string
		pattern string
		sample  string
	}{
		{"patterns.time_phrase", c.Patterns.TimePhrase, "1h 30m"},
		{"patterns.issue_key", c.Patterns.IssueKey, "ABC-123"},
	}
	for _, s := range samples {
		re, err := regexp.Compile(s.pattern)
		if err != nil {
			errs = errs.Append(s.field, fmt.Errorf("invalid regex %q: %w", s.pattern, err))
			continue
		}
		if !re.MatchString(s.sample) {
			errs = errs.Append(s.field, fmt.Errorf("pattern %q does not match %q", s.pattern, s.sample))
		}
		if re.MatchString("") {
			errs = errs.Append(s.field, fmt.Errorf("pattern %q matches an empty value", s.pattern))
		}
	}

	return errs.ToError()
}

func (c *Config) validateJira() error {
	var errs criterio.FieldErrorsBuilder
	if err := validate.HTTPURL(c.Jira.URL); err != nil {
		errs = errs.Append("jira.url", err)
	}
	if c.Jira.Timeout < 0 {
		errs = errs.Append("jira.timeout", fmt.Errorf("cannot be negative"))
	}
	if c.Jira.SummaryTTL < 0 {
		errs = errs.Append("jira.summary_ttl", fmt.Errorf("cannot be negative"))
	}
	return errs.ToError()
}

func (c *Config) validateProject() error {
	if c.DefaultProject == nil {
		return nil
	}
	return validate.ProjectKeyField("default_project_key", *c.DefaultProject)
}
