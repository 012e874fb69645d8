// Package config handles configuration loading and validation for jtl.
package config

import (
	"fmt"
	"os"
	"regexp"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	"github.com/hay-kot/jtl/internal/core/issuekey"
	"github.com/hay-kot/jtl/internal/core/timephrase"
)

// EnvPrefix is the prefix of environment variables that override the file.
const EnvPrefix = "JTL"

// DefaultProjectKey is the project bare issue numbers are qualified with
// when the config file does not say otherwise.
const DefaultProjectKey = "jtl"

// Config holds the application configuration.
type Config struct {
	// DefaultProject qualifies bare issue numbers. Nil or empty disables
	// the fallback.
	DefaultProject *string    `yaml:"default_project_key"`
	Patterns       Patterns   `yaml:"patterns"`
	Jira           JiraConfig `yaml:"jira"`
	Tracking       Tracking   `yaml:"tracking"`
	TUI            TUIConfig  `yaml:"tui"`
	DataDir        string     `yaml:"-"` // set by caller, not from config file

	timeRe  *regexp.Regexp
	issueRe *regexp.Regexp
}

// Patterns are the regular expressions the form is validated against.
type Patterns struct {
	TimePhrase string `yaml:"time_phrase"`
	IssueKey   string `yaml:"issue_key"`
}

// JiraConfig holds the JIRA connection settings.
type JiraConfig struct {
	URL        string        `yaml:"url"`
	Username   string        `yaml:"username"`
	Token      string        `yaml:"token"`
	Timeout    time.Duration `yaml:"timeout"`
	SummaryTTL time.Duration `yaml:"summary_ttl"`
}

// Configured reports whether a JIRA instance has been set.
func (j JiraConfig) Configured() bool {
	return j.URL != ""
}

// Tracking holds the time tracking settings.
type Tracking struct {
	HoursPerDay   float64       `yaml:"hours_per_day"`
	DaysPerWeek   float64       `yaml:"days_per_week"`
	Debounce      time.Duration `yaml:"debounce"`
	// ActivityLimit caps the stored activity log; the oldest entries are
	// dropped past it.
	ActivityLimit int           `yaml:"activity_limit"`
}

// Units returns the JIRA unit conversion for day and week phrases.
func (t Tracking) Units() timephrase.Units {
	return timephrase.Units{HoursPerDay: t.HoursPerDay, DaysPerWeek: t.DaysPerWeek}
}

// TUIConfig holds terminal UI settings.
type TUIConfig struct {
	Theme string `yaml:"theme"`
}

// Supported TUI themes.
const (
	ThemeDark  = "dark"
	ThemeLight = "light"
)

// envOverrides are read from JTL_* environment variables.
type envOverrides struct {
	JiraURL      string `envconfig:"JIRA_URL"`
	JiraUsername string `envconfig:"JIRA_USERNAME"`
	JiraToken    string `envconfig:"JIRA_TOKEN"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	project := DefaultProjectKey
	return Config{
		DefaultProject: &project,
		Patterns: Patterns{
			TimePhrase: timephrase.DefaultPattern,
			IssueKey:   issuekey.DefaultPattern,
		},
		Jira: JiraConfig{
			Timeout:    30 * time.Second,
			SummaryTTL: 10 * time.Minute,
		},
		Tracking: Tracking{
			HoursPerDay:   timephrase.DefaultUnits.HoursPerDay,
			DaysPerWeek:   timephrase.DefaultUnits.DaysPerWeek,
			Debounce:      500 * time.Millisecond,
			ActivityLimit: 500,
		},
		TUI: TUIConfig{Theme: ThemeDark},
	}
}

// Load reads configuration from the given path and sets the data directory.
// If configPath is empty or doesn't exist, defaults are used. JTL_JIRA_*
// environment variables take precedence over the file.
func Load(configPath, dataDir string) (*Config, error) {
	cfg := DefaultConfig()

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			data, err := os.ReadFile(configPath)
			if err != nil {
				return nil, fmt.Errorf("read config file: %w", err)
			}

			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("parse config file: %w", err)
			}
		}
	}

	cfg.DataDir = dataDir

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

func (c *Config) applyEnv() error {
	var env envOverrides
	if err := envconfig.Process(EnvPrefix, &env); err != nil {
		return fmt.Errorf("read environment: %w", err)
	}

	if env.JiraURL != "" {
		c.Jira.URL = env.JiraURL
	}
	if env.JiraUsername != "" {
		c.Jira.Username = env.JiraUsername
	}
	if env.JiraToken != "" {
		c.Jira.Token = env.JiraToken
	}
	return nil
}

// applyDefaults sets default values for any unset configuration options.
func (c *Config) applyDefaults() {
	defaults := DefaultConfig()
	if c.Patterns.TimePhrase == "" {
		c.Patterns.TimePhrase = defaults.Patterns.TimePhrase
	}
	if c.Patterns.IssueKey == "" {
		c.Patterns.IssueKey = defaults.Patterns.IssueKey
	}
	if c.Jira.Timeout == 0 {
		c.Jira.Timeout = defaults.Jira.Timeout
	}
	if c.Jira.SummaryTTL == 0 {
		c.Jira.SummaryTTL = defaults.Jira.SummaryTTL
	}
	if c.Tracking.HoursPerDay == 0 {
		c.Tracking.HoursPerDay = defaults.Tracking.HoursPerDay
	}
	if c.Tracking.DaysPerWeek == 0 {
		c.Tracking.DaysPerWeek = defaults.Tracking.DaysPerWeek
	}
	if c.Tracking.Debounce == 0 {
		c.Tracking.Debounce = defaults.Tracking.Debounce
	}
	if c.Tracking.ActivityLimit == 0 {
		c.Tracking.ActivityLimit = defaults.Tracking.ActivityLimit
	}
	if c.TUI.Theme == "" {
		c.TUI.Theme = defaults.TUI.Theme
	}
}

// Validate checks that the configuration is valid and compiles the
// validation patterns.
func (c *Config) Validate() error {
	if c.DataDir == "" {
		return fmt.Errorf("data directory cannot be empty")
	}

	timeRe, err := regexp.Compile(c.Patterns.TimePhrase)
	if err != nil {
		return fmt.Errorf("patterns.time_phrase: %w", err)
	}
	issueRe, err := regexp.Compile(c.Patterns.IssueKey)
	if err != nil {
		return fmt.Errorf("patterns.issue_key: %w", err)
	}

	if c.Tracking.HoursPerDay <= 0 || c.Tracking.HoursPerDay > 24 {
		return fmt.Errorf("tracking.hours_per_day must be between 0 and 24")
	}
	if c.Tracking.DaysPerWeek <= 0 || c.Tracking.DaysPerWeek > 7 {
		return fmt.Errorf("tracking.days_per_week must be between 0 and 7")
	}
	if c.Tracking.Debounce < 0 {
		return fmt.Errorf("tracking.debounce cannot be negative")
	}
	if c.Tracking.ActivityLimit < 0 {
		return fmt.Errorf("tracking.activity_limit cannot be negative")
	}

	switch c.TUI.Theme {
	case ThemeDark, ThemeLight:
	default:
		return fmt.Errorf("tui.theme %q must be %q or %q", c.TUI.Theme, ThemeDark, ThemeLight)
	}

	c.timeRe = timeRe
	c.issueRe = issueRe
	return nil
}

// DefaultProjectKey returns the project bare issue numbers are qualified
// with; ok is false when the fallback is disabled.
func (c *Config) DefaultProjectKey() (string, bool) {
	if c.DefaultProject == nil || *c.DefaultProject == "" {
		return "", false
	}
	return *c.DefaultProject, true
}

// TimePattern returns the compiled time phrase pattern.
func (c *Config) TimePattern() *regexp.Regexp {
	if c.timeRe == nil {
		c.timeRe = regexp.MustCompile(timephrase.DefaultPattern)
	}
	return c.timeRe
}

// IssueKeyPattern returns the compiled issue key pattern.
func (c *Config) IssueKeyPattern() *regexp.Regexp {
	if c.issueRe == nil {
		c.issueRe = regexp.MustCompile(issuekey.DefaultPattern)
	}
	return c.issueRe
}
