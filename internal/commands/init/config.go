package initcmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/hay-kot/jtl/internal/core/config"
)

// Answers are the values collected by the wizard.
type Answers struct {
	JiraURL     string
	Username    string
	Token       string
	Project     string
	Theme       string
	HoursPerDay string
}

// DefaultAnswers pre-fills the wizard from the built-in defaults.
func DefaultAnswers() Answers {
	return Answers{
		Project:     config.DefaultProjectKey,
		Theme:       config.ThemeDark,
		HoursPerDay: "8",
	}
}

// GenerateConfig builds the config file content for a.
func GenerateConfig(a Answers) (config.Config, error) {
	cfg := config.DefaultConfig()

	project := strings.TrimSpace(a.Project)
	cfg.DefaultProject = &project
	cfg.Jira.URL = strings.TrimSuffix(strings.TrimSpace(a.JiraURL), "/")
	cfg.Jira.Username = strings.TrimSpace(a.Username)
	cfg.Jira.Token = strings.TrimSpace(a.Token)
	if a.Theme != "" {
		cfg.TUI.Theme = a.Theme
	}

	if a.HoursPerDay != "" {
		hours, err := strconv.ParseFloat(strings.TrimSpace(a.HoursPerDay), 64)
		if err != nil {
			return config.Config{}, fmt.Errorf("hours per day %q: %w", a.HoursPerDay, err)
		}
		cfg.Tracking.HoursPerDay = hours
	}

	return cfg, nil
}

// WriteConfig marshals cfg to path, creating parent directories. The file
// is private to the user because it may hold an API token.
func WriteConfig(cfg config.Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	header := []byte("# jtl configuration. JTL_JIRA_URL, JTL_JIRA_USERNAME and JTL_JIRA_TOKEN override the jira section.\n")
	return os.WriteFile(path, append(header, data...), 0o600)
}
