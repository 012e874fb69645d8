// Package initcmd implements the interactive first-run setup.
package initcmd

import (
	"context"
	"fmt"
	"strconv"

	"github.com/charmbracelet/huh"

	"github.com/hay-kot/jtl/internal/core/config"
	"github.com/hay-kot/jtl/internal/core/styles"
	"github.com/hay-kot/jtl/internal/core/validate"
	"github.com/hay-kot/jtl/internal/printer"
)

// WizardOptions configures the wizard behavior.
type WizardOptions struct {
	ConfigPath string
	DataDir    string
	Yes        bool // skip prompts, use defaults
	Force      bool // overwrite existing config
}

// Wizard orchestrates the init process.
type Wizard struct {
	opts WizardOptions
}

// NewWizard creates a new init wizard.
func NewWizard(opts WizardOptions) *Wizard {
	return &Wizard{opts: opts}
}

// Run executes the wizard.
func (w *Wizard) Run(ctx context.Context) error {
	p := printer.Ctx(ctx)

	if ConfigExists(w.opts.ConfigPath) && !w.opts.Force {
		if w.opts.Yes {
			return fmt.Errorf("config exists at %s; use --force to overwrite", w.opts.ConfigPath)
		}

		var overwrite bool
		err := huh.NewConfirm().
			Title("Config file already exists").
			Description(w.opts.ConfigPath + "\nOverwrite? (a backup will be created)").
			Value(&overwrite).
			Run()
		if err != nil {
			return err
		}
		if !overwrite {
			p.Infof("Init cancelled")
			return nil
		}
	}

	answers := DefaultAnswers()
	if !w.opts.Yes {
		if err := w.prompt(&answers); err != nil {
			return err
		}
	}

	cfg, err := GenerateConfig(answers)
	if err != nil {
		return err
	}
	cfg.DataDir = w.opts.DataDir
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("generated config is invalid: %w", err)
	}

	if ConfigExists(w.opts.ConfigPath) {
		backupPath, err := BackupConfig(w.opts.ConfigPath)
		if err != nil {
			return fmt.Errorf("backup config: %w", err)
		}
		if backupPath != "" {
			p.Successf("Backed up config to: %s", backupPath)
		}
	}

	if err := WriteConfig(cfg, w.opts.ConfigPath); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	p.Successf("Created config: %s", w.opts.ConfigPath)

	for _, warn := range cfg.Warnings() {
		p.Warnf("%s: %s", warn.Category, warn.Message)
	}
	p.Infof("JIRA credentials can also be supplied through %s", EnvHint())

	p.Printf("")
	p.Section("Next Steps")
	p.Printf("  1. Run 'jtl config validate' to check the connection settings")
	p.Printf("  2. Run 'jtl' and press ctrl+g to test the JIRA connection")

	return nil
}

func (w *Wizard) prompt(a *Answers) error {
	themes := make([]huh.Option[string], 0, len(styles.ThemeNames()))
	for _, name := range styles.ThemeNames() {
		themes = append(themes, huh.NewOption(name, name))
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("JIRA URL").
				Description("Base URL of your JIRA instance, e.g. https://example.atlassian.net").
				Validate(func(s string) error {
					if s == "" {
						return nil
					}
					return validate.HTTPURL(s)
				}).
				Value(&a.JiraURL),
			huh.NewInput().
				Title("Username").
				Description("Account email or username").
				Value(&a.Username),
			huh.NewInput().
				Title("API token").
				EchoMode(huh.EchoModePassword).
				Value(&a.Token),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Default project key").
				Description("Bare issue numbers are qualified with this key. Leave empty to disable.").
				Validate(func(s string) error {
					if s == "" {
						return nil
					}
					return validate.ProjectKey(s)
				}).
				Value(&a.Project),
			huh.NewInput().
				Title("Hours per working day").
				Description("How JIRA converts 1d into hours").
				Validate(func(s string) error {
					if _, err := strconv.ParseFloat(s, 64); err != nil {
						return fmt.Errorf("not a number")
					}
					return nil
				}).
				Value(&a.HoursPerDay),
			huh.NewSelect[string]().
				Title("Theme").
				Options(themes...).
				Value(&a.Theme),
		),
	)

	return form.Run()
}

// EnvHint lists the environment variables that override the JIRA section.
func EnvHint() string {
	return fmt.Sprintf("%[1]s_JIRA_URL, %[1]s_JIRA_USERNAME, %[1]s_JIRA_TOKEN", config.EnvPrefix)
}
