package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/hay-kot/jtl/internal/core/config"
	"github.com/hay-kot/jtl/internal/core/styles"
	"github.com/hay-kot/jtl/internal/data/db"
	"github.com/hay-kot/jtl/internal/jtl"
)

type Flags struct {
	LogLevel   string
	LogFile    string
	ConfigPath string
	DataDir    string
}

// Deps builds the application on first use so that commands which only
// touch the config file (init, config validate) never open the database.
type Deps struct {
	flags *Flags
	build jtl.BuildInfo

	cfg *config.Config
	app *jtl.App
}

// NewDeps returns lazily-initialised dependencies for flags.
func NewDeps(flags *Flags, build jtl.BuildInfo) *Deps {
	return &Deps{flags: flags, build: build}
}

// Config loads the config file and applies its theme.
func (d *Deps) Config() (*config.Config, error) {
	if d.cfg != nil {
		return d.cfg, nil
	}

	cfg, err := config.Load(d.flags.ConfigPath, d.flags.DataDir)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	styles.SetThemeByName(cfg.TUI.Theme)

	d.cfg = cfg
	return cfg, nil
}

// App opens the database and wires the application.
func (d *Deps) App(ctx context.Context) (*jtl.App, error) {
	if d.app != nil {
		return d.app, nil
	}

	cfg, err := d.Config()
	if err != nil {
		return nil, err
	}

	database, err := jtl.OpenDatabase(cfg.DataDir, db.DefaultOpenOptions())
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	app, err := jtl.NewApp(ctx, cfg, database, d.build)
	if err != nil {
		_ = database.Close()
		return nil, err
	}

	d.app = app
	return app, nil
}

// Close releases the database if it was opened.
func (d *Deps) Close() error {
	if d.app == nil {
		return nil
	}
	return d.app.DB.Close()
}

// DefaultConfigPath returns the default config file path using XDG_CONFIG_HOME.
func DefaultConfigPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, _ := os.UserHomeDir()
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "jtl", "config.yaml")
}

// DefaultDataDir returns the default data directory using XDG_DATA_HOME.
func DefaultDataDir() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, _ := os.UserHomeDir()
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "jtl")
}

// DefaultLogFile returns the default log file path using the system's state directory.
// On macOS: ~/Library/Logs/jtl/jtl.log
// On Linux: $XDG_STATE_HOME/jtl/jtl.log (defaults to ~/.local/state/jtl/jtl.log)
func DefaultLogFile() string {
	stateHome := os.Getenv("XDG_STATE_HOME")
	if stateHome != "" {
		return filepath.Join(stateHome, "jtl", "jtl.log")
	}

	home, _ := os.UserHomeDir()
	if runtime.GOOS == "darwin" {
		return filepath.Join(home, "Library", "Logs", "jtl", "jtl.log")
	}
	return filepath.Join(home, ".local", "state", "jtl", "jtl.log")
}
