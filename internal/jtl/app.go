// Package jtl wires the stores, the JIRA client and the worklog service
// into the App that commands consume.
package jtl

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/hay-kot/jtl/internal/core/config"
	"github.com/hay-kot/jtl/internal/data/db"
	"github.com/hay-kot/jtl/internal/data/stores"
	"github.com/hay-kot/jtl/internal/jira"
	"github.com/hay-kot/jtl/internal/worklog"
)

// BuildInfo describes the running binary.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

// App is the central entry point for jtl operations. Commands consume App
// instead of cherry-picking raw dependencies.
type App struct {
	Config   *config.Config
	DB       *db.DB
	Activity *stores.ActivityStore
	KV       *stores.KVStore
	Jira     *jira.Client
	Lookup   *jira.CachedLookup
	Worklog  *worklog.Service
	Build    BuildInfo
}

// NewApp constructs an App over an open database.
func NewApp(ctx context.Context, cfg *config.Config, database *db.DB, build BuildInfo) (*App, error) {
	activityStore := stores.NewActivityStore(database)
	kvStore := stores.NewKVStore(database)

	client := jira.NewClient(cfg.Jira.URL, &jira.BasicAuth{
		Username: cfg.Jira.Username,
		Token:    cfg.Jira.Token,
	}, cfg.Jira.Timeout, log.Logger)
	lookup := jira.NewCachedLookup(client, kvStore, cfg.Jira.SummaryTTL, log.Logger)

	svc, err := worklog.New(ctx, client, lookup, activityStore, kvStore, worklog.Options{
		Version:       build.Version,
		Units:         cfg.Tracking.Units(),
		ActivityLimit: cfg.Tracking.ActivityLimit,
	})
	if err != nil {
		return nil, fmt.Errorf("create worklog service: %w", err)
	}

	return &App{
		Config:   cfg,
		DB:       database,
		Activity: activityStore,
		KV:       kvStore,
		Jira:     client,
		Lookup:   lookup,
		Worklog:  svc,
		Build:    build,
	}, nil
}

// OpenDatabase opens the database in dataDir. A corrupted file is moved
// aside and a fresh database is created in its place.
func OpenDatabase(dataDir string, opts db.OpenOptions) (*db.DB, error) {
	database, err := db.Open(dataDir, opts)
	if err == nil {
		return database, nil
	}
	if !stores.IsCorruptionError(err) {
		return nil, err
	}

	backup, rerr := stores.RecoverFromCorruption(dataDir, time.Now())
	if rerr != nil {
		return nil, fmt.Errorf("recover corrupted database: %w (open: %w)", rerr, err)
	}
	log.Warn().Err(err).Str("backup", backup).Msg("database was corrupted; starting fresh")

	return db.Open(dataDir, opts)
}
