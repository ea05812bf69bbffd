package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ratewatch/ratewatch/internal/credstore"
	"github.com/ratewatch/ratewatch/internal/dashboard"
	"github.com/ratewatch/ratewatch/internal/flow"
	"github.com/ratewatch/ratewatch/internal/rates"
	"github.com/ratewatch/ratewatch/internal/scheduler"
	"github.com/ratewatch/ratewatch/internal/service"
	"github.com/ratewatch/ratewatch/internal/storage"
	"github.com/spf13/viper"
)

// defaultAPIBaseURL is the dashboard/auth API root used when the config
// does not override it.
const defaultAPIBaseURL = "https://dashboard-router.fly.dev"

// expandPath resolves a leading ~ and any $VAR references in a configured
// path, so the cache and credential files can be declared portably in the
// config file and still land under the invoking user's home.
func expandPath(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, path[1:])
		}
	}
	return os.ExpandEnv(path)
}

// initStorage opens the shared cache database and runs any pending
// migrations. Both the interactive commands and the watcher go through
// this path, so a version bump is applied by whichever process starts
// first.
func initStorage(ctx context.Context) (*storage.SQLiteStorage, error) {
	dbPath := viper.GetString("database.path")
	if dbPath == "" {
		dbPath = "~/.local/share/ratewatch/cache.db"
	}
	dbPath = expandPath(dbPath)

	store, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// initCredStore opens the shared credential file.
func initCredStore() (*credstore.FileStore, error) {
	path := viper.GetString("credentials.path")
	if path == "" {
		path = "~/.local/share/ratewatch/credentials.json"
	}
	path = expandPath(path)

	store, err := credstore.NewFileStore(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open credential store: %w", err)
	}
	return store, nil
}

func apiBaseURL() string {
	if url := viper.GetString("api.base_url"); url != "" {
		return url
	}
	return defaultAPIBaseURL
}

func ratesEndpoint() string {
	if url := viper.GetString("rates.endpoint"); url != "" {
		return url
	}
	return rates.DefaultEndpoint
}

// deps bundles everything a command needs. Close releases the database.
type deps struct {
	creds     *credstore.FileStore
	store     *storage.SQLiteStorage
	gateway   *dashboard.Gateway
	dashboard service.DashboardFetcher
	rates     service.RateSource
}

func (d *deps) Close() {
	_ = d.store.Close()
}

// buildDeps wires the full dependency graph from configuration.
func buildDeps(ctx context.Context) (*deps, error) {
	creds, err := initCredStore()
	if err != nil {
		return nil, err
	}

	store, err := initStorage(ctx)
	if err != nil {
		return nil, err
	}

	gateway := dashboard.NewGateway(apiBaseURL(), creds)
	return &deps{
		creds:     creds,
		store:     store,
		gateway:   gateway,
		dashboard: dashboard.NewClient(apiBaseURL(), creds, gateway, store),
		rates:     rates.NewClient(ratesEndpoint()),
	}, nil
}

func buildMachine(d *deps) *flow.Machine {
	return flow.NewMachine(d.creds, d.gateway, d.dashboard, d.store)
}

func buildScheduler(d *deps) *scheduler.Scheduler {
	return scheduler.New(d.creds, d.store, d.dashboard, d.rates)
}
