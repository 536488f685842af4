// Package app wires together all adapters and domain logic: engines, run
// history, file watching, and the HTTP server.
package app

import (
	"fmt"
	"io"

	"github.com/corey/occur/internal/adapters/bbolt"
	fsw "github.com/corey/occur/internal/adapters/fsnotify"
	"github.com/corey/occur/internal/adapters/web"
	"github.com/corey/occur/internal/logger"
	"github.com/corey/occur/internal/ports"
)

// Config holds initialization parameters for the App.
type Config struct {
	ProjectRoot string
	DBPath      string       // path to bbolt file (default: .occur/occur.db)
	LogLevel    logger.Level // minimum level written
	LogFile     string       // log file path; takes precedence over LogWriter
	LogWriter   io.Writer    // used when LogFile is empty; nil = discard
	NoHistory   bool         // never open the store; runs are not recorded
}

// App is the top-level container wiring all components together.
type App struct {
	Paths     *Paths
	Store     ports.RunStore // nil when history is disabled
	Log       *logger.Logger
	WebServer *web.Server

	closeStore func() error
}

// New creates an App with all dependencies wired. Does not start services.
func New(cfg Config) (*App, error) {
	if cfg.ProjectRoot == "" {
		return nil, fmt.Errorf("project root required")
	}
	paths := NewPaths(cfg.ProjectRoot)
	if cfg.DBPath == "" {
		cfg.DBPath = paths.DB
	}

	log, err := logger.New(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		return nil, fmt.Errorf("open log: %w", err)
	}
	if cfg.LogFile == "" && cfg.LogWriter != nil {
		log = logger.NewWriter(cfg.LogLevel, cfg.LogWriter)
	}

	a := &App{Paths: paths, Log: log}
	if !cfg.NoHistory {
		if err := paths.EnsureDirs(); err != nil {
			log.Close()
			return nil, fmt.Errorf("create %s: %w", paths.Root, err)
		}
		store, err := bbolt.NewStore(cfg.DBPath)
		if err != nil {
			log.Close()
			return nil, fmt.Errorf("open store: %w", err)
		}
		a.Store = store
		a.closeStore = store.Close
	}

	a.WebServer = web.NewServer(a, log.WithPrefix("web"), paths.PortFile)
	return a, nil
}

// Close stops the HTTP server and releases the store and log file.
func (a *App) Close() error {
	a.WebServer.Stop()
	var err error
	if a.closeStore != nil {
		err = a.closeStore()
		a.closeStore = nil
	}
	if cerr := a.Log.Close(); err == nil {
		err = cerr
	}
	return err
}

// NewWatcher returns a file watcher for re-running searches on change.
func (a *App) NewWatcher() (ports.Watcher, error) {
	w, err := fsw.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	return w, nil
}

// Runs lists recorded runs, newest first. Without a store it returns nothing.
func (a *App) Runs(limit int) ([]*ports.Run, error) {
	if a.Store == nil {
		return nil, nil
	}
	return a.Store.ListRuns(limit)
}

// ClearRuns removes all recorded runs.
func (a *App) ClearRuns() error {
	if a.Store == nil {
		return nil
	}
	return a.Store.Clear()
}

// Engines lists the engine names accepted by Search.
func (a *App) Engines() []string {
	return EngineNames()
}
