// Package app wires together all adapters and domain logic.
// It provides lifecycle management for pokesrc: create, serve, stop.
package app

import (
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/corey/pokesrc/data"
	"github.com/corey/pokesrc/internal/adapters/bbolt"
	fsw "github.com/corey/pokesrc/internal/adapters/fsnotify"
	"github.com/corey/pokesrc/internal/adapters/pokeapi"
	"github.com/corey/pokesrc/internal/adapters/pokemoem"
	"github.com/corey/pokesrc/internal/adapters/web"
	"github.com/corey/pokesrc/internal/config"
	"github.com/corey/pokesrc/internal/domain/effectiveness"
	"github.com/corey/pokesrc/internal/domain/lookup"
	"github.com/corey/pokesrc/internal/domain/matcher"
	"github.com/corey/pokesrc/internal/domain/names"
	"github.com/corey/pokesrc/internal/domain/typechart"
	"github.com/corey/pokesrc/internal/ports"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// ErrInitialization wraps every failure to build the bundled data or the
// cache at startup. It is fatal.
var ErrInitialization = errors.New("initialization failed")

// App is the top-level container wiring all components together.
type App struct {
	Paths   *Paths
	Names   *names.Index
	Chart   *typechart.Chart
	Matcher *matcher.Matcher
	Effect  *effectiveness.Resolver

	Store     *bbolt.Store // nil when the cache is disabled
	WebServer *web.Server
	Watcher   *fsw.Watcher

	lookup  *lookup.Resolver
	species ports.SpeciesFetcher
	usage   ports.UsageFetcher
	labels  ports.LabelResolver

	settings   atomic.Pointer[config.Config]
	configPath string
	stopOnce   sync.Once
}

// Config holds initialization parameters for the App.
type Config struct {
	ProjectRoot string
	ConfigPath  string        // file watched by Start (default: .pokesrc/config.yaml)
	Settings    config.Config // loaded settings; zero value = config.Default()
	NoCache     bool          // skip the bbolt cache entirely

	// Optional overrides; nil = HTTP adapters built from Settings.
	HTTPClient *http.Client
	Records    ports.RecordFetcher
	Species    ports.SpeciesFetcher
	Usage      ports.UsageFetcher
	Labels     ports.LabelResolver
	Data       fs.FS // default: embedded bundle
}

// New creates an App with all dependencies wired. Does not start services.
// The name index and type chart are loaded exactly once here.
func New(cfg Config) (*App, error) {
	if cfg.ProjectRoot == "" {
		return nil, fmt.Errorf("%w: project root required", ErrInitialization)
	}
	settings := cfg.Settings
	if settings.PokeAPIBaseURL == "" {
		settings = config.Default()
	}
	if err := settings.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInitialization, err)
	}

	paths := NewPaths(cfg.ProjectRoot)
	fsys := cfg.Data
	if fsys == nil {
		fsys = data.FS
	}

	idx, err := names.Load(fsys, data.NamesPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInitialization, err)
	}
	chart, err := typechart.Load(fsys, data.TypeChartPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInitialization, err)
	}

	a := &App{
		Paths:      paths,
		Names:      idx,
		Chart:      chart,
		Matcher:    matcher.New(idx),
		Effect:     effectiveness.New(chart),
		configPath: paths.ConfigPath(cfg.ConfigPath),
	}
	a.settings.Store(&settings)

	var cache ports.Cache
	if !cfg.NoCache {
		dbPath := settings.CachePath
		if dbPath == "" {
			if err := paths.EnsureDirs(); err != nil {
				return nil, fmt.Errorf("%w: %w", ErrInitialization, err)
			}
			dbPath = paths.Cache
		}
		store, err := bbolt.NewStore(dbPath)
		if err != nil {
			return nil, fmt.Errorf("%w: open cache: %w", ErrInitialization, err)
		}
		a.Store = store
		cache = store
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: settings.HTTPTimeout}
	}
	api := pokeapi.New(settings.PokeAPIBaseURL, httpClient)

	records := cfg.Records
	if records == nil {
		records = NewCachedRecords(api, cache, settings.RecordTTL)
	}
	a.species = cfg.Species
	if a.species == nil {
		a.species = api
	}
	a.usage = cfg.Usage
	if a.usage == nil {
		a.usage = pokemoem.New(settings.UsageBaseURL, httpClient)
	}
	labels := cfg.Labels
	if labels == nil {
		labels = api
	}
	a.labels = NewCachedLabels(labels, cache, settings.LabelTTL)
	a.lookup = lookup.New(records, idx, log.Logger)

	log.Debug().
		Int("names", idx.Len()).
		Int("chart_entries", chart.Entries()).
		Bool("cache", a.Store != nil).
		Msg("app initialized")
	return a, nil
}

// Settings returns the active configuration.
func (a *App) Settings() config.Config {
	return *a.settings.Load()
}

// ApplySettings swaps the active configuration. The index and chart are
// not affected; upstream base URLs and the cache path only apply on restart.
func (a *App) ApplySettings(cfg config.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	a.settings.Store(&cfg)
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil && cfg.LogLevel != "" {
		zerolog.SetGlobalLevel(lvl)
	}
	return nil
}

// reloadConfig re-reads the config file; a bad file keeps the old settings.
func (a *App) reloadConfig(path string) {
	cfg, err := config.Load(path)
	if err != nil {
		log.Error().Err(err).Str("path", path).Msg("config reload failed, keeping previous settings")
		return
	}
	if err := a.ApplySettings(cfg); err != nil {
		log.Error().Err(err).Str("path", path).Msg("config rejected")
		return
	}
	log.Info().Str("path", path).Msg("config reloaded")
}

// Start begins serving the JSON API on addr and watches the config file.
func (a *App) Start(addr string) error {
	if err := a.Paths.EnsureDirs(); err != nil {
		return err
	}
	a.WebServer = web.NewServer(a, a.Paths.PortFile)
	if err := a.WebServer.Start(addr); err != nil {
		return err
	}

	w, err := fsw.NewWatcher()
	if err != nil {
		log.Warn().Err(err).Msg("config watcher unavailable")
		return nil
	}
	if err := w.Watch(a.configPath, a.reloadConfig); err != nil {
		w.Stop()
		log.Warn().Err(err).Str("path", a.configPath).Msg("config watch failed")
		return nil
	}
	a.Watcher = w
	log.Info().Str("addr", a.WebServer.Addr()).Str("config", filepath.Clean(a.configPath)).Msg("serving")
	return nil
}

// Stop shuts down services and closes the cache. Idempotent.
func (a *App) Stop() error {
	var err error
	a.stopOnce.Do(func() {
		if a.Watcher != nil {
			a.Watcher.Stop()
		}
		if a.WebServer != nil {
			a.WebServer.Stop()
		}
		if a.Store != nil {
			err = a.Store.Close()
		}
	})
	return err
}

