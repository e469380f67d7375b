// Package app provides the application context and dependency management
// for the starschema CLI. It follows idiomatic Go patterns for CLI applications
// by centralizing configuration, dependency injection, and lifecycle management.
package app

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/astrolab/starschema"
	"github.com/astrolab/starschema/cmd/application"
	"github.com/astrolab/starschema/internal/cmd/output"
	"github.com/astrolab/starschema/internal/embedded"
	"github.com/astrolab/starschema/pkg/constants"
	"github.com/astrolab/starschema/pkg/errors"
	"github.com/astrolab/starschema/pkg/schema"
)

// App represents the starschema application with all its dependencies.
// It provides a centralized place for configuration, logging, and
// the starschema client, following the dependency injection pattern.
type App struct {
	// Version information
	version string
	commit  string
	date    string
	builtBy string

	// Configuration
	config *Config

	// Logger
	logger *zerolog.Logger

	// Default client (lazy-initialized, singleton)
	mu     sync.RWMutex
	client starschema.Client
}

// Ensure App implements the command-facing interface at compile time.
var _ application.Application = (*App)(nil)

// New creates a new App instance with the given version information.
// The app is initialized with default configuration that can be
// customized using functional options.
func New(version, commit, date, builtBy string, opts ...Option) (*App, error) {
	app := &App{
		version: version,
		commit:  commit,
		date:    date,
		builtBy: builtBy,
	}

	// Load configuration
	config, err := LoadConfig()
	if err != nil {
		return nil, errors.NewConfigError("app", "failed to load configuration", err)
	}
	app.config = config

	// Initialize logger
	logger := NewLogger(config)
	app.logger = &logger

	// Apply any custom options
	for _, opt := range opts {
		if err := opt(app); err != nil {
			return nil, err
		}
	}

	return app, nil
}

// Version returns the version information.
func (a *App) Version() string {
	return a.version
}

// Commit returns the git commit hash.
func (a *App) Commit() string {
	return a.commit
}

// Date returns the build date.
func (a *App) Date() string {
	return a.date
}

// BuiltBy returns the build system identifier.
func (a *App) BuiltBy() string {
	return a.builtBy
}

// Config returns the application configuration.
func (a *App) Config() *Config {
	return a.config
}

// Logger returns the application logger.
func (a *App) Logger() *zerolog.Logger {
	return a.logger
}

// OutputFormat returns the effective output format, auto-detected from the
// terminal when no explicit format is configured.
func (a *App) OutputFormat() string {
	return string(output.DetectFormat(a.config.Format))
}

// Client returns a starschema client. Without options it returns the default
// instance built from the app configuration, creating it lazily on first use;
// that instance is cached and shared, and Shutdown closes it. With options it
// creates a new uncached instance owned by the caller.
func (a *App) Client(ctx context.Context, opts ...starschema.Option) (starschema.Client, error) {
	if len(opts) > 0 {
		return a.newClient(ctx, append(a.buildClientOptions(), opts...)...)
	}

	a.mu.RLock()
	if a.client != nil {
		c := a.client
		a.mu.RUnlock()
		return c, nil
	}
	a.mu.RUnlock()

	a.mu.Lock()
	defer a.mu.Unlock()

	// Double-check after acquiring write lock
	if a.client != nil {
		return a.client, nil
	}

	c, err := a.newClient(ctx, a.buildClientOptions()...)
	if err != nil {
		return nil, err
	}

	a.client = c
	return c, nil
}

// newClient dials a client, bounding construction with the configured
// connect timeout. The timeout covers the dial only, not later calls.
func (a *App) newClient(ctx context.Context, opts ...starschema.Option) (starschema.Client, error) {
	timeout := a.config.ConnectTimeout
	if timeout <= 0 {
		timeout = constants.DefaultConnectTimeout
	}

	dialCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return starschema.New(dialCtx, opts...)
}

// Target returns the schema target the app is configured for. A --target
// flag or TARGET env names a YAML file; otherwise the embedded chart target
// is used. This does not require a database connection.
func (a *App) Target() (*schema.Table, error) {
	if a.config.TargetFile != "" {
		return schema.LoadFile(a.config.TargetFile)
	}

	data, err := embedded.ReadCanonicalTarget()
	if err != nil {
		return nil, err
	}
	return schema.Parse(data)
}

// Shutdown performs graceful shutdown of the application.
// It closes the default client's database handle if one was opened.
func (a *App) Shutdown(_ context.Context) error {
	a.mu.Lock()
	c := a.client
	a.client = nil
	a.mu.Unlock()

	if c != nil {
		if err := c.Close(); err != nil {
			return err
		}
	}

	return nil
}

// buildClientOptions constructs client options from the app configuration.
func (a *App) buildClientOptions() []starschema.Option {
	opts := []starschema.Option{
		starschema.WithLogger(a.logger),
	}

	// Add database connection if configured
	if a.config.DatabaseURL != "" {
		opts = append(opts, starschema.WithDatabase(a.config.DatabaseURL))
	}

	// Add target file if configured; the embedded target applies otherwise
	if a.config.TargetFile != "" {
		opts = append(opts, starschema.WithTargetFile(a.config.TargetFile))
	}

	return opts
}

// Option is a functional option for configuring the App.
type Option func(*App) error

// WithConfig sets a custom configuration.
func WithConfig(config *Config) Option {
	return func(a *App) error {
		a.config = config
		return nil
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(a *App) error {
		a.logger = logger
		return nil
	}
}

// WithClient sets a custom default client (useful for testing).
func WithClient(c starschema.Client) Option {
	return func(a *App) error {
		a.client = c
		return nil
	}
}
