package starschema

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/astrolab/starschema/internal/embedded"
	"github.com/astrolab/starschema/pkg/catalog"
	"github.com/astrolab/starschema/pkg/errors"
	"github.com/astrolab/starschema/pkg/logging"
	"github.com/astrolab/starschema/pkg/schema"
)

// options configures a Client.
type options struct {
	target      *schema.Table
	targetFile  string
	targetYAML  []byte
	useEmbedded bool

	catalog     catalog.Catalog
	databaseURL string

	dryRun bool
	logger *zerolog.Logger
}

func defaultOptions() *options {
	return &options{
		logger: logging.Default(),
	}
}

// Option is a function that configures a Client.
type Option func(*options) error

func (options *options) apply(opts ...Option) (*options, error) {
	for _, opt := range opts {
		if err := opt(options); err != nil {
			return nil, err
		}
	}
	return options, nil
}

// newOptions returns client options with default values.
func newOptions(opts ...Option) (*options, error) {
	return defaultOptions().apply(opts...)
}

// targetSources counts how many target sources were configured.
func (o *options) targetSources() int {
	n := 0
	if o.target != nil {
		n++
	}
	if o.targetFile != "" {
		n++
	}
	if len(o.targetYAML) > 0 {
		n++
	}
	if o.useEmbedded {
		n++
	}
	return n
}

// resolveTarget loads and validates the configured target. The embedded
// chart target is the default when nothing else is configured.
func (o *options) resolveTarget() (*schema.Table, error) {
	if o.targetSources() > 1 {
		return nil, errors.NewConfigError("client", "multiple target sources configured, choose one", nil)
	}

	switch {
	case o.target != nil:
		o.target.Normalize()
		if err := o.target.Validate(); err != nil {
			return nil, err
		}
		return o.target, nil
	case o.targetFile != "":
		return schema.LoadFile(o.targetFile)
	case len(o.targetYAML) > 0:
		return schema.Parse(o.targetYAML)
	default:
		data, err := embedded.ReadCanonicalTarget()
		if err != nil {
			return nil, err
		}
		return schema.Parse(data)
	}
}

// resolveCatalog returns the configured catalog and whether the client owns
// its lifetime.
func (o *options) resolveCatalog(ctx context.Context) (catalog.Catalog, bool, error) {
	if o.catalog != nil && o.databaseURL != "" {
		return nil, false, errors.NewConfigError("client", "both a catalog and a connection string configured, choose one", nil)
	}
	if o.catalog != nil {
		return o.catalog, false, nil
	}
	if o.databaseURL == "" {
		return nil, false, errors.NewConfigError("client", "a connection string or catalog is required", errors.ErrNoDatabase)
	}

	cat, err := catalog.Open(ctx, o.databaseURL)
	if err != nil {
		return nil, false, err
	}
	return cat, true, nil
}

// WithTarget uses an already constructed target declaration.
func WithTarget(target *schema.Table) Option {
	return func(o *options) error {
		if target == nil {
			return &errors.ValidationError{Field: "target", Message: "cannot be nil"}
		}
		o.target = target
		return nil
	}
}

// WithTargetFile loads the target declaration from a YAML file.
func WithTargetFile(path string) Option {
	return func(o *options) error {
		if path == "" {
			return &errors.ValidationError{Field: "target file", Message: "cannot be empty"}
		}
		o.targetFile = path
		return nil
	}
}

// WithTargetYAML parses the target declaration from YAML bytes.
func WithTargetYAML(data []byte) Option {
	return func(o *options) error {
		if len(data) == 0 {
			return &errors.ValidationError{Field: "target yaml", Message: "cannot be empty"}
		}
		o.targetYAML = data
		return nil
	}
}

// WithEmbeddedTarget selects the embedded chart target explicitly.
func WithEmbeddedTarget() Option {
	return func(o *options) error {
		o.useEmbedded = true
		return nil
	}
}

// WithCatalog uses an already open catalog. The caller keeps ownership and
// closes it.
func WithCatalog(cat catalog.Catalog) Option {
	return func(o *options) error {
		if cat == nil {
			return &errors.ValidationError{Field: "catalog", Message: "cannot be nil"}
		}
		o.catalog = cat
		return nil
	}
}

// WithDatabase dials the database at the given connection string.
// postgres:// and postgresql:// strings get a pgx pool, anything else is
// treated as a SQLite path.
func WithDatabase(dsn string) Option {
	return func(o *options) error {
		if dsn == "" {
			return &errors.ValidationError{Field: "database", Message: "connection string cannot be empty"}
		}
		o.databaseURL = dsn
		return nil
	}
}

// WithDryRun plans without applying.
func WithDryRun(enabled bool) Option {
	return func(o *options) error {
		o.dryRun = enabled
		return nil
	}
}

// WithLogger sets the logger handed to the reconciler.
func WithLogger(logger *zerolog.Logger) Option {
	return func(o *options) error {
		if logger == nil {
			return &errors.ValidationError{Field: "logger", Message: "cannot be nil"}
		}
		o.logger = logger
		return nil
	}
}
