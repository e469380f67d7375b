package errors_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/astrolab/starschema/pkg/errors"
)

func TestNew(t *testing.T) {
	err := pkgerrors.New("test error")
	assert.NotNil(t, err)
	assert.Equal(t, "test error", err.Error())
}

func TestValidationError(t *testing.T) {
	t.Run("with field", func(t *testing.T) {
		err := &pkgerrors.ValidationError{
			Field:   "columns[0].name",
			Message: "cannot be empty",
		}
		assert.Equal(t, "validation failed for columns[0].name: cannot be empty", err.Error())
		assert.True(t, errors.Is(err, pkgerrors.ErrInvalidInput))
	})

	t.Run("without field", func(t *testing.T) {
		err := &pkgerrors.ValidationError{
			Message: "invalid target",
		}
		assert.Equal(t, "validation failed: invalid target", err.Error())
		assert.True(t, pkgerrors.IsValidationError(err))
	})

	t.Run("constructor", func(t *testing.T) {
		err := pkgerrors.NewValidationError("indexes[2].method", "hash", "unknown index method")
		assert.Contains(t, err.Error(), "indexes[2].method")
		assert.Contains(t, err.Error(), "unknown index method")
	})
}

func TestConfigError(t *testing.T) {
	t.Run("basic error", func(t *testing.T) {
		err := &pkgerrors.ConfigError{
			Component: "database",
			Message:   "DATABASE_URL cannot be empty",
		}
		assert.Contains(t, err.Error(), "database")
		assert.Contains(t, err.Error(), "DATABASE_URL")
	})

	t.Run("constructor", func(t *testing.T) {
		err := pkgerrors.NewConfigError("target", "no such file", nil)
		assert.Contains(t, err.Error(), "target")
		assert.Contains(t, err.Error(), "no such file")
	})
}

func TestParseError(t *testing.T) {
	t.Run("with file", func(t *testing.T) {
		err := &pkgerrors.ParseError{
			Format:  "yaml",
			File:    "target.yaml",
			Message: "invalid indentation",
		}
		assert.Contains(t, err.Error(), "yaml")
		assert.Contains(t, err.Error(), "target.yaml")
		assert.Contains(t, err.Error(), "invalid indentation")
	})

	t.Run("format only", func(t *testing.T) {
		err := &pkgerrors.ParseError{
			Format:  "json",
			Message: "unexpected token",
		}
		assert.Contains(t, err.Error(), "json parse error")
		assert.Contains(t, err.Error(), "unexpected token")
	})

	t.Run("constructor and wrap", func(t *testing.T) {
		baseErr := errors.New("EOF")
		err := pkgerrors.NewParseError("yaml", "charts.yaml", "unexpected end", baseErr)
		assert.Contains(t, err.Error(), "charts.yaml")
		assert.Equal(t, baseErr, err.Unwrap())

		wrapped := pkgerrors.WrapParse("yaml", "other.yaml", baseErr)
		parseErr, ok := wrapped.(*pkgerrors.ParseError)
		require.True(t, ok)
		assert.Equal(t, "yaml", parseErr.Format)
		assert.Equal(t, "other.yaml", parseErr.File)
	})
}

func TestIOError(t *testing.T) {
	t.Run("basic error", func(t *testing.T) {
		err := &pkgerrors.IOError{
			Operation: "read",
			Path:      "/tmp/target.yaml",
			Message:   "permission denied",
			Err:       errors.New("permission denied"),
		}
		assert.Contains(t, err.Error(), "read")
		assert.Contains(t, err.Error(), "/tmp/target.yaml")
		assert.Contains(t, err.Error(), "permission denied")
	})

	t.Run("unwrap", func(t *testing.T) {
		baseErr := errors.New("disk full")
		err := pkgerrors.NewIOError("write", "/docs/SCHEMA.md", baseErr)
		assert.Equal(t, baseErr, err.Unwrap())
	})

	t.Run("wrap helper", func(t *testing.T) {
		baseErr := errors.New("no such file")
		err := pkgerrors.WrapIO("open", "missing.yaml", baseErr)
		ioErr, ok := err.(*pkgerrors.IOError)
		require.True(t, ok)
		assert.Equal(t, "open", ioErr.Operation)
		assert.Equal(t, "missing.yaml", ioErr.Path)
	})
}

func TestStatementError(t *testing.T) {
	t.Run("with object", func(t *testing.T) {
		engineErr := errors.New(`pq: permission denied for table astrology_charts`)
		err := &pkgerrors.StatementError{
			Operation: "add column",
			Table:     "astrology_charts",
			Object:    "yogas",
			Err:       engineErr,
		}
		assert.Contains(t, err.Error(), "add column")
		assert.Contains(t, err.Error(), "yogas")
		assert.Contains(t, err.Error(), "astrology_charts")
		assert.Contains(t, err.Error(), "permission denied")
		assert.Equal(t, engineErr, err.Unwrap())
	})

	t.Run("without object", func(t *testing.T) {
		err := pkgerrors.NewStatementError("query", "astrology_charts", "", errors.New("connection reset"))
		assert.Contains(t, err.Error(), "query on astrology_charts")
		assert.Contains(t, err.Error(), "connection reset")
	})

	t.Run("wrap helper preserves engine error", func(t *testing.T) {
		engineErr := errors.New("syntax error at or near \"USING\"")
		err := pkgerrors.WrapStatement("create index", "astrology_charts", "idx_charts_yogas", engineErr)
		assert.True(t, errors.Is(err, engineErr))
		assert.Contains(t, err.Error(), engineErr.Error())

		assert.Nil(t, pkgerrors.WrapStatement("create index", "t", "i", nil))
	})
}

func TestHelperFunctions(t *testing.T) {
	t.Run("IsNotFound", func(t *testing.T) {
		assert.True(t, pkgerrors.IsNotFound(pkgerrors.ErrNotFound))
		assert.False(t, pkgerrors.IsNotFound(errors.New("not found")))
	})

	t.Run("IsAlreadyExists", func(t *testing.T) {
		assert.True(t, pkgerrors.IsAlreadyExists(pkgerrors.ErrAlreadyExists))
	})

	t.Run("IsCanceled", func(t *testing.T) {
		assert.True(t, pkgerrors.IsCanceled(pkgerrors.ErrCanceled))
	})
}

func TestWrapHelpers(t *testing.T) {
	t.Run("WrapValidation", func(t *testing.T) {
		err := pkgerrors.WrapValidation("table", errors.New("name too long"))
		assert.NotNil(t, err)
		assert.Contains(t, err.Error(), "table")
		assert.Contains(t, err.Error(), "name too long")

		// nil error returns nil
		assert.Nil(t, pkgerrors.WrapValidation("field", nil))
	})

	t.Run("WrapIO", func(t *testing.T) {
		err := pkgerrors.WrapIO("write", "/tmp/file", errors.New("disk full"))
		assert.NotNil(t, err)
		assert.Contains(t, err.Error(), "write")

		assert.Nil(t, pkgerrors.WrapIO("read", "file", nil))
	})
}

func TestErrorChaining(t *testing.T) {
	baseErr := errors.New("connection refused")
	stmtErr := pkgerrors.WrapStatement("query", "astrology_charts", "house_1_longitude", baseErr)
	cfgErr := &pkgerrors.ConfigError{
		Component: "catalog",
		Message:   "introspection failed",
		Err:       stmtErr,
	}

	var target *pkgerrors.StatementError
	assert.True(t, errors.As(cfgErr, &target))
	assert.Equal(t, "query", target.Operation)
	assert.True(t, errors.Is(cfgErr, baseErr))
}

func TestSentinelErrors(t *testing.T) {
	sentinels := []struct {
		name string
		err  error
	}{
		{"ErrNotFound", pkgerrors.ErrNotFound},
		{"ErrAlreadyExists", pkgerrors.ErrAlreadyExists},
		{"ErrInvalidInput", pkgerrors.ErrInvalidInput},
		{"ErrNoDatabase", pkgerrors.ErrNoDatabase},
		{"ErrNoTarget", pkgerrors.ErrNoTarget},
		{"ErrCanceled", pkgerrors.ErrCanceled},
		{"ErrUnsupported", pkgerrors.ErrUnsupported},
	}

	for _, tc := range sentinels {
		t.Run(tc.name, func(t *testing.T) {
			assert.NotNil(t, tc.err)
			assert.NotEmpty(t, tc.err.Error())
		})
	}
}
