package application

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/astrolab/starschema"
	"github.com/astrolab/starschema/pkg/schema"
)

// Mock provides a mock implementation of Application for testing.
// Each method can be customized by setting the corresponding function field.
// If a function field is nil, the method returns a default/zero value.
//
// Example Usage:
//
//	mock := &application.Mock{
//	    ClientFunc: func(ctx context.Context, opts ...starschema.Option) (starschema.Client, error) {
//	        return testClient, nil
//	    },
//	    LoggerFunc: func() *zerolog.Logger {
//	        logger := zerolog.Nop()
//	        return &logger
//	    },
//	}
//	cmd := reconcile.NewCommand(mock)
//	// ... test command
type Mock struct {
	TargetFunc       func() (*schema.Table, error)
	ClientFunc       func(ctx context.Context, opts ...starschema.Option) (starschema.Client, error)
	LoggerFunc       func() *zerolog.Logger
	OutputFormatFunc func() string
	VersionFunc      func() string
	CommitFunc       func() string
	DateFunc         func() string
	BuiltByFunc      func() string
}

// Target returns a target using the mock function or nil.
func (m *Mock) Target() (*schema.Table, error) {
	if m.TargetFunc != nil {
		return m.TargetFunc()
	}
	return nil, nil
}

// Client returns a client using the mock function or nil.
func (m *Mock) Client(ctx context.Context, opts ...starschema.Option) (starschema.Client, error) {
	if m.ClientFunc != nil {
		return m.ClientFunc(ctx, opts...)
	}
	return nil, nil
}

// Logger returns a logger using the mock function or a no-op logger.
func (m *Mock) Logger() *zerolog.Logger {
	if m.LoggerFunc != nil {
		return m.LoggerFunc()
	}
	logger := zerolog.Nop()
	return &logger
}

// OutputFormat returns output format using the mock function or "table".
func (m *Mock) OutputFormat() string {
	if m.OutputFormatFunc != nil {
		return m.OutputFormatFunc()
	}
	return "table"
}

// Version returns version using the mock function or "dev".
func (m *Mock) Version() string {
	if m.VersionFunc != nil {
		return m.VersionFunc()
	}
	return "dev"
}

// Commit returns commit using the mock function or "unknown".
func (m *Mock) Commit() string {
	if m.CommitFunc != nil {
		return m.CommitFunc()
	}
	return "unknown"
}

// Date returns date using the mock function or "unknown".
func (m *Mock) Date() string {
	if m.DateFunc != nil {
		return m.DateFunc()
	}
	return "unknown"
}

// BuiltBy returns builtBy using the mock function or "test".
func (m *Mock) BuiltBy() string {
	if m.BuiltByFunc != nil {
		return m.BuiltByFunc()
	}
	return "test"
}

// Ensure Mock implements Application at compile time.
var _ Application = (*Mock)(nil)
