// Copyright © 2024 The ELPS authors

package cmd

import (
	"strings"

	"github.com/spf13/viper"

	"github.com/stbscript/bsc/classvalidator"
	"github.com/stbscript/bsc/loader"
	"github.com/stbscript/bsc/scope"
	"github.com/stbscript/bsc/telemetry"
)

// Option configures an exported command factory (ValidateCommand,
// LSPCommand, ExploreCommand).
type Option func(*cmdConfig)

type cmdConfig struct {
	builtins       scope.BuiltinRegistry
	parse          loader.ParseFunc
	classValidator scope.ClassValidator
	logger         scope.Logger
}

// WithBuiltins injects a non-default set of recognized stdlib names, so
// an embedder targeting a dialect variant with additional or fewer
// built-in functions doesn't see spurious callToUnknownFunction
// diagnostics.
func WithBuiltins(b scope.BuiltinRegistry) Option {
	return func(c *cmdConfig) { c.builtins = b }
}

// WithParseFunc injects the front end that turns raw file bytes into
// parsed references. Without one, workspace commands scan files but
// see no callables, calls, or namespaces in them — parsing the
// scripting dialect itself is a separate collaborator's job.
func WithParseFunc(p loader.ParseFunc) Option {
	return func(c *cmdConfig) { c.parse = p }
}

// WithClassValidator overrides the class-hierarchy check the validator
// pipeline's validateClasses step runs. Without one, workspace commands
// run classvalidator.New()'s circular-inheritance check.
func WithClassValidator(cv scope.ClassValidator) Option {
	return func(c *cmdConfig) { c.classValidator = cv }
}

// WithLogger overrides the scope-level logger. Without one, workspace
// commands log through telemetry.New at the --log-level flag's level.
func WithLogger(l scope.Logger) Option {
	return func(c *cmdConfig) { c.logger = l }
}

func (c *cmdConfig) resolveBuiltins() scope.BuiltinRegistry {
	if c.builtins != nil {
		return c.builtins
	}
	return scope.DefaultBuiltins()
}

func (c *cmdConfig) resolveParseFunc() loader.ParseFunc {
	if c.parse != nil {
		return c.parse
	}
	return func(pkgPath string, content []byte) (loader.ParsedFile, error) {
		return loader.ParsedFile{}, nil
	}
}

func (c *cmdConfig) resolveClassValidator() scope.ClassValidator {
	if c.classValidator != nil {
		return c.classValidator
	}
	return classvalidator.New()
}

func (c *cmdConfig) resolveLogger() scope.Logger {
	if c.logger != nil {
		return c.logger
	}
	return telemetry.New(parseLogLevel(viper.GetString("log-level")))
}

func parseLogLevel(v string) scope.Level {
	switch strings.ToLower(v) {
	case "debug":
		return scope.LevelDebug
	case "warn", "warning":
		return scope.LevelWarn
	case "error":
		return scope.LevelError
	default:
		return scope.LevelInfo
	}
}

// tracer is the process-wide span source for validate passes. It is
// unexported and unconfigurable since, unlike builtins or the parse
// func, tracing is an ambient concern every command shares rather than
// something an embedder retargets per invocation.
var tracer = telemetry.NewTracer("bsc")
