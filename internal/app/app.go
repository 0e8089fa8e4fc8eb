package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/vk/logdissect"
	"github.com/vk/logdissect/internal/config"
	"github.com/vk/logdissect/internal/ctxlog"
	"github.com/vk/logdissect/internal/registry"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW     io.Writer
	logger   *slog.Logger
	registry *registry.Registry
	model    *config.Model
	parser   *logdissect.Parser[Record]
}

// NewApp is the constructor for the main application. It returns a fully
// initialized App instance, including its own isolated logger and registry,
// with the parser assembled from the loaded profile.
func NewApp(outW io.Writer, errW io.Writer, appConfig *Config, loader *config.Loader, modules ...registry.Module) (*App, error) {
	logger := newLogger(appConfig.LogLevel, appConfig.LogFormat, errW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	model, err := loader.Load(ctx, appConfig.ProfilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	logger.Debug("Configuration loaded into profile model.")

	reg := registry.New()
	if len(modules) == 0 {
		modules = coreModules
	}
	for _, mod := range modules {
		mod.Register(reg)
	}
	logger.Debug("All dissector modules registered.", "count", len(modules))

	parser, err := buildParser(logger, reg, model)
	if err != nil {
		return nil, err
	}
	logger.Debug("Parser assembled from profile.", "needed", parser.Needed())

	return &App{
		outW:     outW,
		logger:   logger,
		registry: reg,
		model:    model,
		parser:   parser,
	}, nil
}

// buildParser wires the profile's dissector blocks and requested fields into
// a Parser over the generic Record.
func buildParser(logger *slog.Logger, reg *registry.Registry, model *config.Model) (*logdissect.Parser[Record], error) {
	parser := logdissect.New(NewRecord, model.Profile.RootType, logdissect.WithLogger[Record](logger))

	for _, block := range model.Dissectors {
		dissector, err := reg.NewDissector(block.Type, block.Options)
		if err != nil {
			return nil, fmt.Errorf("failed to build dissector %q: %w", block.Type, err)
		}
		if err := parser.AddDissector(dissector); err != nil {
			return nil, fmt.Errorf("failed to register dissector %q: %w", block.Type, err)
		}
	}

	for _, field := range model.Profile.Fields {
		if err := addFieldTarget(parser, field); err != nil {
			return nil, err
		}
	}
	return parser, nil
}

// addFieldTarget binds one requested field to the record. Wildcard requests
// receive (name, value) pairs so one binding covers every concrete hit; the
// record key is then the concretely named identifier.
func addFieldTarget(parser *logdissect.Parser[Record], field string) error {
	colon := strings.Index(field, ":")
	if colon < 0 {
		return fmt.Errorf("requested field %q is not a type:path identifier", field)
	}
	fieldType := field[:colon]

	if strings.HasSuffix(field, "*") {
		return parser.AddTarget(func(r *Record, name, value string) {
			r.Fields[fieldType+":"+name] = value
		}, field)
	}
	return parser.AddTarget(func(r *Record, value string) {
		r.Fields[field] = value
	}, field)
}

// Parser returns the application's parser. This is primarily for testing.
func (a *App) Parser() *logdissect.Parser[Record] {
	return a.parser
}
