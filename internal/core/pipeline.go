package core

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/JonMunkholm/featureprep/internal/logging"
	"github.com/JonMunkholm/featureprep/internal/project"
	"github.com/JonMunkholm/featureprep/internal/table"
	"github.com/google/uuid"
)

// MakeFeatureTable cleans t and derives the default features.
// It is exactly DeriveFeatures(Clean(t, targetColumn)).
func MakeFeatureTable(t *table.Table, targetColumn string) *table.Table {
	return DeriveFeatures(Clean(t, targetColumn))
}

// Pipeline loads a raw file from a project and turns it into a feature
// table. It holds no state between calls.
type Pipeline struct {
	paths   project.Paths
	deriver *Deriver
	logger  *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithDeriver replaces the default feature rules.
func WithDeriver(d *Deriver) Option {
	return func(p *Pipeline) { p.deriver = d }
}

// WithLogger sets the base logger. Without it the logger is taken from the
// context of each call.
func WithLogger(l *slog.Logger) Option {
	return func(p *Pipeline) { p.logger = l }
}

// NewPipeline creates a pipeline rooted at paths.
func NewPipeline(paths project.Paths, opts ...Option) *Pipeline {
	p := &Pipeline{
		paths:   paths,
		deriver: NewDeriver(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Paths returns the project layout the pipeline reads from.
func (p *Pipeline) Paths() project.Paths {
	return p.paths
}

// BuildFeatureTable ensures the project directories exist, loads filename
// from the raw data directory, cleans it and derives features.
// An empty filename means DefaultRawFilename; an empty targetColumn means no
// target-based filtering.
func (p *Pipeline) BuildFeatureTable(ctx context.Context, filename, targetColumn string) (*table.Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("build cancelled: %w", err)
	}
	if filename == "" {
		filename = DefaultRawFilename
	}

	if logging.RunID(ctx) == "" {
		ctx = logging.WithRunID(ctx, uuid.NewString())
	}
	logger := p.loggerFor(ctx).With("file", filename, "target", targetColumn)

	if err := project.EnsureDirectories(p.paths); err != nil {
		return nil, err
	}

	raw, err := LoadRawTable(p.paths, filename)
	if err != nil {
		logger.Warn("load failed", "error", err)
		return nil, err
	}
	logger.Debug("raw table loaded", "rows", raw.NumRows(), "columns", raw.NumColumns())

	cleaned := Clean(raw, targetColumn)
	logger.Debug("table cleaned",
		"rows", cleaned.NumRows(),
		"dropped", raw.NumRows()-cleaned.NumRows(),
	)

	features := p.deriver.Derive(cleaned)
	logger.Info("feature table built",
		"rows", features.NumRows(),
		"columns", features.NumColumns(),
		"derived", features.NumColumns()-cleaned.NumColumns(),
	)

	return features, nil
}

func (p *Pipeline) loggerFor(ctx context.Context) *slog.Logger {
	if p.logger == nil {
		return logging.FromContext(ctx)
	}
	if id := logging.RunID(ctx); id != "" {
		return p.logger.With("run_id", id)
	}
	return p.logger
}
