package pipeline

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// Runner executes conversions.
//
// The Runner is stateless except for the logger - it doesn't store
// conversion results. Multiple goroutines can safely use the same Runner
// with different options.
type Runner struct {
	Logger *log.Logger
}

// NewRunner creates a runner. If logger is nil, log.Default() is used.
func NewRunner(logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Logger: logger}
}

// Convert runs the complete parse → plan → render → write pipeline.
//
// Every input is read and validated, and the file content is built in
// memory, before the output path is touched. On error no output file is
// created and an existing one is left unchanged.
func (r *Runner) Convert(ctx context.Context, opts Options) (*Result, error) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	logger := opts.Logger

	result := &Result{Output: opts.Output}

	// Stage 1: Parse
	start := time.Now()
	in, err := Parse(ctx, opts)
	if err != nil {
		return nil, err
	}
	result.Stats.ParseTime = time.Since(start)
	result.Stats.Parts = in.Catalog.Len()
	result.Stats.Footprints = len(in.Positions.Records)

	logger.Debug("parsed inputs",
		"parts", result.Stats.Parts,
		"footprints", result.Stats.Footprints,
		"format", in.Positions.Format,
		"duration", result.Stats.ParseTime)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Stage 2: Plan
	start = time.Now()
	p, err := Plan(ctx, in, opts)
	if err != nil {
		return nil, err
	}
	result.Plan = p
	result.Stats.PlanTime = time.Since(start)
	result.Stats.Placements = len(p.Placements)
	result.Stats.Skipped = len(p.Skipped)
	result.Stats.Unused = len(p.Unused)
	result.Stats.Marks = len(opts.Marks)

	for _, name := range p.Unused {
		logger.Info("stack entry not used by any footprint", "part", name)
	}
	for _, rec := range p.Skipped {
		logger.Debug("skipping do-not-populate footprint", "ref", rec.Ref, "value", rec.Value)
	}
	if len(opts.Marks) == 0 {
		logger.Debug("no fiducial marks given")
	}

	// Stage 3: Render
	start = time.Now()
	doc, err := Document(in, p, opts)
	if err != nil {
		return nil, err
	}
	data, err := Render(ctx, doc)
	if err != nil {
		return nil, err
	}
	result.Bytes = data
	result.Stats.RenderTime = time.Since(start)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Stage 4: Write
	start = time.Now()
	if err := WriteFile(ctx, opts.Output, data); err != nil {
		return nil, err
	}
	result.Stats.WriteTime = time.Since(start)

	logger.Debug("wrote output",
		"path", opts.Output,
		"bytes", len(data),
		"duration", result.Stats.WriteTime)

	return result, nil
}
