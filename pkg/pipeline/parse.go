package pipeline

import (
	"context"
	"os"
	"time"

	"github.com/matzehuels/dpvgen/pkg/errors"
	"github.com/matzehuels/dpvgen/pkg/observability"
	"github.com/matzehuels/dpvgen/pkg/position"
	"github.com/matzehuels/dpvgen/pkg/stack"
)

// Inputs holds the parsed input files of a conversion.
type Inputs struct {
	// Catalog is the stack catalog with all overrides applied.
	Catalog *stack.Catalog

	// Positions is the parsed position file.
	Positions *position.File

	// ModTime is the modification time of the position file.
	ModTime time.Time
}

// Parse reads the stack file and the position file.
// The overrides in opts are applied to the catalog before it is returned.
func Parse(ctx context.Context, opts Options) (*Inputs, error) {
	limits := opts.Profile.Limits()
	hooks := observability.Pipeline()

	start := time.Now()
	hooks.OnParseStart(ctx, observability.InputStack, opts.StackFile)
	cat, err := stack.ParseFile(opts.StackFile, limits)
	if err == nil && len(opts.Overrides) > 0 {
		cat, err = cat.Apply(opts.Overrides, limits)
	}
	hooks.OnParseComplete(ctx, observability.InputStack, opts.StackFile, catalogLen(cat), time.Since(start), err)
	if err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start = time.Now()
	hooks.OnParseStart(ctx, observability.InputPosition, opts.PositionFile)
	pos, err := position.ParseFile(opts.PositionFile)
	rows := 0
	if pos != nil {
		rows = len(pos.Records)
	}
	hooks.OnParseComplete(ctx, observability.InputPosition, opts.PositionFile, rows, time.Since(start), err)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(opts.PositionFile)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "stat position file")
	}

	return &Inputs{Catalog: cat, Positions: pos, ModTime: info.ModTime()}, nil
}

func catalogLen(c *stack.Catalog) int {
	if c == nil {
		return 0
	}
	return c.Len()
}
