// Package pipeline provides the conversion pipeline of dpvgen.
//
// This package implements the complete parse → plan → render → write
// pipeline used by the CLI. By centralizing it, every entry point gets the
// same ordering, defaults and error behavior.
//
// # Architecture
//
// The pipeline consists of four stages:
//
//  1. Parse: Read the stack file, apply overrides, read the position file
//  2. Plan: Match footprints to stacks and compute machine coordinates
//  3. Render: Build the DPV document and encode it into memory
//  4. Write: Replace the output file atomically
//
// Nothing is written until the first three stages have succeeded, so a
// failed run never leaves a partial or stale output file behind.
//
// # Usage
//
//	runner := pipeline.NewRunner(logger)
//	result, err := runner.Convert(ctx, pipeline.Options{
//	    StackFile:    "stack.csv",
//	    PositionFile: "board-pos.csv",
//	    Marks:        []machine.Point{{X: 5, Y: 5}},
//	})
//	if err != nil {
//	    return err
//	}
//	fmt.Println(result.Output, len(result.Plan.Placements))
package pipeline

import (
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/dpvgen/pkg/errors"
	"github.com/matzehuels/dpvgen/pkg/machine"
	"github.com/matzehuels/dpvgen/pkg/plan"
	"github.com/matzehuels/dpvgen/pkg/stack"
)

// OutputExt is the extension of generated files.
const OutputExt = ".dpv"

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for one conversion.
type Options struct {
	StackFile    string // stack catalog CSV
	PositionFile string // KiCad footprint position export
	Output       string // DPV path; defaults to PositionFile with a .dpv extension

	Marks     []machine.Point  // fiducial marks in board coordinates
	Overrides []stack.Override // applied to the catalog in order

	// Profile describes the machine. Nil selects machine.DefaultProfile.
	Profile *machine.Profile

	// Key maps footprints to part names. Nil selects plan.PartKey.
	Key plan.KeyFunc

	// Time is written to the DPV header. The zero value selects the
	// modification time of PositionFile, which keeps reruns on unchanged
	// inputs byte-identical.
	Time time.Time

	Logger *log.Logger

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a conversion.
type Result struct {
	// Plan is the ordered placement list the file was written from.
	Plan *plan.Plan

	// Output is the path of the written file.
	Output string

	// Bytes is the file content.
	Bytes []byte

	// Stats contains counts and timing information.
	Stats Stats
}

// Stats contains conversion statistics.
type Stats struct {
	Parts      int // catalog entries after overrides
	Footprints int // position file rows
	Placements int
	Skipped    int
	Unused     int
	Marks      int

	ParseTime  time.Duration
	PlanTime   time.Duration
	RenderTime time.Duration
	WriteTime  time.Duration
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.StackFile == "" {
		return errors.New(errors.ErrCodeInvalidInput, "stack file is required")
	}
	if o.PositionFile == "" {
		return errors.New(errors.ErrCodeInvalidInput, "position file is required")
	}
	if o.Output == "" {
		o.Output = DefaultOutput(o.PositionFile)
	}
	if samePath(o.Output, o.PositionFile) || samePath(o.Output, o.StackFile) {
		return errors.New(errors.ErrCodeInvalidInput, "output %s would overwrite an input file", o.Output)
	}

	if o.Profile == nil {
		p := machine.DefaultProfile()
		o.Profile = &p
	}
	if err := o.Profile.Validate(); err != nil {
		return err
	}

	if o.Key == nil {
		o.Key = plan.PartKey
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// DefaultOutput returns the position file path with its extension replaced
// by .dpv.
func DefaultOutput(positionFile string) string {
	return strings.TrimSuffix(positionFile, filepath.Ext(positionFile)) + OutputExt
}

func samePath(a, b string) bool {
	aa, err1 := filepath.Abs(a)
	bb, err2 := filepath.Abs(b)
	if err1 != nil || err2 != nil {
		return filepath.Clean(a) == filepath.Clean(b)
	}
	return aa == bb
}
