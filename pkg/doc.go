// Package pkg provides the libraries behind dpvgen, which turns KiCad
// footprint position files into Charmhigh DPV pick-and-place jobs.
//
// # Overview
//
// A DPV file tells a CHM-T36 style machine which feeder stack holds each part,
// where every footprint sits on the board and how to rotate it. dpvgen builds
// one from two inputs: the position file KiCad exports for a board, and a
// stack file listing which part is loaded into which stack.
//
// # Architecture
//
// The data flow through dpvgen:
//
//	KiCad position file      stack file + --stack/--feed/--head/--rotation
//	         ↓                          ↓
//	  [position] package          [stack] package
//	         └──────────┬───────────────┘
//	                    ↓
//	            [plan] package (match footprints to stacks)
//	                    ↓
//	           [machine] package (board → machine coordinates)
//	                    ↓
//	             [dpv] package (encode)
//	                    ↓
//	                job.dpv
//
// [pipeline] runs these stages for the CLI and writes the result atomically.
//
// # Quick Start
//
//	runner := pipeline.NewRunner(nil)
//	res, err := runner.Convert(ctx, pipeline.Options{
//	    StackFile:    "stack.csv",
//	    PositionFile: "board-pos.csv",
//	    Marks:        []machine.Point{{X: 5, Y: 5}, {X: 95, Y: 45}},
//	})
//	if err != nil {
//	    return err
//	}
//	fmt.Println("wrote", res.Output)
//
// # Main Packages
//
// [position] - Reader for KiCad "Footprint Position" exports in CSV and ASCII
// form, plus the reference-designator selections used by "dpvgen filter".
//
// [stack] - Stack file parser and the catalog of parts loaded into the
// machine, with command-line overrides applied on top.
//
// [plan] - Matches every populated footprint to a catalog entry and orders
// the placements the way the machine expects them.
//
// [machine] - Machine profile (TOML) and the affine transform from board to
// machine coordinates.
//
// [dpv] - Encoder and decoder for the DPV table format.
//
// [errors] - Coded errors carrying the file and line they refer to.
//
// [observability] - Hooks fired around each pipeline stage.
//
// # Testing
//
//	go test ./...                # All tests
//	go test ./pkg/dpv/...        # Specific package
//	go test -run Example ./pkg/  # Examples only
//
// [position]: https://pkg.go.dev/github.com/matzehuels/dpvgen/pkg/position
// [stack]: https://pkg.go.dev/github.com/matzehuels/dpvgen/pkg/stack
// [plan]: https://pkg.go.dev/github.com/matzehuels/dpvgen/pkg/plan
// [machine]: https://pkg.go.dev/github.com/matzehuels/dpvgen/pkg/machine
// [dpv]: https://pkg.go.dev/github.com/matzehuels/dpvgen/pkg/dpv
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/dpvgen/pkg/pipeline
// [errors]: https://pkg.go.dev/github.com/matzehuels/dpvgen/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/dpvgen/pkg/observability
package pkg
