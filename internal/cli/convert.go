package cli

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/dpvgen/pkg/errors"
	"github.com/matzehuels/dpvgen/pkg/machine"
	"github.com/matzehuels/dpvgen/pkg/pipeline"
	"github.com/matzehuels/dpvgen/pkg/plan"
	"github.com/matzehuels/dpvgen/pkg/stack"
)

// sourceDateEpochEnv pins the DPV header timestamp for reproducible output.
const sourceDateEpochEnv = "SOURCE_DATE_EPOCH"

// matchKeys maps --match values to planner key functions.
var matchKeys = map[string]plan.KeyFunc{
	"part":      plan.PartKey,
	"value":     plan.ValueKey,
	"footprint": plan.FootprintKey,
}

// convertOpts holds the command-line flags for the convert command.
type convertOpts struct {
	output    string   // DPV path (default: position file with .dpv extension)
	stackFile string   // stack catalog CSV
	marks     []string // "X,Y" fiducials in board coordinates
	stacks    []string // "PART:NUM" overrides
	feeds     []string // "PART:FEED" overrides
	heads     []string // "PART:HEAD" overrides
	rotations []string // "PART:ROT" overrides
	config    string   // machine profile TOML
	match     string   // footprint-to-part key
	summary   bool     // print the placement table
}

// convertCommand creates the convert command.
func (c *CLI) convertCommand() *cobra.Command {
	opts := convertOpts{match: "part"}

	cmd := &cobra.Command{
		Use:   "convert POS.csv",
		Short: "Generate a DPV file from a KiCad footprint position file",
		Long: `Generate a Charmhigh DPV file from a KiCad footprint position file.

The position file is KiCad's "Footprint Position" export (CSV or ASCII)
with the drill/place file origin as coordinate origin. Every footprint must
match a part in the stack file; footprints whose value starts with DNP are
left out.

Examples:
  dpvgen convert board-pos.csv --stackfile stack.csv -m 5,5 -m 95,45
  dpvgen convert board-pos.csv --stackfile stack.csv -s LED:12 -e LED:2
  dpvgen convert board-pos.csv --stackfile stack.csv --summary`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runConvert(cmd.Context(), args[0], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default: POS with .dpv extension)")
	cmd.Flags().StringVar(&opts.stackFile, "stackfile", "", "stack file: part name, stack, [feed], [head], [rotation] per line")
	cmd.Flags().StringArrayVarP(&opts.marks, "mark", "m", nil, "calibration mark coordinates X,Y (repeatable)")
	cmd.Flags().StringArrayVarP(&opts.stacks, "stack", "s", nil, "put part PART in stack NUM, as PART:NUM (repeatable)")
	cmd.Flags().StringArrayVarP(&opts.feeds, "feed", "f", nil, "feed distance in mm for PART, as PART:FEED (repeatable)")
	cmd.Flags().StringArrayVarP(&opts.heads, "head", "e", nil, "pick PART with head HEAD, as PART:HEAD (repeatable)")
	cmd.Flags().StringArrayVarP(&opts.rotations, "rotation", "r", nil, "rotation offset in degrees for PART, as PART:ROT (repeatable)")
	cmd.Flags().StringVar(&opts.config, "config", "", "machine profile (default: $XDG_CONFIG_HOME/dpvgen/machine.toml)")
	cmd.Flags().StringVar(&opts.match, "match", opts.match, "match footprints to parts by: part (default), value, footprint")
	cmd.Flags().BoolVar(&opts.summary, "summary", false, "print the placement table")
	_ = cmd.MarkFlagRequired("stackfile")

	return cmd
}

// runConvert resolves the options and runs the pipeline.
func (c *CLI) runConvert(ctx context.Context, posFile string, opts *convertOpts) error {
	logger := loggerFromContext(ctx)

	key, ok := matchKeys[opts.match]
	if !ok {
		return errors.New(errors.ErrCodeInvalidInput, "invalid --match %q (must be one of: part, value, footprint)", opts.match)
	}

	prof, source, err := resolveProfile(opts.config)
	if err != nil {
		return err
	}
	logger.Debug("machine profile", "source", source)

	marks, err := parseMarks(opts.marks)
	if err != nil {
		return err
	}
	overrides, err := opts.overrides()
	if err != nil {
		return err
	}
	for _, ov := range overrides {
		logger.Debug("override", "option", ov)
	}
	stamp, err := sourceDateEpoch()
	if err != nil {
		return err
	}

	prog := newProgress(logger)
	res, err := c.newRunner().Convert(ctx, pipeline.Options{
		StackFile:    opts.stackFile,
		PositionFile: posFile,
		Output:       opts.output,
		Marks:        marks,
		Overrides:    overrides,
		Profile:      &prof,
		Key:          key,
		Time:         stamp,
		Logger:       logger,
	})
	if err != nil {
		return err
	}
	prog.done("Generated "+filepath.Base(res.Output), "placements", res.Stats.Placements)

	printSuccess(c.Out, "Wrote DPV file")
	printFile(c.Out, res.Output)
	printStats(c.Out,
		stat{res.Stats.Placements, "placements"},
		stat{res.Stats.Parts, "stacks"},
		stat{res.Stats.Marks, "marks"},
		stat{res.Stats.Skipped, "not populated"},
	)
	if res.Stats.Marks == 0 {
		printWarning(c.Out, "no calibration marks given (use -m X,Y)")
	}
	if opts.summary {
		printKeyValue(c.Out, "profile", source)
		printKeyValue(c.Out, "stack file", opts.stackFile)
		printPlacements(c.Out, res.Plan)
	}
	return nil
}

// overrides collects the per-part options in kind order.
func (o *convertOpts) overrides() ([]stack.Override, error) {
	var out []stack.Override
	for _, group := range []struct {
		kind stack.OverrideKind
		args []string
	}{
		{stack.OverrideStack, o.stacks},
		{stack.OverrideFeed, o.feeds},
		{stack.OverrideHead, o.heads},
		{stack.OverrideRotation, o.rotations},
	} {
		for _, arg := range group.args {
			ov, err := stack.ParseOverride(group.kind, arg)
			if err != nil {
				return nil, err
			}
			out = append(out, ov)
		}
	}
	return out, nil
}

func parseMarks(args []string) ([]machine.Point, error) {
	marks := make([]machine.Point, 0, len(args))
	for _, arg := range args {
		p, err := machine.ParseMark(arg)
		if err != nil {
			return nil, err
		}
		marks = append(marks, p)
	}
	return marks, nil
}

// sourceDateEpoch returns the time set in SOURCE_DATE_EPOCH, or the zero
// time when the variable is unset.
func sourceDateEpoch() (time.Time, error) {
	v := strings.TrimSpace(os.Getenv(sourceDateEpochEnv))
	if v == "" {
		return time.Time{}, nil
	}
	secs, err := strconv.ParseInt(v, 10, 64)
	if err != nil || secs < 0 {
		return time.Time{}, errors.New(errors.ErrCodeInvalidConfig, "%s must be a non-negative integer, got %q", sourceDateEpochEnv, v)
	}
	return time.Unix(secs, 0).UTC(), nil
}
