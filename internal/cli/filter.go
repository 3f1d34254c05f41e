package cli

import (
	"bytes"
	"context"

	"github.com/spf13/cobra"

	"github.com/matzehuels/dpvgen/pkg/pipeline"
	"github.com/matzehuels/dpvgen/pkg/position"
)

// selectionFlag is a repeatable flag that appends to a list shared by all
// selection flags, so "-a C -e C49:C122 -i C50" is applied in the order typed.
type selectionFlag struct {
	kind position.SelectKind
	list *[]position.Selection
}

func (f *selectionFlag) String() string { return "" }
func (f *selectionFlag) Type() string   { return "string" }

func (f *selectionFlag) Set(v string) error {
	*f.list = append(*f.list, position.Selection{Kind: f.kind, Arg: v})
	return nil
}

// filterCommand creates the filter command.
func (c *CLI) filterCommand() *cobra.Command {
	var (
		output     string
		selections []position.Selection
	)

	cmd := &cobra.Command{
		Use:   "filter POS.csv",
		Short: "Select footprints from a KiCad position file",
		Long: `Select footprints from a KiCad footprint position file.

Selections are applied in the order given, starting from an empty set. The
result keeps the input's header and is sorted by reference designator.

Examples:
  dpvgen filter board-pos.csv -a '*' -n J                # everything but connectors
  dpvgen filter board-pos.csv -a C -e C49:C122 -o caps.csv
  dpvgen filter board-pos.csv -i 100nF -i U3`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runFilter(cmd.Context(), args[0], output, selections)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (stdout if empty)")
	cmd.Flags().VarP(&selectionFlag{position.SelectAll, &selections}, "all", "a",
		"include all parts of reference type TYPE (e.g. C), '*' for every part")
	cmd.Flags().VarP(&selectionFlag{position.SelectNone, &selections}, "none", "n",
		"remove all parts of reference type TYPE")
	cmd.Flags().VarP(&selectionFlag{position.SelectInclude, &selections}, "include", "i",
		"include parts by value, reference (C12) or range (C49:C122)")
	cmd.Flags().VarP(&selectionFlag{position.SelectExclude, &selections}, "exclude", "e",
		"remove parts by value, reference (C12) or range (C49:C122)")

	return cmd
}

// runFilter applies selections to posFile and writes the result.
func (c *CLI) runFilter(ctx context.Context, posFile, output string, selections []position.Selection) error {
	logger := loggerFromContext(ctx)

	f, err := position.ParseFile(posFile)
	if err != nil {
		return err
	}
	recs, err := position.Select(f, selections)
	if err != nil {
		return err
	}
	logger.Info("Selected footprints", "selected", len(recs), "total", len(f.Records))

	var buf bytes.Buffer
	if err := position.Write(&buf, f, recs); err != nil {
		return err
	}
	if output == "" {
		_, err := c.Out.Write(buf.Bytes())
		return err
	}
	if err := pipeline.WriteFile(ctx, output, buf.Bytes()); err != nil {
		return err
	}
	printSuccess(c.Out, "Wrote %d footprints", len(recs))
	printFile(c.Out, output)
	return nil
}
