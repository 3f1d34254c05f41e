// Package plan joins footprint positions with the stack catalog.
//
// [Build] produces the ordered list of placements a DPV file is written
// from. The order is the stack file's declaration order of part names; the
// footprints of one part keep their position-file order. Each placement
// carries the machine coordinates computed by a [machine.Transformer].
package plan

import (
	"regexp"
	"strings"

	"github.com/matzehuels/dpvgen/pkg/errors"
	"github.com/matzehuels/dpvgen/pkg/machine"
	"github.com/matzehuels/dpvgen/pkg/position"
	"github.com/matzehuels/dpvgen/pkg/stack"
)

// KeyFunc returns the catalog part name a footprint is matched by.
type KeyFunc func(position.Record) string

// dnpPrefix marks footprints that are not populated.
const dnpPrefix = "DNP"

// Options configures [Build].
type Options struct {
	// Key maps footprints to part names. Defaults to [PartKey].
	Key KeyFunc

	// DefaultFeed and DefaultHead are used for entries that leave the
	// columns out. Zero selects the machine package defaults.
	DefaultFeed int
	DefaultHead int

	// Source names the position file in error messages.
	Source string
}

// Placement is one footprint to place.
type Placement struct {
	Record position.Record
	Entry  stack.Entry

	Stack          int
	Feed           int
	Head           int
	RotationOffset float64

	X, Y  float64 // machine coordinates in mm
	Angle float64 // machine rotation in [0, 360)
}

// Part returns the catalog part name of the placement.
func (p Placement) Part() string { return p.Entry.Name }

// Plan is the result of [Build].
type Plan struct {
	Placements []Placement
	Unused     []string          // catalog parts with no footprint, in catalog order
	Skipped    []position.Record // do-not-populate footprints, in file order
}

// Build matches every record with its catalog entry and returns the
// placements in catalog order.
//
// Build fails with UNMATCHED_PART for the first record, in file order, whose
// key is not in the catalog. Catalog parts that no record uses are listed in
// [Plan.Unused] and are not an error. Records whose key starts with "DNP"
// are skipped.
func Build(records []position.Record, cat *stack.Catalog, tr *machine.Transformer, opts Options) (*Plan, error) {
	key := opts.Key
	if key == nil {
		key = PartKey
	}
	defFeed, defHead := opts.DefaultFeed, opts.DefaultHead
	if defFeed == 0 {
		defFeed = machine.DefaultFeed
	}
	if defHead == 0 {
		defHead = machine.DefaultHead
	}

	out := &Plan{}
	byPart := make(map[string][]position.Record)
	for _, rec := range records {
		k := key(rec)
		if strings.HasPrefix(k, dnpPrefix) {
			out.Skipped = append(out.Skipped, rec)
			continue
		}
		if _, ok := cat.Lookup(k); !ok {
			return nil, errors.New(errors.ErrCodeUnmatchedPart,
				"part %q of %s is not in the stack file", k, rec.Ref).At(opts.Source, rec.Line)
		}
		byPart[k] = append(byPart[k], rec)
	}

	for _, entry := range cat.Entries() {
		recs := byPart[entry.Name]
		if len(recs) == 0 {
			out.Unused = append(out.Unused, entry.Name)
			continue
		}
		offset := entry.RotationOr(0)
		for _, rec := range recs {
			pos := tr.Apply(rec.Side, machine.Point{X: rec.X, Y: rec.Y})
			out.Placements = append(out.Placements, Placement{
				Record:         rec,
				Entry:          entry,
				Stack:          entry.Stack,
				Feed:           entry.FeedOr(defFeed),
				Head:           entry.HeadOr(defHead),
				RotationOffset: offset,
				X:              pos.X,
				Y:              pos.Y,
				Angle:          tr.Rotation(rec.Side, rec.Rotation, offset),
			})
		}
	}
	return out, nil
}

// passiveValueRE matches bare passive values such as "100n", "4k7" or "10".
var passiveValueRE = regexp.MustCompile(`^[0-9]+[GMkmunpf]?[0-9]*$`)

// passiveUnits maps reference prefixes to the unit appended to bare values.
var passiveUnits = map[byte]string{
	'C': "F",
	'L': "H",
	'R': "Ohm",
}

// PartKey is the default [KeyFunc]: the footprint's value, with the unit
// completed for capacitors, inductors and resistors whose value is a bare
// number. "100n" on C3 becomes "100nF", "4k7" on R1 becomes "4k7Ohm"; values
// that already carry a unit or name a part ("TPS65400") are kept as is.
func PartKey(rec position.Record) string {
	v := rec.Value
	if rec.Ref == "" {
		return v
	}
	if unit, ok := passiveUnits[rec.Ref[0]]; ok && passiveValueRE.MatchString(v) {
		return v + unit
	}
	return v
}

// ValueKey matches footprints by their value column verbatim.
func ValueKey(rec position.Record) string { return rec.Value }

// FootprintKey matches footprints by their footprint/package column.
func FootprintKey(rec position.Record) string { return rec.Footprint }
