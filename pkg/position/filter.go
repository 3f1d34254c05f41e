package position

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/matzehuels/dpvgen/pkg/errors"
)

// SelectKind is the operation a [Selection] applies.
type SelectKind string

const (
	SelectAll     SelectKind = "all"     // add every footprint of a reference type, "*" for all
	SelectNone    SelectKind = "none"    // remove every footprint of a reference type
	SelectInclude SelectKind = "include" // add by value, reference or reference range
	SelectExclude SelectKind = "exclude" // remove by value, reference or reference range
)

// Selection is one filter operation. Selections are applied in order, so
// "-a C -e C49:C122" keeps every capacitor except that range.
type Selection struct {
	Kind SelectKind
	Arg  string
}

func (s Selection) String() string {
	return fmt.Sprintf("--%s %s", s.Kind, s.Arg)
}

var designatorRE = regexp.MustCompile(`^([A-Z]+)([0-9]+)$`)

// Designator is a reference split into its type prefix and number ("C", 49).
type Designator struct {
	Type   string
	Number int
}

// ParseDesignator splits a reference such as "C49".
func ParseDesignator(ref string) (Designator, bool) {
	m := designatorRE.FindStringSubmatch(ref)
	if m == nil {
		return Designator{}, false
	}
	n, err := strconv.Atoi(m[2])
	if err != nil {
		return Designator{}, false
	}
	return Designator{Type: m[1], Number: n}, true
}

// matcher selects records for an include or exclude argument.
type matcher func(rec Record, d Designator) bool

func parseSpec(sel Selection) (matcher, error) {
	fields := strings.Split(sel.Arg, ":")
	switch len(fields) {
	case 1:
		if d, ok := ParseDesignator(fields[0]); ok {
			return func(_ Record, rd Designator) bool { return rd == d }, nil
		}
		value := fields[0]
		return func(rec Record, _ Designator) bool { return rec.Value == value }, nil
	case 2:
		begin, okb := ParseDesignator(fields[0])
		end, oke := ParseDesignator(fields[1])
		if !okb || !oke || begin.Type != end.Type {
			return nil, errors.New(errors.ErrCodeInvalidInput, "option '%s': invalid range", sel)
		}
		return func(_ Record, rd Designator) bool {
			return rd.Type == begin.Type && rd.Number >= begin.Number && rd.Number <= end.Number
		}, nil
	}
	return nil, errors.New(errors.ErrCodeInvalidInput, "option '%s': invalid syntax", sel)
}

// Select applies selections to f's records in order and returns the chosen
// records sorted by reference type and number.
//
// Every reference must be a plain designator (letters followed by digits);
// otherwise Select fails with MALFORMED_POSITION_ROW naming the line.
func Select(f *File, selections []Selection) ([]Record, error) {
	desigs := make([]Designator, len(f.Records))
	for i, rec := range f.Records {
		d, ok := ParseDesignator(rec.Ref)
		if !ok {
			return nil, errors.New(errors.ErrCodeMalformedPositionRow,
				"invalid reference designator %q", rec.Ref).At(f.Name, rec.Line)
		}
		desigs[i] = d
	}

	chosen := make(map[int]bool)
	for _, sel := range selections {
		var (
			match matcher
			add   bool
		)
		switch sel.Kind {
		case SelectAll, SelectNone:
			typ := sel.Arg
			add = sel.Kind == SelectAll
			wildcard := add && typ == "*"
			match = func(_ Record, d Designator) bool { return wildcard || d.Type == typ }
		case SelectInclude, SelectExclude:
			m, err := parseSpec(sel)
			if err != nil {
				return nil, err
			}
			match, add = m, sel.Kind == SelectInclude
		default:
			return nil, errors.New(errors.ErrCodeInvalidInput, "unknown selection %q", sel.Kind)
		}

		for i, rec := range f.Records {
			if !match(rec, desigs[i]) {
				continue
			}
			if add {
				chosen[i] = true
			} else {
				delete(chosen, i)
			}
		}
	}

	idx := make([]int, 0, len(chosen))
	for i := range chosen {
		idx = append(idx, i)
	}
	sort.Slice(idx, func(a, b int) bool {
		da, db := desigs[idx[a]], desigs[idx[b]]
		if da.Type != db.Type {
			return da.Type < db.Type
		}
		if da.Number != db.Number {
			return da.Number < db.Number
		}
		return idx[a] < idx[b]
	})

	out := make([]Record, len(idx))
	for i, j := range idx {
		out[i] = f.Records[j]
	}
	return out, nil
}

// Write re-emits f's header lines, the raw lines of records and f's trailer.
// The result is a valid position file of the same flavour as f.
func Write(w io.Writer, f *File, records []Record) error {
	bw := bufio.NewWriter(w)
	for _, h := range f.Header {
		if _, err := fmt.Fprintln(bw, h); err != nil {
			return err
		}
	}
	for _, rec := range records {
		if _, err := fmt.Fprintln(bw, rec.Raw); err != nil {
			return err
		}
	}
	for _, t := range f.Trailer {
		if _, err := fmt.Fprintln(bw, t); err != nil {
			return err
		}
	}
	return bw.Flush()
}
