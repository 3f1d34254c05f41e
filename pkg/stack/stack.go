// Package stack reads the feeder assignment list ("stack file").
//
// A stack file names, one part per line, which feeder stack of the machine
// holds the part and how it is picked:
//
//	# part,       stack, feed, head, rotation offset
//	100nF,        1
//	TPS65400,     27,    8,    2,    90
//	LED_red,      3,     ,     2
//
// Only the part name and the stack number are required; the optional
// columns may be left empty or omitted. The order of the lines is the order
// in which parts are placed.
package stack

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/matzehuels/dpvgen/pkg/errors"
)

const (
	minFields = 2
	maxFields = 5
)

// Entry is one part of the catalog. Optional columns are nil when the stack
// file leaves them out; defaults are applied at planning time.
type Entry struct {
	Name     string
	Stack    int
	Feed     *int     // feeder advance in mm
	Head     *int     // pick-up nozzle
	Rotation *float64 // degrees added to the part's rotation
	Line     int      // 1-based line in the stack file, 0 if set by an option
}

// FeedOr returns the entry's feed, or def when none was given.
func (e Entry) FeedOr(def int) int {
	if e.Feed != nil {
		return *e.Feed
	}
	return def
}

// HeadOr returns the entry's head, or def when none was given.
func (e Entry) HeadOr(def int) int {
	if e.Head != nil {
		return *e.Head
	}
	return def
}

// RotationOr returns the entry's rotation offset, or def when none was given.
func (e Entry) RotationOr(def float64) float64 {
	if e.Rotation != nil {
		return *e.Rotation
	}
	return def
}

// Catalog maps part names to entries and remembers the order in which the
// names were declared. A Catalog is not modified after construction.
type Catalog struct {
	entries []Entry
	index   map[string]int
}

func newCatalog() *Catalog {
	return &Catalog{index: make(map[string]int)}
}

// Len returns the number of parts.
func (c *Catalog) Len() int { return len(c.entries) }

// Names returns the part names in declaration order.
func (c *Catalog) Names() []string {
	names := make([]string, len(c.entries))
	for i, e := range c.entries {
		names[i] = e.Name
	}
	return names
}

// Entries returns a copy of the entries in declaration order.
func (c *Catalog) Entries() []Entry {
	return append([]Entry(nil), c.entries...)
}

// Lookup returns the entry for name.
func (c *Catalog) Lookup(name string) (Entry, bool) {
	i, ok := c.index[name]
	if !ok {
		return Entry{}, false
	}
	return c.entries[i], true
}

// ParseFile reads the stack file at path.
func ParseFile(path string, limits Limits) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open stack file")
	}
	defer f.Close()
	return Parse(f, filepath.Base(path), limits)
}

// Parse reads a stack file from r. name is used for error context only.
//
// Blank lines and lines starting with '#' are skipped. Each remaining line
// must have two to five comma separated fields. Parse fails with
// MALFORMED_CATALOG_ROW for a bad field and with DUPLICATE_PART_NAME when a
// part is listed twice.
func Parse(r io.Reader, name string, limits Limits) (*Catalog, error) {
	cat := newCatalog()

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || line[0] == '#' {
			continue
		}

		entry, perr := parseRow(splitRow(line), limits)
		if perr != nil {
			return nil, perr.At(name, lineNo)
		}
		entry.Line = lineNo

		if prev, dup := cat.Lookup(entry.Name); dup {
			return nil, errors.New(errors.ErrCodeDuplicatePartName,
				"part %q is already assigned on line %d", entry.Name, prev.Line).At(name, lineNo)
		}
		cat.index[entry.Name] = len(cat.entries)
		cat.entries = append(cat.entries, entry)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeMalformedCatalogRow, err, "read stack file").At(name, 0)
	}
	return cat, nil
}

// splitRow splits a row on commas. Part names cannot contain commas, so
// quotes are only stripped, never interpreted.
func splitRow(line string) []string {
	fields := strings.Split(line, ",")
	for i, f := range fields {
		fields[i] = strings.TrimSpace(strings.Trim(strings.TrimSpace(f), `"`))
	}
	return fields
}

func parseRow(fields []string, limits Limits) (Entry, *errors.Error) {
	if len(fields) < minFields {
		return Entry{}, errors.New(errors.ErrCodeMalformedCatalogRow,
			"too few columns (min %d)", minFields)
	}
	if len(fields) > maxFields {
		return Entry{}, errors.New(errors.ErrCodeMalformedCatalogRow,
			"too many columns (max %d)", maxFields)
	}

	entry := Entry{Name: fields[0]}
	if err := errors.ValidatePartName(entry.Name); err != nil {
		return Entry{}, err.(*errors.Error)
	}

	stack, err := limits.ParseStack(fields[1])
	if err != nil {
		return Entry{}, errors.New(errors.ErrCodeMalformedCatalogRow, "%s: %v", entry.Name, err)
	}
	entry.Stack = stack

	optional := func(i int) (string, bool) {
		if i >= len(fields) || fields[i] == "" {
			return "", false
		}
		return fields[i], true
	}
	if s, ok := optional(2); ok {
		v, err := limits.ParseFeed(s)
		if err != nil {
			return Entry{}, errors.New(errors.ErrCodeMalformedCatalogRow, "%s: %v", entry.Name, err)
		}
		entry.Feed = &v
	}
	if s, ok := optional(3); ok {
		v, err := limits.ParseHead(s)
		if err != nil {
			return Entry{}, errors.New(errors.ErrCodeMalformedCatalogRow, "%s: %v", entry.Name, err)
		}
		entry.Head = &v
	}
	if s, ok := optional(4); ok {
		v, err := ParseRotation(s)
		if err != nil {
			return Entry{}, errors.New(errors.ErrCodeMalformedCatalogRow, "%s: %v", entry.Name, err)
		}
		entry.Rotation = &v
	}
	return entry, nil
}

// ParseRotation parses a rotation offset in degrees.
func ParseRotation(s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("rotation offset must be a number, got %q", s)
	}
	return v, nil
}
