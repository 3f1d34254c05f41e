package position

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/matzehuels/dpvgen/pkg/errors"
)

// Side is the board layer a footprint sits on.
type Side string

const (
	Top    Side = "top"
	Bottom Side = "bottom"
)

// Format identifies the flavour of a KiCad footprint position export.
type Format string

const (
	FormatCSV   Format = "csv"   // "Ref","Val","Package","PosX","PosY","Rot","Side"
	FormatASCII Format = "ascii" // whitespace separated .pos with '#' comments
)

// minColumns is the number of columns every footprint row must carry.
const minColumns = 7

// Record is one footprint row of a position file.
// Coordinates are in millimeters relative to the auxiliary-axis origin and
// the rotation is in degrees, counter-clockwise positive, as exported.
type Record struct {
	Ref       string  // reference designator, e.g. "C12"
	Value     string  // component value, e.g. "100nF"
	Footprint string  // footprint/package label
	X         float64 // PosX
	Y         float64 // PosY
	Rotation  float64 // Rot
	Side      Side
	Index     int    // 0-based position among the file's footprint rows
	Line      int    // 1-based line in the source file
	Raw       string // the line as read, without line ending
}

// File is a parsed position file.
type File struct {
	Name    string   // base name of the source, used in error messages
	Format  Format   // detected export flavour
	Header  []string // header and comment lines before the first record
	Trailer []string // comment lines after the first record, e.g. "## End"
	Records []Record // footprint rows in file order
}

// ParseFile reads the position file at path.
func ParseFile(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open position file")
	}
	defer f.Close()
	return Parse(f, filepath.Base(path))
}

// Parse reads a KiCad footprint position export from r.
//
// Both the CSV and the ASCII flavour are accepted; the flavour is detected
// from the first non-comment line. A CSV header row is recognised by a
// non-numeric PosX column and kept in [File.Header]. Columns beyond the
// seventh are ignored.
//
// Parse fails with MALFORMED_POSITION_ROW when a row has fewer than seven
// columns, a non-numeric coordinate or rotation, an empty reference or an
// unknown side. name is only used for error context.
func Parse(r io.Reader, name string) (*File, error) {
	out := &File{Name: name}

	scanner := bufio.NewScanner(r)
	lineNo := 0
	titled := false
	for scanner.Scan() {
		lineNo++
		raw := strings.TrimRight(scanner.Text(), "\r")
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		if line[0] == '#' {
			if len(out.Records) == 0 {
				out.Header = append(out.Header, raw)
			} else {
				out.Trailer = append(out.Trailer, raw)
			}
			continue
		}

		if out.Format == "" {
			out.Format = sniff(line)
		}
		cells, err := split(out.Format, line)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeMalformedPositionRow, err, "unreadable row").At(name, lineNo)
		}

		if len(out.Records) == 0 && !titled && isHeader(cells) {
			out.Header = append(out.Header, raw)
			titled = true
			continue
		}

		rec, perr := parseRecord(cells)
		if perr != nil {
			return nil, perr.At(name, lineNo)
		}
		rec.Index = len(out.Records)
		rec.Line = lineNo
		rec.Raw = raw
		out.Records = append(out.Records, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeMalformedPositionRow, err, "read position file").At(name, 0)
	}
	if out.Format == "" {
		out.Format = FormatCSV
	}
	return out, nil
}

func sniff(line string) Format {
	if strings.Contains(line, ",") {
		return FormatCSV
	}
	return FormatASCII
}

func split(format Format, line string) ([]string, error) {
	if format == FormatASCII {
		return strings.Fields(line), nil
	}
	cr := csv.NewReader(strings.NewReader(line))
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.TrimLeadingSpace = true
	cells, err := cr.Read()
	if err != nil {
		return nil, err
	}
	for i, c := range cells {
		cells[i] = strings.TrimSpace(strings.Trim(strings.TrimSpace(c), `"`))
	}
	return cells, nil
}

// isHeader reports whether cells are KiCad's column title row
// (Ref,Val,Package,PosX,PosY,Rot,Side). A data row with a bad number is not
// a title row and is left to parseRecord to reject.
func isHeader(cells []string) bool {
	if len(cells) < minColumns {
		return false
	}
	return strings.EqualFold(cells[0], "Ref") &&
		strings.EqualFold(cells[3], "PosX") &&
		strings.EqualFold(cells[4], "PosY") &&
		strings.EqualFold(cells[5], "Rot")
}

func parseRecord(cells []string) (Record, *errors.Error) {
	if len(cells) < minColumns {
		return Record{}, errors.New(errors.ErrCodeMalformedPositionRow,
			"%d columns are expected, got %d", minColumns, len(cells))
	}
	rec := Record{
		Ref:       cells[0],
		Value:     cells[1],
		Footprint: cells[2],
	}
	if rec.Ref == "" {
		return Record{}, errors.New(errors.ErrCodeMalformedPositionRow, "empty reference designator")
	}

	nums := []struct {
		col  string
		text string
		dst  *float64
	}{
		{"PosX", cells[3], &rec.X},
		{"PosY", cells[4], &rec.Y},
		{"Rot", cells[5], &rec.Rotation},
	}
	for _, n := range nums {
		v, err := strconv.ParseFloat(n.text, 64)
		if err != nil {
			return Record{}, errors.New(errors.ErrCodeMalformedPositionRow,
				"%s: %s value %q is not a number", rec.Ref, n.col, n.text)
		}
		*n.dst = v
	}

	side, err := ParseSide(cells[6])
	if err != nil {
		return Record{}, errors.New(errors.ErrCodeMalformedPositionRow, "%s: %v", rec.Ref, err)
	}
	rec.Side = side
	return rec, nil
}

// ParseSide parses a layer column. KiCad writes "top"/"bottom"; copper layer
// names are accepted as well.
func ParseSide(s string) (Side, error) {
	switch strings.ToLower(s) {
	case "top", "f.cu", "front":
		return Top, nil
	case "bottom", "b.cu", "back":
		return Bottom, nil
	}
	return "", fmt.Errorf("side must be either \"top\" or \"bottom\", got %q", s)
}
