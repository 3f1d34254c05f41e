package dpv

import (
	"bufio"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/matzehuels/dpvgen/pkg/errors"
)

// Decode reads a DPV file written by [Encode] or by the vendor software.
//
// Only the records that [Document] models are read back; table headers,
// panel and PCB calibration rows are recognized and ignored. Component and
// station numbering is not checked. Malformed rows fail with INVALID_INPUT
// and the line number.
func Decode(r io.Reader) (*Document, error) {
	d := &Document{}
	var date, clock string

	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimRight(sc.Text(), "\r")
		if text == "" {
			continue
		}
		f := strings.Split(text, ",")

		var err error
		switch f[0] {
		case "separated", "PANELYPE", "Table", "Panel_Coord", "PcbCalib":
		case "FILE":
			d.FileName, err = field(f, 1)
		case "PCBFILE":
			d.PCBFileName, err = field(f, 1)
		case "DATE":
			date, err = field(f, 1)
		case "TIME":
			clock, err = field(f, 1)
		case "Station":
			err = d.decodeStation(f)
		case "EComponent":
			err = d.decodeComponent(f)
		case "CalibPoint":
			err = d.decodeMark(f)
		case "CalibFator":
			err = d.decodeCalib(f)
		default:
			err = errors.New(errors.ErrCodeInvalidInput, "unknown record %q", f[0])
		}
		if err != nil {
			return nil, errorAt(err, line)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read dpv")
	}

	if date != "" || clock != "" {
		t, err := time.ParseInLocation(dateLayout+" "+timeLayout, date+" "+clock, time.Local)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse DATE/TIME")
		}
		d.Time = t
	}
	return d, nil
}

func (d *Document) decodeStation(f []string) error {
	if len(f) < 12 {
		return errors.New(errors.ErrCodeInvalidInput, "Station: want 12 fields, got %d", len(f))
	}
	p := &parser{f: f}
	d.Stations = append(d.Stations, Station{
		Stack:  p.atoi(2),
		Feed:   p.atoi(5),
		Note:   f[6],
		Height: p.atof(7),
		Speed:  p.atoi(8),
		Status: p.atoi(9),
	})
	return p.err
}

func (d *Document) decodeComponent(f []string) error {
	if len(f) < 13 {
		return errors.New(errors.ErrCodeInvalidInput, "EComponent: want 13 fields, got %d", len(f))
	}
	p := &parser{f: f}
	d.Components = append(d.Components, Component{
		Head:   p.atoi(3),
		Stack:  p.atoi(4),
		X:      p.atof(5),
		Y:      p.atof(6),
		Angle:  p.atof(7),
		Height: p.atof(8),
		Speed:  p.atoi(10),
		Ref:    f[11],
		Part:   f[12],
	})
	return p.err
}

func (d *Document) decodeMark(f []string) error {
	if len(f) < 6 {
		return errors.New(errors.ErrCodeInvalidInput, "CalibPoint: want 6 fields, got %d", len(f))
	}
	p := &parser{f: f}
	d.Marks = append(d.Marks, CalibPoint{
		X:    p.atof(3),
		Y:    p.atof(4),
		Note: f[5],
	})
	return p.err
}

func (d *Document) decodeCalib(f []string) error {
	if len(f) < 9 {
		return errors.New(errors.ErrCodeInvalidInput, "CalibFator: want 9 fields, got %d", len(f))
	}
	p := &parser{f: f}
	d.Calib = CalibFactor{
		DeltX:      p.atof(2),
		DeltY:      p.atof(3),
		AlphaX:     p.atof(4),
		AlphaY:     p.atof(5),
		BetaX:      p.atof(6),
		BetaY:      p.atof(7),
		DeltaAngle: p.atof(8),
	}
	return p.err
}

// parser converts record fields and keeps the first failure.
type parser struct {
	f   []string
	err error
}

func (p *parser) atoi(i int) int {
	v, err := strconv.Atoi(p.f[i])
	if err != nil && p.err == nil {
		p.err = errors.New(errors.ErrCodeInvalidInput, "%s field %d: invalid integer %q", p.f[0], i, p.f[i])
	}
	return v
}

func (p *parser) atof(i int) float64 {
	v, err := strconv.ParseFloat(p.f[i], 64)
	if err != nil && p.err == nil {
		p.err = errors.New(errors.ErrCodeInvalidInput, "%s field %d: invalid number %q", p.f[0], i, p.f[i])
	}
	return v
}

func field(f []string, i int) (string, error) {
	if len(f) <= i {
		return "", errors.New(errors.ErrCodeInvalidInput, "%s: missing value", f[0])
	}
	return f[i], nil
}

func errorAt(err error, line int) error {
	if e, ok := err.(*errors.Error); ok {
		return e.At("", line)
	}
	return err
}
