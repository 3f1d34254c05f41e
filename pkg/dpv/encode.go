package dpv

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/matzehuels/dpvgen/pkg/errors"
)

const crlf = "\r\n"

// Validate reports the first value of d that cannot be written.
// All failures are ENCODING_ERROR.
func (d *Document) Validate() error {
	for _, f := range []struct{ what, s string }{
		{"file name", d.FileName},
		{"position file name", d.PCBFileName},
	} {
		if err := errors.ValidateField(f.what, f.s); err != nil {
			return err
		}
	}

	for i, s := range d.Stations {
		if s.Stack < 1 || s.Feed < 1 {
			return errors.New(errors.ErrCodeEncoding, "station %d (%s): stack %d, feed %d must be positive", i, s.Note, s.Stack, s.Feed)
		}
		if err := errors.ValidateField("station part name", s.Note); err != nil {
			return err
		}
		if err := checkNumber("station height", s.Height); err != nil {
			return err
		}
	}

	for i, c := range d.Components {
		if c.Head < 1 || c.Stack < 1 {
			return errors.New(errors.ErrCodeEncoding, "component %d (%s): head %d, stack %d must be positive", i, c.Ref, c.Head, c.Stack)
		}
		for _, v := range []struct {
			what string
			val  float64
		}{
			{"x", c.X}, {"y", c.Y}, {"height", c.Height},
		} {
			if err := checkNumber(c.Ref+" "+v.what, v.val); err != nil {
				return err
			}
		}
		if math.IsNaN(c.Angle) || c.Angle < 0 || c.Angle >= 360 {
			return errors.New(errors.ErrCodeEncoding, "%s angle %g outside [0, 360)", c.Ref, c.Angle)
		}
		if err := errors.ValidateField("reference", c.Ref); err != nil {
			return err
		}
		if err := errors.ValidateField("part name", c.Part); err != nil {
			return err
		}
	}

	for i, m := range d.Marks {
		if err := checkNumber(fmt.Sprintf("mark %d x", i+1), m.X); err != nil {
			return err
		}
		if err := checkNumber(fmt.Sprintf("mark %d y", i+1), m.Y); err != nil {
			return err
		}
		if err := errors.ValidateField("mark note", m.Note); err != nil {
			return err
		}
	}
	return nil
}

// checkNumber rejects values whose two-decimal form does not fit the field.
func checkNumber(what string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return errors.New(errors.ErrCodeEncoding, "%s is not a finite number", what)
	}
	if math.Abs(math.Round(v*100)/100) > MaxCoordinate {
		return errors.New(errors.ErrCodeEncoding, "%s %.2f exceeds the field width (max ±%.2f)", what, v, MaxCoordinate)
	}
	return nil
}

// Encode writes d to w in DPV form.
//
// d is validated before the first byte is written, so a failed Encode never
// leaves partial output in w. Write errors from w are returned as is.
func Encode(w io.Writer, d *Document) error {
	if err := d.Validate(); err != nil {
		return err
	}

	e := &encoder{w: bufio.NewWriter(w)}

	e.line("separated")
	e.line("FILE," + d.FileName)
	e.line("PCBFILE," + d.PCBFileName)
	e.line("DATE," + d.Time.Format(dateLayout))
	e.line("TIME," + d.Time.Format(timeLayout))
	e.line("PANELYPE,0")
	e.blank(1)

	e.line("Table,No.,ID,DeltX,DeltY,FeedRates,Note,Height,Speed,Status,SizeX,SizeY")
	e.blank(1)
	for i, s := range d.Stations {
		e.line(fmt.Sprintf("Station,%d,%d,0,0,%d,%s,%s,%d,%d,0,0",
			i, s.Stack, s.Feed, s.Note, formatFloat(s.Height), s.Speed, s.Status))
		e.blank(1)
	}
	e.blank(2)

	e.line("Table,No.,ID,DeltX,DeltY")
	e.blank(1)
	e.line("Panel_Coord,0,1,0,0")
	e.blank(1)
	e.blank(2)

	e.line("Table,No.,ID,PHead,STNo.,DeltX,DeltY,Angle,Height,Skip,Speed,Explain,Note")
	e.blank(1)
	for i, c := range d.Components {
		e.line(fmt.Sprintf("EComponent,%d,%d,%d,%d,%s,%s,%s,%s,%d,%d,%s,%s",
			i, i+1, c.Head, c.Stack,
			FormatCoord(c.X), FormatCoord(c.Y), FormatAngle(c.Angle),
			formatFloat(c.Height), componentSkip, c.Speed, c.Ref, c.Part))
		e.blank(1)
	}
	e.blank(2)

	e.line("Table,No.,ID,CenterX,CenterY,IntervalX,IntervalY,NumX,NumY,Start")
	e.blank(1)
	e.blank(2)

	e.line("Table,No.,nType,nAlg,nFinished")
	e.blank(1)
	e.line("PcbCalib,0,1,0,1")
	e.blank(1)

	e.line("Table,No.,ID,offsetX,offsetY,Note")
	e.blank(1)
	for i, m := range d.Marks {
		note := m.Note
		if note == "" {
			note = markNote
		}
		e.line(fmt.Sprintf("CalibPoint,%d,%d,%s,%s,%s", i, i+1, FormatCoord(m.X), FormatCoord(m.Y), note))
	}
	e.blank(1)

	c := d.Calib
	e.line("Table,No.,DeltX,DeltY,AlphaX,AlphaY,BetaX,BetaY,DeltaAngle")
	e.blank(1)
	e.line(fmt.Sprintf("CalibFator,0,%s,%s,%s,%s,%s,%s,%s",
		formatFloat(c.DeltX), formatFloat(c.DeltY),
		formatFloat(c.AlphaX), formatFloat(c.AlphaY),
		formatFloat(c.BetaX), formatFloat(c.BetaY),
		formatFloat(c.DeltaAngle)))
	e.blank(1)

	if e.err != nil {
		return e.err
	}
	return e.w.Flush()
}

// encoder writes CRLF terminated lines and keeps the first write error.
type encoder struct {
	w   *bufio.Writer
	err error
}

func (e *encoder) line(s string) {
	if e.err != nil {
		return
	}
	_, e.err = e.w.WriteString(s + crlf)
}

func (e *encoder) blank(n int) {
	for range n {
		e.line("")
	}
}

// FormatCoord returns a coordinate as written to a DPV file: two decimals
// and no negative zero.
func FormatCoord(v float64) string {
	r := math.Round(v*100) / 100
	if r == 0 {
		r = 0
	}
	return strconv.FormatFloat(r, 'f', 2, 64)
}

// FormatAngle returns an angle as written to a DPV file: one decimal, with
// values that round up to 360.0 written as 0.0.
func FormatAngle(v float64) string {
	r := math.Round(v*10) / 10
	if r >= 360 || r == 0 {
		r = 0
	}
	return strconv.FormatFloat(r, 'f', 1, 64)
}

// formatFloat writes the shortest decimal form, e.g. 0.5 or -0.0034923.
func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
