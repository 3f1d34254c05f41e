package position

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/dpvgen/pkg/errors"
)

const kicadCSV = `Ref,Val,Package,PosX,PosY,Rot,Side
"C1","100nF","C_0603_1608Metric",10.0000,5.0000,0.0000,top
"U1","TPS65400","QFN-24",20.0000,5.0000,180.0000,top
"R7","4k7","R_0402_1005Metric",-3.2500,12.1250,90.0000,bottom
`

const kicadASCII = `### Footprint positions - created on 2024-03-01 ###
### Printed by KiCad version 7.0.10
## Unit = mm, Angle = deg.
## Side : All
# Ref     Val        Package                PosX       PosY       Rot  Side
C1        100nF      C_0603_1608Metric   10.0000     5.0000    0.0000  top
U1        TPS65400   QFN-24              20.0000     5.0000  180.0000  top
## End
`

func TestParseCSV(t *testing.T) {
	f, err := Parse(strings.NewReader(kicadCSV), "board-pos.csv")
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}

	if f.Format != FormatCSV {
		t.Errorf("Format = %q, want %q", f.Format, FormatCSV)
	}
	if len(f.Header) != 1 || !strings.HasPrefix(f.Header[0], "Ref,Val") {
		t.Errorf("Header = %q, want the title row", f.Header)
	}
	if len(f.Records) != 3 {
		t.Fatalf("got %d records, want 3", len(f.Records))
	}

	want := Record{Ref: "R7", Value: "4k7", Footprint: "R_0402_1005Metric", X: -3.25, Y: 12.125, Rotation: 90, Side: Bottom, Index: 2, Line: 4}
	got := f.Records[2]
	got.Raw = ""
	if got != want {
		t.Errorf("Records[2] = %+v, want %+v", got, want)
	}

	for i, rec := range f.Records {
		if rec.Index != i {
			t.Errorf("Records[%d].Index = %d", i, rec.Index)
		}
	}
}

func TestParseASCII(t *testing.T) {
	f, err := Parse(strings.NewReader(kicadASCII), "board.pos")
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}

	if f.Format != FormatASCII {
		t.Errorf("Format = %q, want %q", f.Format, FormatASCII)
	}
	if len(f.Header) != 5 {
		t.Errorf("got %d header lines, want 5", len(f.Header))
	}
	if len(f.Trailer) != 1 || f.Trailer[0] != "## End" {
		t.Errorf("Trailer = %q, want [## End]", f.Trailer)
	}
	if len(f.Records) != 2 {
		t.Fatalf("got %d records, want 2", len(f.Records))
	}
	if u := f.Records[1]; u.Ref != "U1" || u.Value != "TPS65400" || u.Rotation != 180 || u.Line != 7 {
		t.Errorf("Records[1] = %+v", u)
	}
}

func TestParseWithoutHeader(t *testing.T) {
	input := "C1,100nF,C_0603,1.5,2.5,0,top\r\nC2,100nF,C_0603,3.5,2.5,90,top\r\n"
	f, err := Parse(strings.NewReader(input), "pos.csv")
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if len(f.Header) != 0 {
		t.Errorf("Header = %q, want none", f.Header)
	}
	if len(f.Records) != 2 {
		t.Fatalf("got %d records, want 2", len(f.Records))
	}
	if f.Records[1].Raw != "C2,100nF,C_0603,3.5,2.5,90,top" {
		t.Errorf("Raw = %q, CR should be stripped", f.Records[1].Raw)
	}
}

func TestParseTitleRowVariants(t *testing.T) {
	tests := []struct {
		name  string
		title string
	}{
		{"quoted", `"Ref","Val","Package","PosX","PosY","Rot","Side"`},
		{"lower case", "ref,val,package,posx,posy,rot,side"},
		{"extra column", "Ref,Val,Package,PosX,PosY,Rot,Side,DNP"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := tt.title + "\nC1,100nF,C_0603,1,2,0,top\n"
			f, err := Parse(strings.NewReader(input), "pos.csv")
			if err != nil {
				t.Fatalf("Parse() error: %v", err)
			}
			if len(f.Header) != 1 || len(f.Records) != 1 || f.Records[0].Line != 2 {
				t.Errorf("Header = %q, Records = %+v", f.Header, f.Records)
			}
		})
	}
}

func TestParseExtraColumnsIgnored(t *testing.T) {
	input := "Ref,Val,Package,PosX,PosY,Rot,Side,DNP\nC1,100nF,C_0603,1,2,0,top,no\n"
	f, err := Parse(strings.NewReader(input), "pos.csv")
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if len(f.Records) != 1 || f.Records[0].Side != Top {
		t.Errorf("Records = %+v", f.Records)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantLine int
	}{
		{"too few columns", "Ref,Val,Package,PosX,PosY,Rot,Side\nC1,100nF,C_0603,1,2,0\n", 2},
		{"bad x", "Ref,Val,Package,PosX,PosY,Rot,Side\nC1,100nF,C_0603,1,2,0,top\nC2,100nF,C_0603,abc,2,0,top\n", 3},
		{"bad rotation", "C1,100nF,C_0603,1,2,east,top\n", 1},
		{"bad x in first row", "C1,100nF,C_0603,x,1,0,top\nC2,100nF,C_0603,1,1,0,top\n", 1},
		{"bad y in first row", "C1,100nF,C_0603,1,PosY,0,top\n", 1},
		{"bad x after comment", "# exported by hand\nC1,100nF,C_0603,x,1,0,top\n", 2},
		{"bad side", "C1,100nF,C_0603,1,2,0,middle\n", 1},
		{"empty ref", "C1,100nF,C_0603,1,2,0,top\n,100nF,C_0603,1,2,0,top\n", 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.input), "pos.csv")
			if !errors.Is(err, errors.ErrCodeMalformedPositionRow) {
				t.Fatalf("Parse() error = %v, want MALFORMED_POSITION_ROW", err)
			}
			e := err.(*errors.Error)
			if e.File != "pos.csv" || e.Line != tt.wantLine {
				t.Errorf("location = %s:%d, want pos.csv:%d", e.File, e.Line, tt.wantLine)
			}
		})
	}
}

func TestParseSide(t *testing.T) {
	tests := []struct {
		in      string
		want    Side
		wantErr bool
	}{
		{"top", Top, false},
		{"TOP", Top, false},
		{"F.Cu", Top, false},
		{"bottom", Bottom, false},
		{"B.Cu", Bottom, false},
		{"inner", "", true},
	}
	for _, tt := range tests {
		got, err := ParseSide(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseSide(%q) = %q, %v; want %q, err %v", tt.in, got, err, tt.want, tt.wantErr)
		}
	}
}

func TestParseFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "board-pos.csv")
	if err := os.WriteFile(path, []byte(kicadCSV), 0644); err != nil {
		t.Fatal(err)
	}

	f, err := ParseFile(path)
	if err != nil {
		t.Fatalf("ParseFile() error: %v", err)
	}
	if f.Name != "board-pos.csv" {
		t.Errorf("Name = %q, want base name", f.Name)
	}

	_, err = ParseFile(filepath.Join(dir, "missing.csv"))
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("ParseFile(missing) error = %v, want FILE_NOT_FOUND", err)
	}
}

func TestParseCommentBeforeTitleRow(t *testing.T) {
	input := "# exported from board.kicad_pcb\nRef,Val,Package,PosX,PosY,Rot,Side\nC1,100nF,C_0603,1,2,0,top\n"
	f, err := Parse(strings.NewReader(input), "pos.csv")
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if len(f.Header) != 2 || len(f.Records) != 1 || f.Records[0].Line != 3 {
		t.Errorf("Header = %q, Records = %+v", f.Header, f.Records)
	}
}
