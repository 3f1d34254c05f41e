package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/dpvgen/pkg/errors"
	"github.com/matzehuels/dpvgen/pkg/stack"
)

const (
	convertStack = "# part, stack, feed, head, rotation\n100nF,1\nTPS65400,27,8,2,90\n"
	convertPos   = `Ref,Val,Package,PosX,PosY,Rot,Side
U1,TPS65400,QFN-24,20.0,5.0,180,top
C1,100nF,C_0603,10.0,5.0,0,top
C2,DNP,C_0603,12.0,5.0,0,top
`
)

func TestConvertCommand(t *testing.T) {
	c, out, logs := testCLI(t)
	t.Setenv(sourceDateEpochEnv, "1709647629")

	dir := t.TempDir()
	stackPath := writeFile(t, dir, "stack.csv", convertStack)
	posPath := writeFile(t, dir, "board-pos.csv", convertPos)
	outPath := filepath.Join(dir, "job.dpv")

	err := execute(c, "convert", posPath,
		"--stackfile", stackPath,
		"-o", outPath,
		"-m", "5,5", "--mark", "95.5,45",
		"-r", "100nF:90",
		"--summary")
	if err != nil {
		t.Fatalf("convert error: %v\n%s", err, logs.String())
	}

	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatal(err)
	}
	dpv := string(data)
	for _, want := range []string{
		"FILE,job.dpv\r\n",
		"DATE,2024/03/05\r\nTIME,14:07:09\r\n",
		"EComponent,0,1,1,1,10.00,105.00,90.0,0.5,6,0,C1,100nF\r\n",
		"EComponent,1,2,2,27,20.00,105.00,270.0,0.5,6,0,U1,TPS65400\r\n",
		"CalibPoint,0,1,5.00,105.00,Mark1\r\nCalibPoint,1,2,95.50,145.00,Mark1\r\n",
	} {
		if !strings.Contains(dpv, want) {
			t.Errorf("output missing %q", want)
		}
	}
	if strings.Contains(dpv, "C2") {
		t.Error("do-not-populate footprint C2 was placed")
	}

	for _, want := range []string{"Wrote DPV file", outPath, "2 placements", "Placements", "TPS65400", "not populated: C2"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("command output missing %q:\n%s", want, out.String())
		}
	}
}

func TestConvertCommandDefaultOutput(t *testing.T) {
	c, out, _ := testCLI(t)
	dir := t.TempDir()
	stackPath := writeFile(t, dir, "stack.csv", convertStack)
	posPath := writeFile(t, dir, "board-pos.csv", convertPos)

	if err := execute(c, "convert", posPath, "--stackfile", stackPath); err != nil {
		t.Fatalf("convert error: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "board-pos.dpv")); err != nil {
		t.Errorf("default output not written: %v", err)
	}
	if !strings.Contains(out.String(), "no calibration marks") {
		t.Error("missing warning about calibration marks")
	}
}

func TestConvertCommandErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		env  string
		code errors.Code
	}{
		{"bad mark", []string{"-m", "5;5"}, "", errors.ErrCodeInvalidInput},
		{"bad override", []string{"-s", "LED"}, "", errors.ErrCodeInvalidInput},
		{"override without stack", []string{"-f", "LED:4"}, "", errors.ErrCodeInvalidInput},
		{"bad feed", []string{"-f", "100nF:5"}, "", errors.ErrCodeInvalidInput},
		{"bad match", []string{"--match", "colour"}, "", errors.ErrCodeInvalidInput},
		{"bad epoch", nil, "yesterday", errors.ErrCodeInvalidConfig},
		{"missing config", []string{"--config", "/nonexistent/machine.toml"}, "", errors.ErrCodeFileNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _, _ := testCLI(t)
			t.Setenv(sourceDateEpochEnv, tt.env)

			dir := t.TempDir()
			stackPath := writeFile(t, dir, "stack.csv", convertStack)
			posPath := writeFile(t, dir, "board-pos.csv", convertPos)

			args := append([]string{"convert", posPath, "--stackfile", stackPath}, tt.args...)
			err := execute(c, args...)
			if !errors.Is(err, tt.code) {
				t.Fatalf("convert error = %v, want %s", err, tt.code)
			}
			if _, err := os.Stat(filepath.Join(dir, "board-pos.dpv")); !os.IsNotExist(err) {
				t.Error("output written despite error")
			}
		})
	}
}

func TestConvertCommandRequiresStackFile(t *testing.T) {
	c, _, _ := testCLI(t)
	posPath := writeFile(t, t.TempDir(), "board-pos.csv", convertPos)
	if err := execute(c, "convert", posPath); err == nil {
		t.Error("convert without --stackfile succeeded")
	}
}

func TestConvertCommandUnmatchedPart(t *testing.T) {
	c, _, _ := testCLI(t)
	dir := t.TempDir()
	stackPath := writeFile(t, dir, "stack.csv", "100nF,1\n")
	posPath := writeFile(t, dir, "board-pos.csv", convertPos)

	err := execute(c, "convert", posPath, "--stackfile", stackPath)
	if !errors.Is(err, errors.ErrCodeUnmatchedPart) {
		t.Fatalf("convert error = %v, want UNMATCHED_PART", err)
	}
	if !strings.Contains(err.Error(), "board-pos.csv:2") {
		t.Errorf("error %q does not name the position file line", err)
	}
}

func TestConvertOptsOverrides(t *testing.T) {
	opts := convertOpts{
		rotations: []string{"U1:90"},
		stacks:    []string{"LED:12", "U1:3"},
		heads:     []string{"LED:2"},
	}
	got, err := opts.overrides()
	if err != nil {
		t.Fatalf("overrides() error: %v", err)
	}
	want := []stack.Override{
		{Kind: stack.OverrideStack, Part: "LED", Value: "12"},
		{Kind: stack.OverrideStack, Part: "U1", Value: "3"},
		{Kind: stack.OverrideHead, Part: "LED", Value: "2"},
		{Kind: stack.OverrideRotation, Part: "U1", Value: "90"},
	}
	if len(got) != len(want) {
		t.Fatalf("overrides() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("override %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestSourceDateEpoch(t *testing.T) {
	tests := []struct {
		env     string
		want    time.Time
		wantErr bool
	}{
		{"", time.Time{}, false},
		{"0", time.Unix(0, 0).UTC(), false},
		{" 1709647629 ", time.Date(2024, 3, 5, 14, 7, 9, 0, time.UTC), false},
		{"-5", time.Time{}, true},
		{"1.5", time.Time{}, true},
	}
	for _, tt := range tests {
		t.Setenv(sourceDateEpochEnv, tt.env)
		got, err := sourceDateEpoch()
		if (err != nil) != tt.wantErr {
			t.Errorf("sourceDateEpoch(%q) error = %v, wantErr %v", tt.env, err, tt.wantErr)
			continue
		}
		if !got.Equal(tt.want) {
			t.Errorf("sourceDateEpoch(%q) = %v, want %v", tt.env, got, tt.want)
		}
	}
}
