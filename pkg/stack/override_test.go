package stack

import (
	"reflect"
	"testing"

	"github.com/matzehuels/dpvgen/pkg/errors"
)

func TestParseOverride(t *testing.T) {
	tests := []struct {
		name    string
		arg     string
		want    Override
		wantErr bool
	}{
		{"valid", "TPS65400:2", Override{OverrideHead, "TPS65400", "2"}, false},
		{"spaces trimmed", " 100nF : 3 ", Override{OverrideHead, "100nF", "3"}, false},
		{"missing value", "TPS65400", Override{}, true},
		{"too many colons", "a:b:c", Override{}, true},
		{"empty part", ":2", Override{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseOverride(OverrideHead, tt.arg)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseOverride(%q) error = %v, wantErr %v", tt.arg, err, tt.wantErr)
			}
			if err != nil {
				if !errors.Is(err, errors.ErrCodeInvalidInput) {
					t.Errorf("code = %v, want INVALID_INPUT", errors.GetCode(err))
				}
				return
			}
			if got != tt.want {
				t.Errorf("ParseOverride(%q) = %+v, want %+v", tt.arg, got, tt.want)
			}
		})
	}
}

func TestApply(t *testing.T) {
	base := mustParse(t, "100nF,1\nTPS65400,27,8,2,90\n")

	got, err := base.Apply([]Override{
		{OverrideFeed, "100nF", "2"},
		{OverrideRotation, "TPS65400", "-90"},
		{OverrideStack, "LED", "5"},
		{OverrideHead, "LED", "2"},
	}, DefaultLimits())
	if err != nil {
		t.Fatalf("Apply() error: %v", err)
	}

	wantNames := []string{"100nF", "TPS65400", "LED"}
	if !reflect.DeepEqual(got.Names(), wantNames) {
		t.Errorf("Names() = %q, want %q", got.Names(), wantNames)
	}

	c, _ := got.Lookup("100nF")
	if c.FeedOr(0) != 2 || c.Stack != 1 {
		t.Errorf("100nF = %+v", c)
	}
	u, _ := got.Lookup("TPS65400")
	if u.RotationOr(0) != -90 || u.HeadOr(0) != 2 {
		t.Errorf("TPS65400 = %+v", u)
	}
	l, _ := got.Lookup("LED")
	if l.Stack != 5 || l.HeadOr(0) != 2 || l.Line != 0 {
		t.Errorf("LED = %+v", l)
	}

	// The receiver is left untouched.
	orig, _ := base.Lookup("100nF")
	if orig.Feed != nil || base.Len() != 2 {
		t.Errorf("Apply modified the original catalog: %+v, len %d", orig, base.Len())
	}
}

func TestApplyErrors(t *testing.T) {
	base := mustParse(t, "100nF,1\n")

	tests := []struct {
		name string
		ov   []Override
	}{
		{"new part without stack", []Override{{OverrideHead, "LED", "1"}}},
		{"bad stack", []Override{{OverrideStack, "100nF", "99"}}},
		{"bad feed", []Override{{OverrideFeed, "100nF", "5"}}},
		{"bad rotation", []Override{{OverrideRotation, "100nF", "x"}}},
		{"bad part name", []Override{{OverrideStack, "a,b", "1"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := base.Apply(tt.ov, DefaultLimits())
			if !errors.Is(err, errors.ErrCodeInvalidInput) {
				t.Errorf("Apply() error = %v, want INVALID_INPUT", err)
			}
		})
	}
}
