package machine

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/dpvgen/pkg/errors"
	"github.com/matzehuels/dpvgen/pkg/stack"
)

// Defaults of a CHM-T36 style machine.
const (
	DefaultStations = 29
	DefaultFeed     = 4
	DefaultHead     = 1
	DefaultHeads    = 2

	// DefaultOriginOffsetY is the distance in mm between the clamp's
	// lower-left corner, where the board's auxiliary origin sits, and the
	// machine's origin.
	DefaultOriginOffsetY = 100.0

	DefaultHeight = 0.5

	// DefaultStatus is the station status of an enabled feeder.
	DefaultStatus = 6
)

// CalibFactor is the camera calibration block written at the end of a DPV
// file. The machine recomputes it after the operator calibrates the marks;
// the values here only have to be plausible.
type CalibFactor struct {
	DeltX      float64 `toml:"delt_x"`
	DeltY      float64 `toml:"delt_y"`
	AlphaX     float64 `toml:"alpha_x"`
	AlphaY     float64 `toml:"alpha_y"`
	BetaX      float64 `toml:"beta_x"`
	BetaY      float64 `toml:"beta_y"`
	DeltaAngle float64 `toml:"delta_angle"`
}

// Profile describes the machine a DPV file is generated for.
type Profile struct {
	Stations    int   `toml:"stations"`
	Feeds       []int `toml:"feeds"`
	Heads       int   `toml:"heads"`
	DefaultFeed int   `toml:"default_feed"`
	DefaultHead int   `toml:"default_head"`

	// Board origin in machine coordinates for top-side parts.
	OriginOffsetX float64 `toml:"origin_offset_x"`
	OriginOffsetY float64 `toml:"origin_offset_y"`

	// Angle added to every part before its rotation offset, per side.
	TopRotation    float64 `toml:"top_rotation"`
	BottomRotation float64 `toml:"bottom_rotation"`

	Height float64 `toml:"height"` // pick/place height column
	Speed  int     `toml:"speed"`  // 0 = machine default
	Status int     `toml:"status"` // station status column

	Calib CalibFactor `toml:"calib_factor"`
}

// DefaultProfile returns the built-in profile.
func DefaultProfile() Profile {
	return Profile{
		Stations:      DefaultStations,
		Feeds:         []int{2, 4, 8, 12, 16, 24},
		Heads:         DefaultHeads,
		DefaultFeed:   DefaultFeed,
		DefaultHead:   DefaultHead,
		OriginOffsetY: DefaultOriginOffsetY,
		Height:        DefaultHeight,
		Status:        DefaultStatus,
		Calib: CalibFactor{
			DeltX:      112.7,
			DeltY:      79.37,
			AlphaX:     0.999545,
			AlphaY:     -0.0034923,
			BetaX:      0.00360968,
			BetaY:      1.00062,
			DeltaAngle: -0.19997,
		},
	}
}

// Limits returns the stack file limits of the profile.
func (p Profile) Limits() stack.Limits {
	return stack.Limits{
		Stations: p.Stations,
		Feeds:    slices.Clone(p.Feeds),
		Heads:    p.Heads,
	}
}

// Validate checks the profile for values the machine cannot use.
func (p Profile) Validate() error {
	if p.Stations < 1 {
		return errors.New(errors.ErrCodeInvalidConfig, "stations must be positive, got %d", p.Stations)
	}
	if p.Heads < 1 {
		return errors.New(errors.ErrCodeInvalidConfig, "heads must be positive, got %d", p.Heads)
	}
	if len(p.Feeds) > 0 && !slices.Contains(p.Feeds, p.DefaultFeed) {
		return errors.New(errors.ErrCodeInvalidConfig, "default_feed %d is not one of feeds %v", p.DefaultFeed, p.Feeds)
	}
	if p.DefaultFeed < 1 {
		return errors.New(errors.ErrCodeInvalidConfig, "default_feed must be positive, got %d", p.DefaultFeed)
	}
	if p.DefaultHead < 1 || p.DefaultHead > p.Heads {
		return errors.New(errors.ErrCodeInvalidConfig, "default_head must be within [1,%d], got %d", p.Heads, p.DefaultHead)
	}
	if p.Speed < 0 || p.Status < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "speed and status must not be negative")
	}
	if p.Height < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "height must not be negative, got %g", p.Height)
	}
	return nil
}

// LoadProfile reads a TOML profile from path on top of [DefaultProfile].
// Keys that are not part of the profile are rejected so typos do not go
// unnoticed.
func LoadProfile(path string) (Profile, error) {
	if _, err := os.Stat(path); err != nil {
		return Profile{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "open machine profile")
	}
	p := DefaultProfile()
	md, err := toml.DecodeFile(path, &p)
	if err != nil {
		return Profile{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "decode machine profile").At(filepath.Base(path), 0)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Profile{}, errors.New(errors.ErrCodeInvalidConfig, "unknown keys: %s", strings.Join(keys, ", ")).At(filepath.Base(path), 0)
	}
	if err := p.Validate(); err != nil {
		return Profile{}, err.(*errors.Error).At(filepath.Base(path), 0)
	}
	return p, nil
}

// WriteTOML writes p in the format read by [LoadProfile].
func (p Profile) WriteTOML(w io.Writer) error {
	if err := toml.NewEncoder(w).Encode(p); err != nil {
		return fmt.Errorf("encode profile: %w", err)
	}
	return nil
}
