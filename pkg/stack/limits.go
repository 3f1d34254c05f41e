package stack

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// Limits are the machine values a stack file may use.
// A zero field disables the corresponding upper bound.
type Limits struct {
	Stations int   // highest stack number
	Feeds    []int // feeder advances the machine supports, in mm
	Heads    int   // number of pick-up heads
}

// DefaultLimits returns the limits of a CHM-T36 style machine:
// 29 stacks, feeds of 2 to 24 mm and two heads.
func DefaultLimits() Limits {
	return Limits{
		Stations: 29,
		Feeds:    []int{2, 4, 8, 12, 16, 24},
		Heads:    2,
	}
}

// ParseStack parses a stack number.
func (l Limits) ParseStack(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("stack number must be an integer, got %q", s)
	}
	if n < 1 {
		return 0, fmt.Errorf("stack number must be positive, got %d", n)
	}
	if l.Stations > 0 && n > l.Stations {
		return 0, fmt.Errorf("stack number must be within [1,%d], got %d", l.Stations, n)
	}
	return n, nil
}

// ParseFeed parses a feed distance.
func (l Limits) ParseFeed(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("feed must be a positive integer, got %q", s)
	}
	if len(l.Feeds) > 0 && !slices.Contains(l.Feeds, n) {
		return 0, fmt.Errorf("feed must be one of (%s), got %d", joinInts(l.Feeds), n)
	}
	return n, nil
}

// ParseHead parses a head number.
func (l Limits) ParseHead(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("head must be a positive integer, got %q", s)
	}
	if l.Heads > 0 && n > l.Heads {
		return 0, fmt.Errorf("head must be within [1,%d], got %d", l.Heads, n)
	}
	return n, nil
}

func joinInts(v []int) string {
	s := make([]string, len(v))
	for i, n := range v {
		s[i] = strconv.Itoa(n)
	}
	return strings.Join(s, ", ")
}
