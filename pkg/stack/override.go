package stack

import (
	"fmt"
	"strings"

	"github.com/matzehuels/dpvgen/pkg/errors"
)

// OverrideKind names the entry field an [Override] sets.
type OverrideKind string

const (
	OverrideStack    OverrideKind = "stack"
	OverrideFeed     OverrideKind = "feed"
	OverrideHead     OverrideKind = "head"
	OverrideRotation OverrideKind = "rotation"
)

// Override sets one field of one part from the command line
// (e.g. "--head TPS65400:2").
type Override struct {
	Kind  OverrideKind
	Part  string
	Value string
}

func (o Override) String() string {
	return fmt.Sprintf("--%s %s:%s", o.Kind, o.Part, o.Value)
}

// ParseOverride parses a "PART:VALUE" option argument.
func ParseOverride(kind OverrideKind, arg string) (Override, error) {
	fields := strings.Split(arg, ":")
	if len(fields) != 2 || strings.TrimSpace(fields[0]) == "" {
		return Override{}, errors.New(errors.ErrCodeInvalidInput, "option '--%s %s': invalid syntax", kind, arg)
	}
	return Override{
		Kind:  kind,
		Part:  strings.TrimSpace(fields[0]),
		Value: strings.TrimSpace(fields[1]),
	}, nil
}

// Apply returns a new catalog with overrides applied on top of c.
//
// Overrides for parts that are not in c append new entries after the
// existing ones, so the declaration order of the stack file is kept. Every
// resulting entry must have a stack number.
func (c *Catalog) Apply(overrides []Override, limits Limits) (*Catalog, error) {
	out := newCatalog()
	out.entries = c.Entries()
	for name, i := range c.index {
		out.index[name] = i
	}

	for _, o := range overrides {
		i, ok := out.index[o.Part]
		if !ok {
			if err := errors.ValidatePartName(o.Part); err != nil {
				return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "option '%s'", o)
			}
			i = len(out.entries)
			out.index[o.Part] = i
			out.entries = append(out.entries, Entry{Name: o.Part})
		}

		e := &out.entries[i]
		var err error
		switch o.Kind {
		case OverrideStack:
			e.Stack, err = limits.ParseStack(o.Value)
		case OverrideFeed:
			var v int
			if v, err = limits.ParseFeed(o.Value); err == nil {
				e.Feed = &v
			}
		case OverrideHead:
			var v int
			if v, err = limits.ParseHead(o.Value); err == nil {
				e.Head = &v
			}
		case OverrideRotation:
			var v float64
			if v, err = ParseRotation(o.Value); err == nil {
				e.Rotation = &v
			}
		default:
			err = fmt.Errorf("unknown option")
		}
		if err != nil {
			return nil, errors.New(errors.ErrCodeInvalidInput, "option '%s': %v", o, err)
		}
	}

	for _, e := range out.entries {
		if e.Stack == 0 {
			return nil, errors.New(errors.ErrCodeInvalidInput,
				"part %q has no stack number (use --stack %s:NUM)", e.Name, e.Name)
		}
	}
	return out, nil
}
