package pipeline

import (
	"bytes"
	"context"
	"path/filepath"
	"slices"
	"time"

	"github.com/matzehuels/dpvgen/pkg/dpv"
	"github.com/matzehuels/dpvgen/pkg/errors"
	"github.com/matzehuels/dpvgen/pkg/machine"
	"github.com/matzehuels/dpvgen/pkg/observability"
	"github.com/matzehuels/dpvgen/pkg/plan"
	"github.com/matzehuels/dpvgen/pkg/stack"
)

// Plan matches the parsed footprints against the catalog.
func Plan(ctx context.Context, in *Inputs, opts Options) (*plan.Plan, error) {
	hooks := observability.Pipeline()
	start := time.Now()
	hooks.OnPlanStart(ctx, len(in.Positions.Records), in.Catalog.Len())

	p, err := plan.Build(in.Positions.Records, in.Catalog, machine.NewTransformer(*opts.Profile), plan.Options{
		Key:         opts.Key,
		DefaultFeed: opts.Profile.DefaultFeed,
		DefaultHead: opts.Profile.DefaultHead,
		Source:      in.Positions.Name,
	})

	n := 0
	if p != nil {
		n = len(p.Placements)
	}
	hooks.OnPlanComplete(ctx, n, time.Since(start), err)
	return p, err
}

// Document assembles the DPV document for a plan.
//
// The station table lists every catalog entry, including unused ones, so
// the machine's feeder setup matches the stack file. Fiducials are mapped
// into the machine frame as top-side points.
func Document(in *Inputs, p *plan.Plan, opts Options) (*dpv.Document, error) {
	prof := opts.Profile
	limits := prof.Limits()

	doc := &dpv.Document{
		FileName:    filepath.Base(opts.Output),
		PCBFileName: filepath.Base(opts.PositionFile),
		Time:        opts.Time,
		Calib: dpv.CalibFactor{
			DeltX:      prof.Calib.DeltX,
			DeltY:      prof.Calib.DeltY,
			AlphaX:     prof.Calib.AlphaX,
			AlphaY:     prof.Calib.AlphaY,
			BetaX:      prof.Calib.BetaX,
			BetaY:      prof.Calib.BetaY,
			DeltaAngle: prof.Calib.DeltaAngle,
		},
	}
	if doc.Time.IsZero() {
		doc.Time = in.ModTime
	}

	for _, e := range in.Catalog.Entries() {
		feed := e.FeedOr(prof.DefaultFeed)
		if err := checkLimits(limits, e.Name, e.Stack, feed, e.HeadOr(prof.DefaultHead)); err != nil {
			return nil, err
		}
		doc.Stations = append(doc.Stations, dpv.Station{
			Stack:  e.Stack,
			Feed:   feed,
			Note:   e.Name,
			Height: prof.Height,
			Speed:  prof.Speed,
			Status: prof.Status,
		})
	}

	for _, pl := range p.Placements {
		if err := checkLimits(limits, pl.Part(), pl.Stack, pl.Feed, pl.Head); err != nil {
			return nil, err
		}
		doc.Components = append(doc.Components, dpv.Component{
			Head:   pl.Head,
			Stack:  pl.Stack,
			X:      pl.X,
			Y:      pl.Y,
			Angle:  pl.Angle,
			Height: prof.Height,
			Speed:  prof.Speed,
			Ref:    pl.Record.Ref,
			Part:   pl.Part(),
		})
	}

	for _, f := range machine.NewTransformer(*prof).Fiducials(opts.Marks) {
		doc.Marks = append(doc.Marks, dpv.CalibPoint{X: f.Machine.X, Y: f.Machine.Y})
	}
	return doc, nil
}

// checkLimits rejects values the profile's machine cannot address.
func checkLimits(l stack.Limits, part string, stackNo, feed, head int) error {
	switch {
	case stackNo < 1 || (l.Stations > 0 && stackNo > l.Stations):
		return errors.New(errors.ErrCodeEncoding, "%s: stack %d outside [1,%d]", part, stackNo, l.Stations)
	case len(l.Feeds) > 0 && !slices.Contains(l.Feeds, feed):
		return errors.New(errors.ErrCodeEncoding, "%s: feed %d is not one of %v", part, feed, l.Feeds)
	case head < 1 || (l.Heads > 0 && head > l.Heads):
		return errors.New(errors.ErrCodeEncoding, "%s: head %d outside [1,%d]", part, head, l.Heads)
	}
	return nil
}

// Render encodes doc into memory.
func Render(ctx context.Context, doc *dpv.Document) ([]byte, error) {
	hooks := observability.Pipeline()
	start := time.Now()
	hooks.OnEncodeStart(ctx, len(doc.Components))

	var buf bytes.Buffer
	err := dpv.Encode(&buf, doc)
	hooks.OnEncodeComplete(ctx, buf.Len(), time.Since(start), err)
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
