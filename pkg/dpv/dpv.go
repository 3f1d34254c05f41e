package dpv

import (
	"time"
)

// Document is everything a DPV file contains.
type Document struct {
	FileName    string    // base name of the DPV file itself
	PCBFileName string    // base name of the position file
	Time        time.Time // written as DATE and TIME

	Stations   []Station
	Components []Component
	Marks      []CalibPoint
	Calib      CalibFactor
}

// Station is one row of the feeder table.
type Station struct {
	Stack  int    // ID column, the physical stack number
	Feed   int    // FeedRates column, feeder advance in mm
	Note   string // part name
	Height float64
	Speed  int
	Status int
}

// Component is one placement.
type Component struct {
	Head   int
	Stack  int
	X, Y   float64 // machine coordinates in mm
	Angle  float64 // degrees in [0, 360)
	Height float64
	Speed  int
	Ref    string // Explain column, the reference designator
	Part   string // Note column, the part name
}

// CalibPoint is a calibration mark in machine coordinates.
type CalibPoint struct {
	X, Y float64
	Note string
}

// CalibFactor is the camera calibration row.
type CalibFactor struct {
	DeltX, DeltY   float64
	AlphaX, AlphaY float64
	BetaX, BetaY   float64
	DeltaAngle     float64
}

// Fixed column values of the CHM-T36 grammar.
const (
	// DefaultStatus is the station status the vendor software writes for
	// an enabled feeder.
	DefaultStatus = 6

	// componentSkip is the Skip column of every component.
	componentSkip = 6

	// markNote is the Note column of every calibration point.
	markNote = "Mark1"
)

// Field limits. Coordinates are written with two decimals and the machine
// reads them into a field of at most eight characters including the sign.
const (
	MaxCoordinate = 9999.99
	dateLayout    = "2006/01/02"
	timeLayout    = "15:04:05"
)
