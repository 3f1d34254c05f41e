// Package dpv writes and reads Charmhigh DPV pick-and-place files.
//
// # Overview
//
// A DPV file is the job description loaded by the CHM-T36/T48 machine
// software. It is a comma separated text file with CRLF line endings,
// organised as a fixed sequence of tables, each introduced by a "Table"
// header row and separated by blank lines:
//
//  1. Header: FILE, PCBFILE, DATE, TIME and PANELYPE.
//  2. Station table: one row per feeder stack with its feed pitch.
//  3. Panel table: a single panel at the origin.
//  4. Component table: one row per placement.
//  5. Array and PCB calibration tables (fixed content).
//  6. Calibration points: the fiducial marks.
//  7. Calibration factor: the camera correction row.
//
// The vendor software is picky about the exact layout, including the empty
// lines and the misspelled "PANELYPE" and "CalibFator" keys, so [Encode]
// reproduces it byte for byte.
//
// # Usage
//
//	doc := &dpv.Document{
//	    FileName:    "board.dpv",
//	    PCBFileName: "board-pos.csv",
//	    Time:        time.Now(),
//	    Stations:    []dpv.Station{{Stack: 1, Feed: 4, Note: "100nF", Height: 0.5, Status: dpv.DefaultStatus}},
//	    Components:  []dpv.Component{{Head: 1, Stack: 1, X: 10, Y: 105, Height: 0.5, Ref: "C1", Part: "100nF"}},
//	}
//	if err := dpv.Encode(w, doc); err != nil {
//	    return err
//	}
//
// # Errors
//
// The format has no quoting or escaping. Text fields containing commas or
// line breaks, and numbers that are not finite or do not fit the machine's
// fields, are rejected with ENCODING_ERROR before anything is written.
package dpv
