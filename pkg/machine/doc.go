// Package machine describes the pick-and-place machine and maps board
// coordinates into its frame.
//
// # Profile
//
// A [Profile] holds everything that differs between machines: the number of
// feeder stacks, supported feed distances, head count, the position of the
// board origin on the bed and the rotation convention. [DefaultProfile]
// matches a Charmhigh CHM-T36/T48 desktop machine; [LoadProfile] reads a
// TOML file on top of it:
//
//	stations = 29
//	default_feed = 4
//	origin_offset_y = 100.0
//	top_rotation = 90.0
//
//	[calib_factor]
//	delt_x = 112.7
//
// # Coordinates
//
// KiCad exports positions relative to the auxiliary-axis origin, which the
// operator places at the lower-left corner of the board clamp. [Transformer]
// turns those into machine coordinates with a per-side affine and maps
// rotations into [0, 360). Bottom-side parts are mirrored in y, so their
// board angle is negated before bottom_rotation is added. Rounding only
// happens when the DPV file is written.
package machine
