// Package position reads KiCad footprint position exports.
//
// # Formats
//
// KiCad's "Fabrication Outputs > Footprint Position" dialog writes two
// flavours. The CSV flavour has a title row and quoted cells:
//
//	Ref,Val,Package,PosX,PosY,Rot,Side
//	"C1","100nF","C_0603_1608Metric",10.0000,5.0000,0.0000,top
//
// The ASCII flavour (.pos) is whitespace separated with '#' comment lines:
//
//	### Footprint positions - created on ...
//	# Ref     Val       Package              PosX       PosY       Rot  Side
//	C1        100nF     C_0603_1608Metric   10.0000     5.0000    0.0000  top
//	## End
//
// [Parse] detects the flavour from the content and returns the footprint
// rows in file order. Coordinates are copied verbatim; mapping them into the
// machine frame is done by package machine.
//
// # Selection
//
// [Select] implements the part filter used by "dpvgen filter": an ordered
// list of [Selection] operations adds or removes footprints by reference
// type, reference number, reference range or value.
package position
