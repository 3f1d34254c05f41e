package machine

import (
	"math"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/mat"

	"github.com/matzehuels/dpvgen/pkg/errors"
	"github.com/matzehuels/dpvgen/pkg/position"
)

// Point is a 2D point in millimeters.
type Point struct {
	X, Y float64
}

// Fiducial is a calibration mark given in board coordinates together with
// where the machine will find it.
type Fiducial struct {
	Board   Point
	Machine Point
}

// Transformer maps board coordinates and rotations into the machine frame.
//
// Each side has its own 3x3 homogeneous affine:
//
//	top:    (x, y) -> (x + ox,  y + oy)
//	bottom: (x, y) -> (x + ox, -y)
//
// where (ox, oy) is the profile's origin offset. A Transformer is immutable
// and safe for concurrent use.
type Transformer struct {
	top, bottom       *mat.Dense
	topRot, bottomRot float64
}

// NewTransformer builds the transform for profile p.
func NewTransformer(p Profile) *Transformer {
	var bottom mat.Dense
	bottom.Mul(translation(p.OriginOffsetX, 0), flipY())

	return &Transformer{
		top:       translation(p.OriginOffsetX, p.OriginOffsetY),
		bottom:    &bottom,
		topRot:    p.TopRotation,
		bottomRot: p.BottomRotation,
	}
}

func translation(tx, ty float64) *mat.Dense {
	return mat.NewDense(3, 3, []float64{
		1, 0, tx,
		0, 1, ty,
		0, 0, 1,
	})
}

func flipY() *mat.Dense {
	return mat.NewDense(3, 3, []float64{
		1, 0, 0,
		0, -1, 0,
		0, 0, 1,
	})
}

// Apply maps a board point on side into machine coordinates.
func (t *Transformer) Apply(side position.Side, p Point) Point {
	m := t.top
	if side == position.Bottom {
		m = t.bottom
	}
	var v mat.VecDense
	v.MulVec(m, mat.NewVecDense(3, []float64{p.X, p.Y, 1}))
	return Point{X: v.AtVec(0), Y: v.AtVec(1)}
}

// Rotation maps a board rotation plus a part's rotation offset into the
// machine's convention, normalized into [0, 360).
//
//	top:    top_rotation + board + offset
//	bottom: bottom_rotation - board + offset
//
// The bottom side is mirrored in y, which turns a counter-clockwise board
// angle into a clockwise one.
func (t *Transformer) Rotation(side position.Side, board, offset float64) float64 {
	if side == position.Bottom {
		return Normalize(t.bottomRot - board + offset)
	}
	return Normalize(t.topRot + board + offset)
}

// Fiducials pairs each mark with its machine position. Marks are always on
// the top side, where the camera can see them.
func (t *Transformer) Fiducials(marks []Point) []Fiducial {
	out := make([]Fiducial, len(marks))
	for i, m := range marks {
		out[i] = Fiducial{Board: m, Machine: t.Apply(position.Top, m)}
	}
	return out
}

// Normalize maps an angle in degrees into [0, 360).
func Normalize(deg float64) float64 {
	a := math.Mod(deg, 360)
	if a < 0 {
		a += 360
	}
	if a >= 360 {
		a -= 360
	}
	if a == 0 {
		return 0 // no negative zero
	}
	return a
}

// ParseMark parses a calibration mark given as "X,Y".
func ParseMark(s string) (Point, error) {
	coords := strings.Split(s, ",")
	if len(coords) != 2 {
		return Point{}, errors.New(errors.ErrCodeInvalidInput, "option '--mark %s': invalid syntax", s)
	}
	var p Point
	for i, dst := range []*float64{&p.X, &p.Y} {
		v, err := strconv.ParseFloat(strings.TrimSpace(coords[i]), 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return Point{}, errors.New(errors.ErrCodeInvalidInput, "option '--mark %s': invalid syntax", s)
		}
		*dst = v
	}
	return p, nil
}
