package form3

import (
	"fmt"
	"math"
	"sort"

	"github.com/soypat/fusion"
	"github.com/soypat/fusion/profile"
	"gonum.org/v1/gonum/interp"
	"gonum.org/v1/gonum/spatial/r2"
)

// Operation turns a profile lying on a workplane into a solid.
type Operation interface {
	// solid builds the operation from the profile SDF on plane.
	solid(s fusion.SDF2, plane profile.Plane) (fusion.SDF3, error)
	fmt.Stringer
}

// Extrude extrudes the profile along the workplane normal, symmetric about
// the workplane.
type Extrude struct {
	Distance float64
}

// Revolve revolves the profile about the second workplane axis, the first
// axis being the radius. Angle is in degrees counter clockwise from the
// first axis.
type Revolve struct {
	Angle float64
}

// Sweep translates the profile along a spline path. Path points are
// (offset, position) pairs on PathPlane: the profile is displaced by offset
// along the first workplane axis when it lies at position along the
// workplane normal. PathPlane must share its first axis with the profile
// workplane and differ from it.
type Sweep struct {
	Path      []r2.Vec
	PathPlane profile.Plane
}

func (e Extrude) String() string { return fmt.Sprintf("extrude %g", e.Distance) }
func (r Revolve) String() string { return fmt.Sprintf("revolve %g°", r.Angle) }
func (s Sweep) String() string {
	return fmt.Sprintf("sweep along %d points on %s", len(s.Path), s.PathPlane)
}

func (e Extrude) solid(s fusion.SDF2, plane profile.Plane) (fusion.SDF3, error) {
	if !(e.Distance > 0) || math.IsInf(e.Distance, 0) {
		return nil, fusion.Errorf(fusion.ErrConfig, "extrude distance %g must be finite and positive", e.Distance)
	}
	u, v, w, err := plane.Axes()
	if err != nil {
		return nil, err
	}
	return fusion.Orient3D(fusion.Extrude3D(s, e.Distance), u, v, w)
}

func (r Revolve) solid(s fusion.SDF2, plane profile.Plane) (fusion.SDF3, error) {
	if !(r.Angle > 0) || r.Angle > 360 {
		return nil, fusion.Errorf(fusion.ErrConfig, "revolve angle %g must be in (0, 360]", r.Angle)
	}
	u, v, w, err := plane.Axes()
	if err != nil {
		return nil, err
	}
	if bb := s.Bounds(); bb.Min.X < -1e-9*math.Max(1, bb.Max.X) {
		return nil, fusion.Errorf(fusion.ErrGeometry, "revolved profile crosses the axis at %s=%g", u, bb.Min.X)
	}
	return fusion.Orient3D(fusion.Revolve3D(s, fusion.DtoR(r.Angle)), u, w, v)
}

// validate checks the path planes and returns the path sorted by position.
func (sw Sweep) validate(plane profile.Plane) ([]r2.Vec, error) {
	u, v, _, err := plane.Axes()
	if err != nil {
		return nil, err
	}
	pu, pv, _, err := sw.PathPlane.Axes()
	if err != nil {
		return nil, err
	}
	if pu != u {
		return nil, fusion.Errorf(fusion.ErrConfig, "sweep path plane %s must start with the same axis as workplane %s", sw.PathPlane, plane)
	}
	if pv == v {
		return nil, fusion.Errorf(fusion.ErrConfig, "sweep path plane and workplane are both %s", plane)
	}
	if len(sw.Path) < 2 {
		return nil, fusion.Errorf(fusion.ErrConfig, "sweep path needs at least 2 points, got %d", len(sw.Path))
	}
	path := append([]r2.Vec(nil), sw.Path...)
	increasing := path[1].Y > path[0].Y
	for i := 1; i < len(path); i++ {
		d := path[i].Y - path[i-1].Y
		if d == 0 || (d > 0) != increasing || math.IsNaN(d) || math.IsInf(path[i].X, 0) || math.IsNaN(path[i].X) {
			return nil, fusion.Errorf(fusion.ErrGeometry, "sweep path must be strictly monotonic along the workplane normal at point %d", i)
		}
	}
	sort.Slice(path, func(i, j int) bool { return path[i].Y < path[j].Y })
	return path, nil
}

func (sw Sweep) solid(s fusion.SDF2, plane profile.Plane) (fusion.SDF3, error) {
	u, v, w, err := plane.Axes()
	if err != nil {
		return nil, err
	}
	path, err := sw.validate(plane)
	if err != nil {
		return nil, err
	}
	xs := make([]float64, len(path))
	ys := make([]float64, len(path))
	for i, p := range path {
		xs[i], ys[i] = p.Y, p.X
	}
	var pred interp.FittablePredictor
	if len(path) == 2 {
		pred = &interp.PiecewiseLinear{}
	} else {
		pred = &interp.NaturalCubic{}
	}
	if err := pred.Fit(xs, ys); err != nil {
		return nil, fusion.Errorf(fusion.ErrGeometry, "sweep path spline: %v", err)
	}
	swept, err := fusion.Sweep3D(s, pred.Predict, xs[0], xs[len(xs)-1])
	if err != nil {
		return nil, err
	}
	return fusion.Orient3D(swept, u, v, w)
}
