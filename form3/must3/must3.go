// Package must3 provides the parametric shapes of form3 for scripts and
// examples: constructors panic instead of returning an error.
package must3

import (
	"github.com/soypat/fusion"
	"github.com/soypat/fusion/build"
	"github.com/soypat/fusion/form2"
	"github.com/soypat/fusion/form3"
	"github.com/soypat/fusion/profile"
	"gonum.org/v1/gonum/spatial/r2"
)

func must(s *form3.Shape, err error) *form3.Shape {
	if err != nil {
		panic(err)
	}
	return s
}

// Solid returns the shape's solid.
func Solid(s *form3.Shape) fusion.SDF3 {
	solid, err := s.Solid()
	if err != nil {
		panic(err)
	}
	return solid
}

func ExtrudeProfile(name string, prof profile.Profile, distance float64, plane profile.Plane) *form3.Shape {
	return must(form3.ExtrudeProfile(name, prof, distance, plane))
}

func RotateProfile(name string, prof profile.Profile, angle float64, plane profile.Plane) *form3.Shape {
	return must(form3.RotateProfile(name, prof, angle, plane))
}

func SweepProfile(name string, prof profile.Profile, path []r2.Vec, plane, pathPlane profile.Plane) *form3.Shape {
	return must(form3.SweepProfile(name, prof, path, plane, pathPlane))
}

func SweepCircle(name string, radius float64, path []r2.Vec, plane, pathPlane profile.Plane) *form3.Shape {
	return must(form3.SweepCircle(name, radius, path, plane, pathPlane))
}

func InnerTFCoilsFlat(name string, c form2.CoilArray, height float64) *form3.Shape {
	return must(form3.InnerTFCoilsFlat(name, c, height))
}

func InnerTFCoilsCircular(name string, c form2.CoilArray, height float64) *form3.Shape {
	return must(form3.InnerTFCoilsCircular(name, c, height))
}

func PrincetonDCoil(name string, r1, r2, thickness, distance float64, count int, withLeg bool) *form3.Shape {
	return must(form3.PrincetonDCoil(name, r1, r2, thickness, distance, count, withLeg))
}

func RectangleTFCoil(name string, c form2.RectangleTFCoil, distance float64, count int, withLeg bool) *form3.Shape {
	return must(form3.RectangleTFCoil(name, c, distance, count, withLeg))
}

func Plasma(name string, p form2.Plasma, rotation float64) *form3.Shape {
	return must(form3.Plasma(name, p, rotation))
}

func BlanketFP(name string, b form2.BlanketFP, rotation float64) *form3.Shape {
	return must(form3.BlanketFP(name, b, rotation))
}

func CenterColumnShieldCylinder(name string, innerRadius, outerRadius, height, rotation float64) *form3.Shape {
	return must(form3.CenterColumnShieldCylinder(name, innerRadius, outerRadius, height, rotation))
}

func PoloidalFieldCoilSet(name string, coils []build.Coil, rotation float64) *form3.Shape {
	return must(form3.PoloidalFieldCoilSet(name, coils, rotation))
}
