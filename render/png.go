package render

import (
	"github.com/fogleman/fauxgl"
	"github.com/nfnt/resize"
	"github.com/soypat/fusion"
	"gonum.org/v1/gonum/spatial/r3"
)

// View is a camera for PNG previews. The mesh is scaled to fit the
// [-1, 1] cube before rendering.
type View struct {
	Eye, LookAt, Up r3.Vec
	Near, Far       float64
	Width, Height   int
	// Supersampling factor, 1 if zero.
	Scale int
}

// DefaultView looks at the origin from an elevated oblique position.
var DefaultView = View{
	Eye:    r3.Vec{X: 3, Y: -3, Z: 2},
	Up:     r3.Vec{Z: 1},
	Near:   1,
	Far:    10,
	Width:  1024,
	Height: 768,
	Scale:  2,
}

// CreatePNG renders a shaded preview of model to a PNG file.
func CreatePNG(path string, model []Triangle3, view View) error {
	if len(model) == 0 {
		return fusion.Errorf(fusion.ErrGeometry, "empty triangle slice")
	}
	if view.Width <= 0 || view.Height <= 0 {
		return fusion.Errorf(fusion.ErrConfig, "preview size %dx%d must be positive", view.Width, view.Height)
	}
	scale := view.Scale
	if scale < 1 {
		scale = 1
	}
	tris := make([]*fauxgl.Triangle, 0, len(model))
	for _, t := range model {
		if t.Degenerate(0) {
			continue
		}
		tris = append(tris, fauxgl.NewTriangleForPoints(vec(t[0]), vec(t[1]), vec(t[2])))
	}
	mesh := fauxgl.NewTriangleMesh(tris)
	mesh.BiUnitCube()

	const fovy = 30 // vertical field of view in degrees
	var (
		eye    = vec(view.Eye)
		center = vec(view.LookAt)
		up     = vec(view.Up)
		light  = fauxgl.V(-0.75, 1, 0.25).Normalize()
	)
	context := fauxgl.NewContext(view.Width*scale, view.Height*scale)
	context.ClearColorBufferWith(fauxgl.HexColor("#FFF8E3"))
	aspect := float64(view.Width) / float64(view.Height)
	matrix := fauxgl.LookAt(eye, center, up).Perspective(fovy, aspect, view.Near, view.Far)
	shader := fauxgl.NewPhongShader(matrix, light, eye)
	shader.ObjectColor = fauxgl.HexColor("#468966")
	context.Shader = shader
	context.DrawMesh(mesh)
	// downsample image for antialiasing
	image := context.Image()
	image = resize.Resize(uint(view.Width), uint(view.Height), image, resize.Bilinear)
	return fauxgl.SavePNG(path, image)
}

func vec(v r3.Vec) fauxgl.Vector { return fauxgl.V(v.X, v.Y, v.Z) }
