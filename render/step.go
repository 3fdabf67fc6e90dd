package render

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/soypat/fusion"
)

// stepUnit is the length unit of STEP exports, reactor dimensions being
// in centimetres.
const stepUnit = "SI_UNIT(.CENTI.,.METRE.)"

// WriteSTEP writes model as an ISO 10303-21 faceted boundary
// representation named name. Coincident vertices are merged and
// degenerate triangles dropped.
func WriteSTEP(w io.Writer, name string, model []Triangle3) error {
	if len(model) == 0 {
		return fusion.Errorf(fusion.ErrGeometry, "%s: empty triangle slice", name)
	}
	bw := bufio.NewWriter(w)
	sw := stepWriter{w: bw}
	name = strings.ReplaceAll(name, "'", "''")

	sw.printf("ISO-10303-21;\nHEADER;\n")
	sw.printf("FILE_DESCRIPTION(('faceted solid %s'),'2;1');\n", name)
	sw.printf("FILE_NAME('%s','',(''),(''),'fusion','','');\n", name)
	sw.printf("FILE_SCHEMA(('CONFIG_CONTROL_DESIGN'));\nENDSEC;\nDATA;\n")

	points := make(map[[3]float64]int)
	var faces []int
	for _, t := range model {
		if t.Degenerate(0) {
			continue
		}
		var loop [3]int
		for j, v := range t {
			key := [3]float64{v.X, v.Y, v.Z}
			id, ok := points[key]
			if !ok {
				id = sw.entity("CARTESIAN_POINT('',(%s,%s,%s))", stepReal(v.X), stepReal(v.Y), stepReal(v.Z))
				points[key] = id
			}
			loop[j] = id
		}
		pl := sw.entity("POLY_LOOP('',(#%d,#%d,#%d))", loop[0], loop[1], loop[2])
		bound := sw.entity("FACE_OUTER_BOUND('',#%d,.T.)", pl)
		faces = append(faces, sw.entity("FACE('',(#%d))", bound))
	}
	if len(faces) == 0 {
		return fusion.Errorf(fusion.ErrGeometry, "%s: all triangles are degenerate", name)
	}
	refs := make([]string, len(faces))
	for i, f := range faces {
		refs[i] = fmt.Sprintf("#%d", f)
	}
	shell := sw.entity("CLOSED_SHELL('',(%s))", strings.Join(refs, ","))
	brep := sw.entity("FACETED_BREP('%s',#%d)", name, shell)

	origin := sw.entity("CARTESIAN_POINT('',(0.,0.,0.))")
	zdir := sw.entity("DIRECTION('',(0.,0.,1.))")
	xdir := sw.entity("DIRECTION('',(1.,0.,0.))")
	placement := sw.entity("AXIS2_PLACEMENT_3D('',#%d,#%d,#%d)", origin, zdir, xdir)
	length := sw.entity("(LENGTH_UNIT()NAMED_UNIT(*)%s)", stepUnit)
	angle := sw.entity("(NAMED_UNIT(*)PLANE_ANGLE_UNIT()SI_UNIT($,.RADIAN.))")
	solidAngle := sw.entity("(NAMED_UNIT(*)SI_UNIT($,.STERADIAN.)SOLID_ANGLE_UNIT())")
	ctx := sw.entity("(GEOMETRIC_REPRESENTATION_CONTEXT(3)GLOBAL_UNIT_ASSIGNED_CONTEXT((#%d,#%d,#%d))REPRESENTATION_CONTEXT('',''))", length, angle, solidAngle)
	sw.entity("FACETED_BREP_SHAPE_REPRESENTATION('%s',(#%d,#%d),#%d)", name, brep, placement, ctx)
	sw.printf("ENDSEC;\nEND-ISO-10303-21;\n")
	if sw.err != nil {
		return sw.err
	}
	return bw.Flush()
}

// CreateSTEP meshes the triangles of r and writes them to a STEP file at
// path. It returns the number of triangles read from r.
func CreateSTEP(path, name string, r Renderer) (int, error) {
	model, err := RenderAll(r)
	if err != nil {
		return 0, err
	}
	fp, err := os.Create(path)
	if err != nil {
		return 0, err
	}
	defer fp.Close()
	if err := WriteSTEP(fp, name, model); err != nil {
		return 0, err
	}
	return len(model), fp.Close()
}

type stepWriter struct {
	w    io.Writer
	next int
	err  error
}

func (sw *stepWriter) printf(format string, args ...interface{}) {
	if sw.err != nil {
		return
	}
	_, sw.err = fmt.Fprintf(sw.w, format, args...)
}

// entity writes a numbered instance and returns its number.
func (sw *stepWriter) entity(format string, args ...interface{}) int {
	sw.next++
	sw.printf("#%d=", sw.next)
	sw.printf(format, args...)
	sw.printf(";\n")
	return sw.next
}

// stepReal formats f as a STEP real, which always carries a decimal point.
func stepReal(f float64) string {
	return fmt.Sprintf("%.9E", f)
}
