// Package reactor composes parametric shapes into complete reactor
// models.
package reactor

import (
	"github.com/rs/zerolog"
	"github.com/soypat/fusion"
	"github.com/soypat/fusion/build"
	"github.com/soypat/fusion/form2"
	"github.com/soypat/fusion/form3"
	"github.com/soypat/fusion/profile"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/spatial/r2"
)

// Component names of a ball reactor. Radial and vertical build
// intervals carry the same names.
const (
	Plasma             = "plasma"
	InnerBore          = "inner_bore"
	InboardTFCoils     = "inboard_tf_coils"
	CenterColumnShield = "center_column_shield"
	Divertor           = "divertor"
	InnerPlasmaGap     = "inner_plasma_gap"
	OuterPlasmaGap     = "outer_plasma_gap"
	PlasmaGap          = "plasma_gap"
	Firstwall          = "firstwall"
	Blanket            = "blanket"
	BlanketRearWall    = "blanket_rear_wall"
	PFCoilGap          = "pf_coil_gap"
	PFCoils            = "pf_coil"
	TFCoilGap          = "tf_coil_gap"
	TFCoils            = "tf_coil"
)

// Option configures a reactor.
type Option func(*BallReactor)

// WithLogger sets the logger reporting build and export progress.
func WithLogger(log zerolog.Logger) Option {
	return func(r *BallReactor) { r.log = log }
}

// WithMeshCells sets the mesh resolution of exported solids.
func WithMeshCells(cells int) Option {
	return func(r *BallReactor) { r.cells = cells }
}

// BallReactor is a spherical tokamak: a plasma surrounded by a first
// wall, breeder blanket and rear wall, with a centre column shield and
// divertor on the inboard side, inboard toroidal field coils and optional
// poloidal and outboard toroidal field coils. It has no inboard blanket.
type BallReactor struct {
	params Params
	log    zerolog.Logger
	cells  int

	plasma       form2.Plasma
	radial       build.Build
	vertical     build.Build
	pfCoils      []build.Coil
	cuttingSlice *form3.Shape

	shapes []*form3.Shape
}

// NewBallReactor builds the reactor components described by p.
func NewBallReactor(p Params, opts ...Option) (*BallReactor, error) {
	r := &BallReactor{params: p, log: zerolog.Nop()}
	for _, opt := range opts {
		opt(r)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if p.rotation() == 360 {
		r.log.Debug().Msg("full turn model, outboard tf coils are not sliced")
	}
	steps := []struct {
		name string
		make func() error
	}{
		{"plasma", r.makePlasma},
		{"radial build", r.makeRadialBuild},
		{"vertical build", r.makeVerticalBuild},
		{"inboard tf coils", r.makeInboardTFCoils},
		{"center column shield", r.makeCenterColumnShield},
		{"blanket and divertor", r.makeBlanketAndDivertor},
		{"field coils", r.makeFieldCoils},
	}
	for _, step := range steps {
		if err := step.make(); err != nil {
			r.log.Error().Err(err).Str("step", step.name).Msg("reactor build failed")
			return nil, err
		}
		r.log.Debug().Str("step", step.name).Int("shapes", len(r.shapes)).Msg("built")
	}
	r.log.Info().
		Float64("major_radius", r.plasma.MajorRadius).
		Float64("minor_radius", r.plasma.MinorRadius).
		Float64("rotation", p.rotation()).
		Int("components", len(r.shapes)).
		Msg("ball reactor built")
	return r, nil
}

// Params returns the reactor parameters.
func (r *BallReactor) Params() Params { return r.params }

// Plasma returns the plasma cross section parameters.
func (r *BallReactor) Plasma() form2.Plasma { return r.plasma }

// MajorRadius returns the plasma major radius.
func (r *BallReactor) MajorRadius() float64 { return r.plasma.MajorRadius }

// MinorRadius returns the plasma minor radius.
func (r *BallReactor) MinorRadius() float64 { return r.plasma.MinorRadius }

// RadialBuild returns the radial build measured from the machine axis.
func (r *BallReactor) RadialBuild() build.Build { return r.radial }

// VerticalBuild returns the vertical build measured from the plasma
// high point.
func (r *BallReactor) VerticalBuild() build.Build { return r.vertical }

// PFCoils returns the placed poloidal field coils, if any.
func (r *BallReactor) PFCoils() []build.Coil { return append([]build.Coil(nil), r.pfCoils...) }

// Shapes returns the reactor components in build order.
func (r *BallReactor) Shapes() []*form3.Shape { return append([]*form3.Shape(nil), r.shapes...) }

// Shape returns the component with the given name.
func (r *BallReactor) Shape(name string) (*form3.Shape, error) {
	for _, s := range r.shapes {
		if s.Name() == name {
			return s, nil
		}
	}
	return nil, fusion.Errorf(fusion.ErrConfig, "reactor has no component %q", name)
}

// Solid returns the union of every component.
func (r *BallReactor) Solid() (fusion.SDF3, error) {
	solids := make([]fusion.SDF3, len(r.shapes))
	for i, s := range r.shapes {
		var err error
		if solids[i], err = s.Solid(); err != nil {
			return nil, err
		}
	}
	return fusion.Union3D(solids...), nil
}

func (r *BallReactor) add(s *form3.Shape, material string) {
	s.SetMaterial(material)
	r.shapes = append(r.shapes, s)
}

func (r *BallReactor) makePlasma() error {
	p := r.params
	innerEquatorial := p.InnerBoreRadialThickness + p.InboardTFLegRadialThickness +
		p.CenterColumnShieldRadialThickness + p.InnerPlasmaGapRadialThickness
	r.plasma = form2.Plasma{
		MajorRadius:   innerEquatorial + p.PlasmaRadialThickness/2,
		MinorRadius:   p.PlasmaRadialThickness / 2,
		Elongation:    p.Elongation,
		Triangularity: p.Triangularity,
	}
	s, err := form3.Plasma(Plasma, r.plasma, p.rotation())
	if err != nil {
		return err
	}
	r.add(s, "DT_plasma")
	return nil
}

func (r *BallReactor) makeRadialBuild() error {
	p := r.params
	steps := []build.Step{
		build.Layer{Name: InnerBore, Thickness: p.InnerBoreRadialThickness, Gap: true},
		build.Layer{Name: InboardTFCoils, Thickness: p.InboardTFLegRadialThickness},
		build.Layer{Name: CenterColumnShield, Thickness: p.CenterColumnShieldRadialThickness},
		// The divertor overlaps the inner plasma gap and is trimmed by
		// the blanket envelope.
		build.Anchored{Name: Divertor, Anchor: CenterColumnShield, FromEnd: true, Thickness: p.DivertorRadialThickness},
		build.Layer{Name: InnerPlasmaGap, Thickness: p.InnerPlasmaGapRadialThickness, Gap: true},
		build.Layer{Name: Plasma, Thickness: p.PlasmaRadialThickness},
		build.Layer{Name: OuterPlasmaGap, Thickness: p.OuterPlasmaGapRadialThickness, Gap: true},
		build.Layer{Name: Firstwall, Thickness: p.FirstwallRadialThickness},
		build.Layer{Name: Blanket, Thickness: p.BlanketRadialThickness},
		build.Layer{Name: BlanketRearWall, Thickness: p.BlanketRearWallRadialThickness},
	}
	if p.hasPFCoils() {
		steps = append(steps,
			build.Layer{Name: PFCoilGap, Thickness: *p.PFCoilToRearBlanketRadialGap, Gap: true},
			build.Layer{Name: PFCoils, Thickness: floats.Max(p.PFCoilRadialThicknesses)},
		)
	}
	if p.hasTFCoils() {
		steps = append(steps,
			build.Layer{Name: TFCoilGap, Thickness: *p.PFCoilToTFCoilRadialGap, Gap: true},
			build.Layer{Name: TFCoils, Thickness: *p.OutboardTFCoilRadialThickness},
		)
	}
	b, err := build.Sequence(0, steps...)
	if err != nil {
		return err
	}
	r.radial = b
	return nil
}

func (r *BallReactor) makeVerticalBuild() error {
	p := r.params
	b, err := build.Sequence(r.plasma.HighPoint().Y,
		build.Layer{Name: PlasmaGap, Thickness: r.plasmaGapVertical(), Gap: true},
		build.Layer{Name: Firstwall, Thickness: p.FirstwallRadialThickness},
		build.Layer{Name: Blanket, Thickness: p.BlanketRadialThickness},
		build.Layer{Name: BlanketRearWall, Thickness: p.BlanketRearWallRadialThickness},
	)
	if err != nil {
		return err
	}
	r.vertical = b
	if !p.hasPFCoils() {
		return nil
	}
	gap := *p.PFCoilToRearBlanketRadialGap
	top := r.tfCoilHeight() + gap
	r.pfCoils, err = build.PlaceCoils(top, 2*top, r.radial.Stop(BlanketRearWall), gap,
		p.PFCoilRadialThicknesses, p.PFCoilVerticalThicknesses)
	return err
}

// plasmaGapVertical is the gap between the plasma top and the first
// wall, taken equal to the outboard gap.
func (r *BallReactor) plasmaGapVertical() float64 { return r.params.OuterPlasmaGapRadialThickness }

// tfCoilHeight is the half height of the inboard coils, reaching the top
// of the blanket rear wall.
func (r *BallReactor) tfCoilHeight() float64 { return r.vertical.Stop(BlanketRearWall) }

func (r *BallReactor) centerColumnHeight() float64 { return 2 * r.vertical.Stop(BlanketRearWall) }

func (r *BallReactor) makeInboardTFCoils() error {
	p := r.params
	rot := p.rotation()
	if rot < 360 {
		// Wedge covering the part of the turn outside the model.
		high := 3 * r.centerColumnHeight()
		wide := 3 * r.radial.Stop(BlanketRearWall)
		prof, err := profile.New([]profile.Point{
			profile.Pt(0, high, profile.Straight),
			profile.Pt(wide, high, profile.Straight),
			profile.Pt(wide, -high, profile.Straight),
			profile.Pt(0, -high, profile.Straight),
		})
		if err != nil {
			return err
		}
		slice, err := form3.RotateProfile("sector_slice", prof, 360-rot, profile.XZ)
		if err != nil {
			return err
		}
		slice.SetAzimuths(rot)
		r.cuttingSlice = slice
	}
	inner, outer := r.radial.Start(InboardTFCoils), r.radial.Stop(InboardTFCoils)
	height := 2 * r.tfCoilHeight()
	var (
		s   *form3.Shape
		err error
	)
	if p.InboardTFCoilGap > 0 {
		s, err = form3.InnerTFCoilsFlat(InboardTFCoils, form2.CoilArray{
			InnerRadius: inner,
			OuterRadius: outer,
			Gap:         p.InboardTFCoilGap,
			Count:       p.NumberOfTFCoils,
		}, height)
		if err == nil && r.cuttingSlice != nil {
			s.SetCut(r.cuttingSlice)
		}
	} else {
		s, err = form3.CenterColumnShieldCylinder(InboardTFCoils, inner, outer, height, rot)
	}
	if err != nil {
		return err
	}
	r.add(s, "inboard_tf_coils_mat")
	return nil
}

func (r *BallReactor) makeCenterColumnShield() error {
	s, err := form3.CenterColumnShieldCylinder(CenterColumnShield,
		r.radial.Start(CenterColumnShield), r.radial.Stop(CenterColumnShield),
		r.centerColumnHeight(), r.params.rotation())
	if err != nil {
		return err
	}
	r.add(s, "center_column_shield_mat")
	return nil
}

// blanket returns a layer following the plasma at offsets inboard,
// vertical and outboard, from just below the inboard midplane round the
// outboard side to just above it.
func (r *BallReactor) blanket(thickness, inboard, vertical, outboard float64) form2.BlanketFP {
	return form2.BlanketFP{
		Plasma:     r.plasma,
		Thickness:  thickness,
		Offsets:    []float64{inboard, vertical, outboard, vertical, inboard},
		StartAngle: -179,
		StopAngle:  179,
	}
}

func (r *BallReactor) makeBlanketAndDivertor() error {
	p := r.params
	rot := p.rotation()
	cutterHeight := 1.5 * r.centerColumnHeight()
	columnCutter, err := form3.CenterColumnShieldCylinder("center_column_cutter", 0, r.radial.Stop(CenterColumnShield), cutterHeight, 360)
	if err != nil {
		return err
	}
	divertorCutter, err := form3.CenterColumnShieldCylinder("divertor_cutter", 0, r.radial.Stop(Divertor), cutterHeight, 360)
	if err != nil {
		return err
	}

	vgap := r.plasmaGapVertical()
	var layers []*form3.Shape
	offset := 0.0
	for _, l := range []struct {
		name      string
		thickness float64
	}{
		{Firstwall, p.FirstwallRadialThickness},
		{Blanket, p.BlanketRadialThickness},
		{BlanketRearWall, p.BlanketRearWallRadialThickness},
	} {
		b := r.blanket(l.thickness, p.InnerPlasmaGapRadialThickness+offset, vgap+offset, p.OuterPlasmaGapRadialThickness+offset)
		s, err := form3.BlanketFP(l.name, b, rot)
		if err != nil {
			return err
		}
		s.SetCut(columnCutter, divertorCutter)
		layers = append(layers, s)
		offset += l.thickness
	}

	// The envelope spans every blanket layer and reaches the axis on the
	// inboard side so it trims the top and bottom of the divertor.
	inboard := r.plasma.MajorRadius - r.plasma.MinorRadius
	envelope, err := form3.BlanketFP("blanket_envelope", r.blanket(offset, inboard, vgap, p.OuterPlasmaGapRadialThickness), rot)
	if err != nil {
		return err
	}
	div, err := form3.CenterColumnShieldCylinder(Divertor,
		r.radial.Start(Divertor), r.radial.Stop(Divertor), r.centerColumnHeight(), rot)
	if err != nil {
		return err
	}
	div.SetIntersect(envelope)
	r.add(div, "divertor_mat")
	for _, s := range layers {
		r.add(s, s.Name()+"_mat")
	}
	return nil
}

func (r *BallReactor) makeFieldCoils() error {
	p := r.params
	if len(r.pfCoils) == 0 {
		return nil
	}
	pf, err := form3.PoloidalFieldCoilSet(PFCoils, r.pfCoils, p.rotation())
	if err != nil {
		return err
	}
	r.add(pf, "pf_coil_mat")
	if !p.hasTFCoils() {
		return nil
	}
	coil := form2.RectangleTFCoil{
		HorizontalStart: r2.Vec{X: r.radial.Start(InboardTFCoils), Y: r.tfCoilHeight()},
		VerticalMid:     r2.Vec{X: r.radial.Start(TFCoils), Y: 0},
		Thickness:       *p.OutboardTFCoilRadialThickness,
	}
	tf, err := form3.RectangleTFCoil(TFCoils, coil, *p.OutboardTFCoilPoloidalThickness, p.NumberOfTFCoils, false)
	if err != nil {
		return err
	}
	if r.cuttingSlice != nil {
		tf.SetCut(r.cuttingSlice)
	}
	r.add(tf, "tf_coil_mat")
	return nil
}
