package reactor

import (
	"github.com/soypat/fusion"
	"github.com/soypat/fusion/config"
)

// Params are the dimensions of a ball reactor, in centimetres. The
// poloidal field coil fields are optional and must be given together.
// The outboard toroidal field coil fields are optional and require the
// poloidal field coils.
type Params struct {
	InnerBoreRadialThickness          float64 `yaml:"inner_bore_radial_thickness" toml:"inner_bore_radial_thickness" json:"inner_bore_radial_thickness" validate:"gte=0"`
	InboardTFLegRadialThickness       float64 `yaml:"inboard_tf_leg_radial_thickness" toml:"inboard_tf_leg_radial_thickness" json:"inboard_tf_leg_radial_thickness" validate:"gt=0"`
	CenterColumnShieldRadialThickness float64 `yaml:"center_column_shield_radial_thickness" toml:"center_column_shield_radial_thickness" json:"center_column_shield_radial_thickness" validate:"gt=0"`
	DivertorRadialThickness           float64 `yaml:"divertor_radial_thickness" toml:"divertor_radial_thickness" json:"divertor_radial_thickness" validate:"gt=0"`
	InnerPlasmaGapRadialThickness     float64 `yaml:"inner_plasma_gap_radial_thickness" toml:"inner_plasma_gap_radial_thickness" json:"inner_plasma_gap_radial_thickness" validate:"gte=0"`
	PlasmaRadialThickness             float64 `yaml:"plasma_radial_thickness" toml:"plasma_radial_thickness" json:"plasma_radial_thickness" validate:"gt=0"`
	OuterPlasmaGapRadialThickness     float64 `yaml:"outer_plasma_gap_radial_thickness" toml:"outer_plasma_gap_radial_thickness" json:"outer_plasma_gap_radial_thickness" validate:"gte=0"`
	FirstwallRadialThickness          float64 `yaml:"firstwall_radial_thickness" toml:"firstwall_radial_thickness" json:"firstwall_radial_thickness" validate:"gt=0"`
	BlanketRadialThickness            float64 `yaml:"blanket_radial_thickness" toml:"blanket_radial_thickness" json:"blanket_radial_thickness" validate:"gt=0"`
	BlanketRearWallRadialThickness    float64 `yaml:"blanket_rear_wall_radial_thickness" toml:"blanket_rear_wall_radial_thickness" json:"blanket_rear_wall_radial_thickness" validate:"gt=0"`

	Elongation    float64 `yaml:"elongation" toml:"elongation" json:"elongation" validate:"gt=0"`
	Triangularity float64 `yaml:"triangularity" toml:"triangularity" json:"triangularity" validate:"gte=-1,lte=1"`

	NumberOfTFCoils int `yaml:"number_of_tf_coils" toml:"number_of_tf_coils" json:"number_of_tf_coils" validate:"gte=1"`
	// InboardTFCoilGap splits the inboard leg into NumberOfTFCoils flat
	// wedges separated by this gap. Zero gives a solid cylinder.
	InboardTFCoilGap float64 `yaml:"inboard_tf_coil_gap,omitempty" toml:"inboard_tf_coil_gap,omitempty" json:"inboard_tf_coil_gap,omitempty" validate:"gte=0"`

	PFCoilToRearBlanketRadialGap *float64  `yaml:"pf_coil_to_rear_blanket_radial_gap,omitempty" toml:"pf_coil_to_rear_blanket_radial_gap,omitempty" json:"pf_coil_to_rear_blanket_radial_gap,omitempty" validate:"omitempty,gte=0"`
	PFCoilRadialThicknesses      []float64 `yaml:"pf_coil_radial_thicknesses,omitempty" toml:"pf_coil_radial_thicknesses,omitempty" json:"pf_coil_radial_thicknesses,omitempty" validate:"omitempty,dive,gt=0"`
	PFCoilVerticalThicknesses    []float64 `yaml:"pf_coil_vertical_thicknesses,omitempty" toml:"pf_coil_vertical_thicknesses,omitempty" json:"pf_coil_vertical_thicknesses,omitempty" validate:"omitempty,dive,gt=0"`

	PFCoilToTFCoilRadialGap         *float64 `yaml:"pf_coil_to_tf_coil_radial_gap,omitempty" toml:"pf_coil_to_tf_coil_radial_gap,omitempty" json:"pf_coil_to_tf_coil_radial_gap,omitempty" validate:"omitempty,gte=0"`
	OutboardTFCoilRadialThickness   *float64 `yaml:"outboard_tf_coil_radial_thickness,omitempty" toml:"outboard_tf_coil_radial_thickness,omitempty" json:"outboard_tf_coil_radial_thickness,omitempty" validate:"omitempty,gt=0"`
	OutboardTFCoilPoloidalThickness *float64 `yaml:"outboard_tf_coil_poloidal_thickness,omitempty" toml:"outboard_tf_coil_poloidal_thickness,omitempty" json:"outboard_tf_coil_poloidal_thickness,omitempty" validate:"omitempty,gt=0"`

	// RotationAngle is the toroidal extent of the model in degrees,
	// 360 if zero.
	RotationAngle float64 `yaml:"rotation_angle,omitempty" toml:"rotation_angle,omitempty" json:"rotation_angle,omitempty" validate:"gte=0,lte=360"`
}

// DefaultParams returns the dimensions of a small spherical tokamak with
// poloidal and outboard toroidal field coils, modelled as a half turn.
func DefaultParams() Params {
	f := func(v float64) *float64 { return &v }
	return Params{
		InnerBoreRadialThickness:          10,
		InboardTFLegRadialThickness:       30,
		CenterColumnShieldRadialThickness: 60,
		DivertorRadialThickness:           150,
		InnerPlasmaGapRadialThickness:     30,
		PlasmaRadialThickness:             300,
		OuterPlasmaGapRadialThickness:     30,
		FirstwallRadialThickness:          30,
		BlanketRadialThickness:            50,
		BlanketRearWallRadialThickness:    30,
		Elongation:                        2,
		Triangularity:                     0.55,
		NumberOfTFCoils:                   16,
		PFCoilToRearBlanketRadialGap:      f(50),
		PFCoilRadialThicknesses:           []float64{50, 50, 50, 50},
		PFCoilVerticalThicknesses:         []float64{50, 50, 50, 50},
		PFCoilToTFCoilRadialGap:           f(50),
		OutboardTFCoilRadialThickness:     f(50),
		OutboardTFCoilPoloidalThickness:   f(70),
		RotationAngle:                     180,
	}
}

// LoadParams reads reactor parameters from a YAML, TOML or JSON file.
func LoadParams(path string) (Params, error) {
	var p Params
	if err := config.Load(path, &p); err != nil {
		return Params{}, err
	}
	return p, p.Validate()
}

// Validate checks the parameters, including the consistency of the
// optional coil fields.
func (p Params) Validate() error {
	if err := config.Validate(p); err != nil {
		return err
	}
	nr, nv := len(p.PFCoilRadialThicknesses), len(p.PFCoilVerticalThicknesses)
	hasGap := p.PFCoilToRearBlanketRadialGap != nil
	switch {
	case nr != nv:
		return fusion.Errorf(fusion.ErrConfig, "%d pf coil radial thicknesses for %d vertical thicknesses", nr, nv)
	case (nr > 0) != hasGap:
		return fusion.Errorf(fusion.ErrConfig, "pf coil thicknesses and pf_coil_to_rear_blanket_radial_gap must be given together")
	}
	tfGap, tfThick := p.PFCoilToTFCoilRadialGap != nil, p.OutboardTFCoilRadialThickness != nil
	switch {
	case tfGap != tfThick:
		return fusion.Errorf(fusion.ErrConfig, "pf_coil_to_tf_coil_radial_gap and outboard_tf_coil_radial_thickness must be given together")
	case tfGap && !p.hasPFCoils():
		return fusion.Errorf(fusion.ErrConfig, "outboard tf coils are placed outside the pf coils, which are not set")
	case tfGap && p.OutboardTFCoilPoloidalThickness == nil:
		return fusion.Errorf(fusion.ErrConfig, "outboard tf coils need outboard_tf_coil_poloidal_thickness")
	}
	return nil
}

func (p Params) hasPFCoils() bool { return len(p.PFCoilVerticalThicknesses) > 0 }

func (p Params) hasTFCoils() bool {
	return p.hasPFCoils() && p.PFCoilToTFCoilRadialGap != nil && p.OutboardTFCoilRadialThickness != nil
}

func (p Params) rotation() float64 {
	if p.RotationAngle == 0 {
		return 360
	}
	return p.RotationAngle
}
