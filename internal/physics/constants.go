package physics

import "math"

// Halbach reference geometry and guideway material.
const (
	DefaultResistivity   = 265e-10
	DefaultPermeability  = 4e-7 * math.Pi
	DefaultThickness     = 15e-3
	DefaultEndThickness  = 25e-3 // first and last 61 m of track
	DefaultStandoff      = 10e-3
	DefaultNumMagnets    = 5
	DefaultSideLength    = 0.0254
	DefaultSpacing       = 0.0127
	DefaultMagnetization = 7580e3
)

// Params are the primary inputs of the model, in SI units.
type Params struct {
	Resistivity   float64 // beam resistivity, ohm-m
	Permeability  float64 // vacuum permeability, N/A^2
	Thickness     float64 // beam thickness, m
	EndThickness  float64 // beam thickness at track ends, m; zero if unused
	Standoff      float64 // distance between magnets and beam, m
	NumMagnets    int
	SideLength    float64 // cube magnet side, m
	Spacing       float64 // gap between adjacent magnets, m
	Magnetization float64 // A/m
}

func DefaultParams() Params {
	return Params{
		Resistivity:   DefaultResistivity,
		Permeability:  DefaultPermeability,
		Thickness:     DefaultThickness,
		EndThickness:  DefaultEndThickness,
		Standoff:      DefaultStandoff,
		NumMagnets:    DefaultNumMagnets,
		SideLength:    DefaultSideLength,
		Spacing:       DefaultSpacing,
		Magnetization: DefaultMagnetization,
	}
}

// Validate checks that every primary input is finite and strictly positive.
// EndThickness may be zero.
func (p Params) Validate() error {
	fields := []struct {
		name string
		val  float64
	}{
		{"resistivity", p.Resistivity},
		{"permeability", p.Permeability},
		{"thickness", p.Thickness},
		{"standoff", p.Standoff},
		{"side_length", p.SideLength},
		{"spacing", p.Spacing},
		{"magnetization", p.Magnetization},
	}
	for _, f := range fields {
		if err := positive(f.name, f.val); err != nil {
			return err
		}
	}
	if p.EndThickness != 0 {
		if err := positive("end_thickness", p.EndThickness); err != nil {
			return err
		}
	}
	if p.NumMagnets <= 0 {
		return &ConfigError{Field: "num_magnets", Value: float64(p.NumMagnets), Reason: "must be positive"}
	}
	return nil
}

func positive(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return &ConfigError{Field: name, Value: v, Reason: "must be finite"}
	}
	if v <= 0 {
		return &ConfigError{Field: name, Value: v, Reason: "must be positive"}
	}
	return nil
}

// Constants holds validated primary inputs together with the values derived
// from them. It has no setters; derived values always match the inputs.
type Constants struct {
	params       Params
	dipoleMoment float64
	diffusion    float64
	wheelRadius  float64
	maxLift      float64
}

func NewConstants(p Params) (Constants, error) {
	if err := p.Validate(); err != nil {
		return Constants{}, err
	}
	m := p.SideLength * p.SideLength * p.SideLength * p.Magnetization
	z4 := p.Standoff * p.Standoff * p.Standoff * p.Standoff
	return Constants{
		params:       p,
		dipoleMoment: m,
		diffusion:    2 * p.Resistivity / (p.Permeability * p.Thickness),
		wheelRadius:  (p.SideLength + p.Spacing) * float64(p.NumMagnets) / (2 * math.Pi),
		maxLift:      3 * p.Permeability * m * m / (32 * math.Pi * z4),
	}, nil
}

// WithParams rebuilds the constants from modified primary inputs.
func (c Constants) WithParams(fn func(*Params)) (Constants, error) {
	p := c.params
	fn(&p)
	return NewConstants(p)
}

// EndBeam returns constants for the thicker beam at the track ends.
func (c Constants) EndBeam() (Constants, error) {
	if c.params.EndThickness == 0 {
		return Constants{}, &ConfigError{Field: "end_thickness", Value: 0, Reason: "not set"}
	}
	return c.WithParams(func(p *Params) { p.Thickness = p.EndThickness })
}

func (c Constants) Params() Params { return c.params }

// DipoleMoment is the vertical dipole moment of one magnet, A-m^2.
func (c Constants) DipoleMoment() float64 { return c.dipoleMoment }

// DiffusionVelocity is the speed of magnetic propagation through the beam, m/s.
func (c Constants) DiffusionVelocity() float64 { return c.diffusion }

// WheelRadius is the radius of the wheel the magnets are laid around, m.
func (c Constants) WheelRadius() float64 { return c.wheelRadius }

// MaxLift is the asymptotic lift as relative velocity grows without bound, N.
func (c Constants) MaxLift() float64 { return c.maxLift }
