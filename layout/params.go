package layout

import "github.com/teranos/songnet/am"

// Params are the numeric knobs of both layouts
type Params struct {
	Width  float64
	Height float64

	// force mode
	LinkDistance  float64
	LinkStrength  float64
	ForceCharge   float64 // charge = -(r^2) * ForceCharge
	CenterOffsetY float64

	// radial mode
	RadialRadius     float64
	RadialIncrement  float64
	RadialStart      float64
	PositionStrength float64
	RadialCharge     float64
}

// DefaultParams matches the default config
func DefaultParams() Params {
	return Params{
		Width:            960,
		Height:           800,
		LinkDistance:     50,
		LinkStrength:     1,
		ForceCharge:      0.25,
		CenterOffsetY:    160,
		RadialRadius:     200,
		RadialIncrement:  18,
		RadialStart:      -120,
		PositionStrength: 0.02,
		RadialCharge:     0.04,
	}
}

// ParamsFromConfig reads the canvas, force and radial sections
func ParamsFromConfig(cfg *am.Config) Params {
	return Params{
		Width:            cfg.Canvas.Width,
		Height:           cfg.Canvas.Height,
		LinkDistance:     cfg.Force.LinkDistance,
		LinkStrength:     cfg.Force.LinkStrength,
		ForceCharge:      cfg.Force.ChargeCoefficient,
		CenterOffsetY:    cfg.Force.CenterOffsetY,
		RadialRadius:     cfg.Radial.Radius,
		RadialIncrement:  cfg.Radial.Increment,
		RadialStart:      cfg.Radial.Start,
		PositionStrength: cfg.Radial.PositionStrength,
		RadialCharge:     cfg.Radial.ChargeCoefficient,
	}
}
