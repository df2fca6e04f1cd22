package am

import "github.com/teranos/songnet/errors"

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	if c.Canvas.Width <= 0 || c.Canvas.Height <= 0 {
		return errors.Newf("canvas must have positive size, got %gx%g", c.Canvas.Width, c.Canvas.Height)
	}

	// Radius scale: zero min is allowed (invisible smallest node), inverted range is not
	if c.Nodes.MinRadius < 0 {
		return errors.Newf("nodes.min_radius must be >= 0, got %g", c.Nodes.MinRadius)
	}
	if c.Nodes.MaxRadius < c.Nodes.MinRadius {
		return errors.Newf("nodes.max_radius (%g) must be >= nodes.min_radius (%g)", c.Nodes.MaxRadius, c.Nodes.MinRadius)
	}

	if c.Force.LinkDistance < 0 {
		return errors.Newf("force.link_distance must be >= 0, got %g", c.Force.LinkDistance)
	}
	if c.Force.ChargeCoefficient < 0 || c.Radial.ChargeCoefficient < 0 {
		return errors.WithHint(
			errors.New("charge coefficients must be >= 0"),
			"the sign is applied internally: charge = -(r^2) * coefficient",
		)
	}

	if c.Radial.Increment <= 0 {
		return errors.Newf("radial.increment must be > 0, got %g", c.Radial.Increment)
	}
	if c.Radial.Radius < 0 {
		return errors.Newf("radial.radius must be >= 0, got %g", c.Radial.Radius)
	}

	if c.Simulation.VelocityDecay < 0 || c.Simulation.VelocityDecay > 1 {
		return errors.Newf("simulation.velocity_decay must be in [0, 1], got %g", c.Simulation.VelocityDecay)
	}
	if c.Simulation.AlphaMin <= 0 || c.Simulation.AlphaMin >= 1 {
		return errors.Newf("simulation.alpha_min must be in (0, 1), got %g", c.Simulation.AlphaMin)
	}
	if c.Simulation.TickIntervalMS <= 0 {
		return errors.Newf("simulation.tick_interval_ms must be > 0, got %d", c.Simulation.TickIntervalMS)
	}

	// Server port: 0 means default, negative or out of range is invalid
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return errors.Newf("server.port must be in [0, 65535], got %d", c.Server.Port)
	}
	if c.Server.FrameRate <= 0 {
		return errors.Newf("server.frame_rate must be > 0, got %g", c.Server.FrameRate)
	}
	switch c.Server.LogTheme {
	case "", "everforest", "gruvbox":
	default:
		return errors.WithHint(
			errors.Newf("unknown server.log_theme %q", c.Server.LogTheme),
			"valid themes are everforest and gruvbox",
		)
	}

	return nil
}
