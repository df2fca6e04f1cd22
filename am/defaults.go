package am

import (
	"fmt"

	"github.com/spf13/viper"
)

// SetDefaults configures default values for all configuration options
func SetDefaults(v *viper.Viper) {
	// Canvas
	v.SetDefault("canvas.width", 960.0)
	v.SetDefault("canvas.height", 800.0)

	// Node radius scale (sqrt of playcount)
	v.SetDefault("nodes.min_radius", 3.0)
	v.SetDefault("nodes.max_radius", 12.0)

	// Force layout
	v.SetDefault("force.link_distance", 50.0)
	v.SetDefault("force.link_strength", 1.0)
	v.SetDefault("force.charge_coefficient", 0.25)
	v.SetDefault("force.center_offset_y", 160.0)

	// Radial layout
	v.SetDefault("radial.radius", 200.0)
	v.SetDefault("radial.increment", 18.0)
	v.SetDefault("radial.start", -120.0)
	v.SetDefault("radial.position_strength", 0.02)
	v.SetDefault("radial.charge_coefficient", 0.04)

	// Simulation
	v.SetDefault("simulation.velocity_decay", 0.2)
	v.SetDefault("simulation.alpha_min", 0.1)
	v.SetDefault("simulation.tick_interval_ms", 16) // ~60 steps per second

	// Server configuration defaults
	v.SetDefault("server.port", DefaultServerPort)
	v.SetDefault("server.allowed_origins", []string{
		"http://localhost",
		"https://localhost",
		"http://127.0.0.1",
		"https://127.0.0.1",
	})
	v.SetDefault("server.log_theme", "everforest")
	v.SetDefault("server.frame_rate", 30.0)

	// Data
	v.SetDefault("data.path", "")
	v.SetDefault("data.watch", false)
}

// GetServerAllowedOrigins returns the allowed websocket origins
func (c *Config) GetServerAllowedOrigins() []string {
	if len(c.Server.AllowedOrigins) == 0 {
		return []string{
			"http://localhost",
			"https://localhost",
			"http://127.0.0.1",
			"https://127.0.0.1",
		}
	}
	return c.Server.AllowedOrigins
}

// GetServerLogTheme returns the log theme (default: everforest)
func (c *Config) GetServerLogTheme() string {
	if c.Server.LogTheme == "" {
		return "everforest"
	}
	return c.Server.LogTheme
}

// Address returns the listen address for the server
func (c *Config) Address() string {
	port := c.Server.Port
	if port == 0 {
		port = DefaultServerPort
	}
	return fmt.Sprintf(":%d", port)
}

// String returns a string representation of the config
func (c *Config) String() string {
	return fmt.Sprintf("Config{Canvas: %gx%g, Server: {Port: %d, LogTheme: %s}, Data: %s}",
		c.Canvas.Width, c.Canvas.Height, c.Server.Port, c.Server.LogTheme, c.Data.Path)
}
