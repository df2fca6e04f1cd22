package am

// Config represents the songnet configuration
type Config struct {
	Canvas     CanvasConfig     `mapstructure:"canvas" json:"canvas" yaml:"canvas" toml:"canvas"`
	Nodes      NodesConfig      `mapstructure:"nodes" json:"nodes" yaml:"nodes" toml:"nodes"`
	Force      ForceConfig      `mapstructure:"force" json:"force" yaml:"force" toml:"force"`
	Radial     RadialConfig     `mapstructure:"radial" json:"radial" yaml:"radial" toml:"radial"`
	Simulation SimulationConfig `mapstructure:"simulation" json:"simulation" yaml:"simulation" toml:"simulation"`
	Server     ServerConfig     `mapstructure:"server" json:"server" yaml:"server" toml:"server"`
	Data       DataConfig       `mapstructure:"data" json:"data" yaml:"data" toml:"data"`
}

// CanvasConfig is the drawing surface the layouts are centered on
type CanvasConfig struct {
	Width  float64 `mapstructure:"width" json:"width" yaml:"width" toml:"width"`
	Height float64 `mapstructure:"height" json:"height" yaml:"height" toml:"height"`
}

// NodesConfig bounds the playcount -> radius scale
type NodesConfig struct {
	MinRadius float64 `mapstructure:"min_radius" json:"min_radius" yaml:"min_radius" toml:"min_radius"`
	MaxRadius float64 `mapstructure:"max_radius" json:"max_radius" yaml:"max_radius" toml:"max_radius"`
}

// ForceConfig configures the force (link-driven) layout
type ForceConfig struct {
	LinkDistance      float64 `mapstructure:"link_distance" json:"link_distance" yaml:"link_distance" toml:"link_distance"`
	LinkStrength      float64 `mapstructure:"link_strength" json:"link_strength" yaml:"link_strength" toml:"link_strength"`
	ChargeCoefficient float64 `mapstructure:"charge_coefficient" json:"charge_coefficient" yaml:"charge_coefficient" toml:"charge_coefficient"` // charge = -(r^2) * coefficient
	CenterOffsetY     float64 `mapstructure:"center_offset_y" json:"center_offset_y" yaml:"center_offset_y" toml:"center_offset_y"`             // center is (w/2, h/2 - offset)
}

// RadialConfig configures the radial (artist cluster) layout
type RadialConfig struct {
	Radius            float64 `mapstructure:"radius" json:"radius" yaml:"radius" toml:"radius"`
	Increment         float64 `mapstructure:"increment" json:"increment" yaml:"increment" toml:"increment"` // degrees between cluster centers
	Start             float64 `mapstructure:"start" json:"start" yaml:"start" toml:"start"`                 // first cluster angle in degrees
	PositionStrength  float64 `mapstructure:"position_strength" json:"position_strength" yaml:"position_strength" toml:"position_strength"`
	ChargeCoefficient float64 `mapstructure:"charge_coefficient" json:"charge_coefficient" yaml:"charge_coefficient" toml:"charge_coefficient"`
}

// SimulationConfig configures the reference force engine
type SimulationConfig struct {
	VelocityDecay  float64 `mapstructure:"velocity_decay" json:"velocity_decay" yaml:"velocity_decay" toml:"velocity_decay"`
	AlphaMin       float64 `mapstructure:"alpha_min" json:"alpha_min" yaml:"alpha_min" toml:"alpha_min"`
	TickIntervalMS int     `mapstructure:"tick_interval_ms" json:"tick_interval_ms" yaml:"tick_interval_ms" toml:"tick_interval_ms"`
}

// ServerConfig configures the songnet web server
type ServerConfig struct {
	Port           int      `mapstructure:"port" json:"port" yaml:"port" toml:"port"`
	AllowedOrigins []string `mapstructure:"allowed_origins" json:"allowed_origins" yaml:"allowed_origins" toml:"allowed_origins"`
	LogTheme       string   `mapstructure:"log_theme" json:"log_theme" yaml:"log_theme" toml:"log_theme"`    // Color theme: gruvbox, everforest
	FrameRate      float64  `mapstructure:"frame_rate" json:"frame_rate" yaml:"frame_rate" toml:"frame_rate"` // position frames per second sent to clients
}

// DataConfig points at the dataset to load on startup
type DataConfig struct {
	Path  string `mapstructure:"path" json:"path" yaml:"path" toml:"path"`
	Watch bool   `mapstructure:"watch" json:"watch" yaml:"watch" toml:"watch"`
}

// Server port constants
const (
	DefaultServerPort = 8960
)

// File system constants
const (
	DefaultDirPermissions  = 0755 // Standard directory permissions (rwxr-xr-x)
	DefaultFilePermissions = 0644 // Standard file permissions (rw-r--r--)
)
