// Package config handles viewer configuration loading and management.
package config

// Config holds all viewer settings.
type Config struct {
	Graphics GraphicsConfig `yaml:"graphics"`
	Assets   AssetsConfig   `yaml:"assets"`
	Physics  PhysicsConfig  `yaml:"physics"`
	Launch   LaunchConfig   `yaml:"launch"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// GraphicsConfig holds display and rendering settings.
type GraphicsConfig struct {
	Width      int  `yaml:"width"`
	Height     int  `yaml:"height"`
	Fullscreen bool `yaml:"fullscreen"`
	VSync      bool `yaml:"vsync"`
}

// AssetsConfig holds geometry file settings.
type AssetsConfig struct {
	Dir     string `yaml:"dir"`     // directory holding the .obj files
	Primary string `yaml:"primary"` // selected primary obstacle mesh name
}

// PhysicsConfig holds the integrator tuning values.
type PhysicsConfig struct {
	Gravity            float32 `yaml:"gravity"`
	DTMax              float32 `yaml:"dt_max"`
	Skin               float32 `yaml:"skin"`
	PrimaryRestitution float32 `yaml:"primary_restitution"`
	PlaneRestitution   float32 `yaml:"plane_restitution"`
}

// LaunchConfig holds the projectile launch parameters.
type LaunchConfig struct {
	AngleDeg     float32 `yaml:"angle_deg"`     // azimuth, wraps 0-360
	ElevationDeg float32 `yaml:"elevation_deg"` // clamped 0-90
	Speed        float32 `yaml:"speed"`
	Distance     float32 `yaml:"distance"` // idle body distance from the target
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Graphics: GraphicsConfig{
			Width:      1280,
			Height:     720,
			Fullscreen: false,
			VSync:      true,
		},
		Assets: AssetsConfig{
			Dir:     "assets/meshes",
			Primary: "cube",
		},
		Physics: PhysicsConfig{
			Gravity:            -9.81,
			DTMax:              0.05,
			Skin:               0.001,
			PrimaryRestitution: 0.6,
			PlaneRestitution:   0.5,
		},
		Launch: LaunchConfig{
			AngleDeg:     45,
			ElevationDeg: 20,
			Speed:        12,
			Distance:     8,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
