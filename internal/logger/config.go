package logger

// Config defines logging configuration.
type Config struct {
	Level            string `yaml:"level" env:"WARVR_LOG_LEVEL"`
	Format           string `yaml:"format" env:"WARVR_LOG_FORMAT"` // json or console
	EnableSampling   bool   `yaml:"enable_sampling" env:"WARVR_LOG_SAMPLING"`
	SampleInitial    int    `yaml:"sample_initial" env:"WARVR_LOG_SAMPLE_INITIAL"`
	SampleThereafter int    `yaml:"sample_thereafter" env:"WARVR_LOG_SAMPLE_THEREAFTER"`
	Development      bool   `yaml:"development" env:"WARVR_LOG_DEVELOPMENT"`
	// OutputPath redirects logs away from stderr. The terminal renderer owns
	// the screen, so the default interactive setup logs to a file.
	OutputPath string `yaml:"output_path" env:"WARVR_LOG_FILE"`
}

// DefaultConfig returns the production defaults. Sampling is on because the
// locomotion systems can log per frame at debug level.
func DefaultConfig() Config {
	return Config{
		Level:            "info",
		Format:           "json",
		EnableSampling:   true,
		SampleInitial:    100,
		SampleThereafter: 1000,
		Development:      false,
	}
}

// DevelopmentConfig returns the development defaults.
func DevelopmentConfig() Config {
	return Config{
		Level:       "debug",
		Format:      "console",
		Development: true,
	}
}
