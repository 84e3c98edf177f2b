package config

import "flag"

var (
	flagConfig   = flag.String("config", "", "Path to config file")
	flagDir      = flag.String("dir", "", "picoCAD project directory")
	flagDebug    = flag.Bool("debug", false, "Enable debug logging")
	flagValidate = flag.Bool("validate", false, "Validate models when loading")
	flagLogFile  = flag.String("log", "", "Write logs to this file")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// Args returns the arguments left after the global flags.
func Args() []string {
	return flag.Args()
}

// ConfigPath returns the explicit config path if provided via -config.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDir != "" {
		cfg.Projects.Dir = *flagDir
	}
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagValidate {
		cfg.Format.ValidateOnLoad = true
	}
	if *flagLogFile != "" {
		cfg.Logging.LogFile = *flagLogFile
	}
}
