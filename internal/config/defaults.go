package config

const (
	defaultConfigPath      = "~/.config/ppifix/config.toml"
	defaultLockDirFallback = "~/.local/state/ppifix/locks"
	defaultPPI             = 144
	defaultMode            = ModeLinear
	defaultJPEGQuality     = 95
	defaultPNGCompression  = "default"
	defaultLogFormat       = "console"
	defaultLogLevel        = "info"
	logLevelEnv            = "PPIFIX_LOG_LEVEL"
	lockDirEnv             = "PPIFIX_LOCK_DIR"
)

// Resolution mode names accepted in rewrite.default_mode.
const (
	ModeLinear = "linear"
	ModeFixed  = "fixed"
	ModeNone   = "none"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			LockDir: defaultLockDir(),
		},
		Rewrite: Rewrite{
			DefaultPPI:  defaultPPI,
			DefaultMode: defaultMode,
		},
		Encoding: Encoding{
			JPEGQuality:    defaultJPEGQuality,
			PNGCompression: defaultPNGCompression,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
