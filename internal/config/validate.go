package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateRewrite(); err != nil {
		return err
	}
	if err := c.validateEncoding(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.Paths.LockDir) == "" {
		return errors.New("paths.lock_dir must be set")
	}
	return nil
}

func (c *Config) validateRewrite() error {
	if c.Rewrite.DefaultPPI <= 0 {
		return errors.New("rewrite.default_ppi must be positive")
	}
	switch c.Rewrite.DefaultMode {
	case ModeLinear, ModeFixed, ModeNone:
	default:
		return fmt.Errorf("rewrite.default_mode: unsupported value %q (want linear, fixed, or none)", c.Rewrite.DefaultMode)
	}
	return nil
}

func (c *Config) validateEncoding() error {
	if c.Encoding.JPEGQuality < 1 || c.Encoding.JPEGQuality > 100 {
		return errors.New("encoding.jpeg_quality must be between 1 and 100")
	}
	switch c.Encoding.PNGCompression {
	case "default", "none", "fast", "best":
	default:
		return fmt.Errorf("encoding.png_compression: unsupported value %q", c.Encoding.PNGCompression)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
		return nil
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
}
