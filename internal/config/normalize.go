package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeRewrite()
	c.normalizeEncoding()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	if value, ok := os.LookupEnv(lockDirEnv); ok && strings.TrimSpace(value) != "" {
		c.Paths.LockDir = strings.TrimSpace(value)
	}
	if strings.TrimSpace(c.Paths.LockDir) == "" {
		c.Paths.LockDir = defaultLockDir()
	}
	var err error
	if c.Paths.LockDir, err = expandPath(c.Paths.LockDir); err != nil {
		return fmt.Errorf("paths.lock_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = ""
		return nil
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeRewrite() {
	mode := strings.ToLower(strings.TrimSpace(c.Rewrite.DefaultMode))
	switch mode {
	case "":
		mode = defaultMode
	case "no-change", "nochange", "no_change":
		mode = ModeNone
	}
	c.Rewrite.DefaultMode = mode
}

func (c *Config) normalizeEncoding() {
	c.Encoding.PNGCompression = strings.ToLower(strings.TrimSpace(c.Encoding.PNGCompression))
	if c.Encoding.PNGCompression == "" {
		c.Encoding.PNGCompression = defaultPNGCompression
	}
	if c.Encoding.JPEGQuality == 0 {
		c.Encoding.JPEGQuality = defaultJPEGQuality
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	if value, ok := os.LookupEnv(logLevelEnv); ok && strings.TrimSpace(value) != "" {
		c.Logging.Level = value
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
