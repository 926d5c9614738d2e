package main

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"ppifix/internal/codec"
	"ppifix/internal/config"
	"ppifix/internal/logging"
	"ppifix/internal/services"
	"ppifix/internal/textutil"
)

type globalFlags struct {
	configPath string
	logLevel   string
	logFormat  string
}

type commandContext struct {
	flags *globalFlags

	configOnce sync.Once
	config     *config.Config
	configPath string
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
	loggerErr  error
}

func newCommandContext(flags *globalFlags) *commandContext {
	return &commandContext{flags: flags}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		cfg, path, _, err := config.Load(strings.TrimSpace(c.flags.configPath))
		if err != nil {
			c.configErr = services.Wrap(services.ErrInvalidArgument, "", "load config", "", err)
			return
		}
		if level := strings.TrimSpace(c.flags.logLevel); level != "" {
			cfg.Logging.Level = strings.ToLower(level)
		}
		if format := strings.TrimSpace(c.flags.logFormat); format != "" {
			cfg.Logging.Format = strings.ToLower(format)
		}
		if err := cfg.Validate(); err != nil {
			c.configErr = services.Wrap(services.ErrInvalidArgument, "", "flags", "", err)
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = services.Wrap(services.ErrIO, "", "prepare directories", "", err)
			return
		}
		c.config = cfg
		c.configPath = path
	})
	return c.config, c.configErr
}

func (c *commandContext) ensureLogger() (*slog.Logger, error) {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.loggerErr = err
			return
		}
		c.logger, c.loggerErr = logging.NewFromConfig(cfg)
		if c.loggerErr != nil {
			c.loggerErr = services.Wrap(services.ErrIO, "", "open log", "", c.loggerErr)
		}
	})
	return c.logger, c.loggerErr
}

// registry builds a codec registry from the [encoding] section.
func (c *commandContext) registry() (*codec.Registry, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	level, err := codec.ParsePNGCompression(cfg.Encoding.PNGCompression)
	if err != nil {
		return nil, services.Wrap(services.ErrInvalidArgument, "", "encoding.png_compression", "", err)
	}
	return codec.NewRegistry(codec.Options{
		JPEGQuality:    cfg.Encoding.JPEGQuality,
		PNGCompression: level,
	}), nil
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

// exactArgs is cobra.ExactArgs with usage errors marked as invalid arguments.
func exactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) != n {
			return services.Wrap(services.ErrInvalidArgument, "", cmd.Name(),
				fmt.Sprintf("accepts %d arg(s), received %d", n, len(args)), nil)
		}
		return nil
	}
}

func yesNo(value bool) string {
	return textutil.Ternary(value, "yes", "no")
}
