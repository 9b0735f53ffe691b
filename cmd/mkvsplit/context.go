package main

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"mkvsplit/internal/config"
	"mkvsplit/internal/deps"
	"mkvsplit/internal/logging"
	"mkvsplit/internal/mkvtoolnix"
	"mkvsplit/internal/mp4box"
)

type commandContext struct {
	configFlag   *string
	logLevelFlag *string

	configOnce   sync.Once
	config       *config.Config
	configPath   string
	configExists bool
	configErr    error
}

func newCommandContext(configFlag, logLevelFlag *string) *commandContext {
	return &commandContext{
		configFlag:   configFlag,
		logLevelFlag: logLevelFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, resolved, exists, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if c.logLevelFlag != nil {
			if level := strings.ToLower(strings.TrimSpace(*c.logLevelFlag)); level != "" {
				cfg.Logging.Level = level
				if err := cfg.Validate(); err != nil {
					c.configErr = fmt.Errorf("--log-level: %w", err)
					return
				}
			}
		}
		c.config = cfg
		c.configPath = resolved
		c.configExists = exists
	})
	return c.config, c.configErr
}

// logger builds the command's logger. Lines follow the command's stderr.
// With logFile set a configured log_dir also receives them; the returned
// closer releases that file.
func (c *commandContext) logger(cmd *cobra.Command, cfg *config.Config, logFile bool) (*slog.Logger, io.Closer, error) {
	if !logFile {
		return logging.New(logging.Options{
			Level:  cfg.Logging.Level,
			Format: cfg.Logging.Format,
			Writer: cmd.ErrOrStderr(),
		})
	}
	return logging.NewFromConfig(cfg, cmd.ErrOrStderr())
}

// toolchain constructs the mkvtoolnix and MP4Box clients from config.
func toolchain(cfg *config.Config, logger *slog.Logger) (*mkvtoolnix.Client, *mp4box.Client, error) {
	extraArgs, err := cfg.MkvextractArgs()
	if err != nil {
		return nil, nil, err
	}
	mkv, err := mkvtoolnix.New(
		cfg.Tools.Mkvmerge,
		deps.ResolveSibling(cfg.Tools.Mkvmerge, cfg.Tools.Mkvextract),
		mkvtoolnix.WithTimeout(cfg.ToolTimeout()),
		mkvtoolnix.WithExtraArgs(extraArgs),
		mkvtoolnix.WithLogger(logger),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("mkvtoolnix: %w", err)
	}
	mp4, err := mp4box.New(
		cfg.Tools.MP4Box,
		mp4box.WithTimeout(cfg.ToolTimeout()),
		mp4box.WithLogger(logger),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("mp4box: %w", err)
	}
	return mkv, mp4, nil
}

// skipConfigLoad marks commands that must run without a valid config.
const skipConfigLoad = "skipConfigLoad"

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations[skipConfigLoad] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
