package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"expyvr/internal/logging"
	"expyvr/internal/platform"
	"expyvr/internal/prefs"
)

type commandContext struct {
	installFlag   *string
	logLevelFlag  *string
	logFormatFlag *string

	loggerOnce sync.Once
	logger     *slog.Logger
	loggerErr  error

	managerOnce sync.Once
	manager     *prefs.Manager
	managerErr  error
}

func newCommandContext(installFlag, logLevelFlag, logFormatFlag *string) *commandContext {
	return &commandContext{
		installFlag:   installFlag,
		logLevelFlag:  logLevelFlag,
		logFormatFlag: logFormatFlag,
	}
}

func (c *commandContext) ensureLogger() (*slog.Logger, error) {
	c.loggerOnce.Do(func() {
		level := flagValue(c.logLevelFlag)
		if level == "" {
			level = strings.TrimSpace(os.Getenv("EXPYVR_LOG_LEVEL"))
		}
		if level == "" {
			level = "warn"
		}
		c.logger, c.loggerErr = logging.New(logging.Options{
			Level:  level,
			Format: flagValue(c.logFormatFlag),
		})
	})
	return c.logger, c.loggerErr
}

func (c *commandContext) ensureManager() (*prefs.Manager, error) {
	c.managerOnce.Do(func() {
		logger, err := c.ensureLogger()
		if err != nil {
			c.managerErr = err
			return
		}
		env, err := c.environment()
		if err != nil {
			c.managerErr = err
			return
		}
		m, err := prefs.New(prefs.Options{Env: env, Logger: logger})
		if err != nil {
			if errors.Is(err, prefs.ErrPackaging) {
				err = fmt.Errorf("%w\nrun `expyvr-prefs install-specs --install-dir %s` to restore the bundled schemas", err, env.InstallDir)
			}
			c.managerErr = err
			return
		}
		c.manager = m
	})
	return c.manager, c.managerErr
}

func (c *commandContext) environment() (platform.Env, error) {
	env, err := platform.Detect()
	if err != nil {
		return platform.Env{}, fmt.Errorf("detect platform: %w", err)
	}
	if dir := c.installDir(); dir != "" {
		env.InstallDir = dir
	}
	return env, nil
}

// installDir returns the --install-dir flag made absolute, or "".
func (c *commandContext) installDir() string {
	dir := flagValue(c.installFlag)
	if dir == "" {
		return ""
	}
	if abs, err := filepath.Abs(dir); err == nil {
		return abs
	}
	return dir
}

func flagValue(flag *string) string {
	if flag == nil {
		return ""
	}
	return strings.TrimSpace(*flag)
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
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
