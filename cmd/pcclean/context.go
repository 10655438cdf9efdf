package main

import (
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"
	"sync"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/Ning0612/pcclean/internal/config"
	"github.com/Ning0612/pcclean/internal/confirm"
	"github.com/Ning0612/pcclean/internal/core/checksum"
	"github.com/Ning0612/pcclean/internal/domain"
	"github.com/Ning0612/pcclean/internal/lock"
	"github.com/Ning0612/pcclean/internal/logger"
	"github.com/Ning0612/pcclean/internal/organizer"
	"github.com/Ning0612/pcclean/internal/purge"
	"github.com/Ning0612/pcclean/internal/service"
	"github.com/Ning0612/pcclean/internal/state"
)

type commandContext struct {
	configFlag    *string
	logLevelFlag  *string
	logFormatFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error

	fs   afero.Fs
	goos string
	env  purge.Environment
}

func newCommandContext(configFlag, logLevelFlag, logFormatFlag *string) *commandContext {
	return &commandContext{
		configFlag:    configFlag,
		logLevelFlag:  logLevelFlag,
		logFormatFlag: logFormatFlag,
		fs:            afero.NewOsFs(),
		goos:          runtime.GOOS,
		env:           purge.SystemEnvironment(),
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, err := config.LoadOrDefault(path)
		if err != nil {
			c.configErr = err
			return
		}
		if c.logLevelFlag != nil && *c.logLevelFlag != "" {
			cfg.Logging.Level = *c.logLevelFlag
		}
		if c.logFormatFlag != nil && *c.logFormatFlag != "" {
			cfg.Logging.Format = *c.logFormatFlag
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

// initLogger installs the process logger, writing console records to stderr
func (c *commandContext) initLogger(stderr io.Writer) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}

	lc := cfg.LoggerConfig()
	for i := range lc.Outputs {
		if lc.Outputs[i].Type == logger.OutputStderr {
			lc.Outputs[i].Writer = stderr
		}
	}
	return logger.Init(lc)
}

func (c *commandContext) tempLocations(cfg *config.Config) []string {
	family := domain.ParseOSFamily(c.goos)
	if locations, ok := cfg.TempLocationOverride(family); ok {
		return locations
	}
	return purge.ResolveLocations(family, c.env)
}

// confirmer picks the purge confirmation gate: --yes, an interactive
// terminal prompt, or a prompt over the command's own streams
func (c *commandContext) confirmer(cmd *cobra.Command, yes bool) confirm.Confirmer {
	if yes {
		return confirm.Static(true)
	}
	in := cmd.InOrStdin()
	if f, ok := in.(*os.File); ok && f == os.Stdin {
		return confirm.NewTerminalPrompt()
	}
	return confirm.NewPrompt(in, cmd.OutOrStdout())
}

// buildCleaner wires the cleaner service. The returned func releases the
// history database.
func (c *commandContext) buildCleaner(cmd *cobra.Command, yes bool) (*service.Cleaner, func(), error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, nil, err
	}
	log := logger.Get()

	calc := checksum.NewCalculator(checksum.Options{BufferSize: cfg.Hash.BufferSize})
	hasher, err := checksum.NewFSHasher(c.fs, calc, cfg.HashAlgorithm())
	if err != nil {
		return nil, nil, err
	}

	stateDir, err := cfg.StateDir()
	if err != nil {
		return nil, nil, err
	}
	runLock, err := lock.New(stateDir)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create run lock: %w", err)
	}

	deps := service.Deps{
		Organizer: organizer.New(c.fs, cfg.CategorySet(), hasher, log),
		Purger:    purge.New(c.fs, c.tempLocations(cfg), c.confirmer(cmd, yes), log),
		Lock:      runLock,
		Logger:    log,
	}

	cleanup := func() {}
	if cfg.State.History {
		mgr, err := state.NewManager(stateDir)
		if err != nil {
			log.Warn("run history disabled", "error", err)
		} else {
			deps.History = mgr
			cleanup = func() {
				if err := mgr.Close(); err != nil {
					log.Warn("failed to close history database", "error", err)
				}
			}
		}
	}

	return service.NewCleaner(deps), cleanup, nil
}
