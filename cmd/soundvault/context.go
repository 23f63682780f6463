package main

import (
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"soundvault"
	"soundvault/config"
)

// commandContext carries lazily resolved configuration shared by every
// subcommand in a single CLI invocation.
type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		path := ""
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

// withVault opens the vault for the duration of one command. One-shot
// commands run without a logger; long-running commands that want log
// output build their own vault instead.
func (c *commandContext) withVault(cmd *cobra.Command, fn func(vault *soundvault.Vault) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	vault, err := soundvault.Open(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer vault.Close()
	return fn(vault)
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for current := cmd; current != nil; current = current.Parent() {
		if current.Annotations != nil && current.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}
