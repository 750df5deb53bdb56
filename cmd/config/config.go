package config

import (
	tmcfg "github.com/tendermint/tendermint/config"
)

type Config struct {
	*tmcfg.Config
	ChainID string
}

func DefaultConfig() *Config {
	return &Config{
		Config: tmcfg.DefaultConfig(),
	}
}

func (c *Config) SetRoot(root string) *Config {
	c.Config.SetRoot(root)
	return c
}
