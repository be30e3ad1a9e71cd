package config

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

const DefaultConfigFile = "scene_encoder.yaml"

// Load loads configuration with priority: defaults < file < flags.
// flags may be nil.
func Load(flags *Flags) (*Config, error) {
	cfg := Default()

	configPath := ""
	if flags != nil {
		configPath = flags.ConfigPath
	}
	if configPath == "" {
		if _, err := os.Stat(DefaultConfigFile); err == nil {
			configPath = DefaultConfigFile
		}
	}

	if configPath != "" {
		if err := loadFromFile(cfg, configPath); err != nil {
			return nil, errors.Wrapf(err, "Can't load config from %q", configPath)
		}
	}

	if flags != nil {
		flags.apply(cfg)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

func (c *Config) Validate() error {
	switch c.Animations.Group {
	case GroupAuto, GroupNever, GroupAlways:
	case "":
		c.Animations.Group = GroupNever
	default:
		return errors.Errorf("Unknown animation group mode %q", c.Animations.Group)
	}
	if c.Names.Encoding == "" {
		c.Names.Encoding = DefaultEncoding
	}
	if _, err := FindEncoding(c.Names.Encoding); err != nil {
		return err
	}
	for _, g := range c.Animations.Groups {
		if g.Node == "" || g.Animation == "" {
			return errors.Errorf("Animation group %+v must name node and animation", g)
		}
	}
	return nil
}

// Save writes config as yaml
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return errors.Wrapf(err, "Can't marshal config")
	}
	return errors.Wrapf(os.WriteFile(path, data, 0644), "Can't write config to %q", path)
}
