package config

import (
	"flag"
	"strings"

	"github.com/pkg/errors"
)

type Flags struct {
	ConfigPath string
	Debug      bool
	Material   bool
	Scene      bool
	Text       bool
	Optimize   bool
	Dump       bool
	GLTF       string
	TextureDir string
	NodeID     string
	Serve      string
	Encoding   string
	LogFile    string

	groups groupFlag
}

// groupFlag collects repeated -g values: "auto", "never" or "node:animation"
type groupFlag struct {
	mode   GroupMode
	groups []AnimationGroup
}

func (g *groupFlag) String() string {
	parts := make([]string, 0, len(g.groups))
	for _, gr := range g.groups {
		parts = append(parts, gr.Node+":"+gr.Animation)
	}
	if g.mode != "" {
		parts = append(parts, string(g.mode))
	}
	return strings.Join(parts, ",")
}

func (g *groupFlag) Set(v string) error {
	switch GroupMode(v) {
	case GroupAuto, GroupNever, GroupAlways:
		g.mode = GroupMode(v)
		return nil
	}
	node, anim, ok := strings.Cut(v, ":")
	if !ok || node == "" || anim == "" {
		return errors.Errorf("Invalid animation group %q, expected node:animation", v)
	}
	g.groups = append(g.groups, AnimationGroup{Node: node, Animation: anim})
	return nil
}

func NewFlags(fs *flag.FlagSet) *Flags {
	f := &Flags{}
	fs.StringVar(&f.ConfigPath, "config", "", "Path to yaml config file")
	fs.BoolVar(&f.Debug, "debug", false, "Enable debug logging")
	fs.BoolVar(&f.Material, "m", false, "Write material and scene descriptor files")
	fs.BoolVar(&f.Scene, "s", false, "Write scene descriptor file")
	fs.BoolVar(&f.Text, "t", false, "Write xml debug dump")
	fs.BoolVar(&f.Optimize, "oa", false, "Optimize animation channels")
	fs.BoolVar(&f.Dump, "dump", false, "Write deep dump of encoded graph next to bundle")
	fs.StringVar(&f.GLTF, "gltf", "", "Also export scene as gltf (.gltf or .glb)")
	fs.StringVar(&f.TextureDir, "tex", "", "Directory to copy textures into")
	fs.StringVar(&f.NodeID, "i", "", "Node id to restrict debug dump to")
	fs.StringVar(&f.Serve, "serve", "", "Address of preview server")
	fs.StringVar(&f.Encoding, "encoding", "", "Charmap used to decode legacy names")
	fs.StringVar(&f.LogFile, "log", "", "Log file path")
	fs.Var(&f.groups, "g", "Animation grouping: auto, never, always or node:animation (repeatable)")
	return f
}

// apply overrides config values with flags set on command line
func (f *Flags) apply(cfg *Config) {
	if f.Debug {
		cfg.Logging.Level = "debug"
	}
	if f.LogFile != "" {
		cfg.Logging.LogFile = f.LogFile
	}
	if f.Material {
		cfg.Output.Material = true
		cfg.Output.Scene = true
	}
	if f.Scene {
		cfg.Output.Scene = true
	}
	if f.Text {
		cfg.Output.Text = true
	}
	if f.Optimize {
		cfg.Animations.Optimize = true
	}
	if f.Dump {
		cfg.Output.Dump = true
	}
	if f.GLTF != "" {
		cfg.Output.GLTF = f.GLTF
	}
	if f.TextureDir != "" {
		cfg.Textures.OutputDir = f.TextureDir
	}
	if f.NodeID != "" {
		cfg.Output.NodeID = f.NodeID
	}
	if f.Serve != "" {
		cfg.Server.Addr = f.Serve
	}
	if f.Encoding != "" {
		cfg.Names.Encoding = f.Encoding
	}
	if f.groups.mode != "" {
		cfg.Animations.Group = f.groups.mode
	}
	if len(f.groups.groups) != 0 {
		cfg.Animations.Groups = append(cfg.Animations.Groups, f.groups.groups...)
	}
}
