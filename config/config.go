// Package config handles encoder settings: defaults, yaml file and command
// line overrides.
package config

type GroupMode string

const (
	// GroupAuto groups every top level node animation when the document
	// has skins and no explicit groups were given
	GroupAuto   GroupMode = "auto"
	GroupNever  GroupMode = "never"
	GroupAlways GroupMode = "always"
)

type Config struct {
	Output     OutputConfig     `yaml:"output"`
	Animations AnimationsConfig `yaml:"animations"`
	Textures   TexturesConfig   `yaml:"textures"`
	Names      NamesConfig      `yaml:"names"`
	Logging    LoggingConfig    `yaml:"logging"`
	Server     ServerConfig     `yaml:"server"`
}

type OutputConfig struct {
	// Dir overrides directory of produced files, input directory when empty
	Dir          string `yaml:"dir"`
	Material     bool   `yaml:"material"`
	MaterialPath string `yaml:"material_path"`
	Scene        bool   `yaml:"scene"`
	ScenePath    string `yaml:"scene_path"`
	// Text writes xml debug dump next to the bundle
	Text   bool   `yaml:"text"`
	GLTF   string `yaml:"gltf"`
	Dump   bool   `yaml:"dump"`
	NodeID string `yaml:"node_id"`
}

type AnimationGroup struct {
	Node      string `yaml:"node"`
	Animation string `yaml:"animation"`
}

type AnimationsConfig struct {
	Group    GroupMode        `yaml:"group"`
	Groups   []AnimationGroup `yaml:"groups"`
	Optimize bool             `yaml:"optimize"`
}

type TexturesConfig struct {
	OutputDir    string `yaml:"output_dir"`
	ConvertToPNG bool   `yaml:"convert_to_png"`
}

type NamesConfig struct {
	Encoding string `yaml:"encoding"`
}

type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

type ServerConfig struct {
	Addr string `yaml:"addr"`
}

func Default() *Config {
	return &Config{
		Animations: AnimationsConfig{
			Group: GroupNever,
		},
		Textures: TexturesConfig{
			ConvertToPNG: true,
		},
		Names: NamesConfig{
			Encoding: DefaultEncoding,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}
