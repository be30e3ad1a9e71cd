package config

import (
	"flag"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, GroupNever, cfg.Animations.Group)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.True(t, cfg.Textures.ConvertToPNG)
	assert.False(t, cfg.Output.Material)
}

func TestLoadPriority(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "enc.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
output:
  text: true
  gltf: out.glb
animations:
  group: auto
  groups:
    - node: Hips
      animation: walk
logging:
  level: warn
`), 0644))

	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	flags := NewFlags(fs)
	require.NoError(t, fs.Parse([]string{"-config", path, "-debug", "-g", "Root:idle", "-m"}))

	cfg, err := Load(flags)
	require.NoError(t, err)

	assert.True(t, cfg.Output.Text)
	assert.Equal(t, "out.glb", cfg.Output.GLTF)
	assert.Equal(t, GroupAuto, cfg.Animations.Group)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.True(t, cfg.Output.Material)
	assert.True(t, cfg.Output.Scene)
	assert.Equal(t, []AnimationGroup{{"Hips", "walk"}, {"Root", "idle"}}, cfg.Animations.Groups)
}

func TestGroupFlag(t *testing.T) {
	var g groupFlag
	assert.NoError(t, g.Set("auto"))
	assert.NoError(t, g.Set("a:b"))
	assert.Error(t, g.Set("nocolon"))
	assert.Error(t, g.Set(":b"))
	assert.Equal(t, GroupAuto, g.mode)
	assert.Equal(t, "a:b,auto", g.String())
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.Animations.Group = "sometimes"
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.Animations.Groups = []AnimationGroup{{Node: "a"}}
	assert.Error(t, cfg.Validate())
}

func TestNamesCharmap(t *testing.T) {
	cm, err := FindEncoding("Windows 1251")
	require.NoError(t, err)
	assert.Equal(t, "Windows 1251", cm.String())
	_, err = FindEncoding("klingon")
	assert.Error(t, err)
	assert.Contains(t, ListEncodings(), "ISO 8859-1")

	cfg := Default()
	assert.Equal(t, "Windows 1252", cfg.Names.Charmap().String())
	cfg.Names.Encoding = "Windows 1251"
	assert.Equal(t, "Windows 1251", cfg.Names.Charmap().String())
	cfg.Names.Encoding = "klingon"
	assert.Equal(t, "Windows 1252", cfg.Names.Charmap().String())
	assert.Error(t, cfg.Validate())

	cfg.Names.Encoding = ""
	assert.NoError(t, cfg.Validate())
	assert.Equal(t, DefaultEncoding, cfg.Names.Encoding)
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "c.yaml")
	cfg := Default()
	cfg.Server.Addr = ":9000"
	require.NoError(t, cfg.Save(path))

	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	flags := NewFlags(fs)
	require.NoError(t, fs.Parse([]string{"-config", path}))
	loaded, err := Load(flags)
	require.NoError(t, err)
	assert.Equal(t, ":9000", loaded.Server.Addr)
}
