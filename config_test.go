package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crunch2d/crunch"
)

func TestParseOptionsDefaults(t *testing.T) {
	opts, err := parseOptions("crunch2d", nil)
	require.NoError(t, err)
	assert.Equal(t, "input", opts.InputDir)
	assert.Equal(t, "output", opts.OutputDir)
	assert.Equal(t, crunch.DefaultSize, opts.AtlasMaxWidth)
	assert.Equal(t, crunch.DefaultSize, opts.AtlasMaxHeight)
	assert.True(t, opts.AllowRotate)
	assert.True(t, opts.TrimTransparent)
	assert.True(t, opts.SortFiles)
	assert.False(t, opts.PowerOfTwo)
}

func TestParseOptionsFlags(t *testing.T) {
	opts, err := parseOptions("crunch2d", []string{
		"-input", "sprites", "-output", "atlas",
		"-width", "512", "-height", "256",
		"-padding", "2", "-rotate=false", "-pow-of-two",
	})
	require.NoError(t, err)
	assert.Equal(t, "sprites", opts.InputDir)
	assert.Equal(t, "atlas", opts.OutputDir)
	assert.Equal(t, 512, opts.AtlasMaxWidth)
	assert.Equal(t, 256, opts.AtlasMaxHeight)
	assert.Equal(t, 2, opts.SpritePadding)
	assert.False(t, opts.AllowRotate)
	assert.True(t, opts.PowerOfTwo)
}

func TestParseOptionsConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "crunch.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
input = "art"
output = "dist"
max_width = 1024
padding = 4
rotate = false
`), 0644))

	opts, err := parseOptions("crunch2d", []string{"-config", path})
	require.NoError(t, err)
	assert.Equal(t, "art", opts.InputDir)
	assert.Equal(t, "dist", opts.OutputDir)
	assert.Equal(t, 1024, opts.AtlasMaxWidth)
	assert.Equal(t, 4, opts.SpritePadding)
	assert.False(t, opts.AllowRotate)
	// 配置文件中未出现的键保持默认值
	assert.Equal(t, crunch.DefaultSize, opts.AtlasMaxHeight)
}

// 命令行显式指定的参数优先于配置文件。
func TestParseOptionsFlagOverridesConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "crunch.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
input = "art"
max_width = 1024
`), 0644))

	opts, err := parseOptions("crunch2d", []string{"-config", path, "-width", "333"})
	require.NoError(t, err)
	assert.Equal(t, 333, opts.AtlasMaxWidth)
	assert.Equal(t, "art", opts.InputDir)
}

func TestParseOptionsConfigMissing(t *testing.T) {
	_, err := parseOptions("crunch2d", []string{"-config", "/no/such/file.toml"})
	assert.Error(t, err)
}

func TestOptionsValidate(t *testing.T) {
	opts := defaultOptions()
	assert.NoError(t, opts.validate())

	opts.AtlasMaxWidth = 0
	assert.Error(t, opts.validate())

	opts = defaultOptions()
	opts.SpritePadding = -1
	assert.Error(t, opts.validate())

	// 解包模式不检查打包参数
	opts.UnpackPath = "atlases.json"
	assert.NoError(t, opts.validate())
}
