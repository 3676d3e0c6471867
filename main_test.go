package main

import (
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeSpritePNG 生成一张测试精灵：透明画布中央放一个纯色块。
func writeSpritePNG(t *testing.T, path string, w, h int, inset int, c color.NRGBA) {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := inset; y < h-inset; y++ {
		for x := inset; x < w-inset; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	file, err := os.Create(path)
	require.NoError(t, err)
	defer file.Close()
	require.NoError(t, png.Encode(file, img))
}

// 完整流程：打包成图集并解包回单张精灵，
// 每张精灵的尺寸和颜色必须原样还原。
func TestPackUnpackRoundTrip(t *testing.T) {
	inputDir := t.TempDir()
	atlasDir := t.TempDir()
	unpackDir := t.TempDir()

	colors := map[string]color.NRGBA{
		"red.png":   {R: 255, A: 255},
		"green.png": {G: 255, A: 255},
		"blue.png":  {B: 255, A: 255},
	}
	writeSpritePNG(t, filepath.Join(inputDir, "red.png"), 32, 20, 4, colors["red.png"])
	writeSpritePNG(t, filepath.Join(inputDir, "green.png"), 20, 32, 4, colors["green.png"])
	writeSpritePNG(t, filepath.Join(inputDir, "blue.png"), 16, 16, 0, colors["blue.png"])

	opts := defaultOptions()
	opts.InputDir = inputDir
	opts.OutputDir = atlasDir
	opts.AtlasMaxWidth = 128
	opts.AtlasMaxHeight = 128
	require.NoError(t, run(discardLogger(), &opts))

	// 图集图像和JSON元数据都应存在
	assert.FileExists(t, filepath.Join(atlasDir, "atlas.png"))
	descriptorPath := filepath.Join(atlasDir, "atlases.json")
	require.FileExists(t, descriptorPath)

	data, err := os.ReadFile(descriptorPath)
	require.NoError(t, err)
	var desc AtlasDescriptor
	require.NoError(t, json.Unmarshal(data, &desc))
	require.Len(t, desc.Atlases, 1)
	require.Len(t, desc.Atlases[0].Sprites, 3)
	assert.Equal(t, VERSION, desc.Meta.Version)

	// 解包还原
	unpackOpts := defaultOptions()
	unpackOpts.UnpackPath = descriptorPath
	unpackOpts.OutputDir = unpackDir
	require.NoError(t, unpack(discardLogger(), &unpackOpts))

	sizes := map[string][2]int{
		"red.png":   {32, 20},
		"green.png": {20, 32},
		"blue.png":  {16, 16},
	}
	for name, want := range sizes {
		path := filepath.Join(unpackDir, name)
		require.FileExists(t, path)
		file, err := os.Open(path)
		require.NoError(t, err)
		img, err := png.Decode(file)
		file.Close()
		require.NoError(t, err)

		assert.Equal(t, want[0], img.Bounds().Dx(), "%s 宽度", name)
		assert.Equal(t, want[1], img.Bounds().Dy(), "%s 高度", name)

		// 中心像素保持原色
		r, g, b, a := img.At(want[0]/2, want[1]/2).RGBA()
		c := colors[name]
		assert.Equal(t, uint32(c.R), r>>8, "%s", name)
		assert.Equal(t, uint32(c.G), g>>8, "%s", name)
		assert.Equal(t, uint32(c.B), b>>8, "%s", name)
		assert.Equal(t, uint32(c.A), a>>8, "%s", name)
	}
}

// 图集中的精灵区域两两不重叠。
func TestRunProducesDisjointRegions(t *testing.T) {
	inputDir := t.TempDir()
	outDir := t.TempDir()
	for i, name := range []string{"a.png", "b.png", "c.png", "d.png"} {
		writeSpritePNG(t, filepath.Join(inputDir, name), 10+i*6, 14+i*3, 0, color.NRGBA{R: uint8(40 * (i + 1)), A: 255})
	}

	opts := defaultOptions()
	opts.InputDir = inputDir
	opts.OutputDir = outDir
	opts.TrimTransparent = false
	opts.SpritePadding = 2
	require.NoError(t, run(discardLogger(), &opts))

	data, err := os.ReadFile(filepath.Join(outDir, "atlases.json"))
	require.NoError(t, err)
	var desc AtlasDescriptor
	require.NoError(t, json.Unmarshal(data, &desc))
	require.Len(t, desc.Atlases, 1)

	var regions []image.Rectangle
	for _, info := range desc.Atlases[0].Sprites {
		regions = append(regions, image.Rect(info.Region.X, info.Region.Y,
			info.Region.X+info.Region.W, info.Region.Y+info.Region.H))
	}
	require.Len(t, regions, 4)
	for i := range regions {
		for j := i + 1; j < len(regions); j++ {
			assert.False(t, regions[i].Overlaps(regions[j]),
				"%v 与 %v 重叠", regions[i], regions[j])
		}
	}
}

// 输入目录不存在或为空时返回明确的错误。
func TestRunMissingInput(t *testing.T) {
	opts := defaultOptions()
	opts.InputDir = filepath.Join(t.TempDir(), "does-not-exist")
	opts.OutputDir = t.TempDir()
	assert.Error(t, run(discardLogger(), &opts))

	opts.InputDir = t.TempDir() // 存在但没有图片
	assert.Error(t, run(discardLogger(), &opts))
}
