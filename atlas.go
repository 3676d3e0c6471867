package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"crunch2d/crunch"
)

// atlasPage 是一页图集的打包结果。
type atlasPage struct {
	size   crunch.Size
	placed []crunch.PackedItem[int]
}

// xywh 是元数据中的矩形区域。
type xywh struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

// wh 是元数据中的尺寸。
type wh struct {
	W int `json:"w"`
	H int `json:"h"`
}

// SpriteInfo 存储单个精灵在图集中的信息。
type SpriteInfo struct {
	// Filename 是精灵的文件名。
	Filename string `json:"filename"`
	// Region 是精灵在图集中占据的区域（旋转后的尺寸）。
	Region xywh `json:"region"`
	// SourceSize 是原图的尺寸。
	SourceSize wh `json:"sourceSize"`
	// SourceRect 是原图坐标系中被保留的区域（裁切透明边缘后）。
	SourceRect xywh `json:"sourceRect"`
	// Trimmed 指示精灵是否被裁切过透明边缘。
	Trimmed bool `json:"trimmed"`
	// Rotated 指示精灵是否被旋转90度放置。
	Rotated bool `json:"rotated"`
}

// AtlasInfo 存储一页图集的信息。
type AtlasInfo struct {
	// Name 是图集图像的文件名。
	Name string `json:"atlasName"`
	// Sprites 按文件名索引本页的全部精灵。
	Sprites map[string]SpriteInfo `json:"spriteList"`
	// Size 是图集图像的尺寸。
	Size wh `json:"totalSize"`
}

// AtlasDescriptor 是输出的 atlases.json 的完整结构，
// 可以包含多页图集。
type AtlasDescriptor struct {
	Meta struct {
		Version   string `json:"version"`
		Timestamp string `json:"timestamp"`
	} `json:"meta"`
	Atlases []AtlasInfo `json:"atlases"`
}

// newAtlasDescriptor 由每页的精灵映射和图像路径组装元数据。
func newAtlasDescriptor(mappings []map[string]SpriteInfo, imagePaths []string) AtlasDescriptor {
	var desc AtlasDescriptor
	desc.Meta.Version = VERSION
	desc.Meta.Timestamp = time.Now().Format("2006-01-02 15:04:05")
	desc.Atlases = make([]AtlasInfo, len(mappings))

	for i, mapping := range mappings {
		atlas := &desc.Atlases[i]
		atlas.Name = filepath.Base(imagePaths[i])
		atlas.Sprites = make(map[string]SpriteInfo, len(mapping))

		// 图集尺寸取所有区域的边界
		for _, info := range mapping {
			atlas.Size.W = max(atlas.Size.W, info.Region.X+info.Region.W)
			atlas.Size.H = max(atlas.Size.H, info.Region.Y+info.Region.H)
			atlas.Sprites[info.Filename] = info
		}
	}
	return desc
}

// writeAtlasDescriptor 把元数据编码为JSON并写入 path。
func writeAtlasDescriptor(path string, mappings []map[string]SpriteInfo, imagePaths []string) error {
	desc := newAtlasDescriptor(mappings, imagePaths)
	data, err := json.MarshalIndent(desc, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
