package main

import (
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/disintegration/imaging"
)

// unpack 把图集还原为单独的精灵图片。
// 依次反向执行打包流程：按区域裁剪、旋转回原方向、
// 把裁切过透明边缘的精灵放回原尺寸的画布。
func unpack(logger *log.Logger, opts *Options) error {
	start := time.Now()

	data, err := os.ReadFile(opts.UnpackPath)
	if err != nil {
		return fmt.Errorf("读取图集JSON文件失败: %w", err)
	}
	var desc AtlasDescriptor
	if err := json.Unmarshal(data, &desc); err != nil {
		return fmt.Errorf("解析JSON失败: %w", err)
	}

	if err := os.MkdirAll(opts.OutputDir, 0755); err != nil {
		return fmt.Errorf("创建输出目录失败: %w", err)
	}

	count := 0
	atlasDir := filepath.Dir(opts.UnpackPath)
	for _, atlas := range desc.Atlases {
		atlasImg, err := imaging.Open(filepath.Join(atlasDir, atlas.Name))
		if err != nil {
			return fmt.Errorf("打开图集图片 %s 失败: %w", atlas.Name, err)
		}

		for name, info := range atlas.Sprites {
			sub := imaging.Crop(atlasImg, image.Rect(
				info.Region.X, info.Region.Y,
				info.Region.X+info.Region.W, info.Region.Y+info.Region.H))

			// 打包时顺时针旋转过的精灵逆时针转回来
			if info.Rotated {
				sub = imaging.Rotate90(sub)
			}

			// 裁切过的精灵放回原尺寸画布的保留区域
			if info.Trimmed {
				canvas := image.NewNRGBA(image.Rect(0, 0, info.SourceSize.W, info.SourceSize.H))
				draw.Draw(canvas, canvas.Bounds(), image.NewUniform(color.NRGBA{}), image.Point{}, draw.Src)
				draw.Draw(canvas, image.Rect(
					info.SourceRect.X, info.SourceRect.Y,
					info.SourceRect.X+info.SourceRect.W, info.SourceRect.Y+info.SourceRect.H),
					sub, image.Point{}, draw.Src)
				sub = canvas
			}

			outPath := filepath.Join(opts.OutputDir, name)
			if err := os.MkdirAll(filepath.Dir(outPath), 0755); err != nil {
				return fmt.Errorf("创建输出子目录失败: %w", err)
			}
			if err := imaging.Save(sub, outPath); err != nil {
				return fmt.Errorf("保存精灵 %s 失败: %w", name, err)
			}
			count++
		}
	}

	logger.Info("图集解包完成", "sprites", count, "output", opts.OutputDir, "duration", time.Since(start))
	return nil
}
