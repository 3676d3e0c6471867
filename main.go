package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/disintegration/imaging"

	"crunch2d/crunch"
)

const VERSION = "0.2.0"

// newLogger 创建输出到 w 的日志记录器，verbose 时输出调试级别。
func newLogger(w io.Writer, verbose bool) *log.Logger {
	level := log.InfoLevel
	if verbose {
		level = log.DebugLevel
	}
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

func main() {
	opts, err := parseOptions(filepath.Base(os.Args[0]), os.Args[1:])
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	logger := newLogger(os.Stderr, opts.Verbose)

	if opts.UnpackPath != "" {
		if err := unpack(logger, &opts); err != nil {
			logger.Fatal("解包失败", "err", err)
		}
		return
	}
	if err := run(logger, &opts); err != nil {
		logger.Fatal("打包失败", "err", err)
	}
}

// run 执行完整的打包流程：读取精灵、打包、绘制图集、写出元数据。
func run(logger *log.Logger, opts *Options) error {
	total := time.Now()

	start := time.Now()
	sprites, err := readSprites(logger, opts)
	if err != nil {
		return err
	}
	logger.Debug("图片预处理完成", "count", len(sprites), "duration", time.Since(start))

	// 每个条目携带精灵的下标作为用户数据，
	// 空隙直接加在参与打包的尺寸上，绘制时再去除
	rot := crunch.RotationNone
	if opts.AllowRotate {
		rot = crunch.RotationAllowed
	}
	items := make([]crunch.Item[int], len(sprites))
	for i := range sprites {
		items[i] = crunch.NewItem(i,
			sprites[i].size.Width+opts.SpritePadding,
			sprites[i].size.Height+opts.SpritePadding, rot)
	}

	start = time.Now()
	pages, unpackable := packPages(logger, opts, items)
	logger.Debug("打包算法完成", "pages", len(pages), "duration", time.Since(start))
	if len(unpackable) > 0 {
		for _, item := range unpackable {
			logger.Warn("精灵无法放入图集",
				"file", filepath.Base(sprites[item.Data].path),
				"size", fmt.Sprintf("%dx%d", item.Width, item.Height))
		}
	}
	if len(pages) == 0 {
		return fmt.Errorf("没有任何精灵能放入 %dx%d 的图集", opts.AtlasMaxWidth, opts.AtlasMaxHeight)
	}

	if err := os.MkdirAll(opts.OutputDir, 0755); err != nil {
		return fmt.Errorf("创建输出目录失败: %w", err)
	}

	imagePaths := make([]string, 0, len(pages))
	mappings := make([]map[string]SpriteInfo, 0, len(pages))
	for i, page := range pages {
		start = time.Now()
		img, mapping, err := composeAtlas(page, sprites, opts.SpritePadding)
		if err != nil {
			return fmt.Errorf("生成图集 #%d 失败: %w", i, err)
		}

		name := "atlas.png"
		if len(pages) > 1 {
			name = fmt.Sprintf("atlas_%d.png", i)
		}
		outPath := filepath.Join(opts.OutputDir, name)
		file, err := os.Create(outPath)
		if err != nil {
			return err
		}
		err = imaging.Encode(file, img, imaging.PNG)
		file.Close()
		if err != nil {
			return fmt.Errorf("写出图集 %s 失败: %w", outPath, err)
		}
		imagePaths = append(imagePaths, outPath)
		mappings = append(mappings, mapping)
		logger.Debug("图集页已写出", "file", outPath,
			"size", page.size.String(), "sprites", len(mapping), "duration", time.Since(start))
	}

	descriptorPath := filepath.Join(opts.OutputDir, "atlases.json")
	if err := writeAtlasDescriptor(descriptorPath, mappings, imagePaths); err != nil {
		return fmt.Errorf("生成JSON元数据失败: %w", err)
	}

	logger.Info("打包完成",
		"pages", len(pages),
		"packed", len(sprites)-len(unpackable),
		"unpacked", len(unpackable),
		"meta", descriptorPath,
		"duration", time.Since(total))
	return nil
}

// packPages 反复打包，直到所有条目都放下或无法再取得进展。
// 一页放不下的条目转入下一页；连单独一页都放不下的条目
// 作为第二个返回值交还给调用方。
func packPages(logger *log.Logger, opts *Options, items []crunch.Item[int]) ([]*atlasPage, []crunch.Item[int]) {
	var pages []*atlasPage
	remaining := items
	for len(remaining) > 0 {
		packer := crunch.NewPackerItems(remaining)
		var page atlasPage
		var result crunch.PackResult[int]
		packed := false

		// 2的幂模式优先搜索能完整容纳的最小2的幂容器
		if opts.PowerOfTwo {
			if size, res, ok := packer.PackIntoPO2(min(opts.AtlasMaxWidth, opts.AtlasMaxHeight)); ok {
				page.size, result, packed = size, res, true
			}
		}
		if !packed {
			result = packer.Pack(crunch.RectOfSize(opts.AtlasMaxWidth, opts.AtlasMaxHeight))
			// 图集收缩到实际使用的边界
			page.size = boundingSize(result.Packed)
			if opts.PowerOfTwo {
				page.size.Width = nextPowerOfTwo(page.size.Width)
				page.size.Height = nextPowerOfTwo(page.size.Height)
			}
		}

		if len(result.Packed) == 0 {
			// 剩余条目独占一页也放不下，终止以避免死循环
			return pages, result.Unpacked
		}
		page.placed = result.Packed
		pages = append(pages, &page)

		container := crunch.RectOfSize(page.size.Width, page.size.Height)
		logger.Info("图集页打包完成",
			"page", len(pages)-1,
			"size", page.size.String(),
			"packed", len(result.Packed),
			"remaining", len(result.Unpacked),
			"fill", fmt.Sprintf("%.2f%%", result.FillRatio(container)*100))
		remaining = result.Unpacked
	}
	return pages, nil
}
