package main

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/disintegration/imaging"
	"github.com/maruel/natural"

	"crunch2d/crunch"
)

// sprite 记录一张输入图片在打包前的全部信息。
type sprite struct {
	path     string          // 图片路径
	size     crunch.Size     // 参与打包的尺寸（裁切后）
	srcRect  image.Rectangle // 原图中保留下来的区域（未裁切时为整个边界）
	origSize crunch.Size     // 原图尺寸
}

// Parallel 把 [start, end) 区间内的下标分批交给多个 goroutine 处理。
// 任务数少于CPU核心数时直接顺序执行。
func Parallel(start, end int, fn func(i int)) {
	numGoroutines := runtime.NumCPU()
	if end-start < numGoroutines {
		for i := start; i < end; i++ {
			fn(i)
		}
		return
	}
	var wg sync.WaitGroup
	batchSize := (end - start) / numGoroutines
	if batchSize < 1 {
		batchSize = 1
	}
	for i := start; i < end; i += batchSize {
		wg.Add(1)
		go func(from, to int) {
			defer wg.Done()
			for j := from; j < to && j < end; j++ {
				fn(j)
			}
		}(i, i+batchSize)
	}
	wg.Wait()
}

// GetImageBBox 检测图像的透明边缘，返回非透明区域的边界。
// alpha 通道大于 alphaThreshold 的像素被视为不透明。
// 图像完全透明时返回整个边界。
func GetImageBBox(img image.Image, alphaThreshold uint32) image.Rectangle {
	bounds := img.Bounds()
	if bounds.Empty() {
		return image.Rectangle{}
	}
	minX, minY := bounds.Max.X, bounds.Max.Y
	maxX, maxY := bounds.Min.X, bounds.Min.Y
	found := false
	visit := func(x, y int, opaque bool) {
		if !opaque {
			return
		}
		found = true
		if x < minX {
			minX = x
		}
		if y < minY {
			minY = y
		}
		if x > maxX {
			maxX = x
		}
		if y > maxY {
			maxY = y
		}
	}
	switch src := img.(type) {
	case *image.RGBA:
		// 直接访问alpha通道，避免逐像素的接口调用
		for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
			i := src.PixOffset(bounds.Min.X, y)
			for x := bounds.Min.X; x < bounds.Max.X; x++ {
				visit(x, y, uint32(src.Pix[i+3]) > alphaThreshold)
				i += 4
			}
		}
	case *image.NRGBA:
		for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
			i := src.PixOffset(bounds.Min.X, y)
			for x := bounds.Min.X; x < bounds.Max.X; x++ {
				visit(x, y, uint32(src.Pix[i+3]) > alphaThreshold)
				i += 4
			}
		}
	default:
		// 通用路径，RGBA() 返回16bit值，转换为8bit再比较
		for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
			for x := bounds.Min.X; x < bounds.Max.X; x++ {
				_, _, _, a := img.At(x, y).RGBA()
				visit(x, y, a>>8 > alphaThreshold)
			}
		}
	}
	if !found {
		return bounds
	}
	return image.Rect(minX, minY, maxX+1, maxY+1)
}

// readSprites 读取输入目录中的所有PNG图片并返回它们的打包信息。
// 开启裁切时完整解码每张图片并计算透明边界，
// 否则只解码图片头部以获取尺寸。
func readSprites(logger *log.Logger, opts *Options) ([]sprite, error) {
	if _, err := os.Stat(opts.InputDir); os.IsNotExist(err) {
		return nil, fmt.Errorf("输入目录 %s 不存在", opts.InputDir)
	}
	paths, err := filepath.Glob(filepath.Join(opts.InputDir, "*.png"))
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("输入目录 %s 中没有找到任何PNG图片", opts.InputDir)
	}
	if opts.SortFiles {
		sort.Sort(natural.StringSlice(paths))
	}
	logger.Info("找到图片文件", "count", len(paths))
	if opts.TrimTransparent {
		logger.Debug("透明边缘裁切已开启", "threshold", opts.AlphaThreshold)
	}

	sprites := make([]sprite, len(paths))
	errs := make([]error, len(paths))
	Parallel(0, len(paths), func(i int) {
		sprites[i], errs[i] = readSprite(paths[i], opts)
	})
	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return sprites, nil
}

// readSprite 读取单张图片的打包信息。
func readSprite(path string, opts *Options) (sprite, error) {
	file, err := os.Open(path)
	if err != nil {
		return sprite{}, err
	}
	if opts.TrimTransparent {
		// 完整解码以分析透明区域
		src, err := imaging.Decode(file)
		file.Close()
		if err != nil {
			return sprite{}, fmt.Errorf("无法解码图片 %s: %w", path, err)
		}
		bounds := src.Bounds()
		trimRect := GetImageBBox(src, uint32(opts.AlphaThreshold))
		return sprite{
			path:     path,
			size:     crunch.NewSize(trimRect.Dx(), trimRect.Dy()),
			srcRect:  trimRect,
			origSize: crunch.NewSize(bounds.Dx(), bounds.Dy()),
		}, nil
	}
	// 只解码图片头部
	cfg, _, err := image.DecodeConfig(file)
	file.Close()
	if err != nil {
		return sprite{}, fmt.Errorf("无法解码图片 %s: %w", path, err)
	}
	return sprite{
		path:     path,
		size:     crunch.NewSize(cfg.Width, cfg.Height),
		srcRect:  image.Rect(0, 0, cfg.Width, cfg.Height),
		origSize: crunch.NewSize(cfg.Width, cfg.Height),
	}, nil
}

// nextPowerOfTwo 返回不小于 n 的最小2的幂。
func nextPowerOfTwo(n int) int {
	if n <= 1 {
		return 1
	}
	return int(math.Pow(2, math.Ceil(math.Log2(float64(n)))))
}

// boundingSize 返回覆盖所有放置矩形所需的最小尺寸。
func boundingSize(placed []crunch.PackedItem[int]) crunch.Size {
	var size crunch.Size
	for i := range placed {
		size.Width = max(size.Width, placed[i].Rect.Right())
		size.Height = max(size.Height, placed[i].Rect.Bottom())
	}
	return size
}

// composeAtlas 把一页打包结果绘制成图集图像，并生成每个精灵的元数据。
// 旋转放置的精灵先整体旋转再裁出保留区域，
// 打包时加在尺寸上的空隙在此处从区域中去除。
func composeAtlas(page *atlasPage, sprites []sprite, padding int) (*image.NRGBA, map[string]SpriteInfo, error) {
	dst := imaging.New(page.size.Width, page.size.Height, color.NRGBA{})
	mapping := make(map[string]SpriteInfo, len(page.placed))

	var mu sync.Mutex
	errs := make([]error, len(page.placed))
	Parallel(0, len(page.placed), func(i int) {
		placed := page.placed[i]
		spr := sprites[placed.Data]

		file, err := os.Open(spr.path)
		if err != nil {
			errs[i] = err
			return
		}
		src, err := imaging.Decode(file)
		file.Close()
		if err != nil {
			errs[i] = fmt.Errorf("%s: %w", spr.path, err)
			return
		}

		srcRect := spr.srcRect
		if placed.Rect.Rotated {
			// 顺时针旋转90度后，保留区域的坐标跟着变换
			src = imaging.Rotate270(src)
			origHeight := spr.origSize.Height
			srcRect = image.Rect(
				origHeight-spr.srcRect.Min.Y-spr.srcRect.Dy(),
				spr.srcRect.Min.X,
				origHeight-spr.srcRect.Min.Y,
				spr.srcRect.Min.X+spr.srcRect.Dx(),
			)
		}

		// 去掉打包时附加的空隙，得到精灵的实际区域
		region := placed.Rect
		region.Width -= padding
		region.Height -= padding

		info := SpriteInfo{
			Filename: filepath.Base(spr.path),
			Rotated:  placed.Rect.Rotated,
		}
		info.Region.X = region.X
		info.Region.Y = region.Y
		info.Region.W = region.Width
		info.Region.H = region.Height
		info.SourceSize.W = spr.origSize.Width
		info.SourceSize.H = spr.origSize.Height
		// SourceRect 始终记录原图（未旋转）坐标系中的保留区域
		info.SourceRect.X = spr.srcRect.Min.X
		info.SourceRect.Y = spr.srcRect.Min.Y
		info.SourceRect.W = spr.srcRect.Dx()
		info.SourceRect.H = spr.srcRect.Dy()
		info.Trimmed = spr.srcRect.Min.X > 0 || spr.srcRect.Min.Y > 0 ||
			spr.srcRect.Dx() < spr.origSize.Width || spr.srcRect.Dy() < spr.origSize.Height

		dstRect := image.Rect(region.X, region.Y, region.X+region.Width, region.Y+region.Height)
		mu.Lock()
		draw.Draw(dst, dstRect, src, srcRect.Min, draw.Src)
		mapping[spr.path] = info
		mu.Unlock()
	})

	for _, err := range errs {
		if err != nil {
			return nil, nil, err
		}
	}
	return dst, mapping, nil
}
