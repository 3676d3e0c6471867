package main

import (
	"flag"
	"fmt"

	"github.com/BurntSushi/toml"

	"crunch2d/crunch"
)

// Options 汇总了命令行和配置文件中的全部选项。
// TOML 配置文件中的键与 toml 标签一致。
type Options struct {
	InputDir        string `toml:"input"`       // 输入目录
	OutputDir       string `toml:"output"`      // 输出目录
	AtlasMaxWidth   int    `toml:"max_width"`   // 图集最大宽度
	AtlasMaxHeight  int    `toml:"max_height"`  // 图集最大高度
	SpritePadding   int    `toml:"padding"`     // 精灵间的空隙
	AllowRotate     bool   `toml:"rotate"`      // 是否允许旋转
	TrimTransparent bool   `toml:"trim"`        // 是否裁切透明边缘
	AlphaThreshold  uint   `toml:"threshold"`   // 透明度阈值
	SortFiles       bool   `toml:"sort"`        // 是否按文件名自然排序
	PowerOfTwo      bool   `toml:"pow_of_two"`  // 是否使用2的幂尺寸
	UnpackPath      string `toml:"-"`           // 解包模式：图集JSON路径
	Verbose         bool   `toml:"-"`           // 是否输出调试日志
}

// defaultOptions 返回所有选项的默认值。
func defaultOptions() Options {
	return Options{
		InputDir:        "input",
		OutputDir:       "output",
		AtlasMaxWidth:   crunch.DefaultSize,
		AtlasMaxHeight:  crunch.DefaultSize,
		SpritePadding:   0,
		AllowRotate:     true,
		TrimTransparent: true,
		AlphaThreshold:  0,
		SortFiles:       true,
		PowerOfTwo:      false,
	}
}

// parseOptions 解析命令行参数。
// -config 指定的 TOML 配置文件先于命令行生效：
// 配置文件覆盖默认值，显式传入的命令行参数覆盖配置文件。
func parseOptions(name string, args []string) (Options, error) {
	opts := defaultOptions()

	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	configPath := fs.String("config", "", "TOML 配置文件路径")
	fs.StringVar(&opts.InputDir, "input", opts.InputDir, "输入目录")
	fs.StringVar(&opts.OutputDir, "output", opts.OutputDir, "输出目录")
	fs.IntVar(&opts.AtlasMaxWidth, "width", opts.AtlasMaxWidth, "打包区域最大宽度")
	fs.IntVar(&opts.AtlasMaxHeight, "height", opts.AtlasMaxHeight, "打包区域最大高度")
	fs.IntVar(&opts.SpritePadding, "padding", opts.SpritePadding, "精灵间的空隙")
	fs.BoolVar(&opts.AllowRotate, "rotate", opts.AllowRotate, "允许矩形旋转")
	fs.BoolVar(&opts.TrimTransparent, "trim", opts.TrimTransparent, "裁切透明边缘")
	fs.UintVar(&opts.AlphaThreshold, "threshold", opts.AlphaThreshold, "透明度阈值")
	fs.BoolVar(&opts.SortFiles, "sort", opts.SortFiles, "按文件名自然排序")
	fs.BoolVar(&opts.PowerOfTwo, "pow-of-two", opts.PowerOfTwo, "使用2的幂图集尺寸")
	fs.StringVar(&opts.UnpackPath, "unpack", opts.UnpackPath, "解包模式：图集JSON路径")
	fs.BoolVar(&opts.Verbose, "v", opts.Verbose, "输出调试日志")
	if err := fs.Parse(args); err != nil {
		return opts, err
	}

	if *configPath != "" {
		fileOpts := defaultOptions()
		if _, err := toml.DecodeFile(*configPath, &fileOpts); err != nil {
			return opts, fmt.Errorf("加载配置文件 %s 失败: %w", *configPath, err)
		}
		// 只有未在命令行显式指定的选项才采用配置文件的值
		set := make(map[string]bool)
		fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
		applyFileOptions(&opts, &fileOpts, set)
	}

	if err := opts.validate(); err != nil {
		return opts, err
	}
	return opts, nil
}

// applyFileOptions 把配置文件中的值应用到 opts 上，
// set 中记录的（命令行显式指定的）选项保持不变。
func applyFileOptions(opts, fileOpts *Options, set map[string]bool) {
	if !set["input"] {
		opts.InputDir = fileOpts.InputDir
	}
	if !set["output"] {
		opts.OutputDir = fileOpts.OutputDir
	}
	if !set["width"] {
		opts.AtlasMaxWidth = fileOpts.AtlasMaxWidth
	}
	if !set["height"] {
		opts.AtlasMaxHeight = fileOpts.AtlasMaxHeight
	}
	if !set["padding"] {
		opts.SpritePadding = fileOpts.SpritePadding
	}
	if !set["rotate"] {
		opts.AllowRotate = fileOpts.AllowRotate
	}
	if !set["trim"] {
		opts.TrimTransparent = fileOpts.TrimTransparent
	}
	if !set["threshold"] {
		opts.AlphaThreshold = fileOpts.AlphaThreshold
	}
	if !set["sort"] {
		opts.SortFiles = fileOpts.SortFiles
	}
	if !set["pow-of-two"] {
		opts.PowerOfTwo = fileOpts.PowerOfTwo
	}
}

// validate 检查选项组合是否可用。
func (o *Options) validate() error {
	if o.UnpackPath != "" {
		return nil
	}
	if o.AtlasMaxWidth <= 0 || o.AtlasMaxHeight <= 0 {
		return fmt.Errorf("打包区域尺寸必须大于0 (得到 %dx%d)", o.AtlasMaxWidth, o.AtlasMaxHeight)
	}
	if o.SpritePadding < 0 {
		return fmt.Errorf("精灵空隙不能为负数 (得到 %d)", o.SpritePadding)
	}
	return nil
}
