package regexhl

import (
	"fmt"
	"image/color"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/riverfjs/regexhl-go/internal/match"
	"github.com/riverfjs/regexhl-go/internal/render"
)

// RenderConfig 渲染与匹配配置，可从 TOML 文件加载
type RenderConfig struct {
	// Engine 默认正则引擎："re2" 或 "regexp2"
	Engine string `toml:"engine"`
	// Limit 每段文本最多收集的 occurrence 数，0 表示不限
	Limit int `toml:"limit"`
	// MatchTimeout 单次匹配超时（仅 regexp2），例如 "2s"
	MatchTimeout time.Duration `toml:"match_timeout"`

	// Hues 色环上的颜色数，组号按此循环
	Hues int `toml:"hues"`
	// Multiline 终端输出保留换行，否则输出 \n 转义
	Multiline bool `toml:"multiline"`

	// PNG 输出
	Columns    int    `toml:"columns"`
	TabWidth   int    `toml:"tab_width"`
	Padding    int    `toml:"padding"`
	Background string `toml:"background"`
	Foreground string `toml:"foreground"`
}

// DefaultRenderConfig returns a fresh default configuration.
func DefaultRenderConfig() *RenderConfig {
	return &RenderConfig{
		Engine:     string(match.EngineRE2),
		Hues:       render.DefaultHues,
		Columns:    80,
		TabWidth:   4,
		Padding:    8,
		Background: "#ffffff",
		Foreground: "#000000",
	}
}

var (
	defaultConfig     *RenderConfig
	defaultConfigOnce sync.Once
)

// DefaultConfig returns the default render configuration (singleton).
func DefaultConfig() *RenderConfig {
	defaultConfigOnce.Do(func() {
		defaultConfig = DefaultRenderConfig()
	})
	return defaultConfig
}

// LoadConfig reads a TOML file over the defaults. Unknown keys are an error.
func LoadConfig(path string) (*RenderConfig, error) {
	cfg := DefaultRenderConfig()
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return nil, fmt.Errorf("load config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("load config %s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("load config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks engine name, numeric ranges and colours.
func (c *RenderConfig) Validate() error {
	switch Engine(c.Engine) {
	case EngineRE2, EngineRegexp2:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownEngine, c.Engine)
	}
	if c.Hues <= 0 {
		return fmt.Errorf("hues must be positive, got %d", c.Hues)
	}
	if c.Limit < 0 || c.Columns < 0 || c.TabWidth < 0 || c.Padding < 0 {
		return fmt.Errorf("limit, columns, tab_width and padding must not be negative")
	}
	if _, err := render.ParseHex(c.Background); err != nil {
		return fmt.Errorf("background: %w", err)
	}
	if _, err := render.ParseHex(c.Foreground); err != nil {
		return fmt.Errorf("foreground: %w", err)
	}
	return nil
}

// Save writes the configuration as TOML.
func (c *RenderConfig) Save(w io.Writer) error {
	return toml.NewEncoder(w).Encode(c)
}

// SaveFile writes the configuration to path.
func (c *RenderConfig) SaveFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return c.Save(f)
}

func (c *RenderConfig) palette() render.Palette {
	return render.Palette{Hues: c.Hues}
}

func (c *RenderConfig) terminal(w io.Writer) *render.Terminal {
	t := render.NewTerminal(w, c.palette())
	t.Multiline = c.Multiline
	return t
}

func (c *RenderConfig) image() *render.Image {
	im := render.NewImage(c.palette())
	if c.Columns > 0 {
		im.Columns = c.Columns
	}
	if c.TabWidth > 0 {
		im.TabWidth = c.TabWidth
	}
	im.Padding = c.Padding
	im.Background = parseColorOr(c.Background, color.White)
	im.Foreground = parseColorOr(c.Foreground, color.Black)
	return im
}

func parseColorOr(s string, fallback color.Color) color.Color {
	c, err := render.ParseHex(s)
	if err != nil {
		Logger.Printf("invalid colour %q, using default: %v", s, err)
		return fallback
	}
	return c
}
