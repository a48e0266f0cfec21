package config

import (
	"fmt"
	"log"
	"math"
	"os"
	"time"

	"github.com/lucasb-eyer/go-colorful"
	"gopkg.in/yaml.v3"

	"github.com/gonewx/curvefield/pkg/curve"
	"github.com/gonewx/curvefield/pkg/embedded"
	"github.com/gonewx/curvefield/pkg/field"
)

// DefaultFieldConfigPath 内嵌默认配置的路径
const DefaultFieldConfigPath = "data/field.yaml"

// FieldConfig 粒子场配置
// 对应 data/field.yaml，缺省字段取 DefaultFieldConfig 中的值
type FieldConfig struct {
	ParticleCount        int      `yaml:"particleCount"`        // 点的数量，默认 30000
	Seed                 uint64   `yaml:"seed"`                 // 随机种子，0 表示使用当前时间
	Shapes               []string `yaml:"shapes"`               // 曲线循环顺序，默认全部 8 种
	ShapeIntervalSeconds float64  `yaml:"shapeIntervalSeconds"` // 曲线切换间隔（秒），默认 5
	ProgressStep         float64  `yaml:"progressStep"`         // 每帧过渡进度增量，默认 0.005
	Damping              float64  `yaml:"damping"`              // 每帧缓动比例，默认 0.02
	CurveScale           float64  `yaml:"curveScale"`           // 曲线缩放系数，默认 12
	Workers              int      `yaml:"workers"`              // 并行更新分块数，默认 1
	SpawnExtent          float64  `yaml:"spawnExtent"`          // 初始散布立方体边长，默认 40

	FallSpeed RangeConfig  `yaml:"fallSpeed"` // 下落速度范围，默认 [0.01, 0.03)
	PointSize RangeConfig  `yaml:"pointSize"` // 点尺寸范围，默认 [0.02, 0.07)
	Colors    ColorsConfig `yaml:"colors"`
	Camera    CameraConfig `yaml:"camera"`
	Render    RenderConfig `yaml:"render"`
}

// RangeConfig 数值范围
type RangeConfig struct {
	Min float64 `yaml:"min"`
	Max float64 `yaml:"max"`
}

// ColorsConfig 两个参考色（十六进制，如 "#4789eb"）
type ColorsConfig struct {
	From string `yaml:"from"`
	To   string `yaml:"to"`
}

// CameraConfig 透视镜头
type CameraConfig struct {
	Distance   float64 `yaml:"distance"`   // 镜头到原点的距离，默认 20
	FovDegrees float64 `yaml:"fovDegrees"` // 垂直视场角，默认 60
	OrbitSpeed float64 `yaml:"orbitSpeed"` // 自动环绕速度（OrbitControls autoRotateSpeed 语义），默认 0.5
}

// RenderConfig 点精灵渲染参数
type RenderConfig struct {
	PointScale float64 `yaml:"pointScale"` // 点尺寸乘数，默认 0.6
	Opacity    float64 `yaml:"opacity"`    // 不透明度，默认 0.8
	Background string  `yaml:"background"` // 背景色，默认 "#050505"
	Additive   *bool   `yaml:"additive"`   // 是否加法混合，默认 true
}

// LoadFieldConfig 从 YAML 文件加载粒子场配置
//
// 返回：
//   - *FieldConfig: 补齐默认值并通过校验的配置
//   - error: 文件读取、解析或校验失败
func LoadFieldConfig(path string) (*FieldConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read field config file %s: %w", path, err)
	}
	return ParseFieldConfig(data, path)
}

// ParseFieldConfig 解析 YAML 数据，source 仅用于错误信息
//
// YAML 解码到已填好默认值的配置上，文件中出现的键（包括显式的 0）覆盖默认值。
func ParseFieldConfig(data []byte, source string) (*FieldConfig, error) {
	cfg := DefaultFieldConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse field config YAML from %s: %w", source, err)
	}

	// additive: null 视为未设置
	if cfg.Render.Additive == nil {
		additive := true
		cfg.Render.Additive = &additive
	}

	if err := validateFieldConfig(cfg); err != nil {
		return nil, fmt.Errorf("invalid field config in %s: %w", source, err)
	}

	return cfg, nil
}

// DefaultFieldConfig 返回全部取默认值的配置
func DefaultFieldConfig() *FieldConfig {
	shapes := make([]string, 0, 8)
	for _, s := range curve.DefaultCycle() {
		shapes = append(shapes, s.String())
	}
	additive := true

	return &FieldConfig{
		ParticleCount:        30000,
		Shapes:               shapes,
		ShapeIntervalSeconds: field.DefaultShapeInterval.Seconds(),
		ProgressStep:         0.005,
		Damping:              0.02,
		CurveScale:           curve.DefaultScale,
		Workers:              1,
		SpawnExtent:          40,
		FallSpeed:            RangeConfig{Min: 0.01, Max: 0.03},
		PointSize:            RangeConfig{Min: 0.02, Max: 0.07},
		// 蓝 (HSL 216°) -> 紫 (HSL 288°)，饱和度 0.8，亮度 0.6
		Colors: ColorsConfig{
			From: colorful.Hsl(216, 0.8, 0.6).Hex(),
			To:   colorful.Hsl(288, 0.8, 0.6).Hex(),
		},
		Camera: CameraConfig{
			Distance:   20,
			FovDegrees: 60,
			OrbitSpeed: 0.5,
		},
		Render: RenderConfig{
			PointScale: 0.6,
			Opacity:    0.8,
			Background: "#050505",
			Additive:   &additive,
		},
	}
}

// validateFieldConfig 验证配置的合法性
func validateFieldConfig(cfg *FieldConfig) error {
	if cfg.ParticleCount <= 0 {
		return fmt.Errorf("particleCount must be positive, got %d", cfg.ParticleCount)
	}
	if _, err := cfg.ShapeCycle(); err != nil {
		return err
	}
	if cfg.ShapeIntervalSeconds <= 0 {
		return fmt.Errorf("shapeIntervalSeconds must be positive, got %v", cfg.ShapeIntervalSeconds)
	}
	if cfg.ProgressStep < 0 || cfg.ProgressStep > 1 {
		return fmt.Errorf("progressStep must be within [0, 1], got %v", cfg.ProgressStep)
	}
	if cfg.Damping < 0 || cfg.Damping > 1 {
		return fmt.Errorf("damping must be within [0, 1], got %v", cfg.Damping)
	}
	if cfg.CurveScale <= 0 {
		return fmt.Errorf("curveScale must be positive, got %v", cfg.CurveScale)
	}
	if cfg.SpawnExtent < 0 {
		return fmt.Errorf("spawnExtent cannot be negative, got %v", cfg.SpawnExtent)
	}
	if cfg.Workers < 0 {
		return fmt.Errorf("workers cannot be negative, got %d", cfg.Workers)
	}
	if cfg.FallSpeed.Min <= 0 || cfg.FallSpeed.Max < cfg.FallSpeed.Min {
		return fmt.Errorf("fallSpeed range [%v, %v] must be positive and ordered", cfg.FallSpeed.Min, cfg.FallSpeed.Max)
	}
	if cfg.PointSize.Min < 0 || cfg.PointSize.Max < cfg.PointSize.Min {
		return fmt.Errorf("pointSize range [%v, %v] is invalid", cfg.PointSize.Min, cfg.PointSize.Max)
	}
	if _, _, err := cfg.ReferenceColors(); err != nil {
		return err
	}
	if _, err := cfg.BackgroundColor(); err != nil {
		return err
	}
	if cfg.Camera.Distance < 0 {
		return fmt.Errorf("camera distance cannot be negative, got %v", cfg.Camera.Distance)
	}
	if cfg.Camera.FovDegrees <= 0 || cfg.Camera.FovDegrees >= 180 {
		return fmt.Errorf("camera fovDegrees must be within (0, 180), got %v", cfg.Camera.FovDegrees)
	}
	if cfg.Render.PointScale <= 0 {
		return fmt.Errorf("render pointScale must be positive, got %v", cfg.Render.PointScale)
	}
	if cfg.Render.Opacity < 0 || cfg.Render.Opacity > 1 {
		return fmt.Errorf("render opacity must be within [0, 1], got %v", cfg.Render.Opacity)
	}
	return nil
}

// ShapeCycle 将曲线名称解析为曲线循环
func (cfg *FieldConfig) ShapeCycle() ([]curve.Shape, error) {
	shapes := make([]curve.Shape, 0, len(cfg.Shapes))
	for i, name := range cfg.Shapes {
		s, err := curve.ParseShape(name)
		if err != nil {
			return nil, fmt.Errorf("shapes[%d]: %w", i, err)
		}
		shapes = append(shapes, s)
	}
	if len(shapes) == 0 {
		return nil, field.ErrNoShapes
	}
	return shapes, nil
}

// ReferenceColors 解析两个参考色
func (cfg *FieldConfig) ReferenceColors() (from, to colorful.Color, err error) {
	if from, err = colorful.Hex(cfg.Colors.From); err != nil {
		return from, to, fmt.Errorf("colors.from %q: %w", cfg.Colors.From, err)
	}
	if to, err = colorful.Hex(cfg.Colors.To); err != nil {
		return from, to, fmt.Errorf("colors.to %q: %w", cfg.Colors.To, err)
	}
	return from, to, nil
}

// BackgroundColor 解析背景色
func (cfg *FieldConfig) BackgroundColor() (colorful.Color, error) {
	c, err := colorful.Hex(cfg.Render.Background)
	if err != nil {
		return c, fmt.Errorf("render.background %q: %w", cfg.Render.Background, err)
	}
	return c, nil
}

// ShapeInterval 曲线切换间隔
func (cfg *FieldConfig) ShapeInterval() time.Duration {
	return time.Duration(cfg.ShapeIntervalSeconds * float64(time.Second))
}

// OrbitRadiansPerSecond 镜头环绕角速度
// OrbitControls 在 60fps 下每帧旋转 2π/60/60·speed，即每秒 2π/60·speed
func (cfg *FieldConfig) OrbitRadiansPerSecond() float64 {
	return 2 * math.Pi / 60 * cfg.Camera.OrbitSpeed
}

// PoolOptions 转换为点池初始化参数
func (cfg *FieldConfig) PoolOptions() (field.PoolOptions, error) {
	from, to, err := cfg.ReferenceColors()
	if err != nil {
		return field.PoolOptions{}, err
	}
	return field.PoolOptions{
		Extent:    cfg.SpawnExtent,
		From:      from,
		To:        to,
		Size:      field.Range{Min: cfg.PointSize.Min, Max: cfg.PointSize.Max},
		FallSpeed: field.Range{Min: cfg.FallSpeed.Min, Max: cfg.FallSpeed.Max},
	}, nil
}

// AnimatorOptions 转换为逐帧更新参数
func (cfg *FieldConfig) AnimatorOptions() (field.AnimatorOptions, error) {
	shapes, err := cfg.ShapeCycle()
	if err != nil {
		return field.AnimatorOptions{}, err
	}
	opts := field.DefaultAnimatorOptions()
	opts.Shapes = shapes
	opts.ProgressStep = cfg.ProgressStep
	opts.Damping = cfg.Damping
	opts.CurveScale = cfg.CurveScale
	opts.Workers = cfg.Workers
	return opts, nil
}

// LoadEmbeddedFieldConfig 读取内嵌的默认配置
// embedded 包未初始化或未内嵌配置文件时直接返回代码默认值
func LoadEmbeddedFieldConfig() (*FieldConfig, error) {
	if !embedded.IsInitialized() {
		return DefaultFieldConfig(), nil
	}
	if !embedded.Exists(DefaultFieldConfigPath) {
		log.Printf("[Config] %s not embedded, using defaults", DefaultFieldConfigPath)
		return DefaultFieldConfig(), nil
	}
	data, err := embedded.ReadFile(DefaultFieldConfigPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read embedded field config: %w", err)
	}
	return ParseFieldConfig(data, DefaultFieldConfigPath)
}
