// Package field 实现粒子场动画：固定大小的点池、曲线循环计时器与逐帧更新器
package field

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/lucasb-eyer/go-colorful"
)

// ErrInvalidPool 点池参数非法
var ErrInvalidPool = errors.New("invalid pool options")

// Range 闭开区间 [Min, Max)
type Range struct {
	Min float64
	Max float64
}

func (r Range) sample(rng *rand.Rand) float64 {
	return r.Min + rng.Float64()*(r.Max-r.Min)
}

// PoolOptions 点池初始化参数
type PoolOptions struct {
	// Extent 初始散布立方体的边长（以原点为中心）
	Extent float64
	// From/To 颜色插值的两个参考色
	From colorful.Color
	To   colorful.Color
	// Size 每点渲染尺寸范围（世界单位）
	Size Range
	// FallSpeed 每点下落速度范围，必须为正
	FallSpeed Range
}

// DefaultPoolOptions 返回与原版视觉一致的默认参数（蓝 -> 紫 色带）
func DefaultPoolOptions() PoolOptions {
	return PoolOptions{
		Extent:    40,
		From:      colorful.Hsl(216, 0.8, 0.6),
		To:        colorful.Hsl(288, 0.8, 0.6),
		Size:      Range{Min: 0.02, Max: 0.07},
		FallSpeed: Range{Min: 0.01, Max: 0.03},
	}
}

// Pool 粒子点池（结构数组布局）
//
// 点的数量在创建后固定，索引 i 是稳定的点 ID。
// 只有 Positions 会在动画过程中被修改；Colors、Sizes、FallSpeeds 初始化后不变。
type Pool struct {
	Positions  []float32 // 3N: x0,y0,z0,x1,...
	Colors     []float32 // 3N: r0,g0,b0,r1,...（0-1）
	Sizes      []float32 // N
	FallSpeeds []float32 // N
}

// NewPool 使用给定的随机源创建 n 个点
// 相同种子的随机源产生完全相同的点池
func NewPool(n int, rng *rand.Rand, opts PoolOptions) (*Pool, error) {
	if err := validatePoolOptions(n, rng, opts); err != nil {
		return nil, err
	}

	p := &Pool{
		Positions:  make([]float32, n*3),
		Colors:     make([]float32, n*3),
		Sizes:      make([]float32, n),
		FallSpeeds: make([]float32, n),
	}
	p.fill(rng, opts)

	return p, nil
}

// Scatter 用新的随机源原地重新生成全部点，点数不变
func (p *Pool) Scatter(rng *rand.Rand, opts PoolOptions) error {
	if err := validatePoolOptions(p.Len(), rng, opts); err != nil {
		return err
	}
	p.fill(rng, opts)
	return nil
}

func (p *Pool) fill(rng *rand.Rand, opts PoolOptions) {
	half := opts.Extent / 2
	for i := 0; i < p.Len(); i++ {
		p.Positions[i*3] = float32(rng.Float64()*opts.Extent - half)
		p.Positions[i*3+1] = float32(rng.Float64()*opts.Extent - half)
		p.Positions[i*3+2] = float32(rng.Float64()*opts.Extent - half)

		c := opts.From.BlendRgb(opts.To, rng.Float64())
		p.Colors[i*3] = float32(c.R)
		p.Colors[i*3+1] = float32(c.G)
		p.Colors[i*3+2] = float32(c.B)

		p.Sizes[i] = float32(opts.Size.sample(rng))
		p.FallSpeeds[i] = float32(opts.FallSpeed.sample(rng))
	}
}

func validatePoolOptions(n int, rng *rand.Rand, opts PoolOptions) error {
	if n <= 0 {
		return fmt.Errorf("%w: point count must be positive, got %d", ErrInvalidPool, n)
	}
	if rng == nil {
		return fmt.Errorf("%w: random source is required", ErrInvalidPool)
	}
	if opts.Extent < 0 {
		return fmt.Errorf("%w: extent cannot be negative, got %v", ErrInvalidPool, opts.Extent)
	}
	if opts.Size.Min < 0 || opts.Size.Max < opts.Size.Min {
		return fmt.Errorf("%w: size range [%v, %v) is invalid", ErrInvalidPool, opts.Size.Min, opts.Size.Max)
	}
	if opts.FallSpeed.Min <= 0 || opts.FallSpeed.Max < opts.FallSpeed.Min {
		return fmt.Errorf("%w: fall speed range [%v, %v) must be positive", ErrInvalidPool, opts.FallSpeed.Min, opts.FallSpeed.Max)
	}
	return nil
}

// Len 返回点的数量
func (p *Pool) Len() int {
	return len(p.FallSpeeds)
}

// Position 返回第 i 个点的当前位置
func (p *Pool) Position(i int) (x, y, z float32) {
	return p.Positions[i*3], p.Positions[i*3+1], p.Positions[i*3+2]
}

// Color 返回第 i 个点的颜色
func (p *Pool) Color(i int) (r, g, b float32) {
	return p.Colors[i*3], p.Colors[i*3+1], p.Colors[i*3+2]
}
