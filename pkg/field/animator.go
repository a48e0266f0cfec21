package field

import (
	"errors"
	"fmt"
	"math"

	"golang.org/x/sync/errgroup"

	"github.com/gonewx/curvefield/pkg/curve"
)

// ErrNoShapes 曲线循环为空
var ErrNoShapes = errors.New("shape cycle is empty")

// ErrNonFinite 某个点的新位置不是有限值，该分量已保持上一帧的值
var ErrNonFinite = errors.New("non-finite point position")

// AnimatorOptions 逐帧更新参数
type AnimatorOptions struct {
	// Shapes 曲线循环顺序，successor = (i+1) mod len
	Shapes []curve.Shape
	// ProgressStep 每帧过渡进度增量
	ProgressStep float64
	// Damping 每帧向目标靠近的比例（指数平滑）
	Damping float64
	// CurveScale 曲线共用缩放系数
	CurveScale float64
	// PhaseSpan 全部点在曲线上铺开的参数跨度
	PhaseSpan float64
	// Drift 参数随时间的全局漂移速度
	Drift float64
	// Workers 并行更新的分块数，<=1 时单线程
	Workers int
}

// DefaultAnimatorOptions 返回默认参数
func DefaultAnimatorOptions() AnimatorOptions {
	return AnimatorOptions{
		Shapes:       curve.DefaultCycle(),
		ProgressStep: 0.005,
		Damping:      0.02,
		CurveScale:   curve.DefaultScale,
		PhaseSpan:    10 * math.Pi,
		Drift:        0.1,
		Workers:      1,
	}
}

// 下落/散射扰动常量
const (
	fallAmplitude    = 0.5
	fallPeriod       = 10.0
	scatterFrequency = 0.2
	scatterAmplitude = 0.2

	yawSpeed       = 0.05
	pitchFrequency = 0.1
	pitchAmplitude = 0.1
)

// Animator 粒子场逐帧更新器
//
// shapeIndex 和 progress 只在帧线程上修改：计时器通过 ShapeCycler.Drain
// 把触发次数交给持有者，再由持有者调用 Advance。
type Animator struct {
	pool *Pool
	opts AnimatorOptions

	shapeIndex int
	progress   float64

	yaw, pitch float64
	frames     uint64
}

// NewAnimator 创建更新器，pool 在其生命周期内被原地修改
func NewAnimator(pool *Pool, opts AnimatorOptions) (*Animator, error) {
	if pool == nil || pool.Len() == 0 {
		return nil, fmt.Errorf("%w: animator requires a non-empty pool", ErrInvalidPool)
	}
	if len(opts.Shapes) == 0 {
		return nil, ErrNoShapes
	}
	if opts.Damping < 0 || opts.Damping > 1 {
		return nil, fmt.Errorf("damping must be within [0, 1], got %v", opts.Damping)
	}
	if opts.ProgressStep < 0 {
		return nil, fmt.Errorf("progress step cannot be negative, got %v", opts.ProgressStep)
	}

	shapes := make([]curve.Shape, len(opts.Shapes))
	copy(shapes, opts.Shapes)
	opts.Shapes = shapes

	if opts.Workers < 1 {
		opts.Workers = 1
	}

	return &Animator{
		pool: pool,
		opts: opts,
	}, nil
}

// Advance 切换到下一条曲线并将过渡进度归零
func (a *Animator) Advance() {
	a.shapeIndex = (a.shapeIndex + 1) % len(a.opts.Shapes)
	a.progress = 0
}

// Update 根据动画时钟 time（秒）更新全部点的位置
//
// 点池中永远不会写入 NaN 或 ±Inf：无法表示的新位置被丢弃并返回 ErrNonFinite，
// 其余点和过渡状态照常推进。
func (a *Animator) Update(time float64) error {
	current := a.opts.Shapes[a.shapeIndex]
	next := a.opts.Shapes[(a.shapeIndex+1)%len(a.opts.Shapes)]
	progress := a.progress

	var err error
	n := a.pool.Len()
	if a.opts.Workers <= 1 || n < a.opts.Workers {
		err = a.updateRange(0, n, time, current, next, progress)
	} else {
		var g errgroup.Group
		chunk := (n + a.opts.Workers - 1) / a.opts.Workers
		for start := 0; start < n; start += chunk {
			start, end := start, min(start+chunk, n)
			g.Go(func() error {
				return a.updateRange(start, end, time, current, next, progress)
			})
		}
		err = g.Wait()
	}

	a.progress = math.Min(a.progress+a.opts.ProgressStep, 1)

	a.yaw = time * yawSpeed
	a.pitch = math.Sin(time*pitchFrequency) * pitchAmplitude
	a.frames++
	return err
}

// updateRange 更新 [start, end) 区间的点
// 只读取帧开始时的快照，各区间互不重叠，可并行执行
// 返回区间内第一个被丢弃的点
func (a *Animator) updateRange(start, end int, time float64, current, next curve.Shape, progress float64) error {
	rejected := -1
	n := float64(a.pool.Len())
	pos := a.pool.Positions
	speeds := a.pool.FallSpeeds
	damping := a.opts.Damping
	scale := a.opts.CurveScale

	for i := start; i < end; i++ {
		fi := float64(i)
		t := fi/n*a.opts.PhaseSpan + time*a.opts.Drift

		p1 := curve.EvaluateScaled(t, current, scale)
		p2 := curve.EvaluateScaled(t, next, scale)
		target := p1.Lerp(p2, progress)

		v := float64(speeds[i])
		fallY := math.Sin(time*v+fi)*fallAmplitude - math.Mod(time*v, fallPeriod)
		scatterX := math.Cos(time*scatterFrequency+fi) * scatterAmplitude
		scatterZ := math.Sin(time*scatterFrequency+fi) * scatterAmplitude

		j := i * 3
		x, y, z := float64(pos[j]), float64(pos[j+1]), float64(pos[j+2])
		nx, okX := ease(x, target.X+scatterX, damping)
		ny, okY := ease(y, target.Y+fallY, damping)
		nz, okZ := ease(z, target.Z+scatterZ, damping)
		pos[j], pos[j+1], pos[j+2] = nx, ny, nz

		if !(okX && okY && okZ) && rejected < 0 {
			rejected = i
		}
	}

	if rejected >= 0 {
		return fmt.Errorf("%w: point %d at time %v", ErrNonFinite, rejected, time)
	}
	return nil
}

// ease 从 cur 向 target 靠近 damping 比例
// 结果无法用 float32 表示时保留 cur（cur 本身非有限时归零），ok 为 false
func ease(cur, target, damping float64) (v float32, ok bool) {
	v = float32(cur + (target-cur)*damping)
	if isFinite32(v) {
		return v, true
	}
	if c := float32(cur); isFinite32(c) {
		return c, false
	}
	return 0, false
}

func isFinite32(v float32) bool {
	f := float64(v)
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// Target 返回第 i 个点在当前状态与时间下的目标位置（不含缓动）
func (a *Animator) Target(i int, time float64) curve.Vec3 {
	n := float64(a.pool.Len())
	t := float64(i)/n*a.opts.PhaseSpan + time*a.opts.Drift
	p1 := curve.EvaluateScaled(t, a.CurrentShape(), a.opts.CurveScale)
	p2 := curve.EvaluateScaled(t, a.NextShape(), a.opts.CurveScale)
	return p1.Lerp(p2, a.progress)
}

// ShapeIndex 当前曲线在循环中的下标
func (a *Animator) ShapeIndex() int { return a.shapeIndex }

// Progress 当前过渡进度（0-1）
func (a *Animator) Progress() float64 { return a.progress }

// CurrentShape 当前曲线
func (a *Animator) CurrentShape() curve.Shape { return a.opts.Shapes[a.shapeIndex] }

// NextShape 正在过渡到的曲线
func (a *Animator) NextShape() curve.Shape {
	return a.opts.Shapes[(a.shapeIndex+1)%len(a.opts.Shapes)]
}

// Shapes 返回曲线循环的副本
func (a *Animator) Shapes() []curve.Shape {
	out := make([]curve.Shape, len(a.opts.Shapes))
	copy(out, a.opts.Shapes)
	return out
}

// Pool 返回被更新的点池
func (a *Animator) Pool() *Pool { return a.pool }

// Rotation 返回整场旋转（弧度）：yaw 绕 Y 轴，pitch 绕 X 轴
func (a *Animator) Rotation() (yaw, pitch float64) { return a.yaw, a.pitch }

// Frames 已执行的 Update 次数
func (a *Animator) Frames() uint64 { return a.frames }
