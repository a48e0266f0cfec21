package scenes

import (
	"context"
	"fmt"
	"log"
	"math"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/jonboulle/clockwork"

	"github.com/gonewx/curvefield/pkg/components"
	"github.com/gonewx/curvefield/pkg/config"
	"github.com/gonewx/curvefield/pkg/field"
	"github.com/gonewx/curvefield/pkg/systems"
)

// FieldSceneOptions 场景构造参数
type FieldSceneOptions struct {
	// Clock 曲线切换计时器使用的时钟，nil 时使用真实时钟
	Clock clockwork.Clock
	// ShowHUD 在画面左上角绘制调试信息
	ShowHUD bool
}

// FieldScene 粒子场场景
//
// 场景是点池、更新器、计时器、镜头和渲染器的唯一持有者。
// 计时器只累加触发次数，切换曲线统一在 Update 中完成，
// 因此点池和过渡状态只会在帧线程上被修改。
type FieldScene struct {
	cfg      *config.FieldConfig
	poolOpts field.PoolOptions
	seed     uint64

	pool     *field.Pool
	animator *field.Animator
	cycler   *field.ShapeCycler
	camera   *systems.CameraSystem
	renderer *systems.FieldRenderSystem
	terminal *systems.TerminalRenderSystem

	elapsed float64
	paused  bool
	showHUD bool
	closed  bool
}

// NewFieldScene 按配置创建场景并启动曲线切换计时器
//
// 调用方负责在不再使用时调用 Close。
func NewFieldScene(cfg *config.FieldConfig, opts FieldSceneOptions) (*FieldScene, error) {
	poolOpts, err := cfg.PoolOptions()
	if err != nil {
		return nil, fmt.Errorf("invalid pool options: %w", err)
	}
	animOpts, err := cfg.AnimatorOptions()
	if err != nil {
		return nil, fmt.Errorf("invalid animator options: %w", err)
	}
	background, err := cfg.BackgroundColor()
	if err != nil {
		return nil, fmt.Errorf("invalid background color: %w", err)
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}

	pool, err := field.NewPool(cfg.ParticleCount, newRNG(seed), poolOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to create pool: %w", err)
	}
	animator, err := field.NewAnimator(pool, animOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to create animator: %w", err)
	}

	camera := systems.NewCameraSystem(&components.CameraComponent{
		Distance:   cfg.Camera.Distance,
		FovY:       cfg.Camera.FovDegrees * math.Pi / 180,
		OrbitSpeed: cfg.OrbitRadiansPerSecond(),
	})

	s := &FieldScene{
		cfg:      cfg,
		poolOpts: poolOpts,
		seed:     seed,
		pool:     pool,
		animator: animator,
		cycler:   field.NewShapeCycler(opts.Clock, cfg.ShapeInterval()),
		camera:   camera,
		renderer: systems.NewFieldRenderSystem(camera, systems.FieldRenderOptions{
			PointScale: cfg.Render.PointScale,
			Opacity:    cfg.Render.Opacity,
			Background: background,
			Additive:   cfg.Render.Additive == nil || *cfg.Render.Additive,
		}),
		terminal: systems.NewTerminalRenderSystem(camera, systems.TerminalRenderOptions{
			Opacity:    cfg.Render.Opacity,
			Background: background,
		}),
		showHUD: opts.ShowHUD,
	}

	s.cycler.Start(context.Background())
	log.Printf("[FieldScene] %d points, seed %d, %d shapes every %v",
		pool.Len(), seed, len(animOpts.Shapes), s.cycler.Interval())

	return s, nil
}

func newRNG(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// Update 推进一帧
//
// 暂停时时间冻结，期间到期的曲线切换被丢弃。
func (s *FieldScene) Update(deltaTime float64) {
	if s.closed {
		return
	}
	if s.paused {
		if n := s.cycler.Drain(); n > 0 {
			log.Printf("[FieldScene] paused, dropped %d shape advance(s)", n)
		}
		return
	}

	s.elapsed += deltaTime
	s.camera.Update(deltaTime)

	for n := s.cycler.Drain(); n > 0; n-- {
		s.animator.Advance()
		log.Printf("[FieldScene] shape -> %s", s.animator.CurrentShape())
	}

	if err := s.animator.Update(s.elapsed); err != nil {
		log.Printf("[FieldScene] frame %d: %v", s.animator.Frames(), err)
	}
}

// Draw 绘制点云，开启 HUD 时叠加调试信息
func (s *FieldScene) Draw(screen *ebiten.Image) {
	yaw, pitch := s.animator.Rotation()
	s.renderer.Draw(screen, s.pool, yaw, pitch)

	if s.showHUD {
		ebitenutil.DebugPrintAt(screen, s.HUDText(), 10, 10)
	}
}

// DrawTerminal 把点云绘制到终端屏幕（不调用 Show）
func (s *FieldScene) DrawTerminal(screen tcell.Screen) {
	yaw, pitch := s.animator.Rotation()
	s.terminal.Draw(screen, s.pool, yaw, pitch)
}

// HUDText 调试信息
func (s *FieldScene) HUDText() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Shape: %s -> %s\n", s.animator.CurrentShape(), s.animator.NextShape())
	fmt.Fprintf(&b, "Progress: %3.0f%%\n", s.animator.Progress()*100)
	fmt.Fprintf(&b, "Points: %d (visible %d, %d batches)\n", s.pool.Len(), s.renderer.Visible(), s.renderer.Batches())
	fmt.Fprintf(&b, "Time: %.1fs  Frames: %d  Seed: %d\n", s.elapsed, s.animator.Frames(), s.seed)
	fmt.Fprintf(&b, "TPS: %.1f  FPS: %.1f\n", ebiten.ActualTPS(), ebiten.ActualFPS())
	if s.paused {
		b.WriteString("PAUSED\n")
	}
	return b.String()
}

// ForceAdvance 立即切换到下一条曲线，不影响计时器节奏
func (s *FieldScene) ForceAdvance() {
	s.animator.Advance()
	log.Printf("[FieldScene] forced shape -> %s", s.animator.CurrentShape())
}

// TogglePause 切换暂停状态，返回切换后的状态
func (s *FieldScene) TogglePause() bool {
	s.paused = !s.paused
	log.Printf("[FieldScene] paused=%v", s.paused)
	return s.paused
}

// Reseed 使用下一个种子原地重新散布全部点
func (s *FieldScene) Reseed() error {
	s.seed++
	if err := s.pool.Scatter(newRNG(s.seed), s.poolOpts); err != nil {
		return fmt.Errorf("failed to reseed pool: %w", err)
	}
	log.Printf("[FieldScene] reseeded with %d", s.seed)
	return nil
}

// SetShowHUD 开关调试信息
func (s *FieldScene) SetShowHUD(show bool) {
	s.showHUD = show
}

// Close 停止曲线切换计时器，可重复调用
func (s *FieldScene) Close() {
	if s.closed {
		return
	}
	s.closed = true
	s.cycler.Stop()
	log.Printf("[FieldScene] closed after %d frames", s.animator.Frames())
}

// Animator 返回逐帧更新器
func (s *FieldScene) Animator() *field.Animator { return s.animator }

// Cycler 返回曲线切换计时器
func (s *FieldScene) Cycler() *field.ShapeCycler { return s.cycler }

// Pool 返回点池
func (s *FieldScene) Pool() *field.Pool { return s.pool }

// Elapsed 返回场景累计运行时间（秒，暂停期间不计）
func (s *FieldScene) Elapsed() float64 { return s.elapsed }

// Paused 是否处于暂停状态
func (s *FieldScene) Paused() bool { return s.paused }

// Seed 返回当前点池使用的种子
func (s *FieldScene) Seed() uint64 { return s.seed }

// Config 返回场景使用的配置
func (s *FieldScene) Config() *config.FieldConfig { return s.cfg }
