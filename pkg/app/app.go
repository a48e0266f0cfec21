// Package app 提供应用的核心包装器
//
// 该包将初始化逻辑从 main 包提取出来，使其可以被桌面端和移动端共用。
// 桌面端通过 main.go 调用 NewApp()，移动端通过 mobile/mobile.go 调用。
package app

import (
	"fmt"
	"image/color"
	"io"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/gonewx/curvefield/pkg/config"
	"github.com/gonewx/curvefield/pkg/game"
	"github.com/gonewx/curvefield/pkg/scenes"
	"github.com/gonewx/curvefield/pkg/utils"
)

// Config 定义应用启动配置
type Config struct {
	// Verbose 启用详细日志输出
	Verbose bool
	// ConfigPath 粒子场配置文件路径，为空则使用内嵌的 data/field.yaml
	ConfigPath string
	// Count 覆盖点的数量（0 表示不覆盖）
	Count int
	// Seed 覆盖随机种子（0 表示不覆盖）
	Seed uint64
	// Workers 覆盖并行更新分块数（0 表示不覆盖）
	Workers int
	// ShowHUD 显示调试信息
	ShowHUD bool
}

// App 是应用的核心包装器，实现 ebiten.Game 接口
type App struct {
	sceneManager             *game.SceneManager
	scene                    *scenes.FieldScene
	pendingWindowSizeReset   bool // 延迟设置窗口大小标志
	windowSizeResetCountdown int  // 延迟帧数
}

// NewApp 创建并初始化应用
//
// 使用内嵌配置前必须先调用 embedded.Init()，否则回退到代码默认值。
func NewApp(cfg Config) (*App, error) {
	// 配置日志输出
	if !cfg.Verbose {
		log.SetOutput(io.Discard)
		log.SetFlags(0)
	}

	fieldCfg, err := LoadFieldConfig(cfg)
	if err != nil {
		return nil, err
	}

	scene, err := scenes.NewFieldScene(fieldCfg, scenes.FieldSceneOptions{ShowHUD: cfg.ShowHUD})
	if err != nil {
		return nil, fmt.Errorf("粒子场初始化失败: %w", err)
	}

	sceneManager := game.NewSceneManager()
	sceneManager.SwitchTo(scene)
	log.Printf("[App] Field scene ready")

	return &App{
		sceneManager: sceneManager,
		scene:        scene,
	}, nil
}

// LoadFieldConfig 读取配置文件（或内嵌默认配置）并应用命令行覆盖
func LoadFieldConfig(cfg Config) (*config.FieldConfig, error) {
	var (
		fieldCfg *config.FieldConfig
		err      error
	)
	if cfg.ConfigPath != "" {
		fieldCfg, err = config.LoadFieldConfig(cfg.ConfigPath)
		log.Printf("[Config] 加载配置文件: %s", cfg.ConfigPath)
	} else {
		fieldCfg, err = config.LoadEmbeddedFieldConfig()
	}
	if err != nil {
		return nil, fmt.Errorf("配置加载失败: %w", err)
	}

	if cfg.Count < 0 || cfg.Workers < 0 {
		return nil, fmt.Errorf("count and workers cannot be negative (count=%d, workers=%d)", cfg.Count, cfg.Workers)
	}
	if cfg.Count > 0 {
		fieldCfg.ParticleCount = cfg.Count
	} else if utils.IsMobile() {
		// 移动端默认点数减半，保证低端设备帧率
		fieldCfg.ParticleCount = max(1, fieldCfg.ParticleCount/2)
		log.Printf("[App] Mobile mode, particle count %d", fieldCfg.ParticleCount)
	}
	if cfg.Seed != 0 {
		fieldCfg.Seed = cfg.Seed
	}
	if cfg.Workers > 0 {
		fieldCfg.Workers = cfg.Workers
	}
	return fieldCfg, nil
}

// Update 更新逻辑
// 每个 tick 调用一次（通常每秒 60 次）
func (a *App) Update() error {
	// 延迟设置窗口大小（退出全屏后需要等待几帧才能正确设置）
	if a.pendingWindowSizeReset {
		a.windowSizeResetCountdown--
		if a.windowSizeResetCountdown <= 0 {
			ebiten.SetWindowSize(config.WindowWidth, config.WindowHeight)
			log.Printf("[App] Delayed SetWindowSize(%d, %d)", config.WindowWidth, config.WindowHeight)
			a.pendingWindowSizeReset = false
		}
	}

	// F11 切换全屏
	if inpututil.IsKeyJustPressed(ebiten.KeyF11) {
		if ebiten.IsFullscreen() {
			ebiten.SetFullscreen(false)
			if ebiten.IsWindowMaximized() || ebiten.IsWindowMinimized() {
				ebiten.RestoreWindow()
			}
			a.pendingWindowSizeReset = true
			a.windowSizeResetCountdown = 3
			log.Printf("[App] Exit fullscreen, will reset window size in 3 frames")
		} else {
			ebiten.SetFullscreen(true)
		}
	}

	a.sceneManager.Update(1.0 / config.TicksPerSecond)
	return nil
}

// Draw 绘制画面
// 每帧调用一次
func (a *App) Draw(screen *ebiten.Image) {
	a.sceneManager.Draw(screen)
}

// DrawFinalScreen 实现 FinalScreenDrawer 接口
// 用于控制全屏时的缩放和 letterbox 颜色
func (a *App) DrawFinalScreen(screen ebiten.FinalScreen, offscreen *ebiten.Image, geoM ebiten.GeoM) {
	screen.Fill(color.Black)
	op := &ebiten.DrawImageOptions{}
	op.GeoM = geoM
	op.Filter = ebiten.FilterLinear
	screen.DrawImage(offscreen, op)
}

// Layout 返回逻辑屏幕尺寸
// 此尺寸独立于实际窗口大小，Ebitengine 会自动处理缩放
func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	return config.WindowWidth, config.WindowHeight
}

// Scene 返回粒子场场景
func (a *App) Scene() *scenes.FieldScene {
	return a.scene
}

// Close 关闭当前场景（停止曲线切换计时器）
func (a *App) Close() {
	a.sceneManager.Close()
	log.Printf("[App] Closed")
}
