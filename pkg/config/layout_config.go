package config

// 窗口与渲染布局常量
// 逻辑屏幕尺寸独立于实际窗口大小，Ebitengine 会自动缩放
const (
	// WindowWidth 逻辑屏幕宽度（像素）
	WindowWidth = 1280

	// WindowHeight 逻辑屏幕高度（像素）
	WindowHeight = 720

	// TicksPerSecond 逻辑更新频率，与 Ebitengine 默认 TPS 一致
	TicksPerSecond = 60

	// MinPointPixels 点精灵的最小像素尺寸（与 GL 最小点尺寸一致）
	MinPointPixels = 1.0

	// MaxPointPixels 点精灵的最大像素尺寸，避免贴近镜头的点铺满屏幕
	MaxPointPixels = 24.0

	// TerminalCellAspect 终端字符单元的高宽比
	TerminalCellAspect = 2.0
)
