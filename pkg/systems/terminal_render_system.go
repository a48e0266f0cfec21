package systems

import (
	"math"

	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/gonewx/curvefield/pkg/config"
	"github.com/gonewx/curvefield/pkg/field"
	"github.com/gonewx/curvefield/pkg/utils"
)

// densityRamp 按单元内点数由疏到密的字符
var densityRamp = []rune(" .:*#@")

// TerminalRenderOptions 终端渲染参数
type TerminalRenderOptions struct {
	Opacity    float64
	Background colorful.Color
}

// TerminalRenderSystem 把粒子池投影到字符网格
//
// 每个单元累加落入其中的点的颜色（加法混合），
// 字符由点数决定，颜色为背景加上累加值并截断到 [0, 1]。
type TerminalRenderSystem struct {
	camera *CameraSystem
	opts   TerminalRenderOptions

	width, height int
	accum         []float64 // 3 * width * height
	counts        []int32
}

// NewTerminalRenderSystem 创建终端渲染系统
func NewTerminalRenderSystem(camera *CameraSystem, opts TerminalRenderOptions) *TerminalRenderSystem {
	opts.Opacity = utils.Clamp01(opts.Opacity)
	return &TerminalRenderSystem{camera: camera, opts: opts}
}

// Draw 重新累加整个网格并写入 screen（不调用 Show）
func (s *TerminalRenderSystem) Draw(screen tcell.Screen, pool *field.Pool, yaw, pitch float64) {
	w, h := screen.Size()
	if w <= 0 || h <= 0 {
		return
	}
	s.resize(w, h)
	s.accumulate(pool, yaw, pitch)

	bg := tcell.NewRGBColor(rgb255(s.opts.Background))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			cell := y*w + x
			n := s.counts[cell]
			if n == 0 {
				screen.SetContent(x, y, ' ', nil, tcell.StyleDefault.Background(bg))
				continue
			}
			c := colorful.Color{
				R: s.opts.Background.R + s.accum[cell*3],
				G: s.opts.Background.G + s.accum[cell*3+1],
				B: s.opts.Background.B + s.accum[cell*3+2],
			}.Clamped()
			style := tcell.StyleDefault.Background(bg).Foreground(tcell.NewRGBColor(rgb255(c)))
			screen.SetContent(x, y, densityGlyph(n), nil, style)
		}
	}
}

// Count 返回单元 (x, y) 在上一次 Draw 中落入的点数
func (s *TerminalRenderSystem) Count(x, y int) int {
	if x < 0 || y < 0 || x >= s.width || y >= s.height {
		return 0
	}
	return int(s.counts[y*s.width+x])
}

func (s *TerminalRenderSystem) resize(w, h int) {
	if w == s.width && h == s.height {
		return
	}
	s.width, s.height = w, h
	s.accum = make([]float64, w*h*3)
	s.counts = make([]int32, w*h)
}

// accumulate 投影所有点
// 字符单元高约为宽的两倍，按虚拟像素网格 w x (h·aspect) 投影再折算行号
func (s *TerminalRenderSystem) accumulate(pool *field.Pool, yaw, pitch float64) {
	clear(s.accum)
	clear(s.counts)

	aspect := config.TerminalCellAspect
	s.camera.Prepare(float64(s.width), float64(s.height)*aspect, yaw, pitch)

	for i := 0; i < pool.Len(); i++ {
		x, y, z := pool.Position(i)
		sx, sy, _, ok := s.camera.Project(float64(x), float64(y), float64(z))
		if !ok {
			continue
		}
		col := int(math.Floor(sx))
		row := int(math.Floor(sy / aspect))
		if col < 0 || row < 0 || col >= s.width || row >= s.height {
			continue
		}

		cell := row*s.width + col
		r, g, b := pool.Color(i)
		s.accum[cell*3] += float64(r) * s.opts.Opacity
		s.accum[cell*3+1] += float64(g) * s.opts.Opacity
		s.accum[cell*3+2] += float64(b) * s.opts.Opacity
		s.counts[cell]++
	}
}

// densityGlyph 点数按 log2 映射到字符，1 个点为 '.'，16 个以上为 '@'
func densityGlyph(n int32) rune {
	if n <= 0 {
		return densityRamp[0]
	}
	level := 1 + int(math.Log2(float64(n)))
	if level >= len(densityRamp) {
		level = len(densityRamp) - 1
	}
	return densityRamp[level]
}

func rgb255(c colorful.Color) (int32, int32, int32) {
	r, g, b := c.RGB255()
	return int32(r), int32(g), int32(b)
}
