package systems

import (
	"image"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/gonewx/curvefield/pkg/config"
	"github.com/gonewx/curvefield/pkg/field"
	"github.com/gonewx/curvefield/pkg/utils"
)

// maxQuadsPerBatch 单次 DrawTriangles 的最大四边形数
// uint16 索引最多寻址 65536 个顶点，每个四边形 4 个顶点
const maxQuadsPerBatch = 16383

// spriteSize 软圆点贴图边长（像素）
const spriteSize = 32

// FieldRenderOptions 点云渲染参数
type FieldRenderOptions struct {
	PointScale float64        // 世界尺寸到屏幕尺寸的附加倍数
	Opacity    float64        // 全局不透明度
	Background colorful.Color // 每帧清屏颜色
	Additive   bool           // 加法混合
}

// FieldRenderSystem 把粒子池绘制为带透视衰减的软圆点
//
// 顶点与索引数组在帧之间复用，超过 uint16 索引上限时分批绘制。
type FieldRenderSystem struct {
	camera *CameraSystem
	opts   FieldRenderOptions

	sprite   *ebiten.Image
	vertices []ebiten.Vertex
	indices  []uint16
	visible  int
	batches  int
}

// NewFieldRenderSystem 创建点云渲染系统
func NewFieldRenderSystem(camera *CameraSystem, opts FieldRenderOptions) *FieldRenderSystem {
	if opts.PointScale <= 0 {
		opts.PointScale = 1
	}
	opts.Opacity = utils.Clamp01(opts.Opacity)
	return &FieldRenderSystem{
		camera:   camera,
		opts:     opts,
		vertices: make([]ebiten.Vertex, 0, maxQuadsPerBatch*4),
		indices:  make([]uint16, 0, maxQuadsPerBatch*6),
	}
}

// Options 返回渲染参数
func (s *FieldRenderSystem) Options() FieldRenderOptions {
	return s.opts
}

// Visible 返回上一帧通过近裁剪的点数
func (s *FieldRenderSystem) Visible() int {
	return s.visible
}

// Batches 返回上一帧的绘制批次数
func (s *FieldRenderSystem) Batches() int {
	return s.batches
}

// Draw 清屏并绘制整个粒子池
//
// 参数：
//   - yaw, pitch: 整场旋转，由动画器给出
func (s *FieldRenderSystem) Draw(screen *ebiten.Image, pool *field.Pool, yaw, pitch float64) {
	screen.Fill(s.opts.Background)

	if s.sprite == nil {
		s.sprite = ebiten.NewImageFromImage(newSoftDot(spriteSize))
	}

	bounds := screen.Bounds()
	s.camera.Prepare(float64(bounds.Dx()), float64(bounds.Dy()), yaw, pitch)

	op := &ebiten.DrawTrianglesOptions{}
	if s.opts.Additive {
		op.Blend = ebiten.Blend{
			BlendFactorSourceRGB:        ebiten.BlendFactorOne,
			BlendFactorDestinationRGB:   ebiten.BlendFactorOne,
			BlendOperationRGB:           ebiten.BlendOperationAdd,
			BlendFactorSourceAlpha:      ebiten.BlendFactorOne,
			BlendFactorDestinationAlpha: ebiten.BlendFactorOne,
			BlendOperationAlpha:         ebiten.BlendOperationAdd,
		}
	}

	s.visible = 0
	s.batches = 0
	s.vertices = s.vertices[:0]
	s.indices = s.indices[:0]

	flush := func() {
		if len(s.indices) == 0 {
			return
		}
		screen.DrawTriangles(s.vertices, s.indices, s.sprite, op)
		s.batches++
		s.vertices = s.vertices[:0]
		s.indices = s.indices[:0]
	}

	for i := 0; i < pool.Len(); i++ {
		if !s.appendPoint(pool, i) {
			continue
		}
		s.visible++
		if len(s.vertices) == maxQuadsPerBatch*4 {
			flush()
		}
	}
	flush()
}

// appendPoint 投影第 i 个点并追加一个四边形，点位于镜头之后时返回 false
func (s *FieldRenderSystem) appendPoint(pool *field.Pool, i int) bool {
	x, y, z := pool.Position(i)
	sx, sy, depth, ok := s.camera.Project(float64(x), float64(y), float64(z))
	if !ok {
		return false
	}

	px := s.camera.PointPixels(float64(pool.Sizes[i])*s.opts.PointScale, depth)
	half := float32(utils.Clamp(px, config.MinPointPixels, config.MaxPointPixels) / 2)

	r, g, b := pool.Color(i)
	a := float32(s.opts.Opacity)
	cx, cy := float32(sx), float32(sy)

	base := uint16(len(s.vertices))
	s.vertices = append(s.vertices,
		ebiten.Vertex{DstX: cx - half, DstY: cy - half, SrcX: 0, SrcY: 0, ColorR: r, ColorG: g, ColorB: b, ColorA: a},
		ebiten.Vertex{DstX: cx + half, DstY: cy - half, SrcX: spriteSize, SrcY: 0, ColorR: r, ColorG: g, ColorB: b, ColorA: a},
		ebiten.Vertex{DstX: cx - half, DstY: cy + half, SrcX: 0, SrcY: spriteSize, ColorR: r, ColorG: g, ColorB: b, ColorA: a},
		ebiten.Vertex{DstX: cx + half, DstY: cy + half, SrcX: spriteSize, SrcY: spriteSize, ColorR: r, ColorG: g, ColorB: b, ColorA: a},
	)
	s.indices = append(s.indices,
		base+0, base+1, base+2,
		base+1, base+3, base+2,
	)
	return true
}

// newSoftDot 生成中心不透明、边缘渐隐的白色圆点（预乘 alpha）
func newSoftDot(size int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	c := float64(size) / 2
	for py := 0; py < size; py++ {
		for px := 0; px < size; px++ {
			dx := (float64(px) + 0.5 - c) / c
			dy := (float64(py) + 0.5 - c) / c
			d := math.Hypot(dx, dy)
			alpha := 1 - utils.SmoothStep(0.35, 1, d)
			v := uint8(math.Round(alpha * 255))
			img.SetRGBA(px, py, color.RGBA{R: v, G: v, B: v, A: v})
		}
	}
	return img
}
