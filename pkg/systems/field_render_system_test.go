package systems

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/gonewx/curvefield/pkg/config"
	"github.com/gonewx/curvefield/pkg/field"
)

func newTestPool(t *testing.T, n int) *field.Pool {
	t.Helper()
	pool, err := field.NewPool(n, rand.New(rand.NewPCG(3, 5)), field.DefaultPoolOptions())
	if err != nil {
		t.Fatalf("NewPool error: %v", err)
	}
	return pool
}

func newTestFieldRender() *FieldRenderSystem {
	return NewFieldRenderSystem(newTestCamera(), FieldRenderOptions{
		PointScale: 1,
		Opacity:    0.8,
		Background: colorful.Color{R: 0.02, G: 0.02, B: 0.02},
		Additive:   true,
	})
}

// TestFieldRenderSystem_Batching 超过 uint16 索引上限时拆分为多批
func TestFieldRenderSystem_Batching(t *testing.T) {
	tests := []struct {
		name        string
		count       int
		wantBatches int
	}{
		{"单点", 1, 1},
		{"恰好一批", maxQuadsPerBatch, 1},
		{"默认点数", 30000, 2},
		{"三批", maxQuadsPerBatch*2 + 1, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pool := newTestPool(t, tt.count)
			// 全部放在原点，保证都在镜头前
			clear(pool.Positions)

			s := newTestFieldRender()
			screen := ebiten.NewImage(320, 180)
			s.Draw(screen, pool, 0, 0)

			if s.Visible() != tt.count {
				t.Errorf("Visible() = %d, want %d", s.Visible(), tt.count)
			}
			if s.Batches() != tt.wantBatches {
				t.Errorf("Batches() = %d, want %d", s.Batches(), tt.wantBatches)
			}
		})
	}
}

// TestFieldRenderSystem_SkipsPointsBehindCamera 镜头后方的点不生成四边形
func TestFieldRenderSystem_SkipsPointsBehindCamera(t *testing.T) {
	pool := newTestPool(t, 3)
	clear(pool.Positions)
	pool.Positions[5] = 30 // 第 2 个点的 z

	s := newTestFieldRender()
	s.Draw(ebiten.NewImage(320, 180), pool, 0, 0)

	if s.Visible() != 2 {
		t.Errorf("Visible() = %d, want 2", s.Visible())
	}
}

// TestFieldRenderSystem_PointSizeClamp 点尺寸限制在 [MinPointPixels, MaxPointPixels]
func TestFieldRenderSystem_PointSizeClamp(t *testing.T) {
	tests := []struct {
		name  string
		size  float32
		z     float32
		width float32
	}{
		{"远处小点不小于 1 像素", 0.0001, 0, config.MinPointPixels},
		{"贴近镜头不超过上限", 5, 19, config.MaxPointPixels},
		{"正常透视", 2, 0, 2 * 90 / 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pool := newTestPool(t, 1)
			clear(pool.Positions)
			pool.Positions[2] = tt.z
			pool.Sizes[0] = tt.size

			s := newTestFieldRender()
			s.camera.Prepare(320, 180, 0, 0)
			s.vertices = s.vertices[:0]
			s.indices = s.indices[:0]
			if !s.appendPoint(pool, 0) {
				t.Fatal("appendPoint() = false")
			}

			got := s.vertices[1].DstX - s.vertices[0].DstX
			if math.Abs(float64(got-tt.width)) > 1e-4 {
				t.Errorf("quad width = %v, want %v", got, tt.width)
			}
		})
	}
}

// TestFieldRenderSystem_VertexColor 顶点颜色取自点池，alpha 为全局不透明度
func TestFieldRenderSystem_VertexColor(t *testing.T) {
	pool := newTestPool(t, 1)
	clear(pool.Positions)

	s := newTestFieldRender()
	s.camera.Prepare(320, 180, 0, 0)
	s.appendPoint(pool, 0)

	r, g, b := pool.Color(0)
	for i, v := range s.vertices {
		if v.ColorR != r || v.ColorG != g || v.ColorB != b || v.ColorA != 0.8 {
			t.Errorf("vertex %d color = (%v, %v, %v, %v)", i, v.ColorR, v.ColorG, v.ColorB, v.ColorA)
		}
	}
	want := []uint16{0, 1, 2, 1, 3, 2}
	for i, idx := range want {
		if s.indices[i] != idx {
			t.Errorf("indices = %v, want %v", s.indices, want)
			break
		}
	}
}

func TestNewFieldRenderSystem_Defaults(t *testing.T) {
	s := NewFieldRenderSystem(newTestCamera(), FieldRenderOptions{Opacity: 3})
	if s.Options().PointScale != 1 {
		t.Errorf("PointScale = %v, want 1", s.Options().PointScale)
	}
	if s.Options().Opacity != 1 {
		t.Errorf("Opacity = %v, want 1", s.Options().Opacity)
	}
}

func TestNewSoftDot(t *testing.T) {
	img := newSoftDot(spriteSize)
	center := img.RGBAAt(spriteSize/2, spriteSize/2)
	if center.A != 255 {
		t.Errorf("center alpha = %d, want 255", center.A)
	}
	corner := img.RGBAAt(0, 0)
	if corner.A != 0 {
		t.Errorf("corner alpha = %d, want 0", corner.A)
	}
	// 预乘 alpha：颜色分量不超过 alpha
	mid := img.RGBAAt(spriteSize/2, spriteSize/8)
	if mid.R > mid.A {
		t.Errorf("pixel %v is not premultiplied", mid)
	}
}
