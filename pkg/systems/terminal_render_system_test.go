package systems

import (
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"
)

func newTestScreen(t *testing.T, w, h int) tcell.SimulationScreen {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatalf("screen.Init() error: %v", err)
	}
	t.Cleanup(screen.Fini)
	screen.SetSize(w, h)
	return screen
}

func TestDensityGlyph(t *testing.T) {
	tests := []struct {
		name string
		n    int32
		want rune
	}{
		{"空单元", 0, ' '},
		{"单点", 1, '.'},
		{"两点", 2, ':'},
		{"三点", 3, ':'},
		{"四点", 4, '*'},
		{"八点", 8, '#'},
		{"十六点", 16, '@'},
		{"饱和", 30000, '@'},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := densityGlyph(tt.n); got != tt.want {
				t.Errorf("densityGlyph(%d) = %q, want %q", tt.n, got, tt.want)
			}
		})
	}
}

// TestTerminalRenderSystem_OriginCell 原点落在屏幕中心单元（行号按 2:1 宽高比折算）
func TestTerminalRenderSystem_OriginCell(t *testing.T) {
	screen := newTestScreen(t, 40, 20)
	pool := newTestPool(t, 20)
	clear(pool.Positions)

	s := NewTerminalRenderSystem(newTestCamera(), TerminalRenderOptions{Opacity: 1})
	s.Draw(screen, pool, 0.3, 0.1)

	if got := s.Count(20, 10); got != 20 {
		t.Errorf("Count(20, 10) = %d, want 20", got)
	}
	if got := s.Count(0, 0); got != 0 {
		t.Errorf("Count(0, 0) = %d, want 0", got)
	}

	r, _, style, _ := screen.GetContent(20, 10)
	if r != '@' {
		t.Errorf("center rune = %q, want '@'", r)
	}
	fg, _, _ := style.Decompose()
	// 20 个点叠加后饱和
	cr, cg, cb := fg.RGB()
	if cr != 255 || cg != 255 || cb != 255 {
		t.Errorf("center color = (%d, %d, %d), want saturated white", cr, cg, cb)
	}

	r, _, _, _ = screen.GetContent(0, 0)
	if r != ' ' {
		t.Errorf("empty cell rune = %q, want ' '", r)
	}
}

// TestTerminalRenderSystem_AdditiveColor 单点颜色等于背景加点色乘不透明度
func TestTerminalRenderSystem_AdditiveColor(t *testing.T) {
	screen := newTestScreen(t, 40, 20)
	pool := newTestPool(t, 1)
	clear(pool.Positions)
	pool.Colors[0], pool.Colors[1], pool.Colors[2] = 0.4, 0.2, 0.8

	bg := colorful.Color{R: 0.2, G: 0.2, B: 0.2}
	s := NewTerminalRenderSystem(newTestCamera(), TerminalRenderOptions{Opacity: 0.5, Background: bg})
	s.Draw(screen, pool, 0, 0)

	r, _, style, _ := screen.GetContent(20, 10)
	if r != '.' {
		t.Errorf("rune = %q, want '.'", r)
	}
	fg, _, _ := style.Decompose()
	want := colorful.Color{
		R: bg.R + float64(pool.Colors[0])*0.5,
		G: bg.G + float64(pool.Colors[1])*0.5,
		B: bg.B + float64(pool.Colors[2])*0.5,
	}
	wr, wg, wb := want.RGB255()
	cr, cg, cb := fg.RGB()
	if cr != int32(wr) || cg != int32(wg) || cb != int32(wb) {
		t.Errorf("color = (%d, %d, %d), want (%d, %d, %d)", cr, cg, cb, wr, wg, wb)
	}
}

// TestTerminalRenderSystem_Resize 屏幕尺寸变化后重新分配缓冲区
func TestTerminalRenderSystem_Resize(t *testing.T) {
	screen := newTestScreen(t, 40, 20)
	pool := newTestPool(t, 5)
	clear(pool.Positions)

	s := NewTerminalRenderSystem(newTestCamera(), TerminalRenderOptions{Opacity: 1})
	s.Draw(screen, pool, 0, 0)

	screen.SetSize(80, 30)
	s.Draw(screen, pool, 0, 0)

	if got := s.Count(40, 15); got != 5 {
		t.Errorf("Count(40, 15) = %d, want 5", got)
	}
	if got := s.Count(80, 15); got != 0 {
		t.Errorf("out-of-range Count = %d, want 0", got)
	}
}
