package main

import (
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/gonewx/curvefield/pkg/config"
)

func newTestViewer(t *testing.T) (*Viewer, tcell.SimulationScreen) {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatalf("screen.Init() error: %v", err)
	}
	screen.SetSize(60, 20)

	cfg := config.DefaultFieldConfig()
	cfg.ParticleCount = 200
	cfg.Seed = 1

	v, err := NewViewer(screen, cfg, 30)
	if err != nil {
		screen.Fini()
		t.Fatalf("NewViewer() error: %v", err)
	}
	t.Cleanup(v.Close)
	return v, screen
}

func TestViewer_HandleInput(t *testing.T) {
	tests := []struct {
		name      string
		ev        *tcell.EventKey
		wantAlive bool
		wantShape int
		wantPause bool
	}{
		{"空格切换曲线", tcell.NewEventKey(tcell.KeyRune, ' ', tcell.ModNone), true, 1, false},
		{"右方向键切换曲线", tcell.NewEventKey(tcell.KeyRight, 0, tcell.ModNone), true, 1, false},
		{"p 暂停", tcell.NewEventKey(tcell.KeyRune, 'p', tcell.ModNone), true, 0, true},
		{"r 重新散布", tcell.NewEventKey(tcell.KeyRune, 'r', tcell.ModNone), true, 0, false},
		{"q 退出", tcell.NewEventKey(tcell.KeyRune, 'q', tcell.ModNone), false, 0, false},
		{"Esc 退出", tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone), false, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, _ := newTestViewer(t)
			if alive := v.handleInput(tt.ev); alive != tt.wantAlive {
				t.Errorf("handleInput() = %v, want %v", alive, tt.wantAlive)
			}
			if got := v.scene.Animator().ShapeIndex(); got != tt.wantShape {
				t.Errorf("ShapeIndex() = %d, want %d", got, tt.wantShape)
			}
			if v.scene.Paused() != tt.wantPause {
				t.Errorf("Paused() = %v, want %v", v.scene.Paused(), tt.wantPause)
			}
		})
	}
}

// TestViewer_StepDrawsStatusLine 每帧绘制状态栏
func TestViewer_StepDrawsStatusLine(t *testing.T) {
	v, screen := newTestViewer(t)
	v.step()

	want := " vortex -> heart"
	for i, r := range want {
		got, _, _, _ := screen.GetContent(i, 0)
		if got != r {
			t.Fatalf("status line rune %d = %q, want %q", i, got, r)
		}
	}
	if v.scene.Animator().Frames() != 1 {
		t.Errorf("Frames() = %d, want 1", v.scene.Animator().Frames())
	}
}

// TestForwardEvents_StopsWhenDone 无人读取时，done 关闭后转发 goroutine 退出
func TestForwardEvents_StopsWhenDone(t *testing.T) {
	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatalf("screen.Init() error: %v", err)
	}
	defer screen.Fini()

	out := make(chan tcell.Event)
	done := make(chan struct{})
	finished := make(chan struct{})
	go func() {
		forwardEvents(screen, out, done)
		close(finished)
	}()

	close(done)
	screen.InjectKey(tcell.KeyRune, 'q', tcell.ModNone)

	select {
	case <-finished:
	case <-time.After(2 * time.Second):
		t.Fatal("forwardEvents still blocked after done was closed")
	}
}

// TestForwardEvents_Delivers 按键事件被转发
func TestForwardEvents_Delivers(t *testing.T) {
	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatalf("screen.Init() error: %v", err)
	}

	out := make(chan tcell.Event, 4)
	done := make(chan struct{})
	defer close(done)
	go forwardEvents(screen, out, done)

	screen.InjectKey(tcell.KeyRune, 'p', tcell.ModNone)

	timeout := time.After(2 * time.Second)
	for {
		select {
		case ev := <-out:
			// 初始化时可能先收到尺寸事件
			if key, ok := ev.(*tcell.EventKey); ok {
				if key.Rune() != 'p' {
					t.Errorf("key rune = %q, want 'p'", key.Rune())
				}
				screen.Fini()
				return
			}
		case <-timeout:
			screen.Fini()
			t.Fatal("no key event forwarded")
		}
	}
}
