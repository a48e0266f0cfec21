// Package main renders the curve field in a terminal.
//
// Usage:
//
//	go run ./cmd/fieldterm [--config data/field.yaml] [--count 4000] [--fps 30]
//
// Controls:
//
//	Space/Right - next shape
//	p           - pause
//	r           - reseed
//	q/Esc/^C    - quit
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/gonewx/curvefield/pkg/config"
	"github.com/gonewx/curvefield/pkg/scenes"
)

var (
	configFlag  = flag.String("config", "", "Field config file (default: built-in defaults)")
	countFlag   = flag.Int("count", 4000, "Particle count (terminals need far fewer points)")
	seedFlag    = flag.Uint64("seed", 0, "Override random seed")
	fpsFlag     = flag.Int("fps", 30, "Frames per second")
	verboseFlag = flag.Bool("verbose", false, "Log to fieldterm.log")
)

// Viewer 终端查看器
type Viewer struct {
	screen tcell.Screen
	scene  *scenes.FieldScene
	frame  time.Duration
	status string
}

// NewViewer 在给定屏幕上创建查看器，screen 需已 Init
func NewViewer(screen tcell.Screen, cfg *config.FieldConfig, fps int) (*Viewer, error) {
	if fps <= 0 {
		fps = 30
	}
	scene, err := scenes.NewFieldScene(cfg, scenes.FieldSceneOptions{})
	if err != nil {
		return nil, err
	}
	return &Viewer{
		screen: screen,
		scene:  scene,
		frame:  time.Second / time.Duration(fps),
	}, nil
}

// handleInput 返回 false 表示退出
func (v *Viewer) handleInput(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			return false
		case tcell.KeyRight:
			v.scene.ForceAdvance()
		case tcell.KeyRune:
			switch ev.Rune() {
			case 'q', 'Q':
				return false
			case ' ':
				v.scene.ForceAdvance()
			case 'p', 'P':
				v.scene.TogglePause()
			case 'r', 'R':
				if err := v.scene.Reseed(); err != nil {
					v.status = err.Error()
				}
			}
		}

	case *tcell.EventResize:
		v.screen.Sync()
	}

	return true
}

// step 推进一帧并绘制
func (v *Viewer) step() {
	v.scene.Update(v.frame.Seconds())
	v.draw()
}

func (v *Viewer) draw() {
	v.scene.DrawTerminal(v.screen)

	a := v.scene.Animator()
	line := fmt.Sprintf(" %s -> %s  %3.0f%%  %d pts ", a.CurrentShape(), a.NextShape(), a.Progress()*100, v.scene.Pool().Len())
	if v.scene.Paused() {
		line += "[paused] "
	}
	if v.status != "" {
		line += v.status + " "
	}
	drawText(v.screen, 0, 0, line, tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorBlack))

	v.screen.Show()
}

func drawText(screen tcell.Screen, x, y int, text string, style tcell.Style) {
	w, _ := screen.Size()
	for _, r := range text {
		if x >= w {
			return
		}
		screen.SetContent(x, y, r, nil, style)
		x++
	}
}

func (v *Viewer) run() {
	ticker := time.NewTicker(v.frame)
	defer ticker.Stop()

	eventChan := make(chan tcell.Event, 100)
	done := make(chan struct{})
	defer close(done)
	go forwardEvents(v.screen, eventChan, done)

	for {
		select {
		case ev := <-eventChan:
			if !v.handleInput(ev) {
				return
			}
		case <-ticker.C:
			v.step()
		}
	}
}

// forwardEvents 把屏幕事件转发到 out，屏幕关闭或 done 关闭后返回
func forwardEvents(screen tcell.Screen, out chan<- tcell.Event, done <-chan struct{}) {
	for {
		ev := screen.PollEvent()
		if ev == nil {
			return
		}
		select {
		case out <- ev:
		case <-done:
			return
		}
	}
}

// Close 停止场景并恢复终端
func (v *Viewer) Close() {
	v.scene.Close()
	v.screen.Fini()
}

func loadConfig() (*config.FieldConfig, error) {
	var cfg *config.FieldConfig
	if *configFlag != "" {
		c, err := config.LoadFieldConfig(*configFlag)
		if err != nil {
			return nil, err
		}
		cfg = c
	} else {
		cfg = config.DefaultFieldConfig()
	}
	if *countFlag > 0 {
		cfg.ParticleCount = *countFlag
	}
	if *seedFlag != 0 {
		cfg.Seed = *seedFlag
	}
	return cfg, nil
}

func main() {
	flag.Parse()

	// tcell 占用终端，日志只能写文件
	log.SetOutput(io.Discard)
	if *verboseFlag {
		f, err := os.Create("fieldterm.log")
		if err == nil {
			defer f.Close()
			log.SetOutput(f)
		}
	}

	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create screen: %v\n", err)
		os.Exit(1)
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize screen: %v\n", err)
		os.Exit(1)
	}

	viewer, err := NewViewer(screen, cfg, *fpsFlag)
	if err != nil {
		screen.Fini()
		fmt.Fprintf(os.Stderr, "Failed to create viewer: %v\n", err)
		os.Exit(1)
	}

	viewer.run()
	viewer.Close()
}
