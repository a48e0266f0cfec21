// Package main provides a debug viewer for the curve field animator.
//
// Usage:
//
//	go run ./cmd/particles [flags]
//
// Flags:
//
//	--config <path>    Field config file (default: data/field.yaml)
//	--count <n>        Override particle count
//	--seed <n>         Override random seed
//	--workers <n>      Override parallel update chunks
//	--interval <dur>   Override shape interval (e.g. 2s)
//	--verbose          Enable verbose logging
//
// Controls:
//
//	Right Arrow/Space - Advance to the next shape immediately
//	P                 - Toggle pause
//	R                 - Reseed the pool
//	H                 - Toggle HUD
//	Q/Escape          - Quit
package main

import (
	"errors"
	"flag"
	"fmt"
	"image/color"
	"io"
	"log"
	"os"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/gonewx/curvefield/pkg/config"
	"github.com/gonewx/curvefield/pkg/scenes"
)

const (
	screenWidth  = 1024
	screenHeight = 768
)

var (
	configFlag   = flag.String("config", config.DefaultFieldConfigPath, "Field config file")
	countFlag    = flag.Int("count", 0, "Override particle count")
	seedFlag     = flag.Uint64("seed", 0, "Override random seed")
	workersFlag  = flag.Int("workers", 0, "Override parallel update chunks")
	intervalFlag = flag.Duration("interval", 0, "Override shape interval")
	verboseFlag  = flag.Bool("verbose", false, "Enable verbose logging (default off)")
)

var errQuit = errors.New("quit requested")

// FieldViewerGame implements ebiten.Game interface for the field viewer
type FieldViewerGame struct {
	scene *scenes.FieldScene

	showHUD       bool
	statusMessage string
}

// NewFieldViewerGame creates a new viewer with the given config
func NewFieldViewerGame(cfg *config.FieldConfig) (*FieldViewerGame, error) {
	scene, err := scenes.NewFieldScene(cfg, scenes.FieldSceneOptions{ShowHUD: true})
	if err != nil {
		return nil, fmt.Errorf("failed to create field scene: %w", err)
	}
	return &FieldViewerGame{
		scene:         scene,
		showHUD:       true,
		statusMessage: "Space: next shape | P: pause | R: reseed | H: HUD | Q: quit",
	}, nil
}

// Update handles input and advances the scene
func (g *FieldViewerGame) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyQ) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return errQuit
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyArrowRight) || inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.scene.ForceAdvance()
		g.statusMessage = fmt.Sprintf("Shape: %s", g.scene.Animator().CurrentShape())
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyP) {
		if g.scene.TogglePause() {
			g.statusMessage = "⏸ PAUSED - Press P to resume"
		} else {
			g.statusMessage = "▶ Resumed"
		}
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		if err := g.scene.Reseed(); err != nil {
			g.statusMessage = fmt.Sprintf("Reseed failed: %v", err)
		} else {
			g.statusMessage = fmt.Sprintf("Reseeded (seed %d)", g.scene.Seed())
		}
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyH) {
		g.showHUD = !g.showHUD
		g.scene.SetShowHUD(g.showHUD)
	}

	g.scene.Update(1.0 / config.TicksPerSecond)
	return nil
}

// Draw renders the field and the status line
func (g *FieldViewerGame) Draw(screen *ebiten.Image) {
	g.scene.Draw(screen)
	if g.showHUD {
		ebitenutil.DebugPrintAt(screen, g.statusMessage, 10, screenHeight-24)
	}
}

// Layout returns the viewer's logical screen size
func (g *FieldViewerGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	return screenWidth, screenHeight
}

// DrawFinalScreen letterboxes with black when the window aspect differs
func (g *FieldViewerGame) DrawFinalScreen(screen ebiten.FinalScreen, offscreen *ebiten.Image, geoM ebiten.GeoM) {
	screen.Fill(color.Black)
	op := &ebiten.DrawImageOptions{}
	op.GeoM = geoM
	op.Filter = ebiten.FilterLinear
	screen.DrawImage(offscreen, op)
}

func main() {
	flag.Parse()

	if !*verboseFlag {
		log.SetOutput(io.Discard)
	}

	cfg, err := config.LoadFieldConfig(*configFlag)
	if err != nil {
		fatalf("Failed to load config: %v", err)
	}
	if *countFlag > 0 {
		cfg.ParticleCount = *countFlag
	}
	if *seedFlag != 0 {
		cfg.Seed = *seedFlag
	}
	if *workersFlag > 0 {
		cfg.Workers = *workersFlag
	}
	if *intervalFlag > 0 {
		cfg.ShapeIntervalSeconds = intervalFlag.Seconds()
	}

	viewer, err := NewFieldViewerGame(cfg)
	if err != nil {
		fatalf("Failed to create viewer: %v", err)
	}

	ebiten.SetWindowSize(screenWidth, screenHeight)
	ebiten.SetWindowTitle(fmt.Sprintf("Curve Field Viewer - %d points", cfg.ParticleCount))
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	start := time.Now()
	err = ebiten.RunGame(viewer)
	viewer.scene.Close()
	log.Printf("Viewer ran for %v", time.Since(start).Round(time.Second))

	if err != nil && !errors.Is(err, errQuit) {
		fatalf("%v", err)
	}
}

// fatalf 在静默日志模式下也输出到 stderr 后退出
func fatalf(format string, args ...any) {
	log.SetOutput(os.Stderr)
	log.Fatalf(format, args...)
}
