package main

import (
	"flag"
	"log"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/gonewx/curvefield/pkg/app"
	"github.com/gonewx/curvefield/pkg/config"
	"github.com/gonewx/curvefield/pkg/embedded"
)

var (
	configFlag  = flag.String("config", "", "Field config file (default: embedded data/field.yaml)")
	countFlag   = flag.Int("count", 0, "Override particle count")
	seedFlag    = flag.Uint64("seed", 0, "Override random seed (0 keeps the config value)")
	workersFlag = flag.Int("workers", 0, "Override parallel update chunks")
	hudFlag     = flag.Bool("hud", false, "Show debug HUD")
	verboseFlag = flag.Bool("verbose", false, "Enable verbose logging (default off)")
)

func main() {
	flag.Parse()

	embedded.Init(dataFS)

	gameApp, err := app.NewApp(app.Config{
		Verbose:    *verboseFlag,
		ConfigPath: *configFlag,
		Count:      *countFlag,
		Seed:       *seedFlag,
		Workers:    *workersFlag,
		ShowHUD:    *hudFlag,
	})
	if err != nil {
		log.Fatalf("初始化失败: %v", err)
	}

	ebiten.SetWindowSize(config.WindowWidth, config.WindowHeight)
	ebiten.SetWindowTitle("Curve Field")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(config.TicksPerSecond)

	err = ebiten.RunGame(gameApp)
	gameApp.Close()
	if err != nil {
		log.Fatal(err)
	}
}
