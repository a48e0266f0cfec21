package game

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// Scene represents an active view of the application.
// Each scene has its own update and rendering logic.
type Scene interface {
	// Update updates the scene logic based on the elapsed time.
	// deltaTime is the time elapsed since the last update in seconds.
	Update(deltaTime float64)

	// Draw renders the scene to the provided screen.
	Draw(screen *ebiten.Image)
}

// Closer 是一个可选接口，持有后台 goroutine 或计时器的场景实现它
//
// 以下时机会调用 Close()：
//   - 场景被 SwitchTo 替换
//   - 程序窗口关闭
type Closer interface {
	Close()
}
