package scenes

import (
	"github.com/gonewx/curvefield/pkg/game"
)

// Scene is a type alias for game.Scene.
// All scene implementations should implement the game.Scene interface.
type Scene = game.Scene

var (
	_ Scene       = (*FieldScene)(nil)
	_ game.Closer = (*FieldScene)(nil)
)
