// Package curve 提供粒子场使用的参数曲线
//
// 每种曲线是一个纯函数 t -> (x, y, z)，不依赖任何可变状态。
// 粒子场按固定顺序在这些曲线之间循环变形。
package curve

import (
	"errors"
	"fmt"
	"strings"
)

// Shape 曲线标识符
type Shape int

// 曲线循环顺序（与默认循环一致）
const (
	Vortex Shape = iota
	Heart
	Butterfly
	Spiral
	Rose
	Lemniscate
	Koch
	Catenary
)

// ErrUnknownShape 未知曲线名称
var ErrUnknownShape = errors.New("unknown shape")

var shapeNames = [...]string{
	Vortex:     "vortex",
	Heart:      "heart",
	Butterfly:  "butterfly",
	Spiral:     "spiral",
	Rose:       "rose",
	Lemniscate: "lemniscate",
	Koch:       "koch",
	Catenary:   "catenary",
}

// String 返回曲线的小写名称
func (s Shape) String() string {
	if s >= 0 && int(s) < len(shapeNames) {
		return shapeNames[s]
	}
	return fmt.Sprintf("shape(%d)", int(s))
}

// Valid 报告 s 是否为已知的 8 种曲线之一
func (s Shape) Valid() bool {
	return s >= 0 && int(s) < len(shapeNames)
}

// ParseShape 按名称查找曲线（不区分大小写）
func ParseShape(name string) (Shape, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	for i, n := range shapeNames {
		if n == key {
			return Shape(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownShape, name)
}

// DefaultCycle 返回默认的 8 曲线循环（每次返回新切片，调用方可自由修改）
func DefaultCycle() []Shape {
	return []Shape{Vortex, Heart, Butterfly, Spiral, Rose, Lemniscate, Koch, Catenary}
}
