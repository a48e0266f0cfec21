package utils

import "math"

// 平滑与裁剪辅助函数

// SmoothStep 埃尔米特平滑阶跃，edge0 以下为 0，edge1 以上为 1
func SmoothStep(edge0, edge1, x float64) float64 {
	t := Clamp01((x - edge0) / (edge1 - edge0))
	return t * t * (3 - 2*t)
}

// Clamp 把 v 限制在 [lo, hi]
func Clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// Clamp01 把 v 限制在 [0, 1]
func Clamp01(v float64) float64 {
	return Clamp(v, 0, 1)
}
