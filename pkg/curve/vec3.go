package curve

import "math"

// Vec3 三维向量（世界坐标）
type Vec3 struct {
	X, Y, Z float64
}

// Lerp 按分量在 v 与 o 之间插值
// f=0 精确返回 v，f=1 返回 o
func (v Vec3) Lerp(o Vec3, f float64) Vec3 {
	switch f {
	case 0:
		return v
	case 1:
		return o
	}
	return Vec3{
		X: v.X + (o.X-v.X)*f,
		Y: v.Y + (o.Y-v.Y)*f,
		Z: v.Z + (o.Z-v.Z)*f,
	}
}

// IsFinite 报告三个分量是否均为有限值（非 NaN、非 ±Inf）
func (v Vec3) IsFinite() bool {
	return isFinite(v.X) && isFinite(v.Y) && isFinite(v.Z)
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
