package curve

import "math"

// DefaultScale 所有曲线共用的缩放系数
// 实际乘数为 scale/10，使 8 种曲线的视觉尺寸大致一致
const DefaultScale = 12.0

// catenaryPeriod catenary 的参数周期，t 折回 [-160, 160]
// cosh(80) 约 2.8e34，缩放后仍在 float32 范围内
const catenaryPeriod = 320.0

// Evaluate 使用默认缩放计算曲线 s 在参数 t 处的点
func Evaluate(t float64, s Shape) Vec3 {
	return EvaluateScaled(t, s, DefaultScale)
}

// EvaluateScaled 计算曲线 s 在参数 t 处的点
//
// 未知的曲线标识符回退到 vortex 公式，不返回错误。
// 对任意有限 t 结果均为有限值，且各分量可以无溢出地存入 float32。
func EvaluateScaled(t float64, s Shape, scale float64) Vec3 {
	var x, y, z float64

	switch s {
	case Heart:
		st := math.Sin(t)
		x = 16 * st * st * st
		y = 13*math.Cos(t) - 5*math.Cos(2*t) - 2*math.Cos(3*t) - math.Cos(4*t)
	case Butterfly:
		e := math.Exp(math.Cos(t)) - 2*math.Cos(4*t) - math.Pow(math.Sin(t/12), 5)
		x = math.Sin(t) * e * 2
		y = math.Cos(t) * e * 2
	case Spiral:
		const a = 1.2
		x = a * t * math.Cos(t)
		y = a * t * math.Sin(t)
	case Rose:
		const k = 4
		x = math.Cos(k*t) * math.Cos(t) * 15
		y = math.Cos(k*t) * math.Sin(t) * 15
	case Lemniscate:
		const a = 15
		st := math.Sin(t)
		den := 1 + st*st
		x = a * math.Cos(t) / den
		y = a * st * math.Cos(t) / den
	case Koch:
		// 六瓣径向波，近似星形轮廓
		r := 15 * (1 + 0.3*math.Sin(6*t))
		x = r * math.Cos(t)
		y = r * math.Sin(t)
	case Catenary:
		tw := math.Remainder(t, catenaryPeriod)
		x = tw * 4
		y = math.Cosh(tw/2)*4 - 20
	default:
		x, y, z = vortex(t)
	}

	f := scale / 10
	return Vec3{X: x * f, Y: y * f, Z: z * f}
}

// vortex 螺旋上升的涡旋，同时作为未知标识符的回退公式
func vortex(t float64) (x, y, z float64) {
	radius := t * 0.8
	return radius * math.Cos(t*5), radius * math.Sin(t*5), t * 0.5
}
