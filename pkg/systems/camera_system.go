package systems

import (
	"math"

	"github.com/gonewx/curvefield/pkg/components"
)

// CameraSystem 管理镜头环绕并把世界坐标投影到屏幕。
//
// 每帧先调用 Prepare 计算组合旋转矩阵（整场旋转 + 镜头环绕），
// 之后对每个点调用 Project，避免逐点重复计算三角函数。
type CameraSystem struct {
	camera *components.CameraComponent

	m            [9]float64 // 行主序 3x3：Ry(-orbit) · Rx(pitch) · Ry(yaw)
	halfW, halfH float64
	focal        float64
}

// NewCameraSystem 创建镜头系统
func NewCameraSystem(camera *components.CameraComponent) *CameraSystem {
	if camera.Near <= 0 {
		camera.Near = 0.1
	}
	cs := &CameraSystem{camera: camera}
	cs.Prepare(1, 1, 0, 0)
	return cs
}

// Camera 返回镜头组件
func (cs *CameraSystem) Camera() *components.CameraComponent {
	return cs.camera
}

// Update 推进镜头环绕角
func (cs *CameraSystem) Update(dt float64) {
	cs.camera.OrbitAngle = math.Mod(cs.camera.OrbitAngle+cs.camera.OrbitSpeed*dt, 2*math.Pi)
}

// Prepare 为一帧准备投影参数
//
// 参数：
//   - width, height: 目标画面尺寸（像素或字符单元）
//   - yaw, pitch: 整场旋转（欧拉角 XYZ 顺序，先绕 Y 再绕 X）
func (cs *CameraSystem) Prepare(width, height float64, yaw, pitch float64) {
	cs.halfW = width / 2
	cs.halfH = height / 2
	cs.focal = cs.halfH / math.Tan(cs.camera.FovY/2)

	object := mat3Mul(rotX(pitch), rotY(yaw))
	cs.m = mat3Mul(rotY(-cs.camera.OrbitAngle), object)
}

// Project 把世界坐标投影到屏幕
// 返回屏幕坐标、深度，以及点是否位于近裁剪面之前
func (cs *CameraSystem) Project(x, y, z float64) (sx, sy, depth float64, ok bool) {
	m := &cs.m
	vx := m[0]*x + m[1]*y + m[2]*z
	vy := m[3]*x + m[4]*y + m[5]*z
	vz := m[6]*x + m[7]*y + m[8]*z

	depth = cs.camera.Distance - vz
	if depth < cs.camera.Near {
		return 0, 0, depth, false
	}

	k := cs.focal / depth
	return cs.halfW + vx*k, cs.halfH - vy*k, depth, true
}

// PointPixels 按深度衰减的点尺寸：size · (H/2) / depth
func (cs *CameraSystem) PointPixels(size, depth float64) float64 {
	return size * cs.halfH / depth
}

func rotX(a float64) [9]float64 {
	s, c := math.Sincos(a)
	return [9]float64{
		1, 0, 0,
		0, c, -s,
		0, s, c,
	}
}

func rotY(a float64) [9]float64 {
	s, c := math.Sincos(a)
	return [9]float64{
		c, 0, s,
		0, 1, 0,
		-s, 0, c,
	}
}

func mat3Mul(a, b [9]float64) [9]float64 {
	var r [9]float64
	for row := 0; row < 3; row++ {
		for col := 0; col < 3; col++ {
			r[row*3+col] = a[row*3]*b[col] + a[row*3+1]*b[3+col] + a[row*3+2]*b[6+col]
		}
	}
	return r
}
