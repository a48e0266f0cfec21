package components

// CameraComponent 透视镜头的参数与环绕状态。
// 镜头始终看向原点，沿以 Y 轴为中心、半径为 Distance 的圆周自动环绕。
type CameraComponent struct {
	// Distance 镜头到原点的距离（世界单位）
	Distance float64

	// FovY 垂直视场角（弧度）
	FovY float64

	// Near 近裁剪距离，深度小于此值的点不绘制
	Near float64

	// OrbitSpeed 环绕角速度（弧度/秒），0 表示固定镜头
	OrbitSpeed float64

	// OrbitAngle 当前环绕角（弧度），0 时镜头位于 +Z 轴
	OrbitAngle float64
}
