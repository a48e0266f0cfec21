//go:build mobile

// embed.go - 移动端资源嵌入声明
//
// 此文件仅在使用 -tags mobile 构建时编译。
// data/field.yaml 是根目录 data/field.yaml 的副本，修改默认配置时需同步。
//
// 手动构建：
//
//	go build -tags mobile ./mobile
package mobile

import "embed"

//go:embed data/field.yaml
var dataFS embed.FS
