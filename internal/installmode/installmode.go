// Package installmode 判断应用的安装形态（安装版 / 便携版）
// 便携版把数据放在可执行文件旁边，安装版放在用户数据目录。
// 仅 Windows 有真实判定；其它平台固定返回安装版。
package installmode

// IsPortable 返回应用是否以便携模式运行
// 判定不会失败：任何查询错误都按安装版处理。
func IsPortable() bool {
	return isPortable()
}
