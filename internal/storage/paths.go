// Package storage 管理应用数据目录与内容数据库文件的准备
// 内容数据库的表结构由前端侧维护，这里只负责路径解析与旧库迁移。
package storage

import (
	"os"
	"path/filepath"
)

const appDirName = "EFGH"

var portableMode bool

// SetPortable 设置便携模式（启动时调用一次）
// 便携模式下所有数据放在可执行文件旁的 data 目录。
func SetPortable(v bool) {
	portableMode = v
}

// GetAppDataDir 返回应用数据根目录
// 安装版: ~/Library/Application Support/EFGH（macOS）、%AppData%\EFGH（Windows）等
// 便携版: <可执行文件目录>
func GetAppDataDir() string {
	if portableMode {
		if exe, err := os.Executable(); err == nil {
			return filepath.Dir(exe)
		}
	}

	dir, err := os.UserConfigDir()
	if err != nil {
		home, herr := os.UserHomeDir()
		if herr != nil {
			return appDirName
		}
		return filepath.Join(home, "."+appDirName)
	}
	return filepath.Join(dir, appDirName)
}

// GetDataDir 返回数据库文件目录
func GetDataDir() string {
	return filepath.Join(GetAppDataDir(), "data")
}

// GetLogDir 返回日志文件目录
func GetLogDir() string {
	return filepath.Join(GetAppDataDir(), "logs")
}

// GetConfigDir 返回配置文件目录
func GetConfigDir() string {
	return GetAppDataDir()
}

// EnsureAppDirs 创建所有应用目录（已存在时无副作用）
func EnsureAppDirs() error {
	for _, dir := range []string{GetAppDataDir(), GetDataDir(), GetLogDir()} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return nil
}
