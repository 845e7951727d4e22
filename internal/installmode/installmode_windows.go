//go:build windows

package installmode

import (
	"os"
	"path/filepath"

	"golang.org/x/sys/windows/registry"
)

const uninstallKey = `Software\Microsoft\Windows\CurrentVersion\Uninstall\EFGH Desktop`

// isPortable 先看可执行文件旁的便携标记文件，再查卸载注册表项。
// 有标记文件视为便携；有注册表项视为安装版；两者都没有时按便携处理
// （解压即用的发行包既无标记也无注册表项）。
func isPortable() bool {
	exe, err := os.Executable()
	if err == nil {
		if _, err := os.Stat(filepath.Join(filepath.Dir(exe), "portable.txt")); err == nil {
			return true
		}
	}

	for _, root := range []registry.Key{registry.CURRENT_USER, registry.LOCAL_MACHINE} {
		k, err := registry.OpenKey(root, uninstallKey, registry.QUERY_VALUE)
		if err == nil {
			k.Close()
			return false
		}
	}
	return true
}
