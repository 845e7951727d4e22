package storage

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestDirLayout 测试各目录都挂在应用数据根目录下
func TestDirLayout(t *testing.T) {
	SetPortable(false)
	defer SetPortable(false)

	root := GetAppDataDir()
	assert.NotEmpty(t, root, "应用数据根目录不应为空")
	assert.Equal(t, filepath.Join(root, "data"), GetDataDir())
	assert.Equal(t, filepath.Join(root, "logs"), GetLogDir())
	assert.Equal(t, root, GetConfigDir())
	assert.Contains(t, root, appDirName, "安装版目录应包含应用名")
}

// TestPortableDirLayout 测试便携模式下数据跟随可执行文件
func TestPortableDirLayout(t *testing.T) {
	SetPortable(true)
	defer SetPortable(false)

	root := GetAppDataDir()
	assert.NotEmpty(t, root)
	assert.True(t, filepath.IsAbs(root), "便携模式目录应为绝对路径")
	assert.NotContains(t, root, appDirName, "便携模式不使用用户配置目录")
}
