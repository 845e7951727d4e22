//go:build windows

package screens

import (
	"sync"
	"syscall"

	"golang.org/x/sys/windows"

	"efgh-desktop/internal/geometry"
)

var (
	user32                  = windows.NewLazySystemDLL("user32.dll")
	procEnumDisplayMonitors = user32.NewProc("EnumDisplayMonitors")
)

type rect struct {
	Left   int32
	Top    int32
	Right  int32
	Bottom int32
}

// 回调只注册一次：syscall 回调不会被释放，进程内总数有上限，
// 每次枚举都新建会在长时间运行后耗尽配额。
// 结果通过包级变量传递，枚举期间持锁防止并发写入。
var (
	enumMu     sync.Mutex
	enumResult []geometry.Rect

	enumCallback = syscall.NewCallback(func(hMonitor, hdc uintptr, lprcMonitor *rect, lparam uintptr) uintptr {
		r := *lprcMonitor
		enumResult = append(enumResult, geometry.Rect{
			X:      int(r.Left),
			Y:      int(r.Top),
			Width:  int(r.Right - r.Left),
			Height: int(r.Bottom - r.Top),
		})
		return 1 // 继续枚举
	})
)

func displays() []geometry.Rect {
	enumMu.Lock()
	defer enumMu.Unlock()

	enumResult = nil
	ret, _, _ := procEnumDisplayMonitors.Call(0, 0, enumCallback, 0)
	if ret == 0 {
		return nil
	}

	result := make([]geometry.Rect, len(enumResult))
	copy(result, enumResult)
	return result
}
