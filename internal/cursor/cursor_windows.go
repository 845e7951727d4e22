//go:build windows

package cursor

import (
	"unsafe"

	"golang.org/x/sys/windows"

	"efgh-desktop/internal/geometry"
)

var (
	user32           = windows.NewLazySystemDLL("user32.dll")
	procGetCursorPos = user32.NewProc("GetCursorPos")
)

type point struct {
	X int32
	Y int32
}

func position() (geometry.Point, bool) {
	var pt point
	ret, _, _ := procGetCursorPos.Call(uintptr(unsafe.Pointer(&pt)))
	if ret == 0 {
		return geometry.Point{}, false
	}
	return geometry.Point{X: int(pt.X), Y: int(pt.Y)}, true
}
