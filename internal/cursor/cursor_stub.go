//go:build !windows

package cursor

import "efgh-desktop/internal/geometry"

func position() (geometry.Point, bool) {
	return geometry.Point{}, false
}
