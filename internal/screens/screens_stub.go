//go:build !windows

package screens

import "efgh-desktop/internal/geometry"

func displays() []geometry.Rect {
	return nil
}
