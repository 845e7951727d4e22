//go:build !windows

package installmode

func isPortable() bool {
	return false
}
