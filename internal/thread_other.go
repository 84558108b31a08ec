//go:build !linux && !windows

package moonbridge

// Without a thread identity every caller is treated as the owner.
func currentThreadID() int {
	return 0
}
