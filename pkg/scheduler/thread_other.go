//go:build !linux

package scheduler

// currentThreadID is only meaningful on linux.
func currentThreadID() int {
	return 0
}
