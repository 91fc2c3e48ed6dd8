//go:build linux

package scheduler

import "golang.org/x/sys/unix"

func currentThreadID() int {
	return unix.Gettid()
}
