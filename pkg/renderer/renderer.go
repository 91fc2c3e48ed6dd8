// Package renderer describes the render backend as seen by the job scheduler.
//
// The scheduler only needs one fact from the renderer: whether its command
// submission may be driven from more than one thread. That answer decides
// whether GPU resource jobs can share a pool with other work or must be funneled
// through a single worker together with everything else.
package renderer

import (
	"strings"

	srvErrors "github.com/kubev2v/jobsched/pkg/errors"
)

const (
	NameVulkan   = "vulkan"
	NameOpenGL   = "opengl"
	NameHeadless = "headless"
)

// Static is a backend whose threading capability is known up front.
type Static struct {
	Name          string
	MultiThreaded bool
}

func (s Static) IsMultiThreaded() bool {
	return s.MultiThreaded
}

func (s Static) String() string {
	if s.Name == "" {
		return "static"
	}
	return s.Name
}

// Func adapts a plain function to the backend capability query.
type Func func() bool

func (f Func) IsMultiThreaded() bool {
	if f == nil {
		return false
	}
	return f()
}

// FromName returns the backend registered under name.
func FromName(name string) (Static, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case NameVulkan:
		return Static{Name: NameVulkan, MultiThreaded: true}, nil
	case NameOpenGL, "gl":
		return Static{Name: NameOpenGL, MultiThreaded: false}, nil
	case NameHeadless, "none", "":
		return Static{Name: NameHeadless, MultiThreaded: true}, nil
	default:
		return Static{}, srvErrors.NewInvalidBackendError(name)
	}
}
