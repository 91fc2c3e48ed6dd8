package scheduler

// AffinityMasks returns the type mask of every worker for the given thread
// count and render backend capability. GPU submission and resource loading
// are bound to a single worker each; the returned slice is nil when
// threadCount is outside [1, MaxWorkers].
func AffinityMasks(threadCount int, multiThreaded bool) []JobType {
	if threadCount < 1 || threadCount > MaxWorkers {
		return nil
	}

	masks := make([]JobType, threadCount)
	switch {
	case threadCount == 1 || !multiThreaded:
		masks[0] = JobTypeGeneral | JobTypeResourceLoad | JobTypeGpuResource
		for i := 1; i < threadCount; i++ {
			masks[i] = JobTypeGeneral
		}
	case threadCount == 2:
		masks[0] = JobTypeGeneral | JobTypeGpuResource
		masks[1] = JobTypeGeneral | JobTypeResourceLoad
	default:
		masks[0] = JobTypeGpuResource
		masks[1] = JobTypeResourceLoad
		for i := 2; i < threadCount; i++ {
			masks[i] = JobTypeGeneral
		}
	}
	return masks
}
