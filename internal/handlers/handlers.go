package handlers

import (
	"github.com/kubev2v/jobsched/internal/services"
)

type Handler struct {
	jobSrv      *services.JobService
	workloadSrv *services.WorkloadService
}

// New returns the API handler. workloadSrv may be nil, in which case the
// workload endpoints answer 404.
func New(jobSrv *services.JobService, workloadSrv *services.WorkloadService) *Handler {
	return &Handler{
		jobSrv:      jobSrv,
		workloadSrv: workloadSrv,
	}
}
