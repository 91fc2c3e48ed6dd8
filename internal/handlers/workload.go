package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	v1 "github.com/kubev2v/jobsched/api/v1"
)

// GetWorkload returns the workload generator status
// (GET /workload)
func (h *Handler) GetWorkload(c *gin.Context) {
	if h.workloadSrv == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "workload generator is not configured"})
		return
	}
	c.JSON(http.StatusOK, h.workloadStatus())
}

// StartWorkload starts the workload generator on a new batch
// (POST /workload)
func (h *Handler) StartWorkload(c *gin.Context) {
	if h.workloadSrv == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "workload generator is not configured"})
		return
	}
	// the generator outlives the request
	h.workloadSrv.Start(context.Background())
	c.JSON(http.StatusAccepted, h.workloadStatus())
}

// StopWorkload stops the workload generator
// (DELETE /workload)
func (h *Handler) StopWorkload(c *gin.Context) {
	if h.workloadSrv == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "workload generator is not configured"})
		return
	}
	h.workloadSrv.Stop()
	c.JSON(http.StatusOK, h.workloadStatus())
}

func (h *Handler) workloadStatus() v1.WorkloadStatus {
	return v1.WorkloadStatus{
		Running:   h.workloadSrv.Running(),
		BatchId:   h.workloadSrv.BatchID(),
		Submitted: h.workloadSrv.Submitted(),
		Rejected:  h.workloadSrv.Rejected(),
	}
}
