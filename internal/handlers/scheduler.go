package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	v1 "github.com/kubev2v/jobsched/api/v1"
)

// GetScheduler returns the scheduler status, counters and history totals
// (GET /scheduler)
func (h *Handler) GetScheduler(c *gin.Context) {
	status := v1.NewSchedulerStatusFromModel(h.jobSrv.Status())

	outcomes, err := h.jobSrv.Outcomes(c.Request.Context())
	if err != nil {
		zap.S().Named("scheduler_handler").Errorw("failed to count job history", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to count job history"})
		return
	}

	status.History = make(map[string]int, len(outcomes))
	for outcome, n := range outcomes {
		status.History[outcome.Value()] = n
	}

	c.JSON(http.StatusOK, status)
}

// GetWorkers returns every worker with its affinity and current job
// (GET /workers)
func (h *Handler) GetWorkers(c *gin.Context) {
	status := v1.NewSchedulerStatusFromModel(h.jobSrv.Status())
	c.JSON(http.StatusOK, v1.WorkerList{Workers: status.Workers})
}

// GetQueues returns the number of jobs waiting in each priority queue
// (GET /queues)
func (h *Handler) GetQueues(c *gin.Context) {
	status := v1.NewSchedulerStatusFromModel(h.jobSrv.Status())
	c.JSON(http.StatusOK, status.Queues)
}
