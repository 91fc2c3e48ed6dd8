package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	v1 "github.com/kubev2v/jobsched/api/v1"
	"github.com/kubev2v/jobsched/internal/models"
	"github.com/kubev2v/jobsched/internal/services"
	srvErrors "github.com/kubev2v/jobsched/pkg/errors"
	"github.com/kubev2v/jobsched/pkg/scheduler"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
	maxJobDuration  = time.Minute
)

// ListJobs returns the job history with filtering and pagination
// (GET /jobs)
func (h *Handler) ListJobs(c *gin.Context, params v1.ListJobsParams) {
	page := 1
	if params.Page != nil && *params.Page > 0 {
		page = *params.Page
	}
	pageSize := defaultPageSize
	if params.PageSize != nil && *params.PageSize > 0 {
		pageSize = min(*params.PageSize, maxPageSize)
	}

	svcParams := services.JobListParams{
		Outcomes: v1.ParseOutcomes(params.Outcome),
		Limit:    uint64(pageSize),
		Offset:   uint64((page - 1) * pageSize),
	}
	for _, p := range params.Priority {
		svcParams.Priorities = append(svcParams.Priorities, strings.ToLower(p))
	}
	if params.Batch != nil {
		svcParams.BatchID = *params.Batch
	}

	result, err := h.jobSrv.List(c.Request.Context(), svcParams)
	if err != nil {
		zap.S().Named("job_handler").Errorw("failed to list jobs", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list jobs"})
		return
	}

	pageCount := (result.Total + pageSize - 1) / pageSize
	if pageCount == 0 {
		pageCount = 1
	}

	jobs := make([]v1.Job, 0, len(result.Records))
	for _, r := range result.Records {
		jobs = append(jobs, v1.NewJobFromModel(r))
	}

	c.JSON(http.StatusOK, v1.JobListResponse{
		Jobs:      jobs,
		Page:      page,
		PageCount: pageCount,
		Total:     result.Total,
	})
}

// GetJob returns the history record of a completed job
// (GET /jobs/{handle})
func (h *Handler) GetJob(c *gin.Context, handle uint64) {
	record, err := h.jobSrv.Get(c.Request.Context(), handle)
	if err != nil {
		if srvErrors.IsResourceNotFoundError(err) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		zap.S().Named("job_handler").Errorw("failed to get job", "handle", handle, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get job"})
		return
	}

	c.JSON(http.StatusOK, v1.NewJobFromModel(*record))
}

// CreateJob submits a synthetic job
// (POST /jobs)
func (h *Handler) CreateJob(c *gin.Context) {
	var req v1.CreateJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	jobType, err := scheduler.ParseJobType(req.Type)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	priority, err := scheduler.ParseJobPriority(req.Priority)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var duration time.Duration
	if req.Duration != "" {
		duration, err = time.ParseDuration(req.Duration)
		if err != nil || duration < 0 || duration > maxJobDuration {
			c.JSON(http.StatusBadRequest, gin.H{"error": "duration must be a duration between 0 and " + maxJobDuration.String()})
			return
		}
	}

	handle, err := h.jobSrv.Submit(c.Request.Context(), models.SyntheticJob{
		Type:     jobType,
		Priority: priority,
		Duration: duration,
		Fail:     req.Fail,
	})
	if err != nil {
		switch {
		case srvErrors.IsQueueFullError(err):
			c.JSON(http.StatusTooManyRequests, gin.H{"error": err.Error(), "handle": uint64(handle)})
		case srvErrors.IsSchedulerStateError(err):
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		case srvErrors.IsInvalidJobError(err), srvErrors.IsInvalidPriorityError(err):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			zap.S().Named("job_handler").Errorw("failed to submit job", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to submit job"})
		}
		return
	}

	c.JSON(http.StatusAccepted, v1.CreateJobResponse{Handle: uint64(handle)})
}
