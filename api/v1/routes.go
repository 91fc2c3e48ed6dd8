package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ServerInterface is implemented by the API handlers.
type ServerInterface interface {
	// (GET /scheduler)
	GetScheduler(c *gin.Context)
	// (GET /workers)
	GetWorkers(c *gin.Context)
	// (GET /queues)
	GetQueues(c *gin.Context)
	// (GET /jobs)
	ListJobs(c *gin.Context, params ListJobsParams)
	// (POST /jobs)
	CreateJob(c *gin.Context)
	// (GET /jobs/:handle)
	GetJob(c *gin.Context, handle uint64)
	// (GET /workload)
	GetWorkload(c *gin.Context)
	// (POST /workload)
	StartWorkload(c *gin.Context)
	// (DELETE /workload)
	StopWorkload(c *gin.Context)
}

type serverWrapper struct {
	handler ServerInterface
}

func (w *serverWrapper) listJobs(c *gin.Context) {
	var params ListJobsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query parameters: " + err.Error()})
		return
	}
	w.handler.ListJobs(c, params)
}

func (w *serverWrapper) getJob(c *gin.Context) {
	var uri struct {
		Handle uint64 `uri:"handle" binding:"required"`
	}
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid job handle"})
		return
	}
	w.handler.GetJob(c, uri.Handle)
}

// RegisterHandlers mounts every API route on router.
func RegisterHandlers(router gin.IRouter, si ServerInterface) {
	w := &serverWrapper{handler: si}

	router.GET("/scheduler", si.GetScheduler)
	router.GET("/workers", si.GetWorkers)
	router.GET("/queues", si.GetQueues)
	router.GET("/jobs", w.listJobs)
	router.POST("/jobs", si.CreateJob)
	router.GET("/jobs/:handle", w.getJob)
	router.GET("/workload", si.GetWorkload)
	router.POST("/workload", si.StartWorkload)
	router.DELETE("/workload", si.StopWorkload)
}
