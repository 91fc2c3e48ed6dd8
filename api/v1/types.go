package v1

import "time"

// SchedulerStatus is the body of GET /scheduler.
type SchedulerStatus struct {
	Id                 string         `json:"id"`
	Running            bool           `json:"running"`
	Ticks              uint64         `json:"ticks"`
	PendingCompletions int            `json:"pendingCompletions"`
	Queues             QueueDepths    `json:"queues"`
	Stats              SchedulerStats `json:"stats"`
	Workers            []Worker       `json:"workers"`
	History            map[string]int `json:"history,omitempty"`
}

type SchedulerStats struct {
	Submitted  uint64 `json:"submitted"`
	FastPathed uint64 `json:"fastPathed"`
	Enqueued   uint64 `json:"enqueued"`
	Rejected   uint64 `json:"rejected"`
	Dispatched uint64 `json:"dispatched"`
	Succeeded  uint64 `json:"succeeded"`
	Failed     uint64 `json:"failed"`
	Panicked   uint64 `json:"panicked"`
	Delivered  uint64 `json:"delivered"`
	Stalls     uint64 `json:"stalls"`
	Dropped    uint64 `json:"dropped"`
}

type QueueDepths struct {
	High   int `json:"high"`
	Normal int `json:"normal"`
	Low    int `json:"low"`
}

type Worker struct {
	Index    int      `json:"index"`
	Types    []string `json:"types"`
	Busy     bool     `json:"busy"`
	Current  *uint64  `json:"current,omitempty"`
	JobsRun  uint64   `json:"jobsRun"`
	ThreadId int      `json:"threadId"`
}

type WorkerList struct {
	Workers []Worker `json:"workers"`
}

// CreateJobRequest is the body of POST /jobs.
type CreateJobRequest struct {
	Type     string `json:"type" binding:"required"`
	Priority string `json:"priority" binding:"required"`
	// Duration is a Go duration string, e.g. "150ms".
	Duration string `json:"duration,omitempty"`
	Fail     bool   `json:"fail,omitempty"`
}

type CreateJobResponse struct {
	Handle uint64 `json:"handle"`
}

type Job struct {
	Handle      uint64    `json:"handle"`
	BatchId     string    `json:"batchId,omitempty"`
	Type        string    `json:"type"`
	Priority    string    `json:"priority"`
	Outcome     string    `json:"outcome"`
	SubmittedAt time.Time `json:"submittedAt"`
	CompletedAt time.Time `json:"completedAt"`
	RunTimeMs   int64     `json:"runTimeMs"`
}

type JobListResponse struct {
	Jobs      []Job `json:"jobs"`
	Page      int   `json:"page"`
	PageCount int   `json:"pageCount"`
	Total     int   `json:"total"`
}

// ListJobsParams are the query parameters of GET /jobs.
type ListJobsParams struct {
	Outcome  []string `form:"outcome"`
	Priority []string `form:"priority"`
	Batch    *string  `form:"batch"`
	Page     *int     `form:"page"`
	PageSize *int     `form:"pageSize"`
}

type WorkloadStatus struct {
	Running   bool   `json:"running"`
	BatchId   string `json:"batchId,omitempty"`
	Submitted uint64 `json:"submitted"`
	Rejected  uint64 `json:"rejected"`
}
