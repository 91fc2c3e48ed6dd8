package service

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	v1 "github.com/kubev2v/jobsched/api/v1"
)

const apiV1Path = "/api/v1"

// JobschedSvc is an HTTP client for the jobsched diagnostics API.
type JobschedSvc struct {
	baseURL string
	client  *http.Client
}

func NewJobschedService(baseURL string) *JobschedSvc {
	zap.S().Infow("Initializing JobschedSvc...", "url", baseURL)
	return &JobschedSvc{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

func (s *JobschedSvc) Health() error {
	resp, err := s.client.Get(s.baseURL + apiV1Path + "/health")
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check returned %d", resp.StatusCode)
	}
	return nil
}

func (s *JobschedSvc) Scheduler() (*v1.SchedulerStatus, error) {
	var status v1.SchedulerStatus
	if err := s.get("/scheduler", &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// CreateJob submits a job and returns its handle along with the status code.
func (s *JobschedSvc) CreateJob(req v1.CreateJobRequest) (uint64, int, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return 0, 0, err
	}

	resp, err := s.client.Post(s.baseURL+apiV1Path+"/jobs", "application/json", bytes.NewReader(body))
	if err != nil {
		return 0, 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusAccepted {
		return 0, resp.StatusCode, nil
	}

	var created v1.CreateJobResponse
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		return 0, resp.StatusCode, err
	}
	return created.Handle, resp.StatusCode, nil
}

func (s *JobschedSvc) Job(handle uint64) (*v1.Job, error) {
	var job v1.Job
	if err := s.get(fmt.Sprintf("/jobs/%d", handle), &job); err != nil {
		return nil, err
	}
	return &job, nil
}

func (s *JobschedSvc) get(path string, v any) error {
	resp, err := s.client.Get(s.baseURL + apiV1Path + path)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("GET %s returned %d", path, resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(v)
}
