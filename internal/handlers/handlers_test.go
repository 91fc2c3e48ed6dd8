package handlers_test

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	v1 "github.com/kubev2v/jobsched/api/v1"
	"github.com/kubev2v/jobsched/internal/handlers"
	"github.com/kubev2v/jobsched/internal/services"
	"github.com/kubev2v/jobsched/internal/store"
	"github.com/kubev2v/jobsched/pkg/renderer"
	"github.com/kubev2v/jobsched/pkg/scheduler"
)

var _ = Describe("Handlers", func() {
	var (
		db       *sql.DB
		sched    *scheduler.Scheduler
		tick     *services.TickService
		workload *services.WorkloadService
		router   *gin.Engine
	)

	do := func(method, path string, body any) *httptest.ResponseRecorder {
		var buf bytes.Buffer
		if body != nil {
			Expect(json.NewEncoder(&buf).Encode(body)).To(Succeed())
		}
		req := httptest.NewRequest(method, path, &buf)
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	decode := func(w *httptest.ResponseRecorder, v any) {
		Expect(json.Unmarshal(w.Body.Bytes(), v)).To(Succeed())
	}

	BeforeEach(func() {
		var err error
		db, err = store.NewDB(":memory:")
		Expect(err).NotTo(HaveOccurred())
		st := store.NewStore(db)
		Expect(st.Migrate(context.Background())).To(Succeed())

		sched = scheduler.NewScheduler(scheduler.WithQueueCapacity(2))
		Expect(sched.Init(2, renderer.Static{MultiThreaded: true})).To(Succeed())

		tick = services.NewTickService(sched, time.Millisecond)
		jobSrv := services.NewJobService(sched, st, tick)
		workload = services.NewWorkloadService(jobSrv, services.WorkloadParams{Rate: 200, Burst: 1})

		router = gin.New()
		v1.RegisterHandlers(router.Group("/api/v1"), handlers.New(jobSrv, workload))
	})

	AfterEach(func() {
		workload.Stop()
		tick.Stop()
		sched.Shutdown()
		db.Close()
	})

	Context("GET /scheduler", func() {
		It("should return the scheduler status", func() {
			// Act
			w := do(http.MethodGet, "/api/v1/scheduler", nil)

			// Assert
			Expect(w.Code).To(Equal(http.StatusOK))
			var status v1.SchedulerStatus
			decode(w, &status)
			Expect(status.Id).To(Equal(sched.ID()))
			Expect(status.Running).To(BeTrue())
			Expect(status.Workers).To(HaveLen(2))
		})
	})

	Context("GET /workers", func() {
		It("should list the worker affinities", func() {
			w := do(http.MethodGet, "/api/v1/workers", nil)

			Expect(w.Code).To(Equal(http.StatusOK))
			var list v1.WorkerList
			decode(w, &list)
			Expect(list.Workers).To(HaveLen(2))
			Expect(list.Workers[0].Types).To(ConsistOf("general", "gpu-resource"))
			Expect(list.Workers[1].Types).To(ConsistOf("general", "resource-load"))
		})
	})

	Context("GET /queues", func() {
		It("should report queued jobs", func() {
			// Arrange: no tick, low priority jobs stay queued
			w := do(http.MethodPost, "/api/v1/jobs", v1.CreateJobRequest{Type: "general", Priority: "low"})
			Expect(w.Code).To(Equal(http.StatusAccepted))

			// Act
			w = do(http.MethodGet, "/api/v1/queues", nil)

			// Assert
			Expect(w.Code).To(Equal(http.StatusOK))
			var depths v1.QueueDepths
			decode(w, &depths)
			Expect(depths).To(Equal(v1.QueueDepths{Low: 1}))
		})
	})

	Context("POST /jobs", func() {
		It("should accept a valid job and record it", func() {
			// Arrange
			tick.Start()

			// Act
			w := do(http.MethodPost, "/api/v1/jobs", v1.CreateJobRequest{
				Type:     "resource-load",
				Priority: "normal",
				Duration: "2ms",
			})

			// Assert
			Expect(w.Code).To(Equal(http.StatusAccepted))
			var resp v1.CreateJobResponse
			decode(w, &resp)
			Expect(resp.Handle).NotTo(BeZero())

			Eventually(func() int {
				return do(http.MethodGet, fmt.Sprintf("/api/v1/jobs/%d", resp.Handle), nil).Code
			}).Should(Equal(http.StatusOK))
		})

		DescribeTable("should reject invalid requests",
			func(req v1.CreateJobRequest) {
				w := do(http.MethodPost, "/api/v1/jobs", req)
				Expect(w.Code).To(Equal(http.StatusBadRequest))
			},
			Entry("unknown type", v1.CreateJobRequest{Type: "audio", Priority: "low"}),
			Entry("unknown priority", v1.CreateJobRequest{Type: "general", Priority: "urgent"}),
			Entry("missing priority", v1.CreateJobRequest{Type: "general"}),
			Entry("bad duration", v1.CreateJobRequest{Type: "general", Priority: "low", Duration: "soon"}),
			Entry("negative duration", v1.CreateJobRequest{Type: "general", Priority: "low", Duration: "-1s"}),
			Entry("duration too long", v1.CreateJobRequest{Type: "general", Priority: "low", Duration: "2h"}),
		)

		It("should answer 429 with the handle when the queue is full", func() {
			for range 2 {
				Expect(do(http.MethodPost, "/api/v1/jobs", v1.CreateJobRequest{Type: "general", Priority: "low"}).Code).
					To(Equal(http.StatusAccepted))
			}

			w := do(http.MethodPost, "/api/v1/jobs", v1.CreateJobRequest{Type: "general", Priority: "low"})

			Expect(w.Code).To(Equal(http.StatusTooManyRequests))
			var body map[string]any
			decode(w, &body)
			Expect(body).To(HaveKeyWithValue("handle", BeNumerically("==", 3)))
		})

		It("should answer 503 once the scheduler is shut down", func() {
			sched.Shutdown()

			w := do(http.MethodPost, "/api/v1/jobs", v1.CreateJobRequest{Type: "general", Priority: "low"})

			Expect(w.Code).To(Equal(http.StatusServiceUnavailable))
		})
	})

	Context("GET /jobs", func() {
		BeforeEach(func() {
			tick.Start()
			for i := range 5 {
				req := v1.CreateJobRequest{Type: "general", Priority: "high", Fail: i < 2}
				Eventually(func() int { return do(http.MethodPost, "/api/v1/jobs", req).Code }).
					Should(Equal(http.StatusAccepted))
			}
			Eventually(func() int {
				var list v1.JobListResponse
				decode(do(http.MethodGet, "/api/v1/jobs", nil), &list)
				return list.Total
			}).Should(Equal(5))
		})

		It("should paginate", func() {
			w := do(http.MethodGet, "/api/v1/jobs?page=2&pageSize=2", nil)

			Expect(w.Code).To(Equal(http.StatusOK))
			var list v1.JobListResponse
			decode(w, &list)
			Expect(list.Page).To(Equal(2))
			Expect(list.PageCount).To(Equal(3))
			Expect(list.Total).To(Equal(5))
			Expect(list.Jobs).To(HaveLen(2))
		})

		It("should filter by outcome", func() {
			w := do(http.MethodGet, "/api/v1/jobs?outcome=failure", nil)

			var list v1.JobListResponse
			decode(w, &list)
			Expect(list.Total).To(Equal(2))
			for _, j := range list.Jobs {
				Expect(j.Outcome).To(Equal("failure"))
				Expect(j.Priority).To(Equal("high"))
			}
		})

		It("should return an empty page for an unknown batch", func() {
			w := do(http.MethodGet, "/api/v1/jobs?batch=unknown", nil)

			var list v1.JobListResponse
			decode(w, &list)
			Expect(list.Total).To(BeZero())
			Expect(list.PageCount).To(Equal(1))
			Expect(list.Jobs).To(BeEmpty())
		})
	})

	Context("GET /jobs/{handle}", func() {
		It("should answer 404 for an unknown handle", func() {
			w := do(http.MethodGet, "/api/v1/jobs/999", nil)
			Expect(w.Code).To(Equal(http.StatusNotFound))
		})

		It("should answer 400 for a malformed handle", func() {
			w := do(http.MethodGet, "/api/v1/jobs/abc", nil)
			Expect(w.Code).To(Equal(http.StatusBadRequest))
		})
	})

	Context("/workload", func() {
		It("should start and stop the generator", func() {
			tick.Start()

			w := do(http.MethodPost, "/api/v1/workload", nil)
			Expect(w.Code).To(Equal(http.StatusAccepted))
			var status v1.WorkloadStatus
			decode(w, &status)
			Expect(status.Running).To(BeTrue())
			Expect(status.BatchId).NotTo(BeEmpty())

			Eventually(workload.Submitted).Should(BeNumerically(">=", 1))

			w = do(http.MethodDelete, "/api/v1/workload", nil)
			Expect(w.Code).To(Equal(http.StatusOK))
			decode(w, &status)
			Expect(status.Running).To(BeFalse())
		})

		It("should answer 404 without a generator", func() {
			r := gin.New()
			v1.RegisterHandlers(r, handlers.New(nil, nil))

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/workload", nil))

			Expect(w.Code).To(Equal(http.StatusNotFound))
		})
	})
})
