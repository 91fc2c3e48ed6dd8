package main

import (
	"net/http"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	v1 "github.com/kubev2v/jobsched/api/v1"
)

var _ = Describe("jobsched", Ordered, func() {
	It("should be healthy", func() {
		Expect(apiSvc.Health()).To(Succeed())
	})

	It("should report a running scheduler", func() {
		status, err := apiSvc.Scheduler()
		Expect(err).NotTo(HaveOccurred())
		Expect(status.Running).To(BeTrue())
		Expect(status.Workers).NotTo(BeEmpty())
	})

	It("should run every job type to completion", func() {
		var handles []uint64
		for _, t := range []string{"general", "resource-load", "gpu-resource"} {
			for _, p := range []string{"low", "normal", "high"} {
				h, code, err := apiSvc.CreateJob(v1.CreateJobRequest{Type: t, Priority: p, Duration: "5ms"})
				Expect(err).NotTo(HaveOccurred())
				Expect(code).To(Equal(http.StatusAccepted))
				handles = append(handles, h)
			}
		}

		for _, h := range handles {
			Eventually(func() (string, error) {
				job, err := apiSvc.Job(h)
				if err != nil {
					return "", err
				}
				return job.Outcome, nil
			}).Should(Equal("success"))
		}
	})

	It("should report a failing job as failure", func() {
		h, code, err := apiSvc.CreateJob(v1.CreateJobRequest{Type: "general", Priority: "high", Fail: true})
		Expect(err).NotTo(HaveOccurred())
		Expect(code).To(Equal(http.StatusAccepted))

		Eventually(func() (string, error) {
			job, err := apiSvc.Job(h)
			if err != nil {
				return "", err
			}
			return job.Outcome, nil
		}).Should(Equal("failure"))
	})

	It("should reject an invalid priority", func() {
		_, code, err := apiSvc.CreateJob(v1.CreateJobRequest{Type: "general", Priority: "none"})
		Expect(err).NotTo(HaveOccurred())
		Expect(code).To(Equal(http.StatusBadRequest))
	})
})
