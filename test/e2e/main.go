package main

import (
	"errors"
	"flag"
	"log"
	"net/url"
	"os"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"

	"github.com/kubev2v/jobsched/test/e2e/service"
)

type configuration struct {
	APIUrl  string
	Timeout time.Duration
}

var (
	cfg    configuration
	apiSvc *service.JobschedSvc
)

func (c configuration) Validate() error {
	u, err := url.Parse(c.APIUrl)
	if err != nil {
		return err
	}
	if u.Scheme == "" || u.Host == "" {
		return errors.New("api url must be absolute")
	}
	if c.Timeout <= 0 {
		return errors.New("timeout must be positive")
	}
	return nil
}

func main() {
	flag.StringVar(&cfg.APIUrl, "api-url", "http://localhost:8000", "Base url of a running jobsched diagnostics API")
	flag.DurationVar(&cfg.Timeout, "timeout", 10*time.Second, "How long to wait for jobs to be recorded")
	flag.Parse()

	logger, err := zap.NewDevelopment()
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	zap.ReplaceGlobals(logger)
	defer logger.Sync()

	if err := cfg.Validate(); err != nil {
		log.Fatalf("failed to validate configuration: %v", err)
	}

	apiSvc = service.NewJobschedService(cfg.APIUrl)

	RegisterFailHandler(Fail)
	SetDefaultEventuallyTimeout(cfg.Timeout)
	if !RunSpecs(&testing.T{}, "E2E Suite") {
		os.Exit(1)
	}
}
