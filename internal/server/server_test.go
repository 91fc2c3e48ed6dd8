package server_test

import (
	"net/http"
	"net/http/httptest"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/kubev2v/jobsched/internal/config"
	"github.com/kubev2v/jobsched/internal/server"
)

var _ = Describe("Server", func() {
	var cfg *config.Configuration

	BeforeEach(func() {
		var err error
		cfg, err = config.NewConfigurationWithDefaults()
		Expect(err).NotTo(HaveOccurred())
		cfg.Server.ServerMode = "prod"
	})

	get := func(srv *server.Server, path string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		return w
	}

	It("should mount registered handlers under /api/v1", func() {
		// Arrange
		srv, err := server.NewServer(cfg, func(router gin.IRouter) {
			router.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
		})
		Expect(err).NotTo(HaveOccurred())

		// Act
		w := get(srv, "/api/v1/ping")

		// Assert
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Body.String()).To(Equal("pong"))
	})

	It("should serve the health endpoint", func() {
		srv, err := server.NewServer(cfg, func(gin.IRouter) {})
		Expect(err).NotTo(HaveOccurred())

		Expect(get(srv, "/api/v1/health").Code).To(Equal(http.StatusOK))
	})

	It("should answer unknown routes with a JSON 404", func() {
		srv, err := server.NewServer(cfg, func(gin.IRouter) {})
		Expect(err).NotTo(HaveOccurred())

		w := get(srv, "/nope")

		Expect(w.Code).To(Equal(http.StatusNotFound))
		Expect(w.Body.String()).To(ContainSubstring("route not found"))
	})

	It("should recover from handler panics", func() {
		srv, err := server.NewServer(cfg, func(router gin.IRouter) {
			router.GET("/boom", func(*gin.Context) { panic("boom") })
		})
		Expect(err).NotTo(HaveOccurred())

		Expect(get(srv, "/api/v1/boom").Code).To(Equal(http.StatusInternalServerError))
	})

	It("should reject an unknown mode", func() {
		cfg.Server.ServerMode = "staging"

		_, err := server.NewServer(cfg, func(gin.IRouter) {})

		Expect(err).To(HaveOccurred())
	})
})
