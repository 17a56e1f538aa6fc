package metrics_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/papercomputeco/ollamagw/pkg/connector"
	"github.com/papercomputeco/ollamagw/pkg/metrics"
	testutils "github.com/papercomputeco/ollamagw/pkg/utils/test"
)

var _ = Describe("Collector", func() {
	var c *metrics.Collector

	BeforeEach(func() {
		c = metrics.NewCollector("")
	})

	It("counts inbound requests by method, route and status", func() {
		c.ObserveRequest("POST", "/api/chat", 200)
		c.ObserveRequest("POST", "/api/chat", 200)
		c.ObserveRequest("POST", "/api/chat", 400)

		Expect(testutil.GatherAndCount(c.Registry(), "ollamagw_http_requests_total")).To(Equal(2))
	})

	It("serves the exposition format", func() {
		c.ObserveRequest("GET", "/health", 200)

		rec := httptest.NewRecorder()
		c.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

		Expect(rec.Code).To(Equal(http.StatusOK))
		body, err := io.ReadAll(rec.Body)
		Expect(err).NotTo(HaveOccurred())
		Expect(string(body)).To(ContainSubstring(`ollamagw_http_requests_total{method="GET",route="/health",status="200"} 1`))
	})

	It("uses a custom namespace", func() {
		custom := metrics.NewCollector("edge")
		custom.ObserveConnectorCall("chat", metrics.OutcomeOK, 0.2)

		Expect(testutil.GatherAndCount(custom.Registry(), "edge_connector_calls_total")).To(Equal(1))
	})
})

var _ = Describe("InstrumentConnector", func() {
	var (
		c    *metrics.Collector
		mock *testutils.MockConnector
		conn connector.Connector
	)

	BeforeEach(func() {
		c = metrics.NewCollector("")
		mock = testutils.NewMockConnector()
		conn = metrics.InstrumentConnector(mock, c)
	})

	It("passes results through and records successes", func() {
		out, err := conn.Chat(context.Background(), "hello", "llama2", nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(Equal(mock.ChatReply))
		Expect(mock.LastMessage).To(Equal("hello"))

		models, err := conn.ListModels(context.Background())
		Expect(err).NotTo(HaveOccurred())
		Expect(models).To(HaveLen(2))

		Expect(conn.BaseURL()).To(Equal(mock.URL))
		Expect(testutil.GatherAndCount(c.Registry(), "ollamagw_connector_calls_total")).To(Equal(2))
	})

	It("labels failures with the connector error kind", func() {
		mock.GenerateErr = &connector.Error{Kind: connector.KindTimeout, Op: "generate"}

		_, err := conn.Generate(context.Background(), "hi", "llama2")
		Expect(err).To(HaveOccurred())

		var cerr *connector.Error
		Expect(errors.As(err, &cerr)).To(BeTrue())
		Expect(cerr.Kind).To(Equal(connector.KindTimeout))

		// one generate/timeout series
		Expect(testutil.GatherAndCount(c.Registry(), "ollamagw_connector_calls_total")).To(Equal(1))
	})

	It("keeps the unavailable variant visible", func() {
		wrapped := metrics.InstrumentConnector(connector.NewUnavailable("http://x:1", nil), c)
		Expect(connector.IsUnavailable(wrapped)).To(BeTrue())
		Expect(connector.IsUnavailable(conn)).To(BeFalse())
	})
})
