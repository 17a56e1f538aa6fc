package servecmder

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/ollamagw/pkg/config"
	"github.com/papercomputeco/ollamagw/pkg/connector"
	"github.com/papercomputeco/ollamagw/pkg/logger"
)

var _ = Describe("serveCommander", func() {
	var (
		cmder *serveCommander
		logs  *bytes.Buffer
	)

	BeforeEach(func() {
		logs = &bytes.Buffer{}
		cmder = &serveCommander{
			cfg:    config.NewDefaultConfig(),
			logger: logger.New(logger.WithWriter(logs)),
		}
	})

	Describe("newConnector", func() {
		It("builds an Ollama client for a usable host", func() {
			conn := cmder.newConnector()
			Expect(connector.IsUnavailable(conn)).To(BeFalse())
			Expect(conn.BaseURL()).To(Equal("http://localhost:11434"))
		})

		It("falls back to the unavailable variant", func() {
			cmder.cfg.Ollama.Host = "bad host"

			conn := cmder.newConnector()
			Expect(connector.IsUnavailable(conn)).To(BeTrue())
			Expect(logs.String()).To(ContainSubstring("could not create ollama connector"))
		})
	})

	Describe("probe", func() {
		It("warns when the backend is down", func() {
			backend := httptest.NewServer(http.NotFoundHandler())
			u, err := url.Parse(backend.URL)
			Expect(err).NotTo(HaveOccurred())
			backend.Close()

			cmder.cfg.Ollama.Host = u.Hostname()
			cmder.cfg.Ollama.Port = u.Port()

			cmder.probe(context.Background(), cmder.newConnector())
			Expect(logs.String()).To(ContainSubstring("ollama is not reachable yet"))
		})

		It("reports the model count when reachable", func() {
			backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(`{"models":[{"name":"llama2"}]}`))
			}))
			DeferCleanup(backend.Close)

			u, err := url.Parse(backend.URL)
			Expect(err).NotTo(HaveOccurred())
			cmder.cfg.Ollama.Host = u.Hostname()
			cmder.cfg.Ollama.Port = u.Port()

			cmder.probe(context.Background(), cmder.newConnector())
			Expect(logs.String()).To(ContainSubstring("ollama reachable"))
			Expect(logs.String()).To(ContainSubstring("models=1"))
		})

		It("skips the unavailable variant", func() {
			cmder.probe(context.Background(), connector.NewUnavailable("http://x:1", nil))
			Expect(logs.String()).To(BeEmpty())
		})
	})
})
