package ollama_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/ollamagw/pkg/connector"
	"github.com/papercomputeco/ollamagw/pkg/connector/ollama"
	"github.com/papercomputeco/ollamagw/pkg/llm"
)

// capturedRequest is what the fake backend received.
type capturedRequest struct {
	Method string
	Path   string
	Body   map[string]any
}

// fakeOllama answers every request with status and body and records the request.
func fakeOllama(status int, body string, captured *capturedRequest) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if captured != nil {
			captured.Method = r.Method
			captured.Path = r.URL.Path
			raw, _ := io.ReadAll(r.Body)
			captured.Body = nil
			if len(raw) > 0 {
				_ = json.Unmarshal(raw, &captured.Body)
			}
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
}

func newClient(baseURL string) *ollama.Client {
	c, err := ollama.NewClient(ollama.Config{BaseURL: baseURL})
	ExpectWithOffset(1, err).NotTo(HaveOccurred())
	return c
}

func kindOf(err error) connector.Kind {
	var cerr *connector.Error
	ExpectWithOffset(1, errors.As(err, &cerr)).To(BeTrue())
	return cerr.Kind
}

var _ = Describe("Client", func() {
	var ctx context.Context

	BeforeEach(func() {
		ctx = context.Background()
	})

	Describe("NewClient", func() {
		It("defaults the base url", func() {
			c, err := ollama.NewClient(ollama.Config{})
			Expect(err).NotTo(HaveOccurred())
			Expect(c.BaseURL()).To(Equal(ollama.DefaultBaseURL))
		})

		It("trims a trailing slash", func() {
			Expect(newClient("http://ollama:11434/").BaseURL()).To(Equal("http://ollama:11434"))
		})

		DescribeTable("rejects unusable base urls",
			func(baseURL string) {
				_, err := ollama.NewClient(ollama.Config{BaseURL: baseURL})
				Expect(err).To(HaveOccurred())
			},
			Entry("no scheme", "ollama:11434"),
			Entry("unsupported scheme", "ftp://ollama:11434"),
			Entry("no host", "http://"),
			Entry("unparseable", "http://[::1"),
		)
	})

	Describe("ListModels", func() {
		DescribeTable("preserves backend order",
			func(body string, expected []llm.ModelInfo) {
				var captured capturedRequest
				backend := fakeOllama(http.StatusOK, body, &captured)
				DeferCleanup(backend.Close)

				models, err := newClient(backend.URL).ListModels(ctx)
				Expect(err).NotTo(HaveOccurred())
				Expect(models).To(Equal(expected))
				Expect(captured.Method).To(Equal(http.MethodGet))
				Expect(captured.Path).To(Equal("/api/tags"))
			},
			Entry("no models", `{"models":[]}`, []llm.ModelInfo{}),
			Entry("one model", `{"models":[{"name":"llama2:latest","size":1}]}`, []llm.ModelInfo{{Name: "llama2:latest"}}),
			Entry("many models with duplicates", `{"models":[{"name":"b"},{"name":"a"},{"name":"b"}]}`,
				[]llm.ModelInfo{{Name: "b"}, {Name: "a"}, {Name: "b"}}),
			Entry("missing models key", `{}`, []llm.ModelInfo{}),
		)

		It("reports backend HTTP errors as unavailable", func() {
			backend := fakeOllama(http.StatusInternalServerError, "boom", nil)
			DeferCleanup(backend.Close)

			_, err := newClient(backend.URL).ListModels(ctx)
			Expect(err).To(MatchError(connector.ErrUnavailable))
			Expect(err.Error()).To(ContainSubstring(backend.URL))

			// the original failure stays in the chain
			var inner *connector.Error
			Expect(errors.As(errors.Unwrap(err), &inner)).To(BeTrue())
			Expect(inner.Kind).To(Equal(connector.KindBackendHTTP))
			Expect(inner.StatusCode).To(Equal(http.StatusInternalServerError))
		})

		DescribeTable("reports malformed bodies as unavailable",
			func(body string) {
				backend := fakeOllama(http.StatusOK, body, nil)
				DeferCleanup(backend.Close)

				models, err := newClient(backend.URL).ListModels(ctx)
				Expect(err).To(HaveOccurred())
				Expect(models).To(BeNil())
				Expect(kindOf(err)).To(Equal(connector.KindUnavailable))

				var inner *connector.Error
				Expect(errors.As(errors.Unwrap(err), &inner)).To(BeTrue())
				Expect(inner.Kind).To(Equal(connector.KindMalformedResponse))
			},
			Entry("models is not a list", `{"models":"nope"}`),
			Entry("null body", `null`),
			Entry("null body with whitespace", " null\n"),
			Entry("null models", `{"models":null}`),
		)

		It("rejects bodies over the size cap", func() {
			backend := fakeOllama(http.StatusOK, `{"models":[{"name":"llama2:latest"}]}`, nil)
			DeferCleanup(backend.Close)

			c, err := ollama.NewClient(ollama.Config{BaseURL: backend.URL, MaxResponseBytes: 16})
			Expect(err).NotTo(HaveOccurred())

			_, err = c.ListModels(ctx)
			Expect(kindOf(err)).To(Equal(connector.KindUnavailable))
			Expect(err.Error()).To(ContainSubstring("exceeds 16 bytes"))
		})

		It("reports entries without a name as unavailable", func() {
			backend := fakeOllama(http.StatusOK, `{"models":[{"name":"a"},{"size":2}]}`, nil)
			DeferCleanup(backend.Close)

			_, err := newClient(backend.URL).ListModels(ctx)
			Expect(kindOf(err)).To(Equal(connector.KindUnavailable))
		})

		It("reports an unreachable backend as unavailable", func() {
			backend := fakeOllama(http.StatusOK, `{}`, nil)
			baseURL := backend.URL
			backend.Close()

			_, err := newClient(baseURL).ListModels(ctx)
			Expect(kindOf(err)).To(Equal(connector.KindUnavailable))
			Expect(err.Error()).To(ContainSubstring(baseURL))
		})
	})

	Describe("Generate", func() {
		It("posts a non-streaming request and returns the response", func() {
			var captured capturedRequest
			backend := fakeOllama(http.StatusOK, `{"response":"42","done":true}`, &captured)
			DeferCleanup(backend.Close)

			out, err := newClient(backend.URL).Generate(ctx, "meaning of life", "llama2")
			Expect(err).NotTo(HaveOccurred())
			Expect(out).To(Equal("42"))

			Expect(captured.Method).To(Equal(http.MethodPost))
			Expect(captured.Path).To(Equal("/api/generate"))
			Expect(captured.Body).To(Equal(map[string]any{
				"model":  "llama2",
				"prompt": "meaning of life",
				"stream": false,
			}))
		})

		It("falls back when the response field is absent", func() {
			backend := fakeOllama(http.StatusOK, `{"done":true}`, nil)
			DeferCleanup(backend.Close)

			out, err := newClient(backend.URL).Generate(ctx, "p", "llama2")
			Expect(err).NotTo(HaveOccurred())
			Expect(out).To(Equal("No response from model"))
		})

		It("keeps an empty response", func() {
			backend := fakeOllama(http.StatusOK, `{"response":""}`, nil)
			DeferCleanup(backend.Close)

			out, err := newClient(backend.URL).Generate(ctx, "p", "llama2")
			Expect(err).NotTo(HaveOccurred())
			Expect(out).To(BeEmpty())
		})

		It("reports a null body as malformed", func() {
			backend := fakeOllama(http.StatusOK, `null`, nil)
			DeferCleanup(backend.Close)

			_, err := newClient(backend.URL).Generate(ctx, "p", "llama2")
			Expect(kindOf(err)).To(Equal(connector.KindMalformedResponse))
		})

		It("truncates oversized error bodies", func() {
			backend := fakeOllama(http.StatusBadGateway, "0123456789abcdefghij", nil)
			DeferCleanup(backend.Close)

			c, err := ollama.NewClient(ollama.Config{BaseURL: backend.URL, MaxResponseBytes: 10})
			Expect(err).NotTo(HaveOccurred())

			_, err = c.Generate(ctx, "p", "llama2")
			Expect(kindOf(err)).To(Equal(connector.KindBackendHTTP))
			Expect(err.Error()).To(Equal("ollama api error: 502 - 0123456789"))
		})

		It("surfaces backend status and body", func() {
			backend := fakeOllama(http.StatusNotFound, `{"error":"model 'x' not found"}`, nil)
			DeferCleanup(backend.Close)

			_, err := newClient(backend.URL).Generate(ctx, "p", "x")
			Expect(kindOf(err)).To(Equal(connector.KindBackendHTTP))
			Expect(err.Error()).To(Equal(`ollama api error: 404 - {"error":"model 'x' not found"}`))
		})
	})

	Describe("Chat", func() {
		It("sends history followed by the message", func() {
			var captured capturedRequest
			backend := fakeOllama(http.StatusOK, `{"message":{"role":"assistant","content":"hey"},"done":true}`, &captured)
			DeferCleanup(backend.Close)

			out, err := newClient(backend.URL).Chat(ctx, "hello", "mistral", []llm.Message{{Role: "assistant", Content: "hi"}})
			Expect(err).NotTo(HaveOccurred())
			Expect(out).To(Equal("hey"))

			Expect(captured.Path).To(Equal("/api/chat"))
			Expect(captured.Body).To(Equal(map[string]any{
				"model":  "mistral",
				"stream": false,
				"messages": []any{
					map[string]any{"role": "assistant", "content": "hi"},
					map[string]any{"role": "user", "content": "hello"},
				},
			}))
		})

		It("falls back when message content is absent", func() {
			backend := fakeOllama(http.StatusOK, `{"message":{"role":"assistant"}}`, nil)
			DeferCleanup(backend.Close)

			out, err := newClient(backend.URL).Chat(ctx, "hello", "llama2", nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(out).To(Equal("No response"))
		})

		It("falls back when message is absent", func() {
			backend := fakeOllama(http.StatusOK, `{"done":true}`, nil)
			DeferCleanup(backend.Close)

			out, err := newClient(backend.URL).Chat(ctx, "hello", "llama2", nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(out).To(Equal("No response"))
		})

		It("reports a null body as malformed", func() {
			backend := fakeOllama(http.StatusOK, `null`, nil)
			DeferCleanup(backend.Close)

			out, err := newClient(backend.URL).Chat(ctx, "hello", "llama2", nil)
			Expect(out).To(BeEmpty())
			Expect(kindOf(err)).To(Equal(connector.KindMalformedResponse))
		})

		It("reports unparseable bodies as malformed", func() {
			backend := fakeOllama(http.StatusOK, `not json`, nil)
			DeferCleanup(backend.Close)

			_, err := newClient(backend.URL).Chat(ctx, "hello", "llama2", nil)
			Expect(kindOf(err)).To(Equal(connector.KindMalformedResponse))
		})

		It("reports connection failures", func() {
			backend := fakeOllama(http.StatusOK, `{}`, nil)
			baseURL := backend.URL
			backend.Close()

			_, err := newClient(baseURL).Chat(ctx, "hello", "llama2", nil)
			Expect(kindOf(err)).To(Equal(connector.KindConnectionFailed))
			Expect(err.Error()).To(ContainSubstring(baseURL))
		})

		It("times out with the configured budget", func() {
			release := make(chan struct{})
			backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				select {
				case <-release:
				case <-r.Context().Done():
				}
			}))
			DeferCleanup(backend.Close)
			DeferCleanup(func() { close(release) })

			c, err := ollama.NewClient(ollama.Config{
				BaseURL:     backend.URL,
				ChatTimeout: 50 * time.Millisecond,
			})
			Expect(err).NotTo(HaveOccurred())

			_, err = c.Chat(ctx, "hello", "llama2", nil)
			Expect(kindOf(err)).To(Equal(connector.KindTimeout))
			Expect(err.Error()).To(ContainSubstring("50ms"))
		})

		It("reports caller cancellation", func() {
			backend := fakeOllama(http.StatusOK, `{}`, nil)
			DeferCleanup(backend.Close)

			canceled, cancel := context.WithCancel(ctx)
			cancel()

			_, err := newClient(backend.URL).Chat(canceled, "hello", "llama2", nil)
			Expect(kindOf(err)).To(Equal(connector.KindCanceled))
		})
	})
})
