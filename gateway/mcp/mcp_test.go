package mcp_test

import (
	"context"
	"time"

	gomcp "github.com/modelcontextprotocol/go-sdk/mcp"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/ollamagw/gateway/mcp"
	"github.com/papercomputeco/ollamagw/pkg/connector"
	"github.com/papercomputeco/ollamagw/pkg/llm"
	"github.com/papercomputeco/ollamagw/pkg/logger"
	testutils "github.com/papercomputeco/ollamagw/pkg/utils/test"
)

// connect starts server on an in-memory transport and returns a client session.
func connect(ctx context.Context, server *mcp.Server) *gomcp.ClientSession {
	serverTransport, clientTransport := gomcp.NewInMemoryTransports()

	_, err := server.MCPServer().Connect(ctx, serverTransport, nil)
	ExpectWithOffset(1, err).NotTo(HaveOccurred())

	client := gomcp.NewClient(&gomcp.Implementation{Name: "test-client", Version: "v0.0.1"}, nil)
	session, err := client.Connect(ctx, clientTransport, nil)
	ExpectWithOffset(1, err).NotTo(HaveOccurred())

	DeferCleanup(session.Close)
	return session
}

func textOf(result *gomcp.CallToolResult) string {
	ExpectWithOffset(1, result.Content).NotTo(BeEmpty())
	text, ok := result.Content[0].(*gomcp.TextContent)
	ExpectWithOffset(1, ok).To(BeTrue())
	return text.Text
}

var _ = Describe("MCP Server", func() {
	var (
		server *mcp.Server
		mock   *testutils.MockConnector
		ctx    context.Context
	)

	BeforeEach(func() {
		ctx = context.Background()
		mock = testutils.NewMockConnector()

		var err error
		server, err = mcp.NewServer(mcp.Config{
			Connector: mock,
			Logger:    logger.Nop(),
		})
		Expect(err).NotTo(HaveOccurred())
	})

	Describe("NewServer", func() {
		It("returns an error when connector is nil", func() {
			_, err := mcp.NewServer(mcp.Config{Logger: logger.Nop()})
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("connector is required"))
		})

		It("returns an error when logger is nil", func() {
			_, err := mcp.NewServer(mcp.Config{Connector: mock})
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("logger is required"))
		})

		It("returns an HTTP handler", func() {
			Expect(server.Handler()).NotTo(BeNil())
		})
	})

	Describe("tools", func() {
		It("lists chat and list_models", func() {
			session := connect(ctx, server)

			res, err := session.ListTools(ctx, &gomcp.ListToolsParams{})
			Expect(err).NotTo(HaveOccurred())

			names := make([]string, 0, len(res.Tools))
			for _, t := range res.Tools {
				names = append(names, t.Name)
			}
			Expect(names).To(ConsistOf("chat", "list_models"))
		})

		It("forwards chat with its context", func() {
			session := connect(ctx, server)

			res, err := session.CallTool(ctx, &gomcp.CallToolParams{
				Name: "chat",
				Arguments: map[string]any{
					"prompt": "hello",
					"context": []map[string]string{
						{"role": "assistant", "content": "hi"},
					},
				},
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(res.IsError).To(BeFalse())
			Expect(textOf(res)).To(Equal(mock.ChatReply))

			Expect(mock.LastMessage).To(Equal("hello"))
			Expect(mock.LastModel).To(Equal(llm.DefaultModel))
			Expect(mock.LastHistory).To(Equal([]llm.Message{{Role: "assistant", Content: "hi"}}))
		})

		It("reports connector failures as tool errors", func() {
			mock.ChatErr = &connector.Error{Kind: connector.KindTimeout, Op: "chat", Timeout: 120 * time.Second}
			session := connect(ctx, server)

			res, err := session.CallTool(ctx, &gomcp.CallToolParams{
				Name:      "chat",
				Arguments: map[string]any{"prompt": "hello"},
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(res.IsError).To(BeTrue())
			Expect(textOf(res)).To(ContainSubstring("timed out"))
		})

		It("rejects an empty prompt", func() {
			session := connect(ctx, server)

			res, err := session.CallTool(ctx, &gomcp.CallToolParams{
				Name:      "chat",
				Arguments: map[string]any{"prompt": ""},
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(res.IsError).To(BeTrue())
			Expect(mock.ChatCalls).To(Equal(0))
		})

		It("lists models as JSON text", func() {
			session := connect(ctx, server)

			res, err := session.CallTool(ctx, &gomcp.CallToolParams{
				Name:      "list_models",
				Arguments: map[string]any{},
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(res.IsError).To(BeFalse())
			Expect(textOf(res)).To(MatchJSON(`{"models":[{"name":"llama2"},{"name":"mistral"}],"count":2}`))
		})
	})
})
