package metrics

import (
	"context"
	"time"

	"github.com/papercomputeco/ollamagw/pkg/connector"
	"github.com/papercomputeco/ollamagw/pkg/llm"
)

// instrumented decorates a Connector with call counters and latency histograms.
type instrumented struct {
	next      connector.Connector
	collector *Collector
}

// InstrumentConnector wraps next so every call is recorded on c.
// connector.IsUnavailable still sees through the wrapper.
func InstrumentConnector(next connector.Connector, c *Collector) connector.Connector {
	return &instrumented{next: next, collector: c}
}

func (i *instrumented) ListModels(ctx context.Context) ([]llm.ModelInfo, error) {
	start := time.Now()
	models, err := i.next.ListModels(ctx)
	i.observe("list_models", start, err)
	return models, err
}

func (i *instrumented) Generate(ctx context.Context, prompt, model string) (string, error) {
	start := time.Now()
	out, err := i.next.Generate(ctx, prompt, model)
	i.observe("generate", start, err)
	return out, err
}

func (i *instrumented) Chat(ctx context.Context, message, model string, history []llm.Message) (string, error) {
	start := time.Now()
	out, err := i.next.Chat(ctx, message, model, history)
	i.observe("chat", start, err)
	return out, err
}

func (i *instrumented) BaseURL() string {
	return i.next.BaseURL()
}

// Unwrap returns the decorated connector.
func (i *instrumented) Unwrap() connector.Connector {
	return i.next
}

func (i *instrumented) observe(op string, start time.Time, err error) {
	outcome := OutcomeOK
	if err != nil {
		outcome = connector.KindOf(err).String()
	}
	i.collector.ObserveConnectorCall(op, outcome, time.Since(start).Seconds())
}
