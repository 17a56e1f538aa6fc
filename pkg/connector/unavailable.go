package connector

import (
	"context"
	"errors"

	"github.com/papercomputeco/ollamagw/pkg/llm"
)

// Unavailable is the Connector used when a real connector could not be
// constructed at startup. Every call fails with a KindUnavailable *Error
// carrying Reason.
type Unavailable struct {
	url    string
	reason error
}

// NewUnavailable returns the unavailable variant for baseURL.
func NewUnavailable(baseURL string, reason error) *Unavailable {
	if reason == nil {
		reason = errors.New("connector not initialized")
	}
	return &Unavailable{url: baseURL, reason: reason}
}

// Reason returns why the connector is unavailable.
func (u *Unavailable) Reason() error {
	return u.reason
}

func (u *Unavailable) ListModels(_ context.Context) ([]llm.ModelInfo, error) {
	return nil, NewUnavailableError("list_models", u.url, u.reason)
}

func (u *Unavailable) Generate(_ context.Context, _, _ string) (string, error) {
	return "", NewUnavailableError("generate", u.url, u.reason)
}

func (u *Unavailable) Chat(_ context.Context, _, _ string, _ []llm.Message) (string, error) {
	return "", NewUnavailableError("chat", u.url, u.reason)
}

func (u *Unavailable) BaseURL() string {
	return u.url
}

// IsUnavailable reports whether c, or any connector it decorates, is the
// unavailable variant. Decorators expose the wrapped connector through an
// Unwrap() Connector method.
func IsUnavailable(c Connector) bool {
	for c != nil {
		if _, ok := c.(*Unavailable); ok {
			return true
		}
		u, ok := c.(interface{ Unwrap() Connector })
		if !ok {
			return false
		}
		c = u.Unwrap()
	}
	return false
}

var _ Connector = (*Unavailable)(nil)
