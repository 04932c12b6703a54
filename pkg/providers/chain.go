package providers

import (
	"context"
	"errors"
	"fmt"

	"github.com/rommaana/agentgw/pkg/logger"
)

// Chain tries each configured backend in order until one produces a
// non-empty reply. A non-retriable failure stops the cascade: the same
// request would fail identically on every candidate.
type Chain struct {
	candidates []Provider
}

func NewChain(candidates ...Provider) *Chain {
	return &Chain{candidates: candidates}
}

func (c *Chain) Name() string { return "chain" }

func (c *Chain) Complete(ctx context.Context, prompt string) (string, error) {
	if len(c.candidates) == 0 {
		return "", fmt.Errorf("no backend providers configured")
	}

	var lastErr error
	for _, p := range c.candidates {
		reply, err := p.Complete(ctx, prompt)
		if err == nil {
			return reply, nil
		}
		lastErr = err

		var be *BackendError
		if errors.As(err, &be) && !be.IsRetriable() {
			logger.ErrorCF("providers", "Backend failed with non-retriable error", map[string]interface{}{
				"provider": p.Name(),
				"reason":   string(be.Reason),
				"error":    err.Error(),
			})
			return "", err
		}

		logger.WarnCF("providers", "Backend failed, trying next candidate", map[string]interface{}{
			"provider": p.Name(),
			"error":    err.Error(),
		})

		// The request context is shared across candidates; once it is
		// done there is no point in cascading further.
		if ctx.Err() != nil {
			return "", lastErr
		}
	}
	return "", lastErr
}
