package ai

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
)

// Router fans a completion request across registered providers in
// registration order, returning the first success. A provider failure is
// logged and the next provider in the chain is tried; the request only fails
// when the whole chain is exhausted.
type Router struct {
	providers map[string]Provider
	chain     []string
	mu        sync.RWMutex
}

// NewRouter creates an empty Router.
func NewRouter() *Router {
	return &Router{
		providers: make(map[string]Provider),
	}
}

// Register adds a provider to the end of the fallback chain.
func (r *Router) Register(name string, provider Provider) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.providers[name] = provider
	r.chain = append(r.chain, name)
}

// Complete routes a request through the fallback chain.
func (r *Router) Complete(ctx context.Context, req CompletionRequest) (CompletionResponse, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, name := range r.chain {
		resp, err := r.providers[name].Complete(ctx, req)
		if err != nil {
			if ctx.Err() != nil {
				return CompletionResponse{}, ctx.Err()
			}
			slog.Warn("provider failed, trying next",
				"provider", name,
				"error", err,
			)
			continue
		}

		slog.Debug("completion served",
			"provider", name,
			"model", resp.Model,
			"tokens", resp.TotalTokens(),
		)
		return resp, nil
	}

	return CompletionResponse{}, fmt.Errorf("all providers failed")
}

// HasProvider reports whether at least one provider is registered.
func (r *Router) HasProvider() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.providers) > 0
}

// Names returns the fallback chain in order.
func (r *Router) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, len(r.chain))
	copy(out, r.chain)
	return out
}
