// Package effects runs follow-up work after a primary mutation has committed.
package effects

import (
	"context"

	"github.com/example/wordbook/internal/logger"
)

// Effect is one best-effort follow-up, e.g. an achievement check.
type Effect struct {
	Name string
	Fn   func(ctx context.Context) error
}

// List collects effects in the order they must run.
type List []Effect

func (l *List) Add(name string, fn func(ctx context.Context) error) {
	*l = append(*l, Effect{Name: name, Fn: fn})
}

// Run executes the effects sequentially. A failing or panicking effect is
// logged and does not stop the ones after it. The caller's cancellation is
// detached: the primary write is already durable.
func (l List) Run(ctx context.Context, log *logger.Logger) {
	ctx = context.WithoutCancel(ctx)
	for _, e := range l {
		runOne(ctx, log, e)
	}
}

func runOne(ctx context.Context, log *logger.Logger, e Effect) {
	defer func() {
		if r := recover(); r != nil {
			log.Error("effect panicked", "effect", e.Name, "panic", r)
		}
	}()
	if err := e.Fn(ctx); err != nil {
		log.Warn("effect failed", "effect", e.Name, "error", err)
	}
}
