// Package policy provides linking-decision hooks.
package policy

import (
	"context"

	"github.com/heartmarshall/accountlinking/internal/config"
	"github.com/heartmarshall/accountlinking/internal/domain"
	"github.com/heartmarshall/accountlinking/pkg/ctxutil"
)

// Decider is implemented by every hook in this package.
type Decider interface {
	Decide(ctx context.Context, in domain.DecisionInput) (domain.LinkDecision, error)
}

// Static answers every decision from configuration. Flows marked with
// ctxutil.WithLinkingDisabled never link.
type Static struct {
	enabled             bool
	requireVerification bool
}

// NewStatic creates a Static decider.
func NewStatic(cfg config.LinkingConfig) *Static {
	return &Static{enabled: cfg.Enabled, requireVerification: cfg.RequireVerification}
}

func (p *Static) Decide(ctx context.Context, _ domain.DecisionInput) (domain.LinkDecision, error) {
	if !p.enabled || ctxutil.LinkingDisabled(ctx) {
		return domain.LinkDecision{}, nil
	}
	return domain.LinkDecision{
		ShouldAutomaticallyLink:   true,
		ShouldRequireVerification: p.requireVerification,
	}, nil
}

// Func adapts a plain function to the decider interface.
type Func func(ctx context.Context, in domain.DecisionInput) (domain.LinkDecision, error)

func (f Func) Decide(ctx context.Context, in domain.DecisionInput) (domain.LinkDecision, error) {
	return f(ctx, in)
}
