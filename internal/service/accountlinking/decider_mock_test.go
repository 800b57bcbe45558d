package accountlinking

import (
	"context"
	"github.com/heartmarshall/accountlinking/internal/domain"
	"sync"
)

var _ Decider = &DeciderMock{}

type DeciderMock struct {
	DecideFunc func(ctx context.Context, in domain.DecisionInput) (domain.LinkDecision, error)

	calls struct {
		Decide []struct {
			Ctx context.Context
			In  domain.DecisionInput
		}
	}
	lockDecide sync.RWMutex
}

func (mock *DeciderMock) Decide(ctx context.Context, in domain.DecisionInput) (domain.LinkDecision, error) {
	if mock.DecideFunc == nil {
		panic("DeciderMock.DecideFunc: method is nil but Decider.Decide was just called")
	}
	callInfo := struct {
		Ctx context.Context
		In  domain.DecisionInput
	}{
		Ctx: ctx,
		In:  in,
	}
	mock.lockDecide.Lock()
	mock.calls.Decide = append(mock.calls.Decide, callInfo)
	mock.lockDecide.Unlock()
	return mock.DecideFunc(ctx, in)
}

func (mock *DeciderMock) DecideCalls() []struct {
	Ctx context.Context
	In  domain.DecisionInput
} {
	var calls []struct {
		Ctx context.Context
		In  domain.DecisionInput
	}
	mock.lockDecide.RLock()
	calls = mock.calls.Decide
	mock.lockDecide.RUnlock()
	return calls
}
