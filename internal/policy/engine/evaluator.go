package engine

import (
	"context"

	"taskflow/backend/internal/policy/domain"
	taskdomain "taskflow/backend/internal/task/domain"
)

// Evaluator decides whether a principal may perform an action on a task.
type Evaluator interface {
	Allowed(ctx context.Context, action domain.Action, p domain.Principal, t *taskdomain.Task) (bool, error)
}

// Native evaluates decisions with the in-process predicates of this package.
type Native struct{}

// Allowed implements Evaluator. It never returns an error.
func (Native) Allowed(_ context.Context, action domain.Action, p domain.Principal, t *taskdomain.Task) (bool, error) {
	return Can(action, p, t), nil
}
