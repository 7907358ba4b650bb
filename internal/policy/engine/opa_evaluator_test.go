package engine

import (
	"context"
	"testing"

	"taskflow/backend/internal/policy/domain"
)

func newOPA(t *testing.T) *OPAEvaluator {
	t.Helper()
	e, err := NewOPAEvaluator(context.Background())
	if err != nil {
		t.Fatalf("NewOPAEvaluator: %v", err)
	}
	return e
}

func TestOPAEvaluator_HealthCheck(t *testing.T) {
	e := newOPA(t)
	if err := e.HealthCheck(context.Background()); err != nil {
		t.Fatalf("HealthCheck: %v", err)
	}
}

func TestOPAEvaluator_ParityWithNative(t *testing.T) {
	e := newOPA(t)
	ctx := context.Background()
	var native Native
	for _, p := range principals() {
		for _, task := range tasks() {
			for _, action := range domain.Actions {
				want, _ := native.Allowed(ctx, action, p, task)
				got, err := e.Allowed(ctx, action, p, task)
				if err != nil {
					t.Fatalf("Allowed(%s, %s, %s): %v", action, p.ID, task.ID, err)
				}
				if got != want {
					t.Errorf("%s %s on %s: opa=%v native=%v", p.ID, action, task.ID, got, want)
				}
			}
		}
	}
}

func TestOPAEvaluator_UnknownAction(t *testing.T) {
	e := newOPA(t)
	ok, err := e.Allowed(context.Background(), "ARCHIVE", admin, tasks()[0])
	if err != nil {
		t.Fatalf("Allowed: %v", err)
	}
	if ok {
		t.Error("unknown action should be denied")
	}
}
