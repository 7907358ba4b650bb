package engine

import (
	"context"
	"fmt"

	"github.com/open-policy-agent/opa/v1/rego"

	"taskflow/backend/internal/platform/ident"
	"taskflow/backend/internal/policy/domain"
	taskdomain "taskflow/backend/internal/task/domain"
)

const authzPackage = "taskflow.authz"

// authzPolicy expresses the task access rules in Rego. Ids in the input are normalized,
// so plain equality matches ident.ID.Equal.
const authzPolicy = `package taskflow.authz

default view := false
default update := false
default delete := false

is_admin if {
	input.principal.role == "admin"
}

is_lead if {
	input.principal.role == "team_lead"
}

is_creator if {
	input.principal.id != ""
	input.task.created_by == input.principal.id
}

is_assignee if {
	input.principal.id != ""
	input.task.assigned_to == input.principal.id
}

is_shared if {
	input.principal.id != ""
	some id in input.task.shared_with
	id == input.principal.id
}

same_team if {
	input.task.team_id != ""
	input.task.team_id == input.principal.team_id
}

view if { is_admin }
view if { is_creator }
view if { is_assignee }
view if { is_shared }
view if {
	same_team
	is_lead
}
view if {
	same_team
	input.task.visibility in {"team", "public"}
}

update if { is_admin }
update if { is_creator }
update if { is_assignee }
update if {
	same_team
	is_lead
}

delete if { is_admin }
delete if { is_creator }
delete if {
	same_team
	is_lead
}
`

var actionRules = map[domain.Action]string{
	domain.ActionView:   "view",
	domain.ActionUpdate: "update",
	domain.ActionDelete: "delete",
}

// OPAEvaluator evaluates task access with the embedded Rego policy.
// Queries are prepared once; Allowed is safe for concurrent use.
type OPAEvaluator struct {
	queries map[domain.Action]rego.PreparedEvalQuery
}

// NewOPAEvaluator compiles the policy and prepares one query per action.
func NewOPAEvaluator(ctx context.Context) (*OPAEvaluator, error) {
	queries := make(map[domain.Action]rego.PreparedEvalQuery, len(actionRules))
	for action, rule := range actionRules {
		q, err := rego.New(
			rego.Query(fmt.Sprintf("data.%s.%s", authzPackage, rule)),
			rego.Module("authz.rego", authzPolicy),
		).PrepareForEval(ctx)
		if err != nil {
			return nil, fmt.Errorf("prepare %s policy: %w", rule, err)
		}
		queries[action] = q
	}
	return &OPAEvaluator{queries: queries}, nil
}

// Allowed implements Evaluator.
func (e *OPAEvaluator) Allowed(ctx context.Context, action domain.Action, p domain.Principal, t *taskdomain.Task) (bool, error) {
	q, ok := e.queries[action]
	if !ok {
		return false, nil
	}
	rs, err := q.Eval(ctx, rego.EvalInput(buildInput(p, t)))
	if err != nil {
		return false, fmt.Errorf("eval %s policy: %w", action, err)
	}
	return rs.Allowed(), nil
}

// HealthCheck verifies that the prepared policy evaluates and grants an admin view.
func (e *OPAEvaluator) HealthCheck(ctx context.Context) error {
	admin := domain.Principal{ID: "health", Role: "admin"}
	ok, err := e.Allowed(ctx, domain.ActionView, admin, &taskdomain.Task{ID: "health"})
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("policy query returned no result")
	}
	return nil
}

func buildInput(p domain.Principal, t *taskdomain.Task) map[string]interface{} {
	return map[string]interface{}{
		"principal": map[string]interface{}{
			"id":      p.ID.Normalized(),
			"role":    string(p.Role),
			"team_id": p.TeamID.Normalized(),
		},
		"task": map[string]interface{}{
			"id":          t.ID.Normalized(),
			"created_by":  t.CreatedBy.Normalized(),
			"assigned_to": t.AssignedTo.Normalized(),
			"team_id":     t.TeamID.Normalized(),
			"visibility":  string(t.Visibility),
			"shared_with": ident.Strings(t.SharedWith),
		},
	}
}
