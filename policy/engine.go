// Package policy decides whether the agent may run a requested tool call.
package policy

import (
	"context"

	"github.com/open-policy-agent/opa/rego"
	"github.com/pkg/errors"
)

// Decisions returned by the policy.
const (
	DecisionAllow = "allow"
	DecisionBlock = "block"
)

// Engine is the OPA policy engine.
type Engine struct {
	query rego.PreparedEvalQuery
}

// ToolCallInput is the document the policy is evaluated against.
type ToolCallInput struct {
	ToolName  string `json:"tool_name"`
	CallCount int    `json:"call_count"`
	Limit     int    `json:"limit"`
}

// NewEngine creates a new policy engine with the given policy content.
func NewEngine(ctx context.Context, policyContent string) (*Engine, error) {
	r := rego.New(
		rego.Query("data.tool_policy.decision"),
		rego.Module("tool_policy.rego", policyContent),
	)

	query, err := r.PrepareForEval(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to prepare rego")
	}

	return &Engine{query: query}, nil
}

// Evaluate checks a tool call. CallCount is the number of calls already made
// in the current run.
func (e *Engine) Evaluate(ctx context.Context, input ToolCallInput) (string, error) {
	results, err := e.query.Eval(ctx, rego.EvalInput(map[string]any{
		"tool_name":  input.ToolName,
		"call_count": input.CallCount,
		"limit":      input.Limit,
	}))
	if err != nil {
		return "", errors.Wrap(err, "failed to evaluate policy")
	}

	// The policy defines a default, so an empty result means the module is broken.
	if len(results) == 0 || len(results[0].Expressions) == 0 {
		return "", errors.New("policy produced no decision")
	}

	if s, ok := results[0].Expressions[0].Value.(string); ok {
		return s, nil
	}
	return "", errors.Errorf("unexpected decision type %T", results[0].Expressions[0].Value)
}

// Allowed is a convenience wrapper around Evaluate.
func (e *Engine) Allowed(ctx context.Context, input ToolCallInput) (bool, error) {
	decision, err := e.Evaluate(ctx, input)
	if err != nil {
		return false, err
	}
	return decision == DecisionAllow, nil
}

// DefaultPolicy caps the number of tool calls per run. A limit of zero or
// less disables the cap.
const DefaultPolicy = `
package tool_policy

default decision = "allow"

decision = "block" {
	input.limit > 0
	input.call_count >= input.limit
}
`
