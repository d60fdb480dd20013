// Package switchnode provides the multi-way routing handler. Like the if
// node, the selected output is recorded on the item (switchOutput,
// switchRule) while actual fan-out stays a graph-topology concern.
package switchnode

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cast"

	"github.com/nodeweave/weave/pkg/expression"
	"github.com/nodeweave/weave/pkg/models"
)

// DefaultOutput is the switchOutput value when no rule matches.
const DefaultOutput = -1

// Rule is one candidate output: the first rule whose value matches wins.
type Rule struct {
	Value string
	Label string
}

// SwitchHandler routes each item to the first matching rule.
type SwitchHandler struct {
	nodeID string
	value  string
	rules  []Rule
}

// NewSwitchHandler parses the node parameters and builds the handler.
func NewSwitchHandler(nodeID string, params map[string]any) (*SwitchHandler, error) {
	value := cast.ToString(params["value"])
	if value == "" {
		return nil, errors.New("missing required field 'value'")
	}

	raw, ok := params["rules"].([]any)
	if !ok || len(raw) == 0 {
		return nil, errors.New("missing required field 'rules'")
	}

	rules := make([]Rule, 0, len(raw))

	for i, entry := range raw {
		m, ok := entry.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("rule %d must be an object", i)
		}

		rule := Rule{
			Value: cast.ToString(m["value"]),
			Label: cast.ToString(m["label"]),
		}

		if rule.Label == "" {
			rule.Label = rule.Value
		}

		rules = append(rules, rule)
	}

	return &SwitchHandler{nodeID: nodeID, value: value, rules: rules}, nil
}

// Execute tags every item with the index and label of the first rule whose
// value matches the resolved switch value. Items matching no rule get the
// default output index.
func (h *SwitchHandler) Execute(_ context.Context, run models.RunContext, items []models.Item) ([]models.Item, error) {
	resolver := expression.NewResolver(run.Vars)
	out := make([]models.Item, 0, len(items))

	for _, item := range items {
		value := resolveOperand(resolver, h.value, item.JSON)

		output := DefaultOutput
		label := "default"

		for i, rule := range h.rules {
			candidate := resolveOperand(resolver, rule.Value, item.JSON)
			if value == candidate {
				output = i
				label = rule.Label

				break
			}
		}

		out = append(out, item.With(map[string]any{
			"switchOutput": output,
			"switchRule":   label,
		}))
	}

	return out, nil
}

func resolveOperand(resolver *expression.Resolver, operand string, data map[string]any) string {
	if strings.Contains(operand, "{{") || strings.Contains(operand, "$(") {
		return resolver.Interpolate(operand, data)
	}

	if value, ok := resolver.Resolve(operand, data); ok {
		return cast.ToString(value)
	}

	return operand
}
