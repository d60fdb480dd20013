// Package conditional provides the if-node handler. Branch selection is
// advisory data attached to each item (conditionResult, branchTaken); actual
// routing to different successors is a graph-topology concern carried by the
// connection's output_slot hint, not enforced here.
package conditional

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/spf13/cast"

	"github.com/nodeweave/weave/pkg/expression"
	"github.com/nodeweave/weave/pkg/models"
)

// Comparison operations supported by the if node.
const (
	OpEqual       = "equal"
	OpNotEqual    = "notEqual"
	OpContains    = "contains"
	OpNotContains = "notContains"
	OpStartsWith  = "startsWith"
	OpEndsWith    = "endsWith"
	OpRegex       = "regex"
)

// Branch labels attached to output items.
const (
	BranchTrue  = "true"
	BranchFalse = "false"
)

// Comparison is one configured value1/operation/value2 check.
type Comparison struct {
	Value1    string
	Operation string
	Value2    string
}

// ConditionalHandler evaluates the configured comparisons per item.
type ConditionalHandler struct {
	nodeID      string
	comparisons []Comparison
}

// NewConditionalHandler parses the node parameters and builds the handler.
func NewConditionalHandler(nodeID string, params map[string]any) (*ConditionalHandler, error) {
	raw, ok := params["conditions"].([]any)
	if !ok || len(raw) == 0 {
		return nil, errors.New("missing required field 'conditions'")
	}

	comparisons := make([]Comparison, 0, len(raw))

	for i, entry := range raw {
		m, ok := entry.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("condition %d must be an object", i)
		}

		comparison := Comparison{
			Value1:    cast.ToString(m["value1"]),
			Operation: cast.ToString(m["operation"]),
			Value2:    cast.ToString(m["value2"]),
		}

		if comparison.Operation == "" {
			comparison.Operation = OpEqual
		}

		comparisons = append(comparisons, comparison)
	}

	return &ConditionalHandler{nodeID: nodeID, comparisons: comparisons}, nil
}

// Execute attaches conditionResult and branchTaken to every item. All
// configured comparisons must hold for the true branch. Evaluation problems
// (for example a bad regex) mark the item false with an error field instead
// of aborting the run.
func (h *ConditionalHandler) Execute(_ context.Context, run models.RunContext, items []models.Item) ([]models.Item, error) {
	resolver := expression.NewResolver(run.Vars)
	out := make([]models.Item, 0, len(items))

	for _, item := range items {
		met, err := h.evaluate(resolver, item)
		if err != nil {
			out = append(out, item.With(map[string]any{
				"error":           "condition evaluation failed: " + err.Error(),
				"conditionResult": false,
				"branchTaken":     BranchFalse,
			}))

			continue
		}

		branch := BranchFalse
		if met {
			branch = BranchTrue
		}

		out = append(out, item.With(map[string]any{
			"conditionResult": met,
			"branchTaken":     branch,
		}))
	}

	return out, nil
}

func (h *ConditionalHandler) evaluate(resolver *expression.Resolver, item models.Item) (bool, error) {
	for _, comparison := range h.comparisons {
		value1 := resolveOperand(resolver, comparison.Value1, item.JSON)
		value2 := resolveOperand(resolver, comparison.Value2, item.JSON)

		met, err := compare(comparison.Operation, value1, value2)
		if err != nil {
			return false, err
		}

		if !met {
			return false, nil
		}
	}

	return true, nil
}

// resolveOperand resolves one side of a comparison: templated strings are
// interpolated, bare dotted paths are looked up in the item payload, and
// anything that resolves to nothing is compared as its literal text.
func resolveOperand(resolver *expression.Resolver, operand string, data map[string]any) string {
	if strings.Contains(operand, "{{") || strings.Contains(operand, "$(") {
		return resolver.Interpolate(operand, data)
	}

	if value, ok := resolver.Resolve(operand, data); ok {
		return cast.ToString(value)
	}

	return operand
}

func compare(operation, value1, value2 string) (bool, error) {
	switch operation {
	case OpEqual:
		return value1 == value2, nil
	case OpNotEqual:
		return value1 != value2, nil
	case OpContains:
		return strings.Contains(value1, value2), nil
	case OpNotContains:
		return !strings.Contains(value1, value2), nil
	case OpStartsWith:
		return strings.HasPrefix(value1, value2), nil
	case OpEndsWith:
		return strings.HasSuffix(value1, value2), nil
	case OpRegex:
		matched, err := regexp.MatchString(value2, value1)
		if err != nil {
			return false, fmt.Errorf("invalid regex %q: %w", value2, err)
		}

		return matched, nil
	default:
		return value1 == value2, nil
	}
}
