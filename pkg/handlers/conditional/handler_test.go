package conditional

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nodeweave/weave/pkg/models"
)

func run(t *testing.T, params map[string]any, items []models.Item) []models.Item {
	t.Helper()

	handler, err := NewConditionalHandler("if-1", params)
	require.NoError(t, err)

	out, err := handler.Execute(context.Background(), models.RunContext{}, items)
	require.NoError(t, err)
	require.Len(t, out, len(items))

	return out
}

func TestConditionalHandler_LiteralEqual(t *testing.T) {
	params := map[string]any{
		"conditions": []any{
			map[string]any{"value1": "active", "operation": "equal", "value2": "active"},
		},
	}

	out := run(t, params, []models.Item{models.NewItem(nil)})

	assert.Equal(t, true, out[0].JSON["conditionResult"])
	assert.Equal(t, BranchTrue, out[0].JSON["branchTaken"])
}

func TestConditionalHandler_LiteralNotEqual(t *testing.T) {
	params := map[string]any{
		"conditions": []any{
			map[string]any{"value1": "active", "operation": "equal", "value2": "inactive"},
		},
	}

	out := run(t, params, []models.Item{models.NewItem(nil)})

	assert.Equal(t, false, out[0].JSON["conditionResult"])
	assert.Equal(t, BranchFalse, out[0].JSON["branchTaken"])
}

func TestConditionalHandler_PathOperand(t *testing.T) {
	params := map[string]any{
		"conditions": []any{
			map[string]any{"value1": "user.status", "operation": "equal", "value2": "active"},
		},
	}

	items := []models.Item{
		models.NewItem(map[string]any{"user": map[string]any{"status": "active"}}),
		models.NewItem(map[string]any{"user": map[string]any{"status": "suspended"}}),
	}

	out := run(t, params, items)

	assert.Equal(t, true, out[0].JSON["conditionResult"])
	assert.Equal(t, false, out[1].JSON["conditionResult"])
}

func TestConditionalHandler_TemplatedOperand(t *testing.T) {
	params := map[string]any{
		"conditions": []any{
			map[string]any{"value1": "{{plan}}-tier", "operation": "equal", "value2": "pro-tier"},
		},
	}

	out := run(t, params, []models.Item{models.NewItem(map[string]any{"plan": "pro"})})

	assert.Equal(t, true, out[0].JSON["conditionResult"])
}

func TestConditionalHandler_Operations(t *testing.T) {
	tests := []struct {
		name      string
		operation string
		value1    string
		value2    string
		want      bool
	}{
		{"contains hit", "contains", "hello world", "world", true},
		{"contains miss", "contains", "hello world", "mars", false},
		{"notContains", "notContains", "hello world", "mars", true},
		{"startsWith", "startsWith", "workflow", "work", true},
		{"endsWith", "endsWith", "workflow", "flow", true},
		{"regex match", "regex", "order-1234", `^order-\d+$`, true},
		{"regex miss", "regex", "order-abc", `^order-\d+$`, false},
		{"notEqual", "notEqual", "a", "b", true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			params := map[string]any{
				"conditions": []any{
					map[string]any{"value1": tc.value1, "operation": tc.operation, "value2": tc.value2},
				},
			}

			out := run(t, params, []models.Item{models.NewItem(nil)})
			assert.Equal(t, tc.want, out[0].JSON["conditionResult"])
		})
	}
}

func TestConditionalHandler_AllConditionsMustHold(t *testing.T) {
	params := map[string]any{
		"conditions": []any{
			map[string]any{"value1": "a", "operation": "equal", "value2": "a"},
			map[string]any{"value1": "b", "operation": "equal", "value2": "c"},
		},
	}

	out := run(t, params, []models.Item{models.NewItem(nil)})

	assert.Equal(t, false, out[0].JSON["conditionResult"])
}

func TestConditionalHandler_BadRegexSoftFails(t *testing.T) {
	params := map[string]any{
		"conditions": []any{
			map[string]any{"value1": "x", "operation": "regex", "value2": "("},
		},
	}

	out := run(t, params, []models.Item{models.NewItem(nil)})

	assert.Equal(t, false, out[0].JSON["conditionResult"])
	assert.Equal(t, BranchFalse, out[0].JSON["branchTaken"])
	assert.Contains(t, out[0].JSON["error"], "condition evaluation failed")
}

func TestConditionalHandler_MissingConditions(t *testing.T) {
	_, err := NewConditionalHandler("if-1", map[string]any{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "conditions")
}

func TestConditionalHandler_DoesNotMutateInput(t *testing.T) {
	params := map[string]any{
		"conditions": []any{
			map[string]any{"value1": "a", "operation": "equal", "value2": "a"},
		},
	}

	item := models.NewItem(map[string]any{"a": 1})
	run(t, params, []models.Item{item})

	assert.NotContains(t, item.JSON, "conditionResult")
}
