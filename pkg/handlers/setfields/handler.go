// Package setfields provides the field-assignment handler: each configured
// field is interpolated against the item, coerced to its declared type, and
// written onto a copy of the item.
package setfields

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cast"

	"github.com/nodeweave/weave/pkg/expression"
	"github.com/nodeweave/weave/pkg/models"
)

// Field types accepted in node parameters.
const (
	TypeString  = "string"
	TypeNumber  = "number"
	TypeBoolean = "boolean"
)

// Field is one assignment to perform on each item.
type Field struct {
	Name  string
	Value string
	Type  string
}

// SetFieldsHandler applies the configured assignments to every item.
type SetFieldsHandler struct {
	nodeID string
	fields []Field
}

// NewSetFieldsHandler parses the node parameters and builds the handler.
func NewSetFieldsHandler(nodeID string, params map[string]any) (*SetFieldsHandler, error) {
	raw, ok := params["fields"].([]any)
	if !ok || len(raw) == 0 {
		return nil, errors.New("missing required field 'fields'")
	}

	fields := make([]Field, 0, len(raw))

	for i, entry := range raw {
		m, ok := entry.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("field %d must be an object", i)
		}

		field := Field{
			Name:  cast.ToString(m["name"]),
			Value: cast.ToString(m["value"]),
			Type:  cast.ToString(m["type"]),
		}

		if field.Name == "" {
			return nil, fmt.Errorf("field %d is missing a name", i)
		}

		if field.Type == "" {
			field.Type = TypeString
		}

		switch field.Type {
		case TypeString, TypeNumber, TypeBoolean:
		default:
			return nil, fmt.Errorf("field %q has unknown type %q", field.Name, field.Type)
		}

		fields = append(fields, field)
	}

	return &SetFieldsHandler{nodeID: nodeID, fields: fields}, nil
}

func (h *SetFieldsHandler) Execute(_ context.Context, run models.RunContext, items []models.Item) ([]models.Item, error) {
	resolver := expression.NewResolver(run.Vars)
	out := make([]models.Item, 0, len(items))

	for _, item := range items {
		assignments := make(map[string]any, len(h.fields))

		for _, field := range h.fields {
			rendered := resolver.Interpolate(field.Value, item.JSON)

			value, err := coerce(rendered, field.Type)
			if err != nil {
				return nil, fmt.Errorf("field %q: %w", field.Name, err)
			}

			assignments[field.Name] = value
		}

		out = append(out, item.With(assignments))
	}

	return out, nil
}

func coerce(rendered, fieldType string) (any, error) {
	switch fieldType {
	case TypeNumber:
		value, err := cast.ToFloat64E(rendered)
		if err != nil {
			return nil, fmt.Errorf("cannot convert %q to number: %w", rendered, err)
		}

		return value, nil
	case TypeBoolean:
		value, err := cast.ToBoolE(rendered)
		if err != nil {
			return nil, fmt.Errorf("cannot convert %q to boolean: %w", rendered, err)
		}

		return value, nil
	default:
		return rendered, nil
	}
}
