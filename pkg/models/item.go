// Package models defines the core domain models for node-graph workflow execution.
package models

// Item is the unit of data flowing along a connection. A node's input and
// output are always sequences of Items, never a single bare value, so one
// node invocation processes N records.
type Item struct {
	JSON  map[string]any `json:"json"`
	Error string         `json:"error,omitempty"`
}

// NewItem creates an Item around the given payload. A nil payload becomes an
// empty map so handlers can merge into it without nil checks.
func NewItem(payload map[string]any) Item {
	if payload == nil {
		payload = make(map[string]any)
	}

	return Item{JSON: payload}
}

// Clone returns an Item with a shallow copy of the JSON payload. Handlers
// must never hand back an Item sharing a map with their input: two sibling
// branches reading the same upstream node must not observe each other's
// later writes.
func (i Item) Clone() Item {
	payload := make(map[string]any, len(i.JSON))
	for k, v := range i.JSON {
		payload[k] = v
	}

	return Item{JSON: payload, Error: i.Error}
}

// With returns a copy of the Item with the given fields shallow-merged on
// top of the payload.
func (i Item) With(fields map[string]any) Item {
	out := i.Clone()
	for k, v := range fields {
		out.JSON[k] = v
	}

	return out
}

// CloneItems shallow-copies a whole Item sequence.
func CloneItems(items []Item) []Item {
	out := make([]Item, len(items))
	for n, item := range items {
		out[n] = item.Clone()
	}

	return out
}
