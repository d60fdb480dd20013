// Package script executes user-supplied inline expressions for the code node
// inside a capability-limited sandbox. The sandbox exposes an explicit,
// enumerated binding set and nothing else: no filesystem, no network, no
// ambient host access.
package script

import (
	"fmt"
	"sync"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/nodeweave/weave/pkg/models"
)

// Mode selects how often the user code runs for one node invocation.
type Mode string

const (
	// ModeAllItems runs the code once with the full item sequence bound to
	// `items`. The result must be an array; a single value is wrapped as one
	// item.
	ModeAllItems Mode = "all_items"
	// ModePerItem runs the code once per item with that item bound to
	// `item`, producing one replacement value per invocation.
	ModePerItem Mode = "per_item"
)

// Bindings is the full set of names visible to user code, beyond the
// expression language's own builtins.
type Bindings struct {
	Items     []models.Item
	Vars      map[string]any
	Workflow  map[string]any
	Execution map[string]any
	Now       string
	Today     string
}

// Sandbox compiles and evaluates user expressions. Compiled programs are
// cached and reused across invocations; the cache is safe for concurrent use.
type Sandbox struct {
	mu    sync.RWMutex
	cache map[string]*vm.Program
}

// NewSandbox creates an empty sandbox.
func NewSandbox() *Sandbox {
	return &Sandbox{cache: make(map[string]*vm.Program)}
}

// Run evaluates code under the given mode and bindings, returning the
// replacement item sequence. Errors raised by user code are returned with
// the original message preserved, never swallowed.
func (s *Sandbox) Run(code string, mode Mode, b Bindings) ([]models.Item, error) {
	if code == "" {
		return models.CloneItems(b.Items), nil
	}

	switch mode {
	case ModePerItem:
		return s.runPerItem(code, b)
	case ModeAllItems, "":
		return s.runAllItems(code, b)
	default:
		return nil, fmt.Errorf("unknown code mode %q", mode)
	}
}

func (s *Sandbox) runAllItems(code string, b Bindings) ([]models.Item, error) {
	env := s.environment(b)
	env["items"] = itemsToMaps(b.Items)

	out, err := s.evaluate(code, string(ModeAllItems), env)
	if err != nil {
		return nil, err
	}

	return coerceItems(out), nil
}

func (s *Sandbox) runPerItem(code string, b Bindings) ([]models.Item, error) {
	results := make([]models.Item, 0, len(b.Items))

	for n, item := range b.Items {
		env := s.environment(b)
		env["item"] = itemToMap(item)
		env["index"] = n

		out, err := s.evaluate(code, string(ModePerItem), env)
		if err != nil {
			return nil, err
		}

		results = append(results, coerceItem(out))
	}

	return results, nil
}

// environment builds the enumerated binding set. Helper accessors close over
// the input items; the expression language itself contributes arithmetic,
// string, and collection builtins.
func (s *Sandbox) environment(b Bindings) map[string]any {
	items := b.Items

	return map[string]any{
		"$vars":      b.Vars,
		"$workflow":  b.Workflow,
		"$execution": b.Execution,
		"$now":       b.Now,
		"$today":     b.Today,
		"all": func() []map[string]any {
			out := make([]map[string]any, len(items))
			for n, item := range items {
				out[n] = item.JSON
			}

			return out
		},
		"first": func() map[string]any {
			if len(items) == 0 {
				return nil
			}

			return items[0].JSON
		},
		"last": func() map[string]any {
			if len(items) == 0 {
				return nil
			}

			return items[len(items)-1].JSON
		},
		"itemAt": func(i int) map[string]any {
			if i < 0 || i >= len(items) {
				return nil
			}

			return items[i].JSON
		},
		"itemMatching": func(key string, value any) map[string]any {
			for _, item := range items {
				if item.JSON[key] == value {
					return item.JSON
				}
			}

			return nil
		},
		"merge": func(maps ...map[string]any) map[string]any {
			out := make(map[string]any)
			for _, m := range maps {
				for k, v := range m {
					out[k] = v
				}
			}

			return out
		},
	}
}

// evaluate compiles (or reuses) the program and runs it against env.
func (s *Sandbox) evaluate(code, mode string, env map[string]any) (any, error) {
	prg, err := s.getOrCompile(code, mode, env)
	if err != nil {
		return nil, err
	}

	out, err := vm.Run(prg, env)
	if err != nil {
		return nil, fmt.Errorf("code execution failed: %w", err)
	}

	return out, nil
}

func (s *Sandbox) getOrCompile(code, mode string, env map[string]any) (*vm.Program, error) {
	key := mode + "\x00" + code

	s.mu.RLock()
	prg, ok := s.cache[key]
	s.mu.RUnlock()

	if ok {
		return prg, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if prg, ok = s.cache[key]; ok {
		return prg, nil
	}

	prg, err := expr.Compile(code,
		expr.Env(env),
		expr.AllowUndefinedVariables(),
	)
	if err != nil {
		return nil, fmt.Errorf("code compilation failed: %w", err)
	}

	s.cache[key] = prg

	return prg, nil
}

func itemToMap(item models.Item) map[string]any {
	out := map[string]any{"json": item.JSON}
	if item.Error != "" {
		out["error"] = item.Error
	}

	return out
}

func itemsToMaps(items []models.Item) []map[string]any {
	out := make([]map[string]any, len(items))
	for n, item := range items {
		out[n] = itemToMap(item)
	}

	return out
}

// coerceItems turns an evaluation result into an item sequence: arrays map
// element-wise, anything else becomes a single item.
func coerceItems(out any) []models.Item {
	switch v := out.(type) {
	case []any:
		items := make([]models.Item, len(v))
		for n, element := range v {
			items[n] = coerceItem(element)
		}

		return items
	case []map[string]any:
		items := make([]models.Item, len(v))
		for n, element := range v {
			items[n] = coerceItem(element)
		}

		return items
	default:
		return []models.Item{coerceItem(out)}
	}
}

// coerceItem turns one evaluated value into an Item. A map with a "json"
// payload is already item-shaped; other maps become the payload themselves;
// scalars are wrapped under "value".
func coerceItem(out any) models.Item {
	switch v := out.(type) {
	case map[string]any:
		if payload, ok := v["json"].(map[string]any); ok {
			item := models.NewItem(payload)
			if msg, ok := v["error"].(string); ok {
				item.Error = msg
			}

			return item
		}

		return models.NewItem(v)
	case nil:
		return models.NewItem(nil)
	default:
		return models.NewItem(map[string]any{"value": v})
	}
}
