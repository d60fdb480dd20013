// Package expression resolves template tokens and dotted-path lookups against
// per-item data and the run's reserved variables.
package expression

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Reserved variable names understood by the resolver.
const (
	VarNow      = "$now"
	VarToday    = "$today"
	varsPrefix  = "$vars."
	VarJSON     = "$json"
	VarInput    = "$input"
	timeFormat  = time.RFC3339
	todayFormat = "2006-01-02"
)

var (
	bracesPattern = regexp.MustCompile(`\{\{([^}]+)\}\}`)
	dollarPattern = regexp.MustCompile(`\$\(([^)]+)\)`)
)

// Resolver resolves paths against a data context and a reserved-variable
// table. It has no side effects: given the same context it always produces
// the same output, except for $now and $today which are computed at
// resolution time.
type Resolver struct {
	vars map[string]any
}

// NewResolver creates a resolver over the given reserved-variable table.
// A nil table is valid; $vars lookups then never resolve.
func NewResolver(vars map[string]any) *Resolver {
	return &Resolver{vars: vars}
}

// Resolve looks up a single path. Resolution order: the $vars table, the
// $now/$today clock variables, then a dotted-path walk of the data context.
// The second return value is false when any segment is missing; a missing
// path never panics and never produces a partial value.
func (r *Resolver) Resolve(path string, data map[string]any) (any, bool) {
	path = strings.TrimSpace(path)

	switch {
	case path == "":
		return nil, false
	case path == VarNow:
		return time.Now().UTC().Format(timeFormat), true
	case path == VarToday:
		return time.Now().UTC().Format(todayFormat), true
	case strings.HasPrefix(path, varsPrefix):
		value, ok := r.vars[strings.TrimPrefix(path, varsPrefix)]

		return value, ok
	case path == VarJSON || path == VarInput:
		return data, data != nil
	case strings.HasPrefix(path, VarJSON+"."):
		return walk(strings.TrimPrefix(path, VarJSON+"."), data)
	}

	return walk(path, data)
}

// Interpolate replaces every {{ expr }} and $( expr ) occurrence in the
// template with the string form of the resolved value. Tokens that fail to
// resolve are left verbatim; interpolation never errors.
func (r *Resolver) Interpolate(template string, data map[string]any) string {
	if template == "" || !strings.ContainsAny(template, "{$") {
		return template
	}

	replace := func(match, path string) string {
		value, ok := r.Resolve(path, data)
		if !ok || value == nil {
			return match
		}

		return stringify(value)
	}

	out := bracesPattern.ReplaceAllStringFunc(template, func(match string) string {
		return replace(match, bracesPattern.FindStringSubmatch(match)[1])
	})

	return dollarPattern.ReplaceAllStringFunc(out, func(match string) string {
		return replace(match, dollarPattern.FindStringSubmatch(match)[1])
	})
}

// walk follows dot-separated segments through nested maps. Intermediate nils
// and non-map values short-circuit to not-found.
func walk(path string, data map[string]any) (any, bool) {
	var current any = data

	for _, segment := range strings.Split(path, ".") {
		node, ok := current.(map[string]any)
		if !ok || node == nil {
			return nil, false
		}

		current, ok = node[segment]
		if !ok {
			return nil, false
		}
	}

	return current, true
}

func stringify(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case float64:
		// Render whole numbers without a trailing .0, matching how the
		// values were written by graph authors.
		if v == float64(int64(v)) {
			return fmt.Sprintf("%d", int64(v))
		}

		return fmt.Sprintf("%v", v)
	default:
		return fmt.Sprintf("%v", v)
	}
}
