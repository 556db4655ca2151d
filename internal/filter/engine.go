// Package filter evaluates user-supplied expressions against paper and
// graph documents. Three engines share one interface: CEL for watch
// conditions, Expr for result filtering, GoJQ for output reshaping.
package filter

import "context"

// Engine evaluates one expression language. Implementations cache
// compiled programs and are safe for concurrent use.
type Engine interface {
	Name() string
	Evaluate(ctx context.Context, expression string, data map[string]any) (any, error)
}
