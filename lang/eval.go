package lang

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// Eval evaluates an expr-lang expression against m.
//
// Top-level keys of m are variables holding native values (see
// [Map.ToNative]); keys that are not identifiers are reachable through
// $env, as in $env["log-level"]. Two helpers take a key path:
//
//	has(key...)  // whether the path exists
//	get(key...)  // the native value at the path, or nil
func Eval(ctx context.Context, m *Map, expression string) (any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	env := m.ToNative()

	program, err := expr.Compile(
		expression,
		expr.Env(env),
		expr.Function("has", func(params ...any) (any, error) {
			path, err := keyPath(params)
			if err != nil {
				return nil, err
			}

			_, err = m.Lookup(path...)

			return err == nil, nil
		}, new(func(...string) bool)),
		expr.Function("get", func(params ...any) (any, error) {
			path, err := keyPath(params)
			if err != nil {
				return nil, err
			}

			v, err := m.Lookup(path...)
			if err != nil {
				return nil, nil //nolint:nilerr // missing paths evaluate to nil
			}

			return v.ToNative(), nil
		}, new(func(...string) any)),
	)
	if err != nil {
		return nil, ErrExprCompile.Wrap(err).
			With(slog.String("source", expression))
	}

	result, err := vm.Run(program, env)
	if err != nil {
		return nil, ErrExprEvaluate.Wrap(err).
			With(slog.String("source", expression))
	}

	return result, nil
}

func keyPath(params []any) ([]string, error) {
	path := make([]string, len(params))

	for i, p := range params {
		s, ok := p.(string)
		if !ok {
			return nil, fmt.Errorf("key path element %d is %T, not string", i, p)
		}

		path[i] = s
	}

	return path, nil
}
