package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/ardnew/pconf/lang"
)

// Eval evaluates an expression over the parsed tree.
type Eval struct {
	Expression string `arg:"" help:"Expression to evaluate; top-level keys are variables." name:"expr"`

	Files []string `help:"Source input file(s) or '-' for stdin." name:"file" short:"f"`
}

// Run executes the eval command.
func (e *Eval) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	m, err := load(ctx, e.Files...)
	if err != nil {
		return err
	}

	result, err := lang.Eval(ctx, m, e.Expression)
	if err != nil {
		return lang.WrapError(err).
			With(slog.String("command", "eval"))
	}

	text, err := formatResult(result)
	if err != nil {
		return ErrWriteOutput.Wrap(err)
	}

	if _, err := fmt.Fprintln(streamsFrom(ctx).out, text); err != nil {
		return ErrWriteOutput.Wrap(err)
	}

	return nil
}

// formatResult renders strings verbatim and everything else as JSON.
func formatResult(v any) (string, error) {
	if s, ok := v.(string); ok {
		return s, nil
	}

	data, err := json.Marshal(v)
	if err != nil {
		return "", err
	}

	return string(data), nil
}
