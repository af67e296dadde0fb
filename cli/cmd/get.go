package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ardnew/pconf/lang"
)

// Get prints the value stored at a key path.
type Get struct {
	Path []string `arg:"" help:"Key path, one key per argument." name:"key"`

	Files  []string `help:"Source input file(s) or '-' for stdin." name:"file" short:"f"`
	Indent int      `default:"2"                                    help:"Indent width for block values" short:"i"`
}

// Run executes the get command.
func (g *Get) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	m, err := load(ctx, g.Files...)
	if err != nil {
		return err
	}

	v, err := m.Lookup(g.Path...)
	if err != nil {
		return lang.WrapError(err).
			With(slog.String("command", "get"))
	}

	out := streamsFrom(ctx).out

	switch v.Kind {
	case lang.KindBlock:
		err = v.Block.Format(ctx, out, g.Indent)
	case lang.KindString:
		_, err = fmt.Fprintln(out, v.Text)
	default:
		_, err = fmt.Fprintln(out, v.Kind)
	}

	if err != nil {
		return ErrWriteOutput.Wrap(err)
	}

	return nil
}
