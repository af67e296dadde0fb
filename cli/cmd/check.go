package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ardnew/pconf/log"
)

// Check parses input and reports whether it is well-formed.
type Check struct {
	Files []string `arg:"" help:"Source input file(s) or '-' for stdin." name:"file" optional:""`

	Quiet bool `help:"Report failures only." short:"q"`
}

// Run executes the check command.
func (c *Check) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	m, err := load(ctx, c.Files...)
	if err != nil {
		return err
	}

	log.DebugContext(ctx, "check passed",
		slog.Int("keys", m.Len()),
		slog.Int("depth", m.Depth()),
	)

	if c.Quiet {
		return nil
	}

	_, err = fmt.Fprintf(streamsFrom(ctx).out,
		"ok (%d keys, depth %d)\n", m.Len(), m.Depth())
	if err != nil {
		return ErrWriteOutput.Wrap(err)
	}

	return nil
}
