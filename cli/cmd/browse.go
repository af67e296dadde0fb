package cmd

import (
	"context"
	"slices"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ardnew/pconf/cli/cmd/browse"
)

// Browse opens an interactive explorer over the parsed tree.
type Browse struct {
	Files []string `arg:"" help:"Source input file(s) or '-' for stdin." name:"file" optional:""`
}

// Run executes the browse command.
func (b *Browse) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	m, err := load(ctx, b.Files...)
	if err != nil {
		return err
	}

	s := streamsFrom(ctx)
	opts := []tea.ProgramOption{tea.WithOutput(s.out)}

	files := b.Files
	if len(files) == 0 {
		files = sourcesFrom(ctx)
	}

	// Keys come from the terminal when the document is read from stdin.
	if len(files) == 0 || slices.Contains(files, stdinSource) {
		opts = append(opts, tea.WithInputTTY())
	} else {
		opts = append(opts, tea.WithInput(s.in))
	}

	return browse.Run(ctx, m, opts...)
}
