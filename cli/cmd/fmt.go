package cmd

import (
	"context"
	"io"
	"log/slog"

	"github.com/ardnew/pconf/lang"
)

// Fmt parses input and writes it in the chosen format.
type Fmt struct {
	Native Native `cmd:"" default:"withargs" help:"Format as native pconf syntax (default)."`
	JSON   JSON   `cmd:""                    help:"Format as JSON."`
	YAML   YAML   `cmd:""                    help:"Format as YAML."`
	HCL    HCL    `cmd:""                    help:"Format as HCL."`
	Tree   Tree   `cmd:""                    help:"Format as an indented tree."`
}

// format loads files and writes the result with write, tagging any error
// with the format name.
func format(
	ctx context.Context,
	name string,
	files []string,
	write func(*lang.Map, io.Writer) error,
) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	m, err := load(ctx, files...)
	if err != nil {
		return lang.WrapError(err).
			With(slog.String("format", name))
	}

	if err := write(m, streamsFrom(ctx).out); err != nil {
		return ErrWriteOutput.
			With(slog.String("format", name)).
			Wrap(err)
	}

	return nil
}

// Native formats input as native pconf syntax.
type Native struct {
	Indent int `default:"2" help:"Indent width for formatted output" short:"i"`

	Files []string `arg:"" help:"Source input file(s) or '-' for stdin." name:"file" optional:""`
}

// Run executes the fmt native command.
func (f *Native) Run(ctx context.Context) error {
	return format(ctx, "native", f.Files, func(m *lang.Map, w io.Writer) error {
		return m.Format(ctx, w, f.Indent)
	})
}

// JSON formats input as JSON.
type JSON struct {
	Indent int `default:"2" help:"Indent width for JSON output, 0 for compact" short:"i"`

	Files []string `arg:"" help:"Source input file(s) or '-' for stdin." name:"file" optional:""`
}

// Run executes the fmt json command.
func (j *JSON) Run(ctx context.Context) error {
	return format(ctx, "json", j.Files, func(m *lang.Map, w io.Writer) error {
		return m.FormatJSON(ctx, w, j.Indent)
	})
}

// YAML formats input as YAML.
type YAML struct {
	Indent int `default:"2" help:"Indent width for YAML output, 0 for flow style" short:"i"`

	Files []string `arg:"" help:"Source input file(s) or '-' for stdin." name:"file" optional:""`
}

// Run executes the fmt yaml command.
func (y *YAML) Run(ctx context.Context) error {
	return format(ctx, "yaml", y.Files, func(m *lang.Map, w io.Writer) error {
		return m.FormatYAML(ctx, w, y.Indent)
	})
}

// HCL formats input as HCL.
type HCL struct {
	Files []string `arg:"" help:"Source input file(s) or '-' for stdin." name:"file" optional:""`
}

// Run executes the fmt hcl command.
func (h *HCL) Run(ctx context.Context) error {
	return format(ctx, "hcl", h.Files, func(m *lang.Map, w io.Writer) error {
		return m.FormatHCL(ctx, w)
	})
}

// Tree formats input as an indented tree.
type Tree struct {
	Files []string `arg:"" help:"Source input file(s) or '-' for stdin." name:"file" optional:""`
}

// Run executes the fmt tree command.
func (t *Tree) Run(ctx context.Context) error {
	return format(ctx, "tree", t.Files, func(m *lang.Map, w io.Writer) error {
		return m.Print(ctx, w)
	})
}
