package lang

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/hashicorp/hcl/v2/hclwrite"
	"github.com/zclconf/go-cty/cty"
)

// DefaultIndent is the indent width used by the formatters when the caller
// has no preference.
const DefaultIndent = 2

// Format writes m in native pconf syntax to the writer. Parsing the output
// yields a Map equal to m. An indent of 0 or less uses [DefaultIndent],
// since the language has no single-line form.
//
// Keys must be non-empty, and neither keys nor values may contain '"' or a
// line break. Format fails with [ErrInvalidName] or [ErrInvalidValue]
// otherwise, and writes nothing.
func (m *Map) Format(_ context.Context, w io.Writer, indent int) error {
	if indent <= 0 {
		indent = DefaultIndent
	}

	var sb strings.Builder

	if err := formatBlock(&sb, m, indent, 0); err != nil {
		return err
	}

	_, err := io.WriteString(w, sb.String())

	return err
}

func formatBlock(sb *strings.Builder, m *Map, indent, depth int) error {
	pad := strings.Repeat(" ", indent*depth)

	for k, v := range m.All() {
		if k == "" || !quotable(k) {
			return ErrInvalidName.With(slog.String("key", k))
		}

		sb.WriteString(pad)

		switch v.Kind {
		case KindString:
			if !quotable(v.Text) {
				return ErrInvalidValue.With(
					slog.String("key", k),
					slog.String("value", v.Text),
				)
			}

			fmt.Fprintf(sb, "\"%s\": \"%s\"\n", k, v.Text)

		case KindBlock:
			fmt.Fprintf(sb, "\"%s\" = {\n", k)

			if err := formatBlock(sb, v.Block, indent, depth+1); err != nil {
				return err
			}

			sb.WriteString(pad)
			sb.WriteString("}\n")

		default:
			fmt.Fprintf(sb, "\"%s\"\n", k)
		}
	}

	return nil
}

// quotable reports whether s can appear between quotes on a single line.
func quotable(s string) bool {
	return !strings.ContainsAny(s, "\"\r\n")
}

// FormatJSON writes m as JSON to the writer. An indent of 0 or less writes
// compact JSON.
func (m *Map) FormatJSON(_ context.Context, w io.Writer, indent int) error {
	var (
		jsonData []byte
		err      error
	)

	if indent > 0 {
		jsonData, err = json.MarshalIndent(m, "", strings.Repeat(" ", indent))
	} else {
		jsonData, err = json.Marshal(m)
	}

	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(w, string(jsonData))

	return err
}

// FormatYAML writes m as YAML to the writer. An indent of 0 or less writes
// flow style.
func (m *Map) FormatYAML(ctx context.Context, w io.Writer, indent int) error {
	var opts []yaml.EncodeOption
	if indent > 0 {
		opts = append(opts, yaml.Indent(indent))
	} else {
		opts = append(opts, yaml.Flow(true))
	}

	yamlData, err := yaml.MarshalContext(ctx, m.mapSlice(), opts...)
	if err != nil {
		return err
	}

	_, err = fmt.Fprint(w, string(yamlData))

	return err
}

// FormatHCL writes m as HCL to the writer. Strings become attributes, nulls
// become null attributes, and blocks become HCL blocks without labels.
// Every key must be a valid HCL identifier.
func (m *Map) FormatHCL(_ context.Context, w io.Writer) error {
	f := hclwrite.NewEmptyFile()

	if err := formatHCLBody(f.Body(), m); err != nil {
		return err
	}

	_, err := w.Write(hclwrite.Format(f.Bytes()))

	return err
}

func formatHCLBody(body *hclwrite.Body, m *Map) error {
	for k, v := range m.All() {
		if !hclsyntax.ValidIdentifier(k) {
			return ErrInvalidHCLName.With(slog.String("key", k))
		}

		switch v.Kind {
		case KindString:
			body.SetAttributeValue(k, cty.StringVal(v.Text))

		case KindBlock:
			block := body.AppendNewBlock(k, nil)
			if err := formatHCLBody(block.Body(), v.Block); err != nil {
				return err
			}

		default:
			body.SetAttributeValue(k, cty.NullVal(cty.String))
		}
	}

	return nil
}

// Print writes m as an indented tree to the writer.
func (m *Map) Print(_ context.Context, w io.Writer) error {
	var sb strings.Builder

	sb.WriteString(".\n")
	printTree(&sb, m, "")

	_, err := io.WriteString(w, sb.String())

	return err
}

func printTree(sb *strings.Builder, m *Map, prefix string) {
	n := m.Len()
	i := 0

	for k, v := range m.All() {
		i++

		branch, stem := "├── ", "│   "
		if i == n {
			branch, stem = "└── ", "    "
		}

		sb.WriteString(prefix)
		sb.WriteString(branch)
		sb.WriteString(k)

		switch v.Kind {
		case KindString:
			fmt.Fprintf(sb, " = %q\n", v.Text)

		case KindBlock:
			sb.WriteByte('\n')
			printTree(sb, v.Block, prefix+stem)

		default:
			sb.WriteString(" (null)\n")
		}
	}
}
