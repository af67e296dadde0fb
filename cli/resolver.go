package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/ardnew/pconf/lang"
	"github.com/ardnew/pconf/log"
	"github.com/ardnew/pconf/pkg"
)

// resolve returns a [kong.ConfigurationLoader] that reads flag values from
// the block name of a configuration file written in the pconf language.
//
// It can be used with [kong.Configuration] like this:
//
//	kong.Configuration(resolve(ctx, "config"), "/path/to/config")
//
// Each key of the block names a flag. Nested blocks join their key to the
// keys within them with '-', so the following are equivalent:
//
//	"config" = {
//	  "log-level": "debug"
//	  "strict"
//	}
//
//	"config" = {
//	  "log" = {
//	    "level": "debug"
//	  }
//	  "strict": "true"
//	}
//
// A bare key sets a boolean flag. Keys may use '_' in place of '-'. Imports
// resolve against the configuration directory. Command-line flags override
// values read from the file.
//
// A file that fails to parse is reported and otherwise ignored.
func resolve(ctx context.Context, name string) kong.ConfigurationLoader {
	return func(r io.Reader) (kong.Resolver, error) {
		doc, err := lang.ParseReader(ctx, r,
			lang.WithRoot(pkg.ConfigDir()),
			lang.WithLogger(log.Default()),
		)
		if err != nil {
			log.WarnContext(ctx, "configuration ignored",
				slog.String("format", "pconf"),
				slog.Any("error", err),
			)

			return config{}, nil
		}

		v, ok := doc.Get(name)
		if !ok || v.Kind != lang.KindBlock {
			return config{}, nil
		}

		return flatten(config{}, "", v.Block.ToNative()), nil
	}
}

// config implements [kong.Resolver] over a flat map of flag names to values.
type config map[string]any

// Validate implements [kong.Resolver].
func (config) Validate(*kong.Application) error {
	return nil
}

// Resolve implements [kong.Resolver].
func (c config) Resolve(
	_ *kong.Context,
	_ *kong.Path,
	flag *kong.Flag,
) (any, error) {
	if value, ok := c[flag.Name]; ok {
		return value, nil
	}

	if value, ok := c[strings.ReplaceAll(flag.Name, "-", "_")]; ok {
		return value, nil
	}

	// Not found - return nil to let Kong use defaults
	return nil, nil //nolint:nilnil
}

// flatten stores each value of tree in c under its key path joined with
// '-', converting values to the forms kong decodes: numbers and lists
// become strings and null becomes true.
func flatten(c config, prefix string, tree map[string]any) config {
	for key, value := range tree {
		name := prefix + key

		switch v := value.(type) {
		case map[string]any:
			flatten(c, name+"-", v)

		case nil:
			c[name] = true

		case string, bool:
			c[name] = v

		case int64:
			c[name] = strconv.FormatInt(v, 10)

		case float64:
			c[name] = strconv.FormatFloat(v, 'f', -1, 64)

		case []any:
			items := make([]string, 0, len(v))
			for _, item := range v {
				items = append(items, fmt.Sprint(item))
			}

			c[name] = strings.Join(items, ",")

		default:
			c[name] = fmt.Sprint(v)
		}
	}

	return c
}
