package cli

import (
	"context"
	"io"
	"log/slog"

	"github.com/BurntSushi/toml"
	"github.com/alecthomas/kong"

	"github.com/ardnew/pconf/log"
)

// resolveTOML returns a [kong.ConfigurationLoader] that reads flag values
// from the table name of a TOML file:
//
//	[config]
//	strict = true
//	root = ["/etc/pconf", "/usr/share/pconf"]
//
//	[config.log]
//	level = "debug"
//
// Tables nest the same way blocks do for [resolve].
func resolveTOML(ctx context.Context, name string) kong.ConfigurationLoader {
	return func(r io.Reader) (kong.Resolver, error) {
		var doc map[string]any

		if _, err := toml.NewDecoder(r).Decode(&doc); err != nil {
			log.WarnContext(ctx, "configuration ignored",
				slog.String("format", "toml"),
				slog.Any("error", err),
			)

			return config{}, nil
		}

		table, ok := doc[name].(map[string]any)
		if !ok {
			return config{}, nil
		}

		return flatten(config{}, "", table), nil
	}
}
