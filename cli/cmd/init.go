package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/ardnew/pconf/lang"
	"github.com/ardnew/pconf/log"
	"github.com/ardnew/pconf/profile"
)

// defaultConfigIndent is the number of spaces to use for indentation
// when generating the default configuration file.
const defaultConfigIndent = 2

// Init generates a default configuration file with current flag values.
type Init struct {
	Force bool `help:"Overwrite existing configuration file" short:"f"`
}

// Run executes the init command.
func (i *Init) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	ktx := kongContextFrom(ctx)
	if ktx == nil {
		panic("internal error: kong context undefined")
	}

	confPath, ok := ktx.Model.Vars()[ConfigIdentifier]
	if !ok {
		panic("internal error: config path undefined")
	}

	// Check if file exists and force not set
	_, err = os.Stat(confPath)
	if err == nil && !i.Force {
		return ErrWriteConfig.
			With(slog.String("file", confPath)).
			With(slog.Bool("exists", true)).
			Wrap(ErrFileExists)
	}

	file, err := os.Create(confPath)
	if err != nil {
		return ErrWriteConfig.
			With(slog.String("file", confPath)).
			Wrap(err)
	}
	defer file.Close()

	conf, err := i.buildConfig(ktx)
	if err != nil {
		return ErrWriteConfig.
			With(slog.String("file", confPath)).
			Wrap(err)
	}

	err = conf.Format(ctx, file, defaultConfigIndent)
	if err != nil {
		return ErrWriteConfig.
			With(slog.String("file", confPath)).
			Wrap(err)
	}

	log.DebugContext(
		ctx,
		"initialized configuration file",
		slog.String("path", confPath),
		slog.Int("flags", conf.Len()),
	)

	return nil
}

// buildConfig returns a document holding a single [ConfigIdentifier] block
// with the current value of every visible flag.
func (i *Init) buildConfig(ktx *kong.Context) (*lang.Map, error) {
	prefixIgnore := []string{"help", profile.Tag}

	flags := lang.NewMap()

	for _, flag := range ktx.Model.Flags {
		if flag.Hidden || slices.ContainsFunc(prefixIgnore, func(s string) bool {
			return strings.HasPrefix(flag.Name, s)
		}) {
			continue
		}

		val, ok := flagValue(ktx.FlagValue(flag))
		if !ok {
			continue
		}

		if err := flags.Add(flag.Name, val); err != nil {
			return nil, err
		}
	}

	conf := lang.NewMap()

	if err := conf.Add(ConfigIdentifier, lang.BlockOf(flags)); err != nil {
		return nil, err
	}

	return conf, nil
}

// flagValue returns the document value for a flag value, or false if the
// flag is unset. A true boolean is written as a bare key.
func flagValue(val any) (lang.Value, bool) {
	switch v := val.(type) {
	case nil:
		return lang.Value{}, false

	case bool:
		if v {
			return lang.Null(), true
		}

		return lang.String(strconv.FormatBool(v)), true

	case string:
		if v == "" {
			return lang.Value{}, false
		}

		return lang.String(v), true

	case []string:
		if len(v) == 0 {
			return lang.Value{}, false
		}

		return lang.String(strings.Join(v, ",")), true

	case fmt.Stringer:
		return lang.String(v.String()), true

	default:
		return lang.String(fmt.Sprint(v)), true
	}
}
