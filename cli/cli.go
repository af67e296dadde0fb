package cli

import (
	"context"
	"os"

	"github.com/alecthomas/kong"

	"github.com/ardnew/pconf/cli/cmd"
	"github.com/ardnew/pconf/lang"
	"github.com/ardnew/pconf/log"
	"github.com/ardnew/pconf/pkg"
)

// CLI is the top-level command-line interface for pconf.
type CLI struct {
	Log   logConfig   `embed:"" group:"log"   prefix:"log-"`
	Pprof pprofConfig `embed:"" group:"pprof" prefix:"pprof-"`

	Root   []string `help:"Directory searched for imported files (repeatable)." name:"root"   short:"r" type:"existingdir"`
	Strict bool     `help:"Reject lines that match no known shape."`
	Source []string `help:"Input source file(s) or '-' for stdin."              name:"source" short:"s"`

	Check   cmd.Check   `cmd:"" default:"withargs" help:"Check that input is well-formed"`
	Fmt     cmd.Fmt     `cmd:""                    help:"Format input"`
	Get     cmd.Get     `cmd:""                    help:"Print the value at a key path"`
	Eval    cmd.Eval    `cmd:""                    help:"Evaluate an expression over input"`
	Browse  cmd.Browse  `cmd:""                    help:"Explore input interactively"`
	Init    cmd.Init    `cmd:""                    help:"Initialize configuration file"`
	Version cmd.Version `cmd:""                    help:"Print version"`
}

// Run executes the pconf CLI with the given context and arguments.
// The exit function is called with the appropriate exit code upon completion.
func Run(
	ctx context.Context,
	exit func(code int),
	args ...string,
) error {
	var cli CLI

	err := mkdirAllRequired()
	if err != nil {
		return err
	}

	configFilePath := configPath(baseConfig)

	vars := kong.Vars{
		cmd.ConfigIdentifier: configFilePath,
		cmd.CacheIdentifier:  pkg.CacheDir(),
	}.
		CloneWith(cli.Log.vars()).
		CloneWith(cli.Pprof.vars())

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Pre-scan for logger flags so that the logger is configured before
	// kong reports any parse errors, regardless of flag position.
	cli.Log.scan(args)

	parser, err := kong.New(&cli,
		kong.Name(pkg.Name),
		kong.Description(pkg.Description),
		kong.UsageOnError(),
		kong.Exit(exit),
		kong.ExplicitGroups(
			[]kong.Group{cli.Log.group(), cli.Pprof.group()},
		),
		kong.BindSingletonProvider(func() context.Context {
			return ctx
		}),
		kong.ConfigureHelp(
			kong.HelpOptions{
				Compact:             true,
				Summary:             true,
				Tree:                true,
				NoExpandSubcommands: true,
			}),
		kong.Configuration(kong.JSON, configFilePath+".json"),
		kong.Configuration(resolveTOML(ctx, baseConfig), configFilePath+".toml"),
		kong.Configuration(resolve(ctx, baseConfig), configFilePath),
		vars,
	)
	if err != nil {
		return err
	}

	ktx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	// Finalize logger configuration with all parsed values including
	// TimeLayout and Caller which don't use TextUnmarshaler.
	cli.Log.start(ctx)

	roots := searchPath(cli.Root, os.Getenv(pkg.EnvPrefix()+"_PATH"))

	// Stuff additional context values for use by commands
	ctx = cmd.WithContext(ctx, ktx)
	ctx = cmd.WithSources(ctx, cli.Source)
	ctx = cmd.WithParser(ctx, len(roots) > 0, cli.parserOptions(roots)...)

	// [pprofConfig.start] is no-op unless built with tag pprof and enabled.
	defer cli.Pprof.start(ctx)()

	return ktx.Run(ctx, &cli)
}

// parserOptions returns the options used to parse command sources. Imports
// resolve against roots when any are given.
func (c *CLI) parserOptions(roots []string) []lang.Option {
	opts := []lang.Option{
		lang.WithStrict(c.Strict),
		lang.WithLogger(log.Default()),
	}

	if len(roots) > 0 {
		opts = append(opts, lang.WithFS(lang.SearchFS(roots...)))
	}

	return opts
}
