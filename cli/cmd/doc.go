// Package cmd implements the pconf subcommands.
//
// Commands read their input from the files named on the command line, or
// from the global --source list, or from standard input. Each source is
// parsed separately and the results are merged in order with the same
// duplicate-key check the parser applies within a block.
package cmd

var (
	// CacheIdentifier is the kong variable identifier containing the path to
	// the runtime cache directory.
	CacheIdentifier = "cache"

	// ConfigIdentifier is the kong variable identifier containing the path
	// of the configuration file. It is also the name of the block holding
	// flag values within that file.
	ConfigIdentifier = "config"
)
