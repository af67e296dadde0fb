// Package lang parses pconf, a nested, line-oriented configuration
// language, into a tree of key/value data.
//
// # Grammar
//
// Each trimmed line holds exactly one construct:
//
//	document   → line*
//	line       → blockOpen | keyValue | keyBlock | bareKey | importLine | '}' | ''
//	blockOpen  → '"' KEY '"' '=' '{'
//	keyValue   → '"' KEY '"' ':' '"' VALUE '"'
//	keyBlock   → '"' KEY '"' ':' '{'
//	bareKey    → '"' KEY '"'
//	importLine → 'export(' '"' FILENAME '"' ')'
//
// Keys and values never contain '"'. Keys are never empty; values may be.
// Whitespace is allowed between tokens.
//
// # Example
//
//	"name": "web"
//	"debug"
//	"server" = {
//	  "host": "localhost"
//	  "tls": {
//	    "cert": "server.pem"
//	  }
//	  export("ports.conf")
//	}
//
// A key-value line yields a string, a bare key yields a null, and a block
// yields a nested [Map].
//
// # Scoping
//
// Keys must be unique within each block, including keys merged by an
// import. The same key may appear in different blocks.
//
// # Imports
//
// An export line parses the named file as an independent document and
// merges its top-level keys into the enclosing block. Names are
// slash-separated and resolve against the [Loader] root (see [WithRoot]
// and [WithFS]), never the working directory of the importing file.
// Importing a file that is already being parsed fails with
// [ErrCircularImport].
//
// # Strictness
//
// Lines matching no construct, and closing braces with no open block, are
// skipped with a warning by default. [WithStrict] makes them errors.
package lang
