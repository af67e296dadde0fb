package lang

import (
	"regexp"
	"strings"
)

// LineKind identifies the shape of one line of source.
type LineKind int

const (
	LineUnrecognized LineKind = iota // unrecognized
	LineBlank                        // blank
	LineKeyValue                     // key-value
	LineKeyBlock                     // key-block
	LineBlockOpen                    // block-open
	LineBareKey                      // bare-key
	LineImport                       // import
	LineClose                        // close
)

// Opens reports whether lines of kind k open a nested block.
func (k LineKind) Opens() bool { return k == LineKeyBlock || k == LineBlockOpen }

// Line is a classified line of source.
type Line struct {
	Kind  LineKind
	Key   string // key of a key-value, key-block, block-open or bare-key line
	Value string // value of a key-value line, without quotes
	File  string // file name of an import line, without quotes
}

// Line shapes. Quoted text never contains '"'; keys are never empty.
var (
	keyValueLine  = regexp.MustCompile(`^"([^"]+)"\s*:\s*(?:"([^"]*)"|(\{))$`)
	blockOpenLine = regexp.MustCompile(`^"([^"]+)"\s*=\s*\{$`)
	bareKeyLine   = regexp.MustCompile(`^"([^"]+)"$`)
	importLine    = regexp.MustCompile(`^export\(\s*"([^"]+)"\s*\)$`)
)

// Classify determines the shape of a single line of source. Surrounding
// whitespace is ignored, and each shape must span the whole trimmed line.
func Classify(text string) Line {
	text = strings.TrimSpace(text)

	switch {
	case text == "":
		return Line{Kind: LineBlank}

	case text == "}":
		return Line{Kind: LineClose}
	}

	if m := importLine.FindStringSubmatch(text); m != nil {
		return Line{Kind: LineImport, File: m[1]}
	}

	if m := blockOpenLine.FindStringSubmatch(text); m != nil {
		return Line{Kind: LineBlockOpen, Key: m[1]}
	}

	if m := keyValueLine.FindStringSubmatch(text); m != nil {
		if m[3] == "{" {
			return Line{Kind: LineKeyBlock, Key: m[1]}
		}

		return Line{Kind: LineKeyValue, Key: m[1], Value: m[2]}
	}

	if m := bareKeyLine.FindStringSubmatch(text); m != nil {
		return Line{Kind: LineBareKey, Key: m[1]}
	}

	return Line{Kind: LineUnrecognized}
}
