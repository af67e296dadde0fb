package lang

import "testing"

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		text string
		want Line
	}{
		{"blank", "", Line{Kind: LineBlank}},
		{"whitespace only", " \t ", Line{Kind: LineBlank}},
		{"close", "}", Line{Kind: LineClose}},
		{"indented close", "    }  ", Line{Kind: LineClose}},
		{
			name: "key value",
			text: `"host": "localhost"`,
			want: Line{Kind: LineKeyValue, Key: "host", Value: "localhost"},
		},
		{
			name: "key value without spaces",
			text: `"host":"localhost"`,
			want: Line{Kind: LineKeyValue, Key: "host", Value: "localhost"},
		},
		{
			name: "key value with padding",
			text: "\t\"host\"   :   \"local host\"  ",
			want: Line{Kind: LineKeyValue, Key: "host", Value: "local host"},
		},
		{
			name: "empty value",
			text: `"host": ""`,
			want: Line{Kind: LineKeyValue, Key: "host"},
		},
		{
			name: "key block",
			text: `"server": {`,
			want: Line{Kind: LineKeyBlock, Key: "server"},
		},
		{
			name: "block open",
			text: `"server" = {`,
			want: Line{Kind: LineBlockOpen, Key: "server"},
		},
		{
			name: "block open without spaces",
			text: `"server"={`,
			want: Line{Kind: LineBlockOpen, Key: "server"},
		},
		{
			name: "bare key",
			text: `"debug"`,
			want: Line{Kind: LineBareKey, Key: "debug"},
		},
		{
			name: "key with spaces",
			text: `"log level": "warn"`,
			want: Line{Kind: LineKeyValue, Key: "log level", Value: "warn"},
		},
		{
			name: "import",
			text: `export("base.conf")`,
			want: Line{Kind: LineImport, File: "base.conf"},
		},
		{
			name: "import with padding",
			text: `  export( "dir/base.conf" )`,
			want: Line{Kind: LineImport, File: "dir/base.conf"},
		},
		{"unterminated value", `"host": "localhost`, Line{}},
		{"unterminated key", `"host: "localhost"`, Line{}},
		{"empty key", `"": "x"`, Line{}},
		{"unquoted key", `host: "localhost"`, Line{}},
		{"trailing text", `"host": "localhost" # comment`, Line{}},
		{"assigned string", `"host" = "localhost"`, Line{}},
		{"quote inside key", `"a"b"`, Line{}},
		{"empty import", `export("")`, Line{}},
		{"unquoted import", `export(base.conf)`, Line{}},
		{"close with text", "} else {", Line{}},
		{"open brace alone", "{", Line{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.text)
			if got != tt.want {
				t.Errorf("Classify(%q) = %+v, want %+v", tt.text, got, tt.want)
			}
		})
	}
}

func TestLineKind_Opens(t *testing.T) {
	for k := LineUnrecognized; k <= LineClose; k++ {
		want := k == LineKeyBlock || k == LineBlockOpen
		if got := k.Opens(); got != want {
			t.Errorf("%v.Opens() = %v, want %v", k, got, want)
		}
	}
}
