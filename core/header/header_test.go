package header

import (
	"strings"
	"testing"
)

func TestExtract(t *testing.T) {
	tests := []struct {
		name       string
		in         string
		wantSchema string
		wantRest   string
	}{
		{
			"version marker and schema",
			"# %ECSV 1.0\n# datatype:\n# - {name: a, datatype: int64}\na\n1\n",
			"datatype:\n- {name: a, datatype: int64}\n",
			"a\n1\n",
		},
		{
			"double comment discarded",
			"# %ECSV 1.0\n## generated by survey pipeline\n# datatype: []\nx\n",
			"datatype: []\n",
			"x\n",
		},
		{
			"no header",
			"a b\n1 2\n",
			"",
			"a b\n1 2\n",
		},
		{
			"empty input",
			"",
			"",
			"",
		},
		{
			"header only",
			"# %ECSV 1.0\n# datatype: []\n",
			"datatype: []\n",
			"",
		},
		{
			"crlf lines",
			"# %ECSV 1.0\r\n# datatype: []\r\na\r\n1\r\n",
			"datatype: []\n",
			"a\r\n1\r\n",
		},
		{
			"data line without trailing newline",
			"# datatype: []\na 1",
			"datatype: []\n",
			"a 1",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			schema, rest := Extract([]byte(tt.in))
			if schema != tt.wantSchema {
				t.Errorf("schema = %q, want %q", schema, tt.wantSchema)
			}
			if string(rest) != tt.wantRest {
				t.Errorf("rest = %q, want %q", rest, tt.wantRest)
			}
		})
	}
}

func TestExtractRestIsExact(t *testing.T) {
	// The data section must begin at exactly the first line that failed
	// the header predicate: no line skipped, none duplicated.
	in := "# %ECSV 1.0\n# datatype:\n# - {name: a, datatype: int8}\na\n1\n2\n"
	_, rest := Extract([]byte(in))
	if !strings.HasPrefix(string(rest), "a\n") {
		t.Errorf("rest should begin with the column-name row, got %q", rest)
	}
	if strings.Count(string(rest), "\n") != 3 {
		t.Errorf("rest should hold exactly the three data lines, got %q", rest)
	}
}

func TestExtractDoesNotModifyInput(t *testing.T) {
	in := []byte("# datatype: []\nrow\n")
	_, rest := Extract(in)
	// rest aliases the input buffer; extraction is a pure split.
	if &rest[0] != &in[len("# datatype: []\n")] {
		t.Error("rest should alias the original buffer at the data offset")
	}
}

func TestExtractEmptyHeaderIsValid(t *testing.T) {
	schema, rest := Extract([]byte("1 2 3\n"))
	if schema != "" {
		t.Errorf("schema = %q, want empty", schema)
	}
	if string(rest) != "1 2 3\n" {
		t.Errorf("rest = %q", rest)
	}
}
