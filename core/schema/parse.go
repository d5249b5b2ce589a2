package schema

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"gopkg.in/yaml.v3"

	"github.com/stellarkit/ecsv/core/errors"
)

// DefaultDelimiter separates fields of the data section unless the
// header overrides it.
const DefaultDelimiter = ' '

// rawHeader mirrors the YAML shape of the schema text. Pointer fields
// distinguish an absent key from an empty value.
type rawHeader struct {
	Delimiter *string      `yaml:"delimiter"`
	Datatype  *[]rawColumn `yaml:"datatype"`
}

type rawColumn struct {
	Name     *string `yaml:"name"`
	Datatype *string `yaml:"datatype"`
	Subtype  string  `yaml:"subtype"`
	Unit     string  `yaml:"unit"`
}

// Parse parses accumulated header text into a Header. Empty text is
// valid and yields an empty schema with the default delimiter. Malformed
// text is a fatal schema error, reported with the location yaml provides.
//
// Some producers emit the column list as an ordered-associative sequence
// (the "!!omap" tag); those nodes are flattened into plain mappings
// before decoding, with later keys overriding earlier ones on collision.
// The flattening is a per-call node transform, so parsing the same text
// twice yields structurally equal headers.
func Parse(text string) (*Header, error) {
	h := &Header{Delimiter: DefaultDelimiter}
	if strings.TrimSpace(text) == "" {
		return h, nil
	}

	var doc yaml.Node
	if err := yaml.Unmarshal([]byte(quoteBracketedSubtypes(text)), &doc); err != nil {
		return nil, &errors.SchemaError{Message: fmt.Sprintf("malformed header: %v", err), Err: err}
	}
	flattenOrderedMaps(&doc)

	var raw rawHeader
	if err := doc.Decode(&raw); err != nil {
		return nil, &errors.SchemaError{Message: fmt.Sprintf("malformed header: %v", err), Err: err}
	}

	if raw.Datatype == nil {
		return nil, errors.NewSchema("", `missing required key "datatype"`)
	}
	if raw.Delimiter != nil {
		if utf8.RuneCountInString(*raw.Delimiter) != 1 {
			return nil, errors.NewSchema("", fmt.Sprintf("delimiter must be a single character, got %q", *raw.Delimiter))
		}
		h.Delimiter, _ = utf8.DecodeRuneInString(*raw.Delimiter)
	}

	h.Columns = make([]ColumnSpec, 0, len(*raw.Datatype))
	for i, rc := range *raw.Datatype {
		if rc.Name == nil || *rc.Name == "" {
			return nil, errors.NewSchema("", fmt.Sprintf(`column %d: missing required field "name"`, i))
		}
		if rc.Datatype == nil || *rc.Datatype == "" {
			return nil, errors.NewSchema(*rc.Name, `missing required field "datatype"`)
		}
		h.Columns = append(h.Columns, ColumnSpec{
			Name:     *rc.Name,
			Datatype: *rc.Datatype,
			Subtype:  rc.Subtype,
			Unit:     rc.Unit,
		})
	}
	return h, nil
}

// bracketedSubtype matches an unquoted "word[dims]" subtype value.
// Producers emit column specs as flow mappings with the subtype plain,
// e.g. {name: flux, subtype: float64[null]}, but "[" is a flow indicator
// in YAML and a strict parser rejects the bare value. Quoting it before
// parsing keeps those headers readable without touching already-quoted
// or block-style declarations.
var bracketedSubtype = regexp.MustCompile(`(subtype:\s*)([A-Za-z0-9_]+\[[^\]\n]*\])`)

func quoteBracketedSubtypes(text string) string {
	return bracketedSubtype.ReplaceAllString(text, "$1'$2'")
}

// flattenOrderedMaps rewrites every "!!omap" sequence node into a single
// merged mapping node. An omap is a sequence of single-pair mappings;
// merging preserves first-seen key order and lets later values override
// earlier ones.
func flattenOrderedMaps(n *yaml.Node) {
	if n.Kind == yaml.SequenceNode && n.Tag == "!!omap" {
		var content []*yaml.Node
		index := make(map[string]int)
		for _, child := range n.Content {
			if child.Kind != yaml.MappingNode {
				continue
			}
			for i := 0; i+1 < len(child.Content); i += 2 {
				key, value := child.Content[i], child.Content[i+1]
				if at, seen := index[key.Value]; seen {
					content[at+1] = value
					continue
				}
				index[key.Value] = len(content)
				content = append(content, key, value)
			}
		}
		n.Kind = yaml.MappingNode
		n.Tag = "!!map"
		n.Content = content
	}
	for _, child := range n.Content {
		flattenOrderedMaps(child)
	}
}
