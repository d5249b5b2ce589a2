package schema

import (
	"fmt"
	"regexp"

	"github.com/stellarkit/ecsv/core/errors"
	"github.com/stellarkit/ecsv/core/units"
)

// subtypePattern matches the "word[dims]?" subtype declaration. The
// bracket group is captured separately from the dims so an empty "[]"
// is distinguishable from no brackets at all.
var subtypePattern = regexp.MustCompile(`^([A-Za-z0-9_]+)(\[(.*)\])?$`)

// variableLengthMarker is the only accepted dims value: a variable-length
// one-dimensional array. Anything else declares a fixed- or
// higher-dimensional array, which is unsupported and must fail loudly.
const variableLengthMarker = "null"

// Resolve turns every raw column spec of a header into a ColumnDescriptor.
// Structural problems (unknown datatype keyword, bad subtype, unsupported
// dimensionality) are fatal. Unit problems are not: the column degrades
// to unitless and a warning is delivered through warn, which may be nil.
func Resolve(h *Header, warn func(Warning)) ([]ColumnDescriptor, error) {
	if warn == nil {
		warn = func(Warning) {}
	}
	descs := make([]ColumnDescriptor, 0, len(h.Columns))
	for _, spec := range h.Columns {
		d, err := resolveColumn(spec, warn)
		if err != nil {
			return nil, err
		}
		descs = append(descs, d)
	}
	return descs, nil
}

func resolveColumn(spec ColumnSpec, warn func(Warning)) (ColumnDescriptor, error) {
	d := ColumnDescriptor{Name: spec.Name}

	t, ok := PrimitiveByKeyword(spec.Datatype)
	if !ok {
		return d, errors.NewSchema(spec.Name, fmt.Sprintf("unknown datatype keyword %q", spec.Datatype))
	}
	d.Type = t

	if spec.Subtype != "" {
		elem, err := resolveSubtype(spec.Name, spec.Subtype)
		if err != nil {
			return d, err
		}
		if t != TypeString {
			return d, errors.NewSchema(spec.Name,
				fmt.Sprintf("array subtype %q requires datatype string, got %q", spec.Subtype, spec.Datatype))
		}
		d.Element = elem
	}

	if spec.Unit != "" {
		d.Unit = resolveUnit(spec.Name, spec.Unit, warn)
	}
	return d, nil
}

func resolveSubtype(column, subtype string) (*ElementType, error) {
	m := subtypePattern.FindStringSubmatch(subtype)
	if m == nil {
		return nil, errors.NewSchema(column, fmt.Sprintf("malformed subtype %q", subtype))
	}
	word, brackets, dims := m[1], m[2], m[3]

	t, ok := PrimitiveByKeyword(word)
	if !ok {
		return nil, errors.NewSchema(column, fmt.Sprintf("unknown subtype keyword %q", word))
	}
	if brackets != "" && dims != variableLengthMarker {
		return nil, &errors.SchemaError{
			Column:  column,
			Message: fmt.Sprintf("unsupported array dimensionality %q in subtype %q", dims, subtype),
			Err:     errors.ErrUnsupported,
		}
	}
	return &ElementType{Type: t}, nil
}

// resolveUnit normalizes and parses a raw unit string. Any failure is
// recovered: the warning carries the original string and either the
// specific unknown-unit message or the generic parse error, and the
// column proceeds unitless.
func resolveUnit(column, raw string, warn func(Warning)) *units.Unit {
	norm, unitWarns := units.Normalize(raw)
	for _, w := range unitWarns {
		warn(Warning{
			Column:  column,
			Unit:    w.Original,
			Message: fmt.Sprintf("dropped token %q: %s", w.Token, w.Message),
		})
	}
	if norm == "" {
		return nil
	}
	u, err := units.Parse(norm)
	if err != nil {
		warn(Warning{Column: column, Unit: raw, Message: err.Error()})
		return nil
	}
	return &u
}
