// Package schema parses ECSV header text into an ordered list of column
// specifications and resolves each specification into a typed column
// descriptor.
package schema

import (
	"github.com/stellarkit/ecsv/core/units"
)

// PrimitiveType is one of the fixed element types of the datatype
// vocabulary.
type PrimitiveType int

const (
	TypeBool PrimitiveType = iota
	TypeInt8
	TypeInt16
	TypeInt32
	TypeInt64
	TypeUint8
	TypeUint16
	TypeUint32
	TypeUint64
	TypeFloat16
	TypeFloat32
	TypeFloat64
	TypeString
)

// primitiveByKeyword is the fixed primitive table. A datatype keyword
// outside this table is a fatal schema error.
var primitiveByKeyword = map[string]PrimitiveType{
	"bool":    TypeBool,
	"int8":    TypeInt8,
	"int16":   TypeInt16,
	"int32":   TypeInt32,
	"int64":   TypeInt64,
	"uint8":   TypeUint8,
	"uint16":  TypeUint16,
	"uint32":  TypeUint32,
	"uint64":  TypeUint64,
	"float16": TypeFloat16,
	"float32": TypeFloat32,
	"float64": TypeFloat64,
	"string":  TypeString,
}

var keywordByPrimitive = func() map[PrimitiveType]string {
	out := make(map[PrimitiveType]string, len(primitiveByKeyword))
	for k, v := range primitiveByKeyword {
		out[v] = k
	}
	return out
}()

func (t PrimitiveType) String() string {
	return keywordByPrimitive[t]
}

// PrimitiveByKeyword looks up a datatype keyword in the fixed table.
func PrimitiveByKeyword(keyword string) (PrimitiveType, bool) {
	t, ok := primitiveByKeyword[keyword]
	return t, ok
}

// ColumnSpec is one raw column specification as it appears under the
// header's "datatype" key.
type ColumnSpec struct {
	Name     string `yaml:"name"`
	Datatype string `yaml:"datatype"`
	Subtype  string `yaml:"subtype,omitempty"`
	Unit     string `yaml:"unit,omitempty"`
}

// Header is a parsed ECSV schema: the data-section delimiter and the
// ordered column specifications.
type Header struct {
	Delimiter rune
	Columns   []ColumnSpec
}

// ElementType declares that a column's text field is itself an encoded
// variable-length array of a primitive type.
type ElementType struct {
	Type PrimitiveType
}

// ColumnDescriptor is a fully resolved column: its name, primitive type,
// optional array element type, and optional unit. Element is non-nil iff
// the column encodes a per-row variable-length sequence as a single text
// token.
type ColumnDescriptor struct {
	Name    string
	Type    PrimitiveType
	Element *ElementType
	Unit    *units.Unit
}

// IsArray reports whether the column carries an array subtype.
func (d ColumnDescriptor) IsArray() bool {
	return d.Element != nil
}

// Warning describes a recovered unit problem scoped to one column. The
// Unit field carries the original, pre-normalization unit string.
type Warning struct {
	Column  string
	Unit    string
	Message string
}
