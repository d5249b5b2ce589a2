// Package convert materializes raw text columns into typed Apache Arrow
// arrays according to their resolved column descriptors.
package convert

import (
	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"

	"github.com/stellarkit/ecsv/core/schema"
	"github.com/stellarkit/ecsv/core/units"
)

// Column is a fully converted, terminal column: an Arrow array, the
// column's unit if one was declared and parsed, and whether any missing
// value promoted the column to nullable.
type Column struct {
	Name     string
	Data     arrow.Array
	Unit     *units.Unit
	Nullable bool
}

// Len returns the number of rows.
func (c *Column) Len() int {
	return c.Data.Len()
}

// Release releases the underlying Arrow array.
func (c *Column) Release() {
	c.Data.Release()
}

// Field returns the Arrow field describing this column. A unit is
// carried as field metadata under the "unit" key.
func (c *Column) Field() arrow.Field {
	f := arrow.Field{
		Name:     c.Name,
		Type:     c.Data.DataType(),
		Nullable: c.Nullable,
	}
	if c.Unit != nil {
		f.Metadata = arrow.NewMetadata([]string{"unit"}, []string{c.Unit.String()})
	}
	return f
}

// Value returns the Go value at row i: nil for a null row, a []any for
// an array column (with nil elements for per-element nulls), and the
// primitive Go value otherwise. Float16 widens to float32.
func (c *Column) Value(i int) any {
	return arrayValue(c.Data, i)
}

func arrayValue(a arrow.Array, i int) any {
	if a.IsNull(i) {
		return nil
	}
	switch arr := a.(type) {
	case *array.Boolean:
		return arr.Value(i)
	case *array.Int8:
		return arr.Value(i)
	case *array.Int16:
		return arr.Value(i)
	case *array.Int32:
		return arr.Value(i)
	case *array.Int64:
		return arr.Value(i)
	case *array.Uint8:
		return arr.Value(i)
	case *array.Uint16:
		return arr.Value(i)
	case *array.Uint32:
		return arr.Value(i)
	case *array.Uint64:
		return arr.Value(i)
	case *array.Float16:
		return arr.Value(i).Float32()
	case *array.Float32:
		return arr.Value(i)
	case *array.Float64:
		return arr.Value(i)
	case *array.String:
		return arr.Value(i)
	case *array.List:
		offsets := arr.Offsets()
		values := arr.ListValues()
		out := make([]any, 0, offsets[i+1]-offsets[i])
		for j := offsets[i]; j < offsets[i+1]; j++ {
			out = append(out, arrayValue(values, int(j)))
		}
		return out
	}
	return nil
}

// arrowType maps a primitive type of the datatype vocabulary to its
// Arrow representation.
func arrowType(t schema.PrimitiveType) arrow.DataType {
	switch t {
	case schema.TypeBool:
		return arrow.FixedWidthTypes.Boolean
	case schema.TypeInt8:
		return arrow.PrimitiveTypes.Int8
	case schema.TypeInt16:
		return arrow.PrimitiveTypes.Int16
	case schema.TypeInt32:
		return arrow.PrimitiveTypes.Int32
	case schema.TypeInt64:
		return arrow.PrimitiveTypes.Int64
	case schema.TypeUint8:
		return arrow.PrimitiveTypes.Uint8
	case schema.TypeUint16:
		return arrow.PrimitiveTypes.Uint16
	case schema.TypeUint32:
		return arrow.PrimitiveTypes.Uint32
	case schema.TypeUint64:
		return arrow.PrimitiveTypes.Uint64
	case schema.TypeFloat16:
		return arrow.FixedWidthTypes.Float16
	case schema.TypeFloat32:
		return arrow.PrimitiveTypes.Float32
	case schema.TypeFloat64:
		return arrow.PrimitiveTypes.Float64
	case schema.TypeString:
		return arrow.BinaryTypes.String
	}
	return nil
}
