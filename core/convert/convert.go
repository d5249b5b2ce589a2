package convert

import (
	"runtime"
	"strconv"

	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/float16"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"golang.org/x/sync/errgroup"

	"github.com/stellarkit/ecsv/core/errors"
	"github.com/stellarkit/ecsv/core/schema"
)

// Options configures column conversion.
type Options struct {
	// Missing is the token marking a missing value. The zero value (the
	// empty string) is the format's default marker.
	Missing string
	// Allocator is the Arrow allocator; nil uses the default.
	Allocator memory.Allocator
	// MaxParallel bounds concurrent column conversions; <= 0 uses
	// GOMAXPROCS.
	MaxParallel int
}

func (o Options) mem() memory.Allocator {
	if o.Allocator != nil {
		return o.Allocator
	}
	return memory.DefaultAllocator
}

// Columns converts every raw column against its descriptor. Columns are
// mutually independent, so conversion runs concurrently; the first error
// aborts the whole batch and releases any finished arrays — no partial
// result is returned.
func Columns(descs []schema.ColumnDescriptor, raw [][]string, opts Options) ([]*Column, error) {
	if len(descs) != len(raw) {
		return nil, errors.NewSchema("", "descriptor count does not match tokenized column count")
	}
	cols := make([]*Column, len(descs))
	g := new(errgroup.Group)
	limit := opts.MaxParallel
	if limit <= 0 {
		limit = runtime.GOMAXPROCS(0)
	}
	g.SetLimit(limit)
	for i := range descs {
		g.Go(func() error {
			c, err := Convert(descs[i], raw[i], opts)
			if err != nil {
				return err
			}
			cols[i] = c
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		for _, c := range cols {
			if c != nil {
				c.Release()
			}
		}
		return nil, err
	}
	return cols, nil
}

// Convert materializes one raw text column into a typed Column. The
// column kind is closed: a descriptor either converts on the scalar path
// or, when an element subtype is present, on the array path.
func Convert(d schema.ColumnDescriptor, tokens []string, opts Options) (*Column, error) {
	if d.IsArray() {
		return convertArray(d, tokens, opts)
	}
	return convertScalar(d, tokens, opts)
}

// convertScalar casts every token to the column's primitive type.
// String columns pass through unchanged. For other types an empty (or
// configured) missing token becomes a null and promotes the column to
// nullable; a token that cannot be represented is fatal.
func convertScalar(d schema.ColumnDescriptor, tokens []string, opts Options) (*Column, error) {
	b := array.NewBuilder(opts.mem(), arrowType(d.Type))
	defer b.Release()
	b.Reserve(len(tokens))

	nullable := false
	if d.Type == schema.TypeString {
		sb := b.(*array.StringBuilder)
		for _, tok := range tokens {
			sb.Append(tok)
		}
	} else {
		for _, tok := range tokens {
			if tok == opts.Missing {
				b.AppendNull()
				nullable = true
				continue
			}
			if err := appendToken(b, d.Type, tok); err != nil {
				return nil, errors.NewConversion(d.Name, tok, d.Type.String(), err)
			}
		}
	}
	return &Column{Name: d.Name, Data: b.NewArray(), Unit: d.Unit, Nullable: nullable}, nil
}

// appendToken parses one non-missing token as the given primitive type
// and appends it. The caller wraps failures with column context.
func appendToken(b array.Builder, t schema.PrimitiveType, token string) error {
	switch t {
	case schema.TypeBool:
		v, err := strconv.ParseBool(token)
		if err != nil {
			return err
		}
		b.(*array.BooleanBuilder).Append(v)
	case schema.TypeInt8:
		v, err := strconv.ParseInt(token, 10, 8)
		if err != nil {
			return err
		}
		b.(*array.Int8Builder).Append(int8(v))
	case schema.TypeInt16:
		v, err := strconv.ParseInt(token, 10, 16)
		if err != nil {
			return err
		}
		b.(*array.Int16Builder).Append(int16(v))
	case schema.TypeInt32:
		v, err := strconv.ParseInt(token, 10, 32)
		if err != nil {
			return err
		}
		b.(*array.Int32Builder).Append(int32(v))
	case schema.TypeInt64:
		v, err := strconv.ParseInt(token, 10, 64)
		if err != nil {
			return err
		}
		b.(*array.Int64Builder).Append(v)
	case schema.TypeUint8:
		v, err := strconv.ParseUint(token, 10, 8)
		if err != nil {
			return err
		}
		b.(*array.Uint8Builder).Append(uint8(v))
	case schema.TypeUint16:
		v, err := strconv.ParseUint(token, 10, 16)
		if err != nil {
			return err
		}
		b.(*array.Uint16Builder).Append(uint16(v))
	case schema.TypeUint32:
		v, err := strconv.ParseUint(token, 10, 32)
		if err != nil {
			return err
		}
		b.(*array.Uint32Builder).Append(uint32(v))
	case schema.TypeUint64:
		v, err := strconv.ParseUint(token, 10, 64)
		if err != nil {
			return err
		}
		b.(*array.Uint64Builder).Append(v)
	case schema.TypeFloat16:
		v, err := strconv.ParseFloat(token, 32)
		if err != nil {
			return err
		}
		b.(*array.Float16Builder).Append(float16.New(float32(v)))
	case schema.TypeFloat32:
		v, err := strconv.ParseFloat(token, 32)
		if err != nil {
			return err
		}
		b.(*array.Float32Builder).Append(float32(v))
	case schema.TypeFloat64:
		v, err := strconv.ParseFloat(token, 64)
		if err != nil {
			return err
		}
		b.(*array.Float64Builder).Append(v)
	case schema.TypeString:
		b.(*array.StringBuilder).Append(token)
	}
	return nil
}
