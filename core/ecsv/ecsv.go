// Package ecsv reads the ECSV tabular text format: a comment-prefixed
// YAML header embedding a machine-readable schema, followed by
// delimiter-separated data rows. Each column is materialized into a
// typed, missing-aware, optionally unit-annotated Apache Arrow array and
// the named columns are handed to a caller-supplied sink.
//
// A read is a single, bounded, synchronous transformation over a fully
// materialized input. It either fully succeeds or fails: schema and
// conversion errors abort the read, and no partial table is ever
// returned. Unit problems recover locally — the affected column
// proceeds unitless and a Warning is reported.
package ecsv

import (
	"io"

	"github.com/stellarkit/ecsv/core/convert"
	"github.com/stellarkit/ecsv/core/errors"
	"github.com/stellarkit/ecsv/core/header"
	"github.com/stellarkit/ecsv/core/schema"
)

// Warning is a recovered unit problem scoped to one column.
type Warning = schema.Warning

// SinkFunc builds the caller's table representation from the final typed
// columns. It receives the columns in schema order.
type SinkFunc[T any] func(cols []*convert.Column) (T, error)

// Read reads an ECSV document from r and hands the converted columns to
// sink. On any fatal error the sink is never invoked and the zero T is
// returned.
func Read[T any](r io.Reader, sink SinkFunc[T], opts ...Option) (T, error) {
	var zero T
	cols, err := readColumns(r, newOptions(opts))
	if err != nil {
		return zero, err
	}
	return sink(cols)
}

// ReadTable reads an ECSV document into the built-in Table sink.
func ReadTable(r io.Reader, opts ...Option) (*Table, error) {
	return Read(r, NewTable, opts...)
}

// ParseHeader extracts and parses only the schema header of an ECSV
// document, without touching the data section.
func ParseHeader(r io.Reader) (*schema.Header, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "reading source")
	}
	text, _ := header.Extract(data)
	return schema.Parse(text)
}
