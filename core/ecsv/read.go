package ecsv

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"

	"github.com/stellarkit/ecsv/core/convert"
	"github.com/stellarkit/ecsv/core/errors"
	"github.com/stellarkit/ecsv/core/header"
	"github.com/stellarkit/ecsv/core/schema"
)

// readColumns runs the full pipeline: header extraction, schema parsing,
// descriptor resolution, row tokenization and column conversion.
// Resolution completes fully before any conversion begins.
func readColumns(r io.Reader, o *options) ([]*convert.Column, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "reading source")
	}

	// The extractor hands back the data section starting at exactly the
	// first line that failed the header predicate, so the tokenizer
	// neither skips nor re-reads a line.
	text, rest := header.Extract(data)
	hdr, err := schema.Parse(text)
	if err != nil {
		return nil, err
	}
	descs, err := schema.Resolve(hdr, o.warn)
	if err != nil {
		return nil, err
	}

	names, rows, err := tokenize(rest, hdr.Delimiter, o)
	if err != nil {
		return nil, err
	}
	if names == nil {
		if len(descs) > 0 {
			return nil, errors.NewSchema("", "data section is missing the column-name row")
		}
		return nil, nil
	}
	if len(descs) == 0 {
		// An empty header is valid; without declared types every column
		// is read as plain strings named by the leading name row.
		descs = stringDescriptors(names)
	} else if err := matchNames(descs, names); err != nil {
		return nil, err
	}

	return convert.Columns(descs, transpose(rows, len(descs)), convert.Options{
		Missing:     o.missing,
		Allocator:   o.alloc,
		MaxParallel: o.maxParallel,
	})
}

// tokenize reads the data section as delimiter-separated records. The
// first record is the column-name row; comment lines inside the data
// section are skipped by the tokenizer. A record whose field count
// differs from the name row is a fatal schema error.
func tokenize(rest []byte, delim rune, o *options) (names []string, rows [][]string, err error) {
	cr := csv.NewReader(bytes.NewReader(rest))
	cr.Comma = delim
	cr.Comment = o.comment
	cr.LazyQuotes = o.lazyQuotes
	cr.TrimLeadingSpace = o.trimLeadingSpace

	records, err := cr.ReadAll()
	if err != nil {
		return nil, nil, &errors.SchemaError{
			Message: fmt.Sprintf("tokenizing data section: %v", err),
			Err:     err,
		}
	}
	if len(records) == 0 {
		return nil, nil, nil
	}
	return records[0], records[1:], nil
}

// matchNames enforces that declared column names and order exactly match
// the tokenized name row.
func matchNames(descs []schema.ColumnDescriptor, names []string) error {
	if len(descs) != len(names) {
		return errors.NewSchema("", fmt.Sprintf(
			"schema declares %d columns, data has %d", len(descs), len(names)))
	}
	for i, d := range descs {
		if d.Name != names[i] {
			return errors.NewSchema(d.Name, fmt.Sprintf(
				"column %d is named %q in the data section", i, names[i]))
		}
	}
	return nil
}

func stringDescriptors(names []string) []schema.ColumnDescriptor {
	descs := make([]schema.ColumnDescriptor, len(names))
	for i, n := range names {
		descs[i] = schema.ColumnDescriptor{Name: n, Type: schema.TypeString}
	}
	return descs
}

// transpose turns row-major records into per-column token slices.
func transpose(rows [][]string, ncols int) [][]string {
	cols := make([][]string, ncols)
	for i := range cols {
		cols[i] = make([]string, len(rows))
	}
	for r, row := range rows {
		for c := 0; c < ncols; c++ {
			cols[c][r] = row[c]
		}
	}
	return cols
}
