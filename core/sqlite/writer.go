package sqlite

import (
	"database/sql"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/apache/arrow-go/v18/arrow"

	"github.com/stellarkit/ecsv/core/convert"
	"github.com/stellarkit/ecsv/core/errors"
)

// WriteColumns persists converted columns as a SQLite table. Integer and
// boolean columns map to INTEGER, floating-point to REAL, strings to TEXT
// and variable-length arrays to TEXT holding a JSON array. Missing values
// become NULL. Column units, when present, go into a side table named
// "<table>_units". An existing table of the same name is replaced.
func WriteColumns(db *sql.DB, table string, cols []*convert.Column) error {
	if len(cols) == 0 {
		return errors.NewSchema("", "no columns to write")
	}

	defs := make([]string, len(cols))
	params := make([]string, len(cols))
	for i, c := range cols {
		defs[i] = fmt.Sprintf("%s %s", quoteIdent(c.Name), sqlType(c.Data.DataType()))
		params[i] = "?"
	}

	tx, err := db.Begin()
	if err != nil {
		return errors.Wrap(err, "beginning transaction")
	}
	defer tx.Rollback()

	if _, err := tx.Exec(fmt.Sprintf("DROP TABLE IF EXISTS %s", quoteIdent(table))); err != nil {
		return errors.Wrapf(err, "dropping table %s", table)
	}
	create := fmt.Sprintf("CREATE TABLE %s (%s)", quoteIdent(table), strings.Join(defs, ", "))
	if _, err := tx.Exec(create); err != nil {
		return errors.Wrapf(err, "creating table %s", table)
	}

	insert := fmt.Sprintf("INSERT INTO %s VALUES (%s)", quoteIdent(table), strings.Join(params, ", "))
	stmt, err := tx.Prepare(insert)
	if err != nil {
		return errors.Wrap(err, "preparing insert")
	}
	defer stmt.Close()

	rows := cols[0].Len()
	args := make([]any, len(cols))
	for r := 0; r < rows; r++ {
		for i, c := range cols {
			v, err := sqlValue(c, r)
			if err != nil {
				return err
			}
			args[i] = v
		}
		if _, err := stmt.Exec(args...); err != nil {
			return errors.Wrapf(err, "inserting row %d", r)
		}
	}

	if err := writeUnits(tx, table, cols); err != nil {
		return err
	}
	return tx.Commit()
}

func writeUnits(tx *sql.Tx, table string, cols []*convert.Column) error {
	name := quoteIdent(table + "_units")
	if _, err := tx.Exec(fmt.Sprintf("DROP TABLE IF EXISTS %s", name)); err != nil {
		return errors.Wrap(err, "dropping units table")
	}
	withUnits := false
	for _, c := range cols {
		if c.Unit != nil {
			withUnits = true
			break
		}
	}
	if !withUnits {
		return nil
	}
	if _, err := tx.Exec(fmt.Sprintf(`CREATE TABLE %s ("column" TEXT PRIMARY KEY, unit TEXT)`, name)); err != nil {
		return errors.Wrap(err, "creating units table")
	}
	for _, c := range cols {
		if c.Unit == nil {
			continue
		}
		if _, err := tx.Exec(fmt.Sprintf("INSERT INTO %s VALUES (?, ?)", name), c.Name, c.Unit.String()); err != nil {
			return errors.Wrapf(err, "recording unit for %s", c.Name)
		}
	}
	return nil
}

func sqlType(t arrow.DataType) string {
	switch t.ID() {
	case arrow.BOOL,
		arrow.INT8, arrow.INT16, arrow.INT32, arrow.INT64,
		arrow.UINT8, arrow.UINT16, arrow.UINT32, arrow.UINT64:
		return "INTEGER"
	case arrow.FLOAT16, arrow.FLOAT32, arrow.FLOAT64:
		return "REAL"
	case arrow.LIST:
		return "TEXT"
	default:
		return "TEXT"
	}
}

// sqlValue extracts the row value in a form database/sql accepts.
func sqlValue(c *convert.Column, row int) (any, error) {
	if c.Data.IsNull(row) {
		return nil, nil
	}
	switch v := c.Value(row).(type) {
	case []any:
		// json.Marshal would reject nan/inf elements, which the numeric
		// decoder accepts.
		return convert.FormatArray(v), nil
	case uint64:
		// database/sql rejects uint64 values above the int64 range.
		if v > math.MaxInt64 {
			return strconv.FormatUint(v, 10), nil
		}
		return int64(v), nil
	default:
		return v, nil
	}
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
