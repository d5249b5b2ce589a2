// Command ecsv reads ECSV files: tables whose typed schema travels in a
// comment-prefixed YAML header ahead of the delimited data.
// It provides commands for inspecting schemas and converting tables.
package main

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/alecthomas/kong"

	"github.com/stellarkit/ecsv/core/convert"
	"github.com/stellarkit/ecsv/core/ecsv"
	"github.com/stellarkit/ecsv/core/sqlite"
	"github.com/stellarkit/ecsv/internal/fileutil"
	"github.com/stellarkit/ecsv/internal/logging"
)

const version = "0.1.0"

// CLI defines the command-line interface for ecsv.
var CLI struct {
	// Global flags
	LogLevel  string `name:"log-level" default:"info" enum:"debug,info,warn,error" help:"Log level"`
	LogFormat string `name:"log-format" default:"text" enum:"text,json" help:"Log output format"`

	Schema  SchemaCmd  `cmd:"" help:"Print the embedded schema of an ECSV file as JSON"`
	Convert ConvertCmd `cmd:"" help:"Convert an ECSV file to csv, json or sqlite"`
	Head    HeadCmd    `cmd:"" help:"Print the first rows of an ECSV file"`
	Version VersionCmd `cmd:"" help:"Print version information"`
}

// SchemaCmd prints the parsed header without converting any data.
type SchemaCmd struct {
	Path string `arg:"" help:"ECSV file to inspect (- for stdin, .gz/.xz supported)"`
}

func (c *SchemaCmd) Run() error {
	rc, err := fileutil.OpenSource(c.Path)
	if err != nil {
		return err
	}
	defer rc.Close()

	hdr, err := ecsv.ParseHeader(rc)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(hdr)
}

// ConvertCmd reads an ECSV file and writes its typed table elsewhere.
type ConvertCmd struct {
	Path  string `arg:"" help:"ECSV file to convert (- for stdin, .gz/.xz supported)"`
	To    string `name:"to" default:"csv" enum:"csv,json,sqlite" help:"Output format"`
	Out   string `name:"out" short:"o" default:"-" help:"Output file (- for stdout; required db path for sqlite)"`
	Table string `name:"table" default:"data" help:"Table name for sqlite output"`
}

func (c *ConvertCmd) Run() error {
	tbl, err := readTable(c.Path)
	if err != nil {
		return err
	}
	defer tbl.Release()

	switch c.To {
	case "sqlite":
		if c.Out == "-" {
			return fmt.Errorf("sqlite output needs --out pointing at a database file")
		}
		db, err := sqlite.Open(c.Out)
		if err != nil {
			return err
		}
		defer db.Close()
		if err := sqlite.WriteColumns(db, c.Table, tbl.Columns()); err != nil {
			return err
		}
		logging.Info("table written", "db", c.Out, "table", c.Table,
			"rows", tbl.NumRows(), "driver", sqlite.DriverName())
		return nil
	case "json":
		w, closeFn, err := openOut(c.Out)
		if err != nil {
			return err
		}
		defer closeFn()
		return writeJSON(w, tbl)
	default:
		w, closeFn, err := openOut(c.Out)
		if err != nil {
			return err
		}
		defer closeFn()
		return writeCSV(w, tbl, tbl.NumRows())
	}
}

// HeadCmd prints the leading rows of the converted table as CSV.
type HeadCmd struct {
	Path string `arg:"" help:"ECSV file to preview (- for stdin, .gz/.xz supported)"`
	N    int    `short:"n" default:"10" help:"Number of rows to print"`
}

func (c *HeadCmd) Run() error {
	tbl, err := readTable(c.Path)
	if err != nil {
		return err
	}
	defer tbl.Release()

	n := c.N
	if n > tbl.NumRows() {
		n = tbl.NumRows()
	}
	return writeCSV(os.Stdout, tbl, n)
}

type VersionCmd struct{}

func (c *VersionCmd) Run() error {
	fmt.Printf("ecsv version %s\n", version)
	return nil
}

// Helper functions

func readTable(path string) (*ecsv.Table, error) {
	rc, err := fileutil.OpenSource(path)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	// Unit problems surface as log lines; they never abort the read.
	return ecsv.ReadTable(rc)
}

func openOut(path string) (io.Writer, func() error, error) {
	if path == "-" {
		return os.Stdout, func() error { return nil }, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, err
	}
	return f, f.Close, nil
}

func writeCSV(w io.Writer, tbl *ecsv.Table, rows int) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(tbl.Names()); err != nil {
		return err
	}
	cols := tbl.Columns()
	record := make([]string, len(cols))
	for r := 0; r < rows; r++ {
		for i, col := range cols {
			s, err := cellString(col, r)
			if err != nil {
				return err
			}
			record[i] = s
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func writeJSON(w io.Writer, tbl *ecsv.Table) error {
	cols := tbl.Columns()
	out := make([]map[string]any, tbl.NumRows())
	for r := range out {
		row := make(map[string]any, len(cols))
		for _, col := range cols {
			row[col.Name] = jsonValue(col.Value(r))
		}
		out[r] = row
	}
	enc := json.NewEncoder(w)
	return enc.Encode(out)
}

// jsonValue makes a converted value representable in JSON. NaN and the
// infinities have no JSON form, so they render as their text literals.
func jsonValue(v any) any {
	switch t := v.(type) {
	case float32:
		return jsonValue(float64(t))
	case float64:
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return convert.FormatValue(t)
		}
		return t
	case []any:
		out := make([]any, len(t))
		for i, el := range t {
			out[i] = jsonValue(el)
		}
		return out
	default:
		return v
	}
}

// cellString renders one cell for CSV output. Missing values become the
// empty field; arrays are re-encoded as bracketed literals, keeping
// non-finite floats as the nan/inf spellings the format uses.
func cellString(col *convert.Column, row int) (string, error) {
	return convert.FormatValue(col.Value(row)), nil
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("ecsv"),
		kong.Description("ECSV reader - typed tables with a comment-embedded schema"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
	)
	logging.InitLogger(parseLevel(CLI.LogLevel), parseFormat(CLI.LogFormat))
	err := ctx.Run(ctx)
	ctx.FatalIfErrorf(err)
}

func parseLevel(s string) logging.Level {
	switch s {
	case "debug":
		return logging.LevelDebug
	case "warn":
		return logging.LevelWarn
	case "error":
		return logging.LevelError
	default:
		return logging.LevelInfo
	}
}

func parseFormat(s string) logging.Format {
	if s == "json" {
		return logging.FormatJSON
	}
	return logging.FormatText
}
