package convert

import (
	"errors"
	"math"
	"testing"

	"github.com/apache/arrow-go/v18/arrow/array"

	ecsverr "github.com/stellarkit/ecsv/core/errors"
	"github.com/stellarkit/ecsv/core/schema"
	"github.com/stellarkit/ecsv/core/units"
)

func mustConvert(t *testing.T, d schema.ColumnDescriptor, tokens []string) *Column {
	t.Helper()
	c, err := Convert(d, tokens, Options{})
	if err != nil {
		t.Fatalf("Convert error: %v", err)
	}
	t.Cleanup(c.Release)
	return c
}

func TestConvertScalarInt64(t *testing.T) {
	d := schema.ColumnDescriptor{Name: "id", Type: schema.TypeInt64}
	tokens := []string{"1", "2", "3", "-9223372036854775808", "9223372036854775807"}
	c := mustConvert(t, d, tokens)

	if c.Len() != len(tokens) {
		t.Fatalf("Len = %d, want %d", c.Len(), len(tokens))
	}
	if c.Nullable {
		t.Error("column without missing values should not be nullable")
	}
	arr, ok := c.Data.(*array.Int64)
	if !ok {
		t.Fatalf("Data is %T, want *array.Int64", c.Data)
	}
	if arr.Value(3) != math.MinInt64 || arr.Value(4) != math.MaxInt64 {
		t.Error("extreme values mangled")
	}
}

func TestConvertMissingPromotesNullable(t *testing.T) {
	d := schema.ColumnDescriptor{Name: "x", Type: schema.TypeInt32}
	// A missing marker at any position promotes the column without
	// reordering or dropping other rows.
	for pos := 0; pos < 4; pos++ {
		tokens := []string{"10", "20", "30", "40"}
		tokens[pos] = ""
		c := mustConvert(t, d, tokens)
		if !c.Nullable {
			t.Fatalf("pos %d: column should be nullable", pos)
		}
		if c.Len() != 4 {
			t.Fatalf("pos %d: Len = %d, want 4", pos, c.Len())
		}
		arr := c.Data.(*array.Int32)
		for i := 0; i < 4; i++ {
			if i == pos {
				if !arr.IsNull(i) {
					t.Errorf("pos %d: row %d should be null", pos, i)
				}
				continue
			}
			if arr.IsNull(i) {
				t.Errorf("pos %d: row %d should not be null", pos, i)
			}
			if want := int32((i + 1) * 10); arr.Value(i) != want {
				t.Errorf("pos %d: row %d = %d, want %d", pos, i, arr.Value(i), want)
			}
		}
	}
}

func TestConvertStrictWhenNoMissing(t *testing.T) {
	d := schema.ColumnDescriptor{Name: "x", Type: schema.TypeFloat64}
	c := mustConvert(t, d, []string{"1.5", "2.5"})
	if c.Nullable {
		t.Error("column should use the strict primitive type")
	}
	if c.Data.NullN() != 0 {
		t.Errorf("NullN = %d, want 0", c.Data.NullN())
	}
}

func TestConvertStringPassthrough(t *testing.T) {
	d := schema.ColumnDescriptor{Name: "s", Type: schema.TypeString}
	tokens := []string{"alpha", "", "gamma"}
	c := mustConvert(t, d, tokens)
	if c.Nullable {
		t.Error("string columns pass through unchanged; empty is a value")
	}
	arr := c.Data.(*array.String)
	for i, want := range tokens {
		if arr.Value(i) != want {
			t.Errorf("row %d = %q, want %q", i, arr.Value(i), want)
		}
	}
}

func TestConvertCastFailureIsFatal(t *testing.T) {
	tests := []struct {
		name  string
		typ   schema.PrimitiveType
		token string
	}{
		{"not a number", schema.TypeInt32, "abc"},
		{"overflow", schema.TypeInt8, "300"},
		{"negative unsigned", schema.TypeUint16, "-1"},
		{"bad bool", schema.TypeBool, "maybe"},
		{"bad float", schema.TypeFloat64, "12..5"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := schema.ColumnDescriptor{Name: "c", Type: tt.typ}
			_, err := Convert(d, []string{tt.token}, Options{})
			var ce *ecsverr.ConversionError
			if !errors.As(err, &ce) {
				t.Fatalf("want ConversionError, got %v", err)
			}
			if ce.Value != tt.token {
				t.Errorf("Value = %q, want %q", ce.Value, tt.token)
			}
			if ce.Column != "c" {
				t.Errorf("Column = %q, want %q", ce.Column, "c")
			}
		})
	}
}

func TestConvertFloat16(t *testing.T) {
	d := schema.ColumnDescriptor{Name: "h", Type: schema.TypeFloat16}
	c := mustConvert(t, d, []string{"1.5", "-2"})
	arr := c.Data.(*array.Float16)
	if arr.Value(0).Float32() != 1.5 {
		t.Errorf("row 0 = %v, want 1.5", arr.Value(0).Float32())
	}
	if arr.Value(1).Float32() != -2 {
		t.Errorf("row 1 = %v, want -2", arr.Value(1).Float32())
	}
}

func TestConvertNonFiniteFloats(t *testing.T) {
	d := schema.ColumnDescriptor{Name: "f", Type: schema.TypeFloat64}
	c := mustConvert(t, d, []string{"nan", "inf", "-inf"})
	arr := c.Data.(*array.Float64)
	if !math.IsNaN(arr.Value(0)) {
		t.Errorf("row 0 = %v, want NaN", arr.Value(0))
	}
	if !math.IsInf(arr.Value(1), 1) || !math.IsInf(arr.Value(2), -1) {
		t.Error("infinities mangled")
	}
}

func TestConvertFloatArray(t *testing.T) {
	d := schema.ColumnDescriptor{
		Name:    "flux",
		Type:    schema.TypeString,
		Element: &schema.ElementType{Type: schema.TypeFloat64},
	}
	tokens := []string{
		"[1.5,2.5,3.5]",
		"[nan,inf]",
		"",
		"[4.0,null]",
	}
	c := mustConvert(t, d, tokens)
	if !c.Nullable {
		t.Error("column with missing row and element should be nullable")
	}
	list := c.Data.(*array.List)
	if list.Len() != 4 {
		t.Fatalf("Len = %d, want 4", list.Len())
	}
	if !list.IsNull(2) {
		t.Error("row 2 should be a whole-sequence null")
	}

	vals := list.ListValues().(*array.Float64)
	offsets := list.Offsets()
	if got := vals.Value(int(offsets[0])); got != 1.5 {
		t.Errorf("row 0 elem 0 = %v, want 1.5", got)
	}
	if got := vals.Value(int(offsets[1])); !math.IsNaN(got) {
		t.Errorf("row 1 elem 0 = %v, want NaN", got)
	}
	lastStart := offsets[3]
	if vals.Value(int(lastStart)) != 4.0 {
		t.Errorf("row 3 elem 0 = %v, want 4.0", vals.Value(int(lastStart)))
	}
	if !vals.IsNull(int(lastStart) + 1) {
		t.Error("row 3 elem 1 should be a per-element null")
	}
}

func TestConvertBoolArrayStrict(t *testing.T) {
	d := schema.ColumnDescriptor{
		Name:    "flags",
		Type:    schema.TypeString,
		Element: &schema.ElementType{Type: schema.TypeBool},
	}
	c := mustConvert(t, d, []string{"[true,false,null]"})
	list := c.Data.(*array.List)
	vals := list.ListValues().(*array.Boolean)
	if vals.Value(0) != true || vals.Value(1) != false {
		t.Error("strict bool literals mangled")
	}
	if !vals.IsNull(2) {
		t.Error("null element should be preserved")
	}
}

func TestConvertBoolArrayFallbackVocabulary(t *testing.T) {
	d := schema.ColumnDescriptor{
		Name:    "flags",
		Type:    schema.TypeString,
		Element: &schema.ElementType{Type: schema.TypeBool},
	}
	// Mixed-case textual encodings within one array literal.
	c := mustConvert(t, d, []string{`["T","false","1","F","TRUE","0"]`})
	want := []bool{true, false, true, false, true, false}
	vals := c.Data.(*array.List).ListValues().(*array.Boolean)
	for i, w := range want {
		if vals.Value(i) != w {
			t.Errorf("elem %d = %v, want %v", i, vals.Value(i), w)
		}
	}
}

func TestConvertBoolArrayBadTokenIsFatal(t *testing.T) {
	d := schema.ColumnDescriptor{
		Name:    "flags",
		Type:    schema.TypeString,
		Element: &schema.ElementType{Type: schema.TypeBool},
	}
	_, err := Convert(d, []string{`["T","yes"]`}, Options{})
	var ce *ecsverr.ConversionError
	if !errors.As(err, &ce) {
		t.Fatalf("want ConversionError, got %v", err)
	}
}

func TestConvertStringArray(t *testing.T) {
	d := schema.ColumnDescriptor{
		Name:    "tags",
		Type:    schema.TypeString,
		Element: &schema.ElementType{Type: schema.TypeString},
	}
	c := mustConvert(t, d, []string{`["a,b","c",null]`})
	vals := c.Data.(*array.List).ListValues().(*array.String)
	if vals.Value(0) != "a,b" {
		t.Errorf("elem 0 = %q, embedded comma mangled", vals.Value(0))
	}
	if !vals.IsNull(2) {
		t.Error("elem 2 should be null")
	}
}

func TestConvertMalformedArrayLiteral(t *testing.T) {
	d := schema.ColumnDescriptor{
		Name:    "xs",
		Type:    schema.TypeString,
		Element: &schema.ElementType{Type: schema.TypeFloat32},
	}
	for _, tok := range []string{"1.5,2.5", "[1.5", "[1.5,,2.5]"} {
		if _, err := Convert(d, []string{tok}, Options{}); !errors.Is(err, ecsverr.ErrConversion) {
			t.Errorf("token %q: want conversion error, got %v", tok, err)
		}
	}
}

func TestConvertAttachesUnit(t *testing.T) {
	u, err := units.Parse("s^-1")
	if err != nil {
		t.Fatal(err)
	}
	d := schema.ColumnDescriptor{Name: "rate", Type: schema.TypeFloat64, Unit: &u}
	c := mustConvert(t, d, []string{"1.0"})
	if c.Unit == nil || !c.Unit.Equal(u) {
		t.Errorf("Unit = %v, want %v", c.Unit, u)
	}
	f := c.Field()
	if i := f.Metadata.FindKey("unit"); i < 0 || f.Metadata.Values()[i] != "s^-1" {
		t.Errorf("field metadata unit missing or wrong: %v", f.Metadata)
	}
}

func TestColumnsParallel(t *testing.T) {
	descs := []schema.ColumnDescriptor{
		{Name: "a", Type: schema.TypeInt64},
		{Name: "b", Type: schema.TypeFloat64},
		{Name: "c", Type: schema.TypeString},
	}
	raw := [][]string{
		{"1", "2"},
		{"1.5", "2.5"},
		{"x", "y"},
	}
	cols, err := Columns(descs, raw, Options{MaxParallel: 2})
	if err != nil {
		t.Fatalf("Columns error: %v", err)
	}
	defer func() {
		for _, c := range cols {
			c.Release()
		}
	}()
	for i, d := range descs {
		if cols[i].Name != d.Name {
			t.Errorf("column %d = %q, want %q (order must be preserved)", i, cols[i].Name, d.Name)
		}
	}
}

func TestColumnsErrorReturnsNoPartialResult(t *testing.T) {
	descs := []schema.ColumnDescriptor{
		{Name: "good", Type: schema.TypeInt64},
		{Name: "bad", Type: schema.TypeInt64},
	}
	raw := [][]string{{"1"}, {"oops"}}
	cols, err := Columns(descs, raw, Options{})
	if err == nil {
		t.Fatal("want error")
	}
	if cols != nil {
		t.Error("no partial result may be returned")
	}
}

func TestColumnValue(t *testing.T) {
	d := schema.ColumnDescriptor{
		Name:    "xs",
		Type:    schema.TypeString,
		Element: &schema.ElementType{Type: schema.TypeInt32},
	}
	c := mustConvert(t, d, []string{"[1,2]", ""})
	v, ok := c.Value(0).([]any)
	if !ok {
		t.Fatalf("Value(0) is %T, want []any", c.Value(0))
	}
	if v[0] != int32(1) || v[1] != int32(2) {
		t.Errorf("Value(0) = %v", v)
	}
	if c.Value(1) != nil {
		t.Errorf("Value(1) = %v, want nil for missing row", c.Value(1))
	}
}
