package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestSchemaError(t *testing.T) {
	tests := []struct {
		name string
		err  *SchemaError
		want string
	}{
		{"with column", NewSchema("flux", "unknown datatype keyword \"int128\""), `schema: column "flux": unknown datatype keyword "int128"`},
		{"without column", NewSchema("", "missing required key \"datatype\""), `schema: missing required key "datatype"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
			if !errors.Is(tt.err, ErrSchema) {
				t.Error("SchemaError should match ErrSchema")
			}
		})
	}
}

func TestConversionError(t *testing.T) {
	err := NewConversion("n_transits", "abc", "int32", nil)
	want := `convert: column "n_transits": cannot convert "abc" to int32`
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if !errors.Is(err, ErrConversion) {
		t.Error("ConversionError should match ErrConversion")
	}
}

func TestConversionErrorUnwrapsCause(t *testing.T) {
	cause := errors.New("value out of range")
	err := NewConversion("id", "99999999999999999999", "int64", cause)
	if !errors.Is(err, cause) {
		t.Error("ConversionError should unwrap to its cause")
	}
	if !errors.Is(err, ErrConversion) {
		t.Error("a wrapped cause must not hide the ErrConversion sentinel")
	}
}

func TestSentinelSurvivesWrappedCause(t *testing.T) {
	cause := errors.New("yaml: line 3: mapping values are not allowed")
	err := fmt.Errorf("reading header: %w", &SchemaError{Message: "malformed header", Err: cause})
	if !errors.Is(err, ErrSchema) {
		t.Error("SchemaError with a cause should still match ErrSchema")
	}
	if !errors.Is(err, cause) {
		t.Error("SchemaError should still match its cause")
	}
	uerr := &SchemaError{Column: "m", Message: "bad dims", Err: ErrUnsupported}
	if !errors.Is(uerr, ErrUnsupported) || !errors.Is(uerr, ErrSchema) {
		t.Error("SchemaError carrying ErrUnsupported should match both sentinels")
	}
}

func TestUnsupportedError(t *testing.T) {
	err := NewUnsupported("array subtype", "multidimensional arrays are not supported")
	want := "unsupported array subtype: multidimensional arrays are not supported"
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if !errors.Is(err, ErrUnsupported) {
		t.Error("UnsupportedError should match ErrUnsupported")
	}
}

func TestWrap(t *testing.T) {
	if Wrap(nil, "context") != nil {
		t.Error("Wrap(nil) should return nil")
	}
	base := errors.New("base")
	wrapped := Wrap(base, "context")
	if wrapped.Error() != "context: base" {
		t.Errorf("Wrap() = %q", wrapped.Error())
	}
	if !errors.Is(wrapped, base) {
		t.Error("wrapped error should match base")
	}
}

func TestWrapf(t *testing.T) {
	if Wrapf(nil, "context %d", 1) != nil {
		t.Error("Wrapf(nil) should return nil")
	}
	base := errors.New("base")
	wrapped := Wrapf(base, "row %d", 42)
	if wrapped.Error() != "row 42: base" {
		t.Errorf("Wrapf() = %q", wrapped.Error())
	}
}

func TestAs(t *testing.T) {
	var target *ConversionError
	err := fmt.Errorf("reading table: %w", NewConversion("c", "x", "bool", nil))
	if !As(err, &target) {
		t.Fatal("As() should find ConversionError through wrapping")
	}
	if target.Column != "c" {
		t.Errorf("Column = %q, want %q", target.Column, "c")
	}
}
