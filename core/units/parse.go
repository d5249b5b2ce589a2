package units

import (
	"fmt"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// UnknownUnitError reports a symbol that resolved against neither the
// core nor the extended unit registry.
type UnknownUnitError struct {
	Symbol string
}

func (e *UnknownUnitError) Error() string {
	return fmt.Sprintf("unit %q not found in unit registry", e.Symbol)
}

// SyntaxError reports a unit expression the grammar could not parse.
type SyntaxError struct {
	Input string
	Err   error
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("invalid unit expression %q: %v", e.Input, e.Err)
}

func (e *SyntaxError) Unwrap() error { return e.Err }

// unitExpr is the participle grammar for unit expressions.
// Examples: "s^-1", "km/s", "kg.m.s^-2", "1e-10 m", "/s", "(m/s)^2"
type unitExpr struct {
	LeadingDiv bool        `parser:"@'/'?"`
	First      *unitFactor `parser:"@@"`
	Rest       []*unitTerm `parser:"@@*"`
}

// unitTerm is a product term. The operator may be omitted, so a numeric
// scale juxtaposed with a symbol ("1e-10 m") multiplies.
type unitTerm struct {
	Op     string      `parser:"@('.' | '/')?"`
	Factor *unitFactor `parser:"@@"`
}

type unitFactor struct {
	Number *float64   `parser:"( @(Float | Int)"`
	Symbol *string    `parser:"| @Symbol"`
	Group  *unitExpr  `parser:"| '(' @@ ')' )"`
	Power  *unitPower `parser:"@@?"`
}

type unitPower struct {
	Sign string `parser:"'^' @('-' | '+')?"`
	Exp  int    `parser:"@Int"`
}

// unitLexer defines the lexer for unit expressions. The power operator
// is the caret; Normalize rewrites the source format's asterisk forms
// into it before parsing.
var unitLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Float", Pattern: `[0-9]+\.[0-9]+(?:[eE][+-]?[0-9]+)?|[0-9]+[eE][+-]?[0-9]+`},
	{Name: "Int", Pattern: `[0-9]+`},
	{Name: "Symbol", Pattern: `[A-Za-z%µ']+`},
	{Name: "Punct", Pattern: `[()./^+-]`},
	{Name: "Whitespace", Pattern: `\s+`},
})

// unitParser is the participle parser for unit expressions.
var unitParser = participle.MustBuild[unitExpr](
	participle.Lexer(unitLexer),
	participle.Elide("Whitespace"),
)

// Parse evaluates a unit expression in the normalized grammar into a
// Unit. Symbols are resolved with the extended registry search; failure
// to resolve a symbol yields an UnknownUnitError, any other parse
// failure a SyntaxError.
func Parse(s string) (Unit, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return Unit{}, &SyntaxError{Input: s, Err: fmt.Errorf("empty unit expression")}
	}
	ast, err := unitParser.ParseString("", trimmed)
	if err != nil {
		return Unit{}, &SyntaxError{Input: s, Err: err}
	}
	return evalExpr(ast)
}

func evalExpr(e *unitExpr) (Unit, error) {
	u, err := evalFactor(e.First)
	if err != nil {
		return Unit{}, err
	}
	if e.LeadingDiv {
		u = Dimensionless().Div(u)
	}
	for _, t := range e.Rest {
		f, err := evalFactor(t.Factor)
		if err != nil {
			return Unit{}, err
		}
		switch t.Op {
		case "/":
			u = u.Div(f)
		default:
			u = u.Mul(f)
		}
	}
	return u, nil
}

func evalFactor(f *unitFactor) (Unit, error) {
	var u Unit
	switch {
	case f.Number != nil:
		u = Unit{Scale: *f.Number}
	case f.Symbol != nil:
		var ok bool
		u, ok = lookup(*f.Symbol)
		if !ok {
			return Unit{}, &UnknownUnitError{Symbol: *f.Symbol}
		}
	case f.Group != nil:
		var err error
		u, err = evalExpr(f.Group)
		if err != nil {
			return Unit{}, err
		}
	}
	if f.Power != nil {
		exp := f.Power.Exp
		if f.Power.Sign == "-" {
			exp = -exp
		}
		u = u.Pow(exp)
	}
	return u, nil
}
