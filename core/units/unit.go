// Package units implements a small physical-unit algebra and the
// normalization of unit strings found in ECSV headers into the grammar
// this package accepts.
//
// A Unit is a scale factor together with integer exponents over a fixed
// vector of base dimensions. Parsing resolves unit symbols against a
// registry of SI units extended with domain-specific (astronomical)
// units, applies SI prefixes, and evaluates products, quotients and
// integer powers.
package units

import (
	"math"
	"strconv"
	"strings"
)

// dimension indexes the base-dimension vector of a Unit.
type dimension int

const (
	dimLength dimension = iota
	dimMass
	dimTime
	dimCurrent
	dimTemperature
	dimAmount
	dimLuminous
	dimAngle
	numDims
)

// dimSymbols are the canonical base symbols used when rendering a Unit.
var dimSymbols = [numDims]string{"m", "kg", "s", "A", "K", "mol", "cd", "rad"}

// Unit is a dimensioned quantity: a scale factor in SI base units and
// one integer exponent per base dimension.
type Unit struct {
	Scale float64
	Dims  [numDims]int
}

// Dimensionless returns the identity unit.
func Dimensionless() Unit {
	return Unit{Scale: 1}
}

// baseDim returns the unit of a single base dimension.
func baseDim(d dimension) Unit {
	u := Unit{Scale: 1}
	u.Dims[d] = 1
	return u
}

// scaled returns u with its scale multiplied by k.
func scaled(u Unit, k float64) Unit {
	u.Scale *= k
	return u
}

// Mul returns the product of two units.
func (u Unit) Mul(v Unit) Unit {
	out := Unit{Scale: u.Scale * v.Scale}
	for i := range out.Dims {
		out.Dims[i] = u.Dims[i] + v.Dims[i]
	}
	return out
}

// Div returns the quotient of two units.
func (u Unit) Div(v Unit) Unit {
	out := Unit{Scale: u.Scale / v.Scale}
	for i := range out.Dims {
		out.Dims[i] = u.Dims[i] - v.Dims[i]
	}
	return out
}

// Pow raises a unit to an integer power.
func (u Unit) Pow(n int) Unit {
	out := Unit{Scale: math.Pow(u.Scale, float64(n))}
	for i := range out.Dims {
		out.Dims[i] = u.Dims[i] * n
	}
	return out
}

// IsDimensionless reports whether all dimension exponents are zero.
func (u Unit) IsDimensionless() bool {
	for _, d := range u.Dims {
		if d != 0 {
			return false
		}
	}
	return true
}

// Equal reports whether two units have identical dimensions and scales
// that agree to within a small relative tolerance.
func (u Unit) Equal(v Unit) bool {
	if u.Dims != v.Dims {
		return false
	}
	if u.Scale == v.Scale {
		return true
	}
	diff := math.Abs(u.Scale - v.Scale)
	return diff <= 1e-12*math.Max(math.Abs(u.Scale), math.Abs(v.Scale))
}

// displayOrder lists base dimensions in the conventional SI rendering
// order: mass before length and time.
var displayOrder = [numDims]dimension{
	dimMass, dimLength, dimTime, dimCurrent,
	dimTemperature, dimAmount, dimLuminous, dimAngle,
}

// String renders the unit in canonical base-dimension form, e.g.
// "s^-1", "kg.m.s^-2" or "1e-26 kg.s^-2". The identity unit renders
// as "1".
func (u Unit) String() string {
	var parts []string
	for _, d := range displayOrder {
		exp := u.Dims[d]
		switch {
		case exp == 1:
			parts = append(parts, dimSymbols[d])
		case exp != 0:
			parts = append(parts, dimSymbols[d]+"^"+strconv.Itoa(exp))
		}
	}
	body := strings.Join(parts, ".")
	if u.Scale != 1 {
		scale := strconv.FormatFloat(u.Scale, 'g', -1, 64)
		if body == "" {
			return scale
		}
		return scale + " " + body
	}
	if body == "" {
		return "1"
	}
	return body
}
