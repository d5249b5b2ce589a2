package units

import (
	"math"
	"sort"
	"strings"
)

// siPrefixes maps SI prefix symbols to their factors. "u" is accepted as
// an ASCII spelling of micro alongside "µ".
var siPrefixes = map[string]float64{
	"Y": 1e24, "Z": 1e21, "E": 1e18, "P": 1e15, "T": 1e12,
	"G": 1e9, "M": 1e6, "k": 1e3, "h": 1e2, "da": 1e1,
	"d": 1e-1, "c": 1e-2, "m": 1e-3, "u": 1e-6, "µ": 1e-6,
	"n": 1e-9, "p": 1e-12, "f": 1e-15, "a": 1e-18, "z": 1e-21, "y": 1e-24,
}

// prefixesByLength holds prefix symbols longest-first so "da" is tried
// before "d" when splitting a symbol.
var prefixesByLength = func() []string {
	out := make([]string, 0, len(siPrefixes))
	for p := range siPrefixes {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if len(out[i]) != len(out[j]) {
			return len(out[i]) > len(out[j])
		}
		return out[i] < out[j]
	})
	return out
}()

// baseUnits is the core SI registry: base units, accepted derived units,
// and common time units. Mass is carried internally in kilograms, so the
// gram has scale 1e-3.
var baseUnits = map[string]Unit{
	"m":   baseDim(dimLength),
	"g":   scaled(baseDim(dimMass), 1e-3),
	"s":   baseDim(dimTime),
	"A":   baseDim(dimCurrent),
	"K":   baseDim(dimTemperature),
	"mol": baseDim(dimAmount),
	"cd":  baseDim(dimLuminous),
	"rad": baseDim(dimAngle),
	"sr":  baseDim(dimAngle).Pow(2),

	"Hz":  baseDim(dimTime).Pow(-1),
	"N":   baseDim(dimMass).Mul(baseDim(dimLength)).Mul(baseDim(dimTime).Pow(-2)),
	"Pa":  baseDim(dimMass).Mul(baseDim(dimLength).Pow(-1)).Mul(baseDim(dimTime).Pow(-2)),
	"J":   baseDim(dimMass).Mul(baseDim(dimLength).Pow(2)).Mul(baseDim(dimTime).Pow(-2)),
	"W":   baseDim(dimMass).Mul(baseDim(dimLength).Pow(2)).Mul(baseDim(dimTime).Pow(-3)),
	"C":   baseDim(dimCurrent).Mul(baseDim(dimTime)),
	"V":   baseDim(dimMass).Mul(baseDim(dimLength).Pow(2)).Mul(baseDim(dimTime).Pow(-3)).Mul(baseDim(dimCurrent).Pow(-1)),
	"Ohm": baseDim(dimMass).Mul(baseDim(dimLength).Pow(2)).Mul(baseDim(dimTime).Pow(-3)).Mul(baseDim(dimCurrent).Pow(-2)),
	"F":   baseDim(dimMass).Pow(-1).Mul(baseDim(dimLength).Pow(-2)).Mul(baseDim(dimTime).Pow(4)).Mul(baseDim(dimCurrent).Pow(2)),
	"T":   baseDim(dimMass).Mul(baseDim(dimTime).Pow(-2)).Mul(baseDim(dimCurrent).Pow(-1)),
	"lm":  baseDim(dimLuminous).Mul(baseDim(dimAngle).Pow(2)),
	"lx":  baseDim(dimLuminous).Mul(baseDim(dimAngle).Pow(2)).Mul(baseDim(dimLength).Pow(-2)),

	"min": scaled(baseDim(dimTime), 60),
	"h":   scaled(baseDim(dimTime), 3600),
	"d":   scaled(baseDim(dimTime), 86400),

	"%": {Scale: 0.01},
}

// extendedUnits is the domain-specific extension set searched after the
// core registry: units produced by astronomical catalogs and archives.
var extendedUnits = map[string]Unit{
	"deg":    scaled(baseDim(dimAngle), math.Pi/180),
	"arcmin": scaled(baseDim(dimAngle), math.Pi/180/60),
	"arcsec": scaled(baseDim(dimAngle), math.Pi/180/3600),
	"mas":    scaled(baseDim(dimAngle), math.Pi/180/3600/1000),
	"uas":    scaled(baseDim(dimAngle), math.Pi/180/3600/1e6),

	"yr": scaled(baseDim(dimTime), 31557600), // Julian year
	"a":  scaled(baseDim(dimTime), 31557600),

	"AU":  scaled(baseDim(dimLength), 1.495978707e11),
	"au":  scaled(baseDim(dimLength), 1.495978707e11),
	"pc":  scaled(baseDim(dimLength), 3.0856775814913673e16),
	"lyr": scaled(baseDim(dimLength), 9.4607304725808e15),

	"Angstrom": scaled(baseDim(dimLength), 1e-10),
	"AA":       scaled(baseDim(dimLength), 1e-10),

	"Jy":  scaled(baseDim(dimMass).Mul(baseDim(dimTime).Pow(-2)), 1e-26),
	"erg": scaled(baseDim(dimMass).Mul(baseDim(dimLength).Pow(2)).Mul(baseDim(dimTime).Pow(-2)), 1e-7),
	"eV":  scaled(baseDim(dimMass).Mul(baseDim(dimLength).Pow(2)).Mul(baseDim(dimTime).Pow(-2)), 1.602176634e-19),

	"solMass": scaled(baseDim(dimMass), 1.988409870698051e30),
	"solRad":  scaled(baseDim(dimLength), 6.957e8),
	"solLum":  scaled(baseDim(dimMass).Mul(baseDim(dimLength).Pow(2)).Mul(baseDim(dimTime).Pow(-3)), 3.828e26),

	// Dimensionless bookkeeping units kept so columns carrying them
	// still parse; they scale by one.
	"mag":    {Scale: 1},
	"dex":    {Scale: 1},
	"ct":     {Scale: 1},
	"count":  {Scale: 1},
	"ph":     {Scale: 1},
	"photon": {Scale: 1},
	"pix":    {Scale: 1},
	"adu":    {Scale: 1},
}

// lookup resolves a unit symbol: exact match in the core registry, then
// the extended registry, then an SI-prefix split against both.
func lookup(symbol string) (Unit, bool) {
	if u, ok := baseUnits[symbol]; ok {
		return u, true
	}
	if u, ok := extendedUnits[symbol]; ok {
		return u, true
	}
	for _, p := range prefixesByLength {
		rest, found := strings.CutPrefix(symbol, p)
		if !found || rest == "" {
			continue
		}
		if u, ok := baseUnits[rest]; ok {
			return scaled(u, siPrefixes[p]), true
		}
		if u, ok := extendedUnits[rest]; ok {
			return scaled(u, siPrefixes[p]), true
		}
	}
	return Unit{}, false
}
