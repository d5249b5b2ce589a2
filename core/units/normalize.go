package units

import (
	"regexp"
	"strings"
)

// Warning describes a recovered problem with a unit string. Warnings
// never fail a read; the affected column proceeds unitless (or with the
// unsupported token removed).
type Warning struct {
	Original string // the raw unit string, before any rewriting
	Token    string // the matched token, when a specific token triggered it
	Message  string
}

// rewriteRule is one step of the normalization pipeline. Rules are
// evaluated in order as a pure function of the input string, so the
// pipeline is testable without a unit parser.
type rewriteRule struct {
	pattern *regexp.Regexp
	replace string
	repeat  bool   // reapply until the string stops changing
	warn    string // non-empty: emit a warning naming the matched token
}

// rewriteRules normalizes syntax accepted by the source format into the
// grammar Parse accepts, and strips tokens known to be unsupported:
//
//  1. detector-specific tokens (per-beam, per-pixel, electron counts)
//     are removed with a warning;
//  2. leading/trailing "." separators are dropped;
//  3. a lone "*" between non-asterisk characters is doubled into the
//     "**" power operator (an already-doubled operator is untouched);
//  4. the "**" power operator becomes the grammar's "^".
var rewriteRules = []rewriteRule{
	{pattern: regexp.MustCompile(`'electron'`), replace: "", warn: "electron-count units are not supported"},
	{pattern: regexp.MustCompile(`(?i)/\s*beam`), replace: "", warn: "per-beam units are not supported"},
	{pattern: regexp.MustCompile(`(?i)/\s*pixel`), replace: "", warn: "per-pixel units are not supported"},
	{pattern: regexp.MustCompile(`^\.+|\.+$`), replace: ""},
	{pattern: regexp.MustCompile(`(^|[^*])\*([^*]|$)`), replace: "$1**$2", repeat: true},
	{pattern: regexp.MustCompile(`\*\*`), replace: "^"},
}

// Normalize rewrites a raw unit string into the grammar Parse accepts.
// It returns the cleaned string and any warnings for stripped tokens.
// Normalization is deterministic: the same input always yields the same
// output and warnings.
func Normalize(raw string) (string, []Warning) {
	s := strings.TrimSpace(raw)
	var warns []Warning
	for _, r := range rewriteRules {
		if r.warn != "" {
			for _, tok := range r.pattern.FindAllString(s, -1) {
				warns = append(warns, Warning{Original: raw, Token: tok, Message: r.warn})
			}
		}
		if r.repeat {
			for {
				next := r.pattern.ReplaceAllString(s, r.replace)
				if next == s {
					break
				}
				s = next
			}
		} else {
			s = r.pattern.ReplaceAllString(s, r.replace)
		}
	}
	return strings.TrimSpace(s), warns
}
