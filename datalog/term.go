// Package datalog provides the term and expression model shared by the
// parser, matcher, stratifier and evaluator: plain-string terms, ground
// expressions ("literals"), and the scoped bindings environment unification
// extends as it recurses.
package datalog

import (
	"strconv"
	"strings"
)

// Term is a single position in an Expression: a variable or a constant.
// Unlike the EAV model this package's ancestor used, a term here is always
// a plain string — variables and constants are distinguished structurally
// by IsVariable, never by a wrapper type.
type Term = string

// quotePrefix marks a quoted string constant internally so that, e.g., the
// bareword constant alice and the quoted constant "alice" never unify with
// each other even though their printed text would otherwise collide. It is
// stripped only by the printer (Unparse), never during unification.
const quotePrefix = '"'

// IsVariable reports whether term is a variable: its first character is an
// ASCII upper-case letter.
func IsVariable(term Term) bool {
	if term == "" {
		return false
	}
	c := term[0]
	return c >= 'A' && c <= 'Z'
}

// Quote wraps a string constant with the internal quote-prefix marker.
func Quote(s string) Term {
	var b strings.Builder
	b.Grow(len(s) + 1)
	b.WriteByte(quotePrefix)
	b.WriteString(s)
	return b.String()
}

// IsQuoted reports whether term carries the internal quote-prefix marker.
func IsQuoted(term Term) bool {
	return term != "" && term[0] == quotePrefix
}

// Unparse strips the internal quote-prefix marker, if present, for display.
func Unparse(term Term) string {
	if IsQuoted(term) {
		return term[1:]
	}
	return term
}

// ParseNumber parses term per the number syntax in spec §4.1: optional
// sign, one or more digits, optional fractional part, optional decimal
// exponent. It reuses strconv's IEEE-754 parser, which accepts a superset
// (hex floats, inf/nan, underscore separators) — those are rejected first by
// looksNumeric, which checks the term against the grammar's number syntax.
func ParseNumber(term Term) (float64, bool) {
	if term == "" {
		return 0, false
	}
	if !looksNumeric(term) {
		return 0, false
	}
	f, err := strconv.ParseFloat(term, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// looksNumeric rejects strconv extensions (inf, nan, hex floats, underscore
// digit separators) that are not part of the grammar's number production.
func looksNumeric(s string) bool {
	i := 0
	n := len(s)
	if i < n && (s[i] == '+' || s[i] == '-') {
		i++
	}
	digitsStart := i
	for i < n && isDigit(s[i]) {
		i++
	}
	hasIntDigits := i > digitsStart
	if i < n && s[i] == '.' {
		i++
		fracStart := i
		for i < n && isDigit(s[i]) {
			i++
		}
		if !hasIntDigits && i == fracStart {
			return false // bare "." with no digits on either side
		}
		hasIntDigits = hasIntDigits || i > fracStart
	}
	if !hasIntDigits {
		return false
	}
	if i < n && (s[i] == 'e' || s[i] == 'E') {
		i++
		if i < n && (s[i] == '+' || s[i] == '-') {
			i++
		}
		expStart := i
		for i < n && isDigit(s[i]) {
			i++
		}
		if i == expStart {
			return false
		}
	}
	return i == n
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

// FormatNumber renders f the way the printer surfaces numeric terms:
// integer-valued doubles print without a fractional part.
func FormatNumber(f float64) string {
	if f == float64(int64(f)) {
		return strconv.FormatInt(int64(f), 10)
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}
