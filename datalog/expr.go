package datalog

import (
	"strings"

	"github.com/cespare/xxhash/v2"

	"github.com/arborian/stratadb/datalog/dlerrors"
)

// Expression is the literal of spec §3: a predicate, an ordered sequence of
// terms, and a negation flag.
type Expression struct {
	Predicate string
	Terms     []Term
	Negated   bool
}

// builtinPredicates is the canonical set named in spec §3. "!=" is not a
// member — it is normalized to "<>" by NewExpression before an Expression
// is ever constructed.
var builtinPredicates = map[string]bool{
	"=": true, "<>": true, "<": true, "<=": true, ">": true, ">=": true,
}

// NewExpression builds an Expression, normalizing the "!=" spelling to the
// canonical "<>" per spec §3.
func NewExpression(predicate string, terms []Term, negated bool) Expression {
	if predicate == "!=" {
		predicate = "<>"
	}
	return Expression{Predicate: predicate, Terms: terms, Negated: negated}
}

// Arity is the number of terms.
func (e Expression) Arity() int { return len(e.Terms) }

// IsGround reports whether no term in e is a variable.
func (e Expression) IsGround() bool {
	for _, t := range e.Terms {
		if IsVariable(t) {
			return false
		}
	}
	return true
}

// IsBuiltIn reports whether e's predicate is one of the canonical built-ins.
// Per spec §3 the structural rule is "first character is neither a letter,
// digit, nor quote"; we additionally require membership in the canonical set
// so that an unrecognized symbolic predicate fails loudly at validation
// time instead of being silently treated as a built-in.
func (e Expression) IsBuiltIn() bool {
	return builtinPredicates[e.Predicate]
}

// looksLikeBuiltInToken reports whether a predicate token's first character
// is punctuation that only built-ins use (neither a letter, digit,
// underscore nor the quote marker). The parser and validator do not call it;
// they rely on IsBuiltIn.
func looksLikeBuiltInToken(predicate string) bool {
	if predicate == "" {
		return false
	}
	c := predicate[0]
	isLetter := (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '_'
	isDigit := c >= '0' && c <= '9'
	isQuote := c == quotePrefix
	return !isLetter && !isDigit && !isQuote
}

// Substitute returns a new Expression with every bound variable term
// replaced by its binding; unbound variables and constants are left as-is.
// The negation flag is preserved.
func (e Expression) Substitute(b *Bindings) Expression {
	out := Expression{Predicate: e.Predicate, Negated: e.Negated, Terms: make([]Term, len(e.Terms))}
	for i, t := range e.Terms {
		if IsVariable(t) {
			if v, ok := b.Get(t); ok {
				out.Terms[i] = v
				continue
			}
		}
		out.Terms[i] = t
	}
	return out
}

// Equals compares structurally over (predicate, terms, negated), per spec §3.
func (e Expression) Equals(other Expression) bool {
	if e.Predicate != other.Predicate || e.Negated != other.Negated || len(e.Terms) != len(other.Terms) {
		return false
	}
	for i := range e.Terms {
		if e.Terms[i] != other.Terms[i] {
			return false
		}
	}
	return true
}

// Hash hashes (predicate, terms, negated) with xxhash, matching the
// predicate-keyed index's choice of hash function (datalog/store).
func (e Expression) Hash() uint64 {
	var b strings.Builder
	b.WriteString(e.Predicate)
	b.WriteByte(0)
	for _, t := range e.Terms {
		b.WriteString(t)
		b.WriteByte(0)
	}
	if e.Negated {
		b.WriteByte(1)
	}
	return xxhash.Sum64String(b.String())
}

// PredicateHash hashes just the predicate name — the key the indexed fact
// store (datalog/store) partitions facts by.
func PredicateHash(predicate string) uint64 {
	return xxhash.Sum64String(predicate)
}

// String renders e for display/debugging, stripping internal quote markers.
func (e Expression) String() string {
	var b strings.Builder
	if e.Negated {
		b.WriteString("not ")
	}
	b.WriteString(e.Predicate)
	if e.IsBuiltIn() && len(e.Terms) == 2 {
		b.WriteByte(' ')
		b.WriteString(Unparse(e.Terms[0]))
		b.WriteByte(' ')
		b.WriteString(e.Predicate)
		b.WriteByte(' ')
		b.WriteString(Unparse(e.Terms[1]))
		return b.String()
	}
	b.WriteByte('(')
	for i, t := range e.Terms {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(Unparse(t))
	}
	b.WriteByte(')')
	return b.String()
}

// EvalBuiltIn evaluates a binary built-in expression under bindings, per
// spec §4.1. expr.Arity() must be 2 — built-ins are strictly binary.
func EvalBuiltIn(expr Expression, b *Bindings) (bool, error) {
	if expr.Arity() != 2 {
		return false, dlerrors.NewInternalInvariant("built-in " + expr.Predicate + " must be binary")
	}
	left, right := b.Resolve(expr.Terms[0]), b.Resolve(expr.Terms[1])
	leftVar, rightVar := IsVariable(left), IsVariable(right)

	switch expr.Predicate {
	case "=":
		switch {
		case leftVar && rightVar:
			return false, dlerrors.NewUnboundBuiltin("= applied to two unbound variables: " + left + ", " + right)
		case leftVar:
			b.Insert(left, right)
			return true, nil
		case rightVar:
			b.Insert(right, left)
			return true, nil
		default:
			return equalConstants(left, right), nil
		}

	case "<>":
		if leftVar || rightVar {
			return false, dlerrors.NewUnboundBuiltin("<> requires both operands bound")
		}
		return !equalConstants(left, right), nil

	case "<", "<=", ">", ">=":
		if leftVar || rightVar {
			return false, dlerrors.NewUnboundBuiltin(expr.Predicate + " requires both operands bound")
		}
		lf := coerceToFloat(left)
		rf := coerceToFloat(right)
		switch expr.Predicate {
		case "<":
			return lf < rf, nil
		case "<=":
			return lf <= rf, nil
		case ">":
			return lf > rf, nil
		case ">=":
			return lf >= rf, nil
		}
	}
	return false, dlerrors.NewInternalInvariant("unrecognized built-in predicate: " + expr.Predicate)
}

// equalConstants compares two bound, non-variable terms: numerically if both
// parse as numbers, otherwise as strings (quote markers included, so a
// quoted and a bareword constant with the same text never compare equal).
func equalConstants(left, right Term) bool {
	// A quoted constant's leading marker byte is not valid number syntax,
	// so ParseNumber naturally fails it and falls through to string
	// comparison — "42 never numerically equals the bareword 42.
	lf, lok := ParseNumber(left)
	rf, rok := ParseNumber(right)
	if lok && rok {
		return lf == rf
	}
	return left == right
}

// coerceToFloat parses a bound term as a number for ordering comparisons;
// operands that fail to parse (including quoted constants) are treated as
// 0.0 per spec §4.1 (preserved for compatibility — see SPEC_FULL.md Open
// Questions).
func coerceToFloat(t Term) float64 {
	f, ok := ParseNumber(t)
	if !ok {
		return 0.0
	}
	return f
}
