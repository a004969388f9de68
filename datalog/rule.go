package datalog

// Rule is a pair (head, body) per spec §3. The head must be non-negated,
// non-built-in, and the body non-empty — enforced by datalog/validate, not
// by this constructor, so that the parser can build a Rule value before
// validation runs and report a ValidationError with full context.
type Rule struct {
	Head Expression
	Body []Expression
}

// BodyPredicates returns the distinct predicates appearing in the body, in
// first-occurrence order, built-in predicates included.
func (r Rule) BodyPredicates() []string {
	seen := make(map[string]bool, len(r.Body))
	out := make([]string, 0, len(r.Body))
	for _, lit := range r.Body {
		if seen[lit.Predicate] {
			continue
		}
		seen[lit.Predicate] = true
		out = append(out, lit.Predicate)
	}
	return out
}
