package engine

import (
	"fmt"

	"github.com/arborian/stratadb/datalog"
	"github.com/arborian/stratadb/datalog/dlerrors"
	"github.com/arborian/stratadb/datalog/parser"
)

// StatementKind mirrors parser.Kind, re-exported here so callers of this
// package never need to import datalog/parser directly.
type StatementKind = parser.Kind

const (
	InsertFact = parser.KindFact
	InsertRule = parser.KindRule
	Query      = parser.KindQuery
	Delete     = parser.KindDelete
)

// Statement is a single prepared, executable unit: a fact or rule to
// insert, or a goal list to query or delete. Grounded on
// storage/transaction.go's Transaction/Database façade shape — one small
// object per operation, executed against a *Database.
type Statement struct {
	Kind  StatementKind
	Fact  datalog.Expression
	Rule  datalog.Rule
	Goals []datalog.Expression
}

func fromParsed(p parser.ParsedStatement) Statement {
	return Statement{Kind: p.Kind, Fact: p.Fact, Rule: p.Rule, Goals: p.Goals}
}

// Execute runs the statement against db, returning query answers (nil for
// fact/rule inserts) and the number of facts removed (only meaningful for
// Delete).
func (s Statement) Execute(db *Database, bindings *datalog.Bindings) ([]map[datalog.Term]datalog.Term, int, error) {
	switch s.Kind {
	case InsertFact:
		if err := db.InsertFact(s.Fact); err != nil {
			return nil, 0, err
		}
		return nil, 0, nil
	case InsertRule:
		if err := db.InsertRule(s.Rule); err != nil {
			return nil, 0, err
		}
		return nil, 0, nil
	case Query:
		answers, err := db.Query(s.Goals, bindings)
		return answers, 0, err
	case Delete:
		n, err := db.Delete(s.Goals, bindings)
		return nil, n, err
	default:
		return nil, 0, nil
	}
}

// PrepareStatement parses a single statement from source and returns it
// ready to Execute. Source must contain exactly one terminated statement.
func PrepareStatement(source string) (Statement, error) {
	parsed, err := parser.Parse(source)
	if err != nil {
		return Statement{}, err
	}
	if len(parsed) != 1 {
		return Statement{}, errTooManyOrTooFewStatements(len(parsed))
	}
	return fromParsed(parsed[0]), nil
}

// PrepareStatements parses source as a sequence of statements.
func PrepareStatements(source string) ([]Statement, error) {
	parsed, err := parser.Parse(source)
	if err != nil {
		return nil, err
	}
	out := make([]Statement, len(parsed))
	for i, p := range parsed {
		out[i] = fromParsed(p)
	}
	return out, nil
}

func errTooManyOrTooFewStatements(n int) error {
	return dlerrors.NewValidationError(fmt.Sprintf("PrepareStatement expects exactly one statement, found %d", n))
}
