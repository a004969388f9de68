package parser

import (
	"fmt"

	"github.com/arborian/stratadb/datalog"
	"github.com/arborian/stratadb/datalog/dlerrors"
)

// Kind identifies the shape of a parsed top-level statement.
type Kind int

const (
	KindFact Kind = iota
	KindRule
	KindQuery
	KindDelete
)

// ParsedStatement is the parser's neutral output: a single top-level
// statement, already split into the shape engine.Statement wraps. Kept free
// of any dependency on datalog/engine to avoid an import cycle.
type ParsedStatement struct {
	Kind  Kind
	Fact  datalog.Expression
	Rule  datalog.Rule
	Goals []datalog.Expression
	Line  int
}

// Parse reads source as a sequence of statements terminated by ".", ":- ... .",
// "?" or "~", per spec §4.4, and returns them in source order.
func Parse(source string) ([]ParsedStatement, error) {
	p := &parser{lex: newLexer(source)}
	if err := p.advance(); err != nil {
		return nil, err
	}

	var statements []ParsedStatement
	for p.tok.kind != tokEOF {
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		statements = append(statements, stmt)
	}
	return statements, nil
}

type parser struct {
	lex *lexer
	tok token
}

func (p *parser) advance() error {
	tok, err := p.lex.next()
	if err != nil {
		return err
	}
	p.tok = tok
	return nil
}

func (p *parser) expectPunct(text string) error {
	if p.tok.kind != tokPunct || p.tok.text != text {
		return dlerrors.NewParseError(p.tok.line, fmt.Sprintf("expected %q, found %q", text, p.tok.text))
	}
	return p.advance()
}

// parseStatement parses one expr, then dispatches on the following token:
// ":-" starts a rule body, "." closes a fact, "," / "?" / "~" continue or
// close a query-or-delete goal list.
func (p *parser) parseStatement() (ParsedStatement, error) {
	line := p.tok.line
	head, err := p.parseExpr()
	if err != nil {
		return ParsedStatement{}, err
	}

	switch {
	case p.tok.kind == tokPunct && p.tok.text == ":-":
		if err := p.advance(); err != nil {
			return ParsedStatement{}, err
		}
		body, err := p.parseExprList()
		if err != nil {
			return ParsedStatement{}, err
		}
		if err := p.expectPunct("."); err != nil {
			return ParsedStatement{}, err
		}
		return ParsedStatement{Kind: KindRule, Rule: datalog.Rule{Head: head, Body: body}, Line: line}, nil

	case p.tok.kind == tokPunct && p.tok.text == ".":
		if err := p.advance(); err != nil {
			return ParsedStatement{}, err
		}
		return ParsedStatement{Kind: KindFact, Fact: head, Goals: []datalog.Expression{head}, Line: line}, nil

	case p.tok.kind == tokPunct && (p.tok.text == "," || p.tok.text == "?" || p.tok.text == "~"):
		goals := []datalog.Expression{head}
		for p.tok.kind == tokPunct && p.tok.text == "," {
			if err := p.advance(); err != nil {
				return ParsedStatement{}, err
			}
			next, err := p.parseExpr()
			if err != nil {
				return ParsedStatement{}, err
			}
			goals = append(goals, next)
		}
		if p.tok.kind != tokPunct || (p.tok.text != "?" && p.tok.text != "~") {
			return ParsedStatement{}, dlerrors.NewParseError(p.tok.line, "expected '?' or '~' to close a query or deletion")
		}
		kind := KindQuery
		if p.tok.text == "~" {
			kind = KindDelete
		}
		if err := p.advance(); err != nil {
			return ParsedStatement{}, err
		}
		return ParsedStatement{Kind: kind, Goals: goals, Line: line}, nil

	default:
		return ParsedStatement{}, dlerrors.NewParseError(p.tok.line, fmt.Sprintf("expected one of ':-' '.' ',' '?' '~', found %q", p.tok.text))
	}
}

func (p *parser) parseExprList() ([]datalog.Expression, error) {
	var exprs []datalog.Expression
	for {
		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		exprs = append(exprs, e)
		if p.tok.kind != tokPunct || p.tok.text != "," {
			return exprs, nil
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
	}
}

// parseExpr parses an optional leading "not", a head term, and then
// disambiguates on the next token: "(" starts a compound literal's argument
// list, a comparison operator starts an infix built-in, anything else means
// the head term stands alone as a 0-arity atom.
func (p *parser) parseExpr() (datalog.Expression, error) {
	negated := false
	if p.tok.kind == tokWord && p.tok.text == "not" {
		negated = true
		if err := p.advance(); err != nil {
			return datalog.Expression{}, err
		}
	}

	head, err := p.parseTerm()
	if err != nil {
		return datalog.Expression{}, err
	}

	switch {
	case p.tok.kind == tokPunct && p.tok.text == "(":
		if err := p.advance(); err != nil {
			return datalog.Expression{}, err
		}
		var args []datalog.Term
		if !(p.tok.kind == tokPunct && p.tok.text == ")") {
			for {
				t, err := p.parseTerm()
				if err != nil {
					return datalog.Expression{}, err
				}
				args = append(args, t)
				if p.tok.kind == tokPunct && p.tok.text == "," {
					if err := p.advance(); err != nil {
						return datalog.Expression{}, err
					}
					continue
				}
				break
			}
		}
		if err := p.expectPunct(")"); err != nil {
			return datalog.Expression{}, err
		}
		return datalog.NewExpression(string(head), args, negated), nil

	case p.tok.kind == tokOp:
		op := p.tok.text
		if err := p.advance(); err != nil {
			return datalog.Expression{}, err
		}
		right, err := p.parseTerm()
		if err != nil {
			return datalog.Expression{}, err
		}
		return datalog.NewExpression(op, []datalog.Term{head, right}, negated), nil

	default:
		return datalog.NewExpression(string(head), nil, negated), nil
	}
}

// parseTerm reads a single variable, bareword atom, quoted string or number
// as a Term.
func (p *parser) parseTerm() (datalog.Term, error) {
	tok := p.tok
	switch tok.kind {
	case tokWord:
		if err := p.advance(); err != nil {
			return "", err
		}
		return datalog.Term(tok.text), nil
	case tokNumber:
		if err := p.advance(); err != nil {
			return "", err
		}
		return datalog.Term(tok.text), nil
	case tokString:
		if err := p.advance(); err != nil {
			return "", err
		}
		return datalog.Quote(tok.text), nil
	default:
		return "", dlerrors.NewParseError(tok.line, fmt.Sprintf("expected a term, found %q", tok.text))
	}
}
