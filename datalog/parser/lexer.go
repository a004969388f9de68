// Package parser implements the tokenizer and grammar of spec §4.4 (C4):
// facts, rules, queries and deletions over a small whitespace-separated
// surface syntax. Grounded on the teacher's recursive node-walking parser
// style and its fmt.Errorf("...: %w") error propagation
// (datalog/parser/parser.go), adapted from EDN-vector parsing to this
// grammar's line-based statement terminators (".", "?", "~").
package parser

import (
	"strings"

	"github.com/arborian/stratadb/datalog/dlerrors"
)

type tokenKind int

const (
	tokWord tokenKind = iota // bareword identifier, including the "not" keyword
	tokString
	tokNumber
	tokPunct // one of ( ) , . ? ~ :-
	tokOp    // one of = != <> < <= > >=
	tokEOF
)

type token struct {
	kind tokenKind
	text string
	line int
}

// operators, longest first so the lexer's greedy match picks "<=" over "<".
var operatorTokens = []string{"<>", "<=", ">=", "!=", "=", "<", ">"}

type lexer struct {
	src  string
	pos  int
	line int
}

func newLexer(src string) *lexer {
	return &lexer{src: src, line: 1}
}

func (l *lexer) peekByte() byte {
	if l.pos >= len(l.src) {
		return 0
	}
	return l.src[l.pos]
}

func (l *lexer) next() (token, error) {
	l.skipSpaceAndComments()
	if l.pos >= len(l.src) {
		return token{kind: tokEOF, line: l.line}, nil
	}

	c := l.src[l.pos]
	line := l.line

	switch c {
	case '(', ')', ',', '.', '?', '~':
		l.pos++
		return token{kind: tokPunct, text: string(c), line: line}, nil
	case ':':
		if l.pos+1 < len(l.src) && l.src[l.pos+1] == '-' {
			l.pos += 2
			return token{kind: tokPunct, text: ":-", line: line}, nil
		}
		return token{}, dlerrors.NewParseError(line, "unexpected ':' (expected ':-')")
	case '"', '\'':
		return l.lexQuoted(c)
	}

	for _, op := range operatorTokens {
		if strings.HasPrefix(l.src[l.pos:], op) {
			l.pos += len(op)
			return token{kind: tokOp, text: op, line: line}, nil
		}
	}

	if isDigit(c) || ((c == '+' || c == '-') && l.pos+1 < len(l.src) && isDigit(l.src[l.pos+1])) {
		return l.lexNumber(), nil
	}

	if isIdentStart(c) {
		return l.lexWord(), nil
	}

	return token{}, dlerrors.NewParseError(line, "unexpected character '"+string(c)+"'")
}

func (l *lexer) skipSpaceAndComments() {
	for l.pos < len(l.src) {
		c := l.src[l.pos]
		switch {
		case c == '\n':
			l.line++
			l.pos++
		case c == ' ' || c == '\t' || c == '\r':
			l.pos++
		case c == '%':
			for l.pos < len(l.src) && l.src[l.pos] != '\n' {
				l.pos++
			}
		default:
			return
		}
	}
}

func (l *lexer) lexQuoted(quote byte) (token, error) {
	line := l.line
	start := l.pos
	l.pos++ // opening quote
	var b strings.Builder
	for {
		if l.pos >= len(l.src) {
			return token{}, dlerrors.NewParseError(line, "unterminated quoted string")
		}
		c := l.src[l.pos]
		if c == quote {
			l.pos++
			break
		}
		if c == '\\' && l.pos+1 < len(l.src) {
			b.WriteByte(l.src[l.pos+1])
			l.pos += 2
			continue
		}
		if c == '\n' {
			return token{}, dlerrors.NewParseError(line, "unterminated quoted string")
		}
		b.WriteByte(c)
		l.pos++
	}
	_ = start
	return token{kind: tokString, text: b.String(), line: line}, nil
}

func (l *lexer) lexNumber() token {
	line := l.line
	start := l.pos
	if l.src[l.pos] == '+' || l.src[l.pos] == '-' {
		l.pos++
	}
	for l.pos < len(l.src) && isDigit(l.src[l.pos]) {
		l.pos++
	}
	if l.pos < len(l.src) && l.src[l.pos] == '.' && l.pos+1 < len(l.src) && isDigit(l.src[l.pos+1]) {
		l.pos++
		for l.pos < len(l.src) && isDigit(l.src[l.pos]) {
			l.pos++
		}
	}
	if l.pos < len(l.src) && (l.src[l.pos] == 'e' || l.src[l.pos] == 'E') {
		save := l.pos
		p := l.pos + 1
		if p < len(l.src) && (l.src[p] == '+' || l.src[p] == '-') {
			p++
		}
		if p < len(l.src) && isDigit(l.src[p]) {
			l.pos = p
			for l.pos < len(l.src) && isDigit(l.src[l.pos]) {
				l.pos++
			}
		} else {
			l.pos = save
		}
	}
	return token{kind: tokNumber, text: l.src[start:l.pos], line: line}
}

func (l *lexer) lexWord() token {
	line := l.line
	start := l.pos
	for l.pos < len(l.src) && isIdentPart(l.src[l.pos]) {
		l.pos++
	}
	return token{kind: tokWord, text: l.src[start:l.pos], line: line}
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }
func isIdentStart(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '_'
}
func isIdentPart(c byte) bool {
	return isIdentStart(c) || isDigit(c)
}
