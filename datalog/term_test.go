package datalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseNumberAcceptsGrammar(t *testing.T) {
	cases := []struct {
		in   string
		want float64
	}{
		{"42", 42},
		{"-3.5", -3.5},
		{"+7", 7},
		{"1.5e3", 1500},
		{"1.5E-2", 0.015},
	}
	for _, c := range cases {
		f, ok := ParseNumber(c.in)
		assert.True(t, ok, c.in)
		assert.Equal(t, c.want, f, c.in)
	}
}

func TestParseNumberRejectsExtensionsAndQuoted(t *testing.T) {
	cases := []string{"inf", "NaN", "0x1p0", "1_000", "", ".", "-", Quote("42")}
	for _, c := range cases {
		_, ok := ParseNumber(c)
		assert.False(t, ok, c)
	}
}

func TestFormatNumberIntegerValuedDouble(t *testing.T) {
	assert.Equal(t, "5", FormatNumber(5.0))
	assert.Equal(t, "5.5", FormatNumber(5.5))
}

func TestIsQuotedAndUnparse(t *testing.T) {
	q := Quote("hello world")
	assert.True(t, IsQuoted(q))
	assert.Equal(t, "hello world", Unparse(q))
	assert.False(t, IsQuoted("hello world"))
	assert.Equal(t, "hello world", Unparse("hello world"))
}
