/*
Package scanner defines an interface for scanners, together with a default
token type.

Two scanner implementations are provided: (1) a tokenizer delivering the
characters of a string one by one, which is how the parsing engines of
this module see their input, and (2) an adapter for lexmachine, living in
sub-package `lexmach`, used for reading grammar notations.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package scanner

import (
	"text/scanner"
	"unicode/utf8"

	"github.com/npillmayer/cfgkit"
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'cfgkit.scanner'.
func tracer() tracing.Trace {
	return tracing.Select("cfgkit.scanner")
}

// EOF is identical to text/scanner.EOF.
const EOF = scanner.EOF

// Tokenizer is a scanner interface.
type Tokenizer interface {
	NextToken() cfgkit.Token
	SetErrorHandler(func(error))
}

// Default error reporting function for scanners
func logError(e error) {
	tracer().Errorf("scanner error: " + e.Error())
}

// --- Character tokenizer ---------------------------------------------------

// RuneTokenizer delivers every character of an input string as a token
// of its own. The token type of a character is its code point.
// Create one with Runes.
type RuneTokenizer struct {
	input string
	pos   int    // byte offset
	index uint64 // character offset
	Error func(error)
}

var _ Tokenizer = (*RuneTokenizer)(nil)

// Runes creates a tokenizer for the characters of input.
func Runes(input string) *RuneTokenizer {
	return &RuneTokenizer{input: input, Error: logError}
}

// SetErrorHandler sets an error handler for the scanner.
func (t *RuneTokenizer) SetErrorHandler(h func(error)) {
	if h == nil {
		t.Error = logError
		return
	}
	t.Error = h
}

// NextToken is part of the Tokenizer interface. Spans are character offsets.
// At the end of input, a token of type EOF is returned.
func (t *RuneTokenizer) NextToken() cfgkit.Token {
	if t.pos >= len(t.input) {
		return MakeDefaultToken(EOF, "", cfgkit.Span{t.index, t.index})
	}
	c, w := utf8.DecodeRuneInString(t.input[t.pos:])
	t.pos += w
	t.index++
	return MakeDefaultToken(cfgkit.TokType(c), string(c), cfgkit.Span{t.index - 1, t.index})
}

// Tokens reads all tokens from a tokenizer, up to but excluding EOF.
func Tokens(t Tokenizer) []cfgkit.Token {
	var tokens []cfgkit.Token
	for token := t.NextToken(); token.TokType() != EOF; token = t.NextToken() {
		tokens = append(tokens, token)
	}
	return tokens
}

// --- Default tokens --------------------------------------------------------

// DefaultToken is a very unsophisticated token type, used as default for the
// character tokenizer as well as the LexMachine scanner.
type DefaultToken struct {
	kind   cfgkit.TokType
	lexeme string
	Val    interface{}
	span   cfgkit.Span
}

// MakeDefaultToken creates a token.
func MakeDefaultToken(typ cfgkit.TokType, lexeme string, span cfgkit.Span) DefaultToken {
	return DefaultToken{
		kind:   typ,
		lexeme: lexeme,
		span:   span,
	}
}

// TokType is part of the cfgkit.Token interface.
func (t DefaultToken) TokType() cfgkit.TokType {
	return t.kind
}

// Value is part of the cfgkit.Token interface.
func (t DefaultToken) Value() interface{} {
	return t.Val
}

// Lexeme is part of the cfgkit.Token interface.
func (t DefaultToken) Lexeme() string {
	return t.lexeme
}

// Span is part of the cfgkit.Token interface.
func (t DefaultToken) Span() cfgkit.Span {
	return t.span
}
