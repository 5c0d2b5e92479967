package lexmach

import (
	"strings"

	"github.com/npillmayer/cfgkit"
	"github.com/npillmayer/cfgkit/lr/scanner"
	"github.com/npillmayer/schuko/tracing"

	"github.com/timtadh/lexmachine"
	"github.com/timtadh/lexmachine/machines"
)

// lexmachine adapter

// tracer traces with key 'cfgkit.scanner'.
func tracer() tracing.Trace {
	return tracing.Select("cfgkit.scanner")
}

// LMAdapter is a lexmachine adapter to use lexmachine as a scanner.
type LMAdapter struct {
	Lexer *lexmachine.Lexer
}

// NewLMAdapter creates a new lexmachine adapter. It receives a list of
// literals ('[', ';', …), a list of keywords ("if", "for", …) and a
// map for translating token strings to their values. Literals and keywords
// are added after the patterns of init, so patterns of init take precedence
// for matches of equal length.
//
// NewLMAdapter will return an error if compiling the DFA failed.
func NewLMAdapter(init func(*lexmachine.Lexer), literals []string, keywords []string,
	tokenIds map[string]int) (*LMAdapter, error) {
	//
	adapter := &LMAdapter{}
	adapter.Lexer = lexmachine.NewLexer()
	init(adapter.Lexer)
	for _, lit := range literals {
		r := "\\" + strings.Join(strings.Split(lit, ""), "\\")
		adapter.Lexer.Add([]byte(r), MakeToken(lit, tokenIds[lit]))
	}
	for _, name := range keywords {
		adapter.Lexer.Add([]byte(strings.ToLower(name)), MakeToken(name, tokenIds[name]))
	}
	if err := adapter.Lexer.Compile(); err != nil {
		tracer().Errorf("Error compiling DFA: %v", err)
		return nil, err
	}
	return adapter, nil
}

// Scanner creates a scanner for a given input. The scanner will implement the
// Tokenizer interface.
func (lm *LMAdapter) Scanner(input string) (*LMScanner, error) {
	s, err := lm.Lexer.Scanner([]byte(input))
	if err != nil {
		return &LMScanner{}, err
	}
	return &LMScanner{scanner: s, Error: logError}, nil
}

// LMScanner is a scanner type for lexmachine scanners, implementing the
// Tokenizer interface.
type LMScanner struct {
	scanner *lexmachine.Scanner
	Error   func(error)
	offset  uint64 // byte offset behind the last token
}

var _ scanner.Tokenizer = (*LMScanner)(nil)

// SetErrorHandler sets an error handler for the scanner.
func (lms *LMScanner) SetErrorHandler(h func(error)) {
	if h == nil {
		lms.Error = logError
		return
	}
	lms.Error = h
}

// Default error reporting function for lexmachine-based scanners
func logError(e error) {
	tracer().Errorf("scanner error: " + e.Error())
}

// NextToken is part of the Tokenizer interface. Spans of tokens are byte
// offsets into the input.
//
// Unconsumed input is reported to the error handler and skipped. Any other
// scanner error is reported and ends the token stream.
func (lms *LMScanner) NextToken() cfgkit.Token {
	tok, err, eof := lms.scanner.Next()
	for err != nil {
		lms.Error(err)
		ui, is := err.(*machines.UnconsumedInput)
		if !is {
			return lms.eofToken()
		}
		next := ui.FailTC
		if next <= ui.StartTC {
			next = ui.StartTC + 1
		}
		lms.scanner.TC = next
		tok, err, eof = lms.scanner.Next()
	}
	if eof {
		return lms.eofToken()
	}
	token := tok.(*lexmachine.Token)
	from := uint64(token.TC)
	lms.offset = from + uint64(len(token.Lexeme))
	tracer().Debugf("token %d %q at %d", token.Type, token.Lexeme, from)
	return scanner.MakeDefaultToken(
		cfgkit.TokType(token.Type),
		string(token.Lexeme),
		cfgkit.Span{from, lms.offset},
	)
}

func (lms *LMScanner) eofToken() cfgkit.Token {
	return scanner.MakeDefaultToken(scanner.EOF, "", cfgkit.Span{lms.offset, lms.offset})
}

// ---------------------------------------------------------------------------

// Skip is a pre-defined action which ignores the scanned match.
func Skip(*lexmachine.Scanner, *machines.Match) (interface{}, error) {
	return nil, nil
}

// MakeToken is a pre-defined action which wraps a scanned match into a token.
func MakeToken(name string, id int) lexmachine.Action {
	return func(s *lexmachine.Scanner, m *machines.Match) (interface{}, error) {
		return s.Token(id, string(m.Bytes), m), nil
	}
}
