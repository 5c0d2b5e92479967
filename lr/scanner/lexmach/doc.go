/*
Package lexmach adapts the lexmachine scanner generator to the
scanner.Tokenizer interface. Within this module it drives the reader for
the inline rule notation (package lr/notation).

For more information on lexmachine, see e.g.
https://hackthology.com/how-to-tokenize-complex-strings-with-lexmachine.html

Clients set up lexmachine with a function receiving the lexer, plus lists of
literals and keywords and a map from token names to token categories:

	init := func(lexer *lexmachine.Lexer) {
		lexer.Add([]byte(`( |\t)+`), lexmach.Skip)
		lexer.Add([]byte(`[a-z]+`), lexmach.MakeToken("ID", tokenIds["ID"]))
	}
	LM, err := lexmach.NewLMAdapter(init, literals, keywords, tokenIds)

Patterns added by init take precedence over literals and keywords for
matches of equal length. A scanner is created for every input string:

	scan, err := LM.Scanner("input string to tokenize")
	for token := scan.NextToken(); token.TokType() != scanner.EOF; token = scan.NextToken() {
		…
	}

Token spans are byte offsets into the input. Input no pattern matches is
reported to the scanner's error handler and skipped; any other scanner error
is reported and ends the token stream.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package lexmach
