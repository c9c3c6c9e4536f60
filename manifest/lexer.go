package manifest

import (
	"fmt"
	"strings"
	"text/scanner"
	"unicode"
)

// Enumeration of token kinds.
const (
	tokIdent = iota
	tokInt
	tokFloat
	tokString
	tokPunct
	tokEOF
)

// token is a single lexeme of a type or expression string.  The columns are
// zero-based offsets into the string: endCol is one past the last character.
type token struct {
	kind  int
	value string

	col, endCol int
}

// isIdentRune reports whether a rune can appear in an identifier.  Names of
// projected values start with `$`.
func isIdentRune(ch rune, i int) bool {
	return ch == '_' || unicode.IsLetter(ch) || (ch == '$' && i == 0) || (unicode.IsDigit(ch) && i > 0)
}

// isIdentifier reports whether a string is a plain identifier.
func isIdentifier(text string) bool {
	if text == "" || strings.HasPrefix(text, "$") {
		return false
	}

	for i, ch := range text {
		if !isIdentRune(ch, i) {
			return false
		}
	}

	return true
}

// lex splits a type or expression string into tokens.  The last token is
// always an EOF token.
func lex(text string) ([]*token, error) {
	var s scanner.Scanner
	s.Init(strings.NewReader(text))
	s.Mode = scanner.ScanIdents | scanner.ScanInts | scanner.ScanFloats | scanner.ScanStrings
	s.IsIdentRune = isIdentRune

	var lexErr error
	s.Error = func(s *scanner.Scanner, msg string) {
		if lexErr == nil {
			lexErr = fmt.Errorf("column %d: %s", s.Pos().Column, msg)
		}
	}

	var toks []*token
	for tok := s.Scan(); tok != scanner.EOF; tok = s.Scan() {
		col := s.Position.Column - 1
		t := &token{value: s.TokenText(), col: col}

		switch tok {
		case scanner.Ident:
			t.kind = tokIdent
		case scanner.Int:
			t.kind = tokInt
		case scanner.Float:
			t.kind = tokFloat
		case scanner.String:
			t.kind = tokString
		default:
			t.kind = tokPunct

			if tok == '-' && s.Peek() == '>' {
				s.Next()
				t.value = "->"
			}
		}

		t.endCol = col + len(t.value)
		toks = append(toks, t)
	}

	if lexErr != nil {
		return nil, lexErr
	}

	return append(toks, &token{kind: tokEOF, col: len(text), endCol: len(text) + 1}), nil
}
