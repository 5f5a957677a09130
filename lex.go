package exprcalc

import (
	"errors"
	"io"
	"strings"
	"unicode"
)

// lexer normalizes source text for the parser. It removes whitespace and
// rejects digits separated only by whitespace, since "2 2" could mean 22 or
// two operands missing an operator.
type lexer struct {
	src io.RuneScanner
	buf strings.Builder
	// ws is the whitespace run following the last non-space rune.
	ws strings.Builder
	// last is the last non-space rune scanned, or -1 if there is none.
	last rune
}

func lex(src io.RuneScanner) *lexer {
	return &lexer{src: src, last: -1}
}

// normalize scans the rest of the input and returns it without whitespace.
func (l *lexer) normalize() (string, error) {
	for {
		r, _, err := l.src.ReadRune()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return l.buf.String(), nil
			}
			return "", err
		}
		if unicode.IsSpace(r) {
			if l.last >= 0 {
				l.ws.WriteRune(r)
			}
			continue
		}
		if l.ws.Len() > 0 && isDigit(l.last) && isDigit(r) {
			return "", &SyntaxError{
				Fragment: string(l.last) + l.ws.String() + string(r),
				Rule:     RuleExpression,
				Reason:   "spaces between numbers are not allowed",
			}
		}
		l.ws.Reset()
		l.buf.WriteRune(r)
		l.last = r
	}
}

// Normalize returns src with whitespace removed, as the parser sees it. The
// error is a SyntaxError if two digits are separated only by whitespace.
func Normalize(src string) (string, error) {
	return lex(strings.NewReader(src)).normalize()
}

func isDigit(r rune) bool {
	return '0' <= r && r <= '9'
}

// isDigits reports whether s is a non-empty run of decimal digits.
func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !isDigit(rune(s[i])) {
			return false
		}
	}
	return true
}
