package xpath

import (
	"bufio"
	"io"
	"strings"
	"unicode/utf8"
)

const (
	EOF = -(iota + 1)
	Name
	Digit
	Literal
	variable
	Namespace
	currLevel
	anyLevel
	currNode
	parentNode
	attrNode
	opAxis
	begPred
	endPred
	begGrp
	endGrp
	opSeq
	opUnion
	opAdd
	opSub
	opMul
	opDiv
	opMod
	opEq
	opNe
	opLt
	opLe
	opGt
	opGe
	opAnd
	opOr
	Invalid
)

func operatorName(op rune) string {
	switch op {
	case opAdd:
		return "+"
	case opSub:
		return "-"
	case opMul:
		return "*"
	case opDiv:
		return "div"
	case opMod:
		return "mod"
	case opEq:
		return "="
	case opNe:
		return "!="
	case opLt:
		return "<"
	case opLe:
		return "<="
	case opGt:
		return ">"
	case opGe:
		return ">="
	case opAnd:
		return "and"
	case opOr:
		return "or"
	case opUnion:
		return "|"
	default:
		return "?"
	}
}

type Position struct {
	Line   int
	Column int
}

type Token struct {
	Literal string
	Type    rune
	Position
}

func (t Token) String() string {
	switch t.Type {
	case EOF:
		return "<eof>"
	case Invalid:
		return "<invalid>"
	case Name, Digit, Literal, variable:
		return t.Literal
	default:
		return operatorName(t.Type)
	}
}

type Scanner struct {
	input *bufio.Reader
	char  rune

	Position
}

func Scan(r io.Reader) *Scanner {
	scan := Scanner{
		input: bufio.NewReader(r),
	}
	scan.Line = 1
	scan.read()
	return &scan
}

func ScanString(str string) *Scanner {
	return Scan(strings.NewReader(str))
}

func (s *Scanner) Scan() Token {
	s.skipBlank()
	var tok Token
	tok.Position = s.Position
	if s.done() {
		tok.Type = EOF
		return tok
	}
	switch {
	case isLetter(s.char):
		s.scanName(&tok)
	case isDigit(s.char):
		s.scanNumber(&tok)
	case isQuote(s.char):
		s.scanLiteral(&tok)
	case s.char == '$':
		s.scanVariable(&tok)
	default:
		s.scanOperator(&tok)
	}
	return tok
}

func (s *Scanner) scanName(tok *Token) {
	var str strings.Builder
	for isName(s.char) {
		str.WriteRune(s.char)
		s.read()
	}
	tok.Type = Name
	tok.Literal = str.String()
}

func (s *Scanner) scanNumber(tok *Token) {
	var str strings.Builder
	for isDigit(s.char) {
		str.WriteRune(s.char)
		s.read()
	}
	if s.char == '.' && isDigit(s.peek()) {
		str.WriteRune(s.char)
		s.read()
		for isDigit(s.char) {
			str.WriteRune(s.char)
			s.read()
		}
	}
	tok.Type = Digit
	tok.Literal = str.String()
}

func (s *Scanner) scanLiteral(tok *Token) {
	quote := s.char
	s.read()
	var str strings.Builder
	for !s.done() && s.char != quote {
		str.WriteRune(s.char)
		s.read()
	}
	if s.char != quote {
		tok.Type = Invalid
		return
	}
	s.read()
	tok.Type = Literal
	tok.Literal = str.String()
}

func (s *Scanner) scanVariable(tok *Token) {
	s.read()
	if !isLetter(s.char) {
		tok.Type = Invalid
		return
	}
	var str strings.Builder
	for isName(s.char) {
		str.WriteRune(s.char)
		s.read()
	}
	tok.Type = variable
	tok.Literal = str.String()
}

func (s *Scanner) scanOperator(tok *Token) {
	switch s.char {
	case '/':
		tok.Type = currLevel
		if s.peek() == '/' {
			s.read()
			tok.Type = anyLevel
		}
	case '.':
		if isDigit(s.peek()) {
			s.scanFraction(tok)
			return
		}
		tok.Type = currNode
		if s.peek() == '.' {
			s.read()
			tok.Type = parentNode
		}
	case ':':
		tok.Type = Namespace
		if s.peek() == ':' {
			s.read()
			tok.Type = opAxis
		}
	case '@':
		tok.Type = attrNode
	case '[':
		tok.Type = begPred
	case ']':
		tok.Type = endPred
	case '(':
		tok.Type = begGrp
	case ')':
		tok.Type = endGrp
	case ',':
		tok.Type = opSeq
	case '|':
		tok.Type = opUnion
	case '+':
		tok.Type = opAdd
	case '-':
		tok.Type = opSub
	case '*':
		tok.Type = opMul
	case '=':
		tok.Type = opEq
	case '!':
		tok.Type = Invalid
		if s.peek() == '=' {
			s.read()
			tok.Type = opNe
		}
	case '<':
		tok.Type = opLt
		if s.peek() == '=' {
			s.read()
			tok.Type = opLe
		}
	case '>':
		tok.Type = opGt
		if s.peek() == '=' {
			s.read()
			tok.Type = opGe
		}
	default:
		tok.Type = Invalid
	}
	s.read()
}

func (s *Scanner) scanFraction(tok *Token) {
	var str strings.Builder
	str.WriteRune(s.char)
	s.read()
	for isDigit(s.char) {
		str.WriteRune(s.char)
		s.read()
	}
	tok.Type = Digit
	tok.Literal = str.String()
}

func (s *Scanner) skipBlank() {
	for isBlank(s.char) {
		s.read()
	}
}

func (s *Scanner) done() bool {
	return s.char == utf8.RuneError || s.char == 0
}

func (s *Scanner) read() {
	c, _, err := s.input.ReadRune()
	if err != nil {
		s.char = 0
		return
	}
	if c == '\n' {
		s.Line++
		s.Column = 0
	}
	s.Column++
	s.char = c
}

func (s *Scanner) peek() rune {
	c, _, err := s.input.ReadRune()
	if err != nil {
		return 0
	}
	s.input.UnreadRune()
	return c
}

func isLetter(c rune) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '_'
}

func isDigit(c rune) bool {
	return c >= '0' && c <= '9'
}

func isName(c rune) bool {
	return isLetter(c) || isDigit(c) || c == '-'
}

func isQuote(c rune) bool {
	return c == '\'' || c == '"'
}

func isBlank(c rune) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}
