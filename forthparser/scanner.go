package forthparser

import (
	"errors"
	"strings"
)

// dedicated type for reference to file, in case we need to refactor this later..
type FileRef string

type Pos struct {
	File      FileRef
	Line, Col int
}

// ErrEndOfStream is returned by NextToken when the input is exhausted in a
// well-formed place (between tokens). Running out of input inside a comment,
// string or word body is an Error of kind ErrorUnexpectedEndOfStream instead.
var ErrEndOfStream = errors.New("end of stream")

// Input is a cursor over a whole source file held in memory. The tokenizer
// does not produce a token stream up front; the compiler pulls tokens one at
// a time and may capture verbatim spans between tokens through the mark
// methods (inline assembly bodies, string literals).
type Input struct {
	text string
	file FileRef

	offset int
	line   int // 1-based
	col    int // 1-based

	// start of the token most recently returned by next/NextToken
	tokenStart int
	tokenLine  int
	tokenCol   int

	markStart int
	markEnd   int
}

func NewInput(file FileRef, text string) *Input {
	return &Input{text: text, file: file, line: 1, col: 1}
}

func (in *Input) File() FileRef { return in.file }

// Pos is the position of the cursor itself, used for end-of-stream errors.
func (in *Input) Pos() Pos {
	return Pos{File: in.file, Line: in.line, Col: in.col}
}

func (in *Input) AtEOF() bool {
	return in.offset >= len(in.text)
}

func (in *Input) peek() byte {
	return in.text[in.offset]
}

func (in *Input) advance() {
	if in.text[in.offset] == '\n' {
		in.line++
		in.col = 1
	} else {
		in.col++
	}
	in.offset++
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

func (in *Input) SkipWhitespace() {
	for !in.AtEOF() && isSpace(in.peek()) {
		in.advance()
	}
}

// SkipLine discards input through the next newline.
func (in *Input) SkipLine() {
	for !in.AtEOF() {
		nl := in.peek() == '\n'
		in.advance()
		if nl {
			return
		}
	}
}

// next extracts one raw whitespace-delimited token. Comments are not
// interpreted here; see NextToken.
func (in *Input) next() (Token, error) {
	in.SkipWhitespace()
	if in.AtEOF() {
		return Token{}, ErrEndOfStream
	}
	in.tokenStart = in.offset
	in.tokenLine = in.line
	in.tokenCol = in.col
	for !in.AtEOF() && !isSpace(in.peek()) {
		in.advance()
	}
	return Token{
		Text: in.text[in.tokenStart:in.offset],
		Pos:  Pos{File: in.file, Line: in.tokenLine, Col: in.tokenCol},
	}, nil
}

// NextToken returns the next token with comments stripped. A `\` token
// discards the rest of its line; a `(` token discards tokens up to and
// including one whose text ends in `)`. Comments do not nest.
func (in *Input) NextToken() (Token, error) {
	for {
		t, err := in.next()
		if err != nil {
			return Token{}, err
		}
		switch {
		case t.Text == `\`:
			in.SkipLine()
		case t.Text == "(":
			open := t.Pos
			for {
				t, err = in.next()
				if err != nil {
					return Token{}, NewError(open, ErrorUnexpectedEndOfStream,
						"end of stream inside ( comment")
				}
				if strings.HasSuffix(t.Text, ")") {
					break
				}
			}
		default:
			return t, nil
		}
	}
}

// NextRawToken returns the next token without comment handling. Verbatim
// spans (inline assembly, string literals) are scanned with this so that a
// `\` or `(` inside them is not eaten as a comment.
func (in *Input) NextRawToken() (Token, error) {
	return in.next()
}

// MarkStart places the mark at the cursor, i.e. immediately after the most
// recently returned token.
func (in *Input) MarkStart() {
	in.markStart = in.offset
}

// MarkEndBeforeToken closes the mark at the start of the most recently
// returned token, excluding it from the marked slice.
func (in *Input) MarkEndBeforeToken() {
	in.markEnd = in.tokenStart
}

// MarkEndTrimmed closes the mark n bytes before the cursor, dropping a
// terminator from the end of the marked slice.
func (in *Input) MarkEndTrimmed(n int) {
	in.markEnd = in.offset - n
	if in.markEnd < in.markStart {
		in.markEnd = in.markStart
	}
}

func (in *Input) Marked() string {
	return in.text[in.markStart:in.markEnd]
}
