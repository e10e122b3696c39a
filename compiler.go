package forth65

import (
	"errors"
	"io/fs"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/forth65/forth65/forthparser"
)

type valueKind int

const (
	valueInt valueKind = iota
	valueString
	valueTarget
)

// stackValue is one element of the compile-time operand stack: an integer
// (keeping its source spelling when it came from a literal), an assembler
// label or raw text, or a branch-target handle belonging to an open control
// structure.
type stackValue struct {
	kind   valueKind
	n      int
	text   string
	target *BranchTarget
}

func intValue(n int, text string) stackValue {
	return stackValue{kind: valueInt, n: n, text: text}
}

func stringValue(s string) stackValue {
	return stackValue{kind: valueString, text: s}
}

// render is the textual form the data-emitting words consume: the source
// spelling for integers when available, the string itself otherwise.
func (v stackValue) render() string {
	switch v.kind {
	case valueInt:
		if v.text != "" {
			return v.text
		}
		return strconv.Itoa(v.n)
	default:
		return v.text
	}
}

// Compiler drives the two-state interpret/compile machine over a stack of
// input cursors (one per open [include] file).
type Compiler struct {
	opts Options
	fsys fs.FS
	log  logrus.FieldLogger

	dict  *Dictionary
	items []Item

	stack  []stackValue
	leaves [][]*BranchTarget

	word      *Word // most recently started, still-open definition
	compiling bool

	textSection string
	dataSection string

	in *forthparser.Input
}

func newCompiler(fsys fs.FS, opts Options) *Compiler {
	opts = opts.withDefaults()
	return &Compiler{
		opts:        opts,
		fsys:        fsys,
		log:         opts.Log,
		dict:        NewDictionary(),
		textSection: "text",
		dataSection: "data",
	}
}

// Compile reads the named source file from fsys ([include] targets are
// resolved against the same filesystem), compiles the runtime and core
// vocabulary followed by the user program, and returns the compiled program
// ready for rendering. The first error terminates compilation.
func Compile(fsys fs.FS, file string, opts Options) (*Program, error) {
	c := newCompiler(fsys, opts)

	if err := c.compileSource("<runtime>", runtimeText(c.opts)); err != nil {
		return nil, err
	}
	if err := c.compileSource("<core>", coreText); err != nil {
		return nil, err
	}

	buf, err := fs.ReadFile(fsys, file)
	if err != nil {
		pos := forthparser.Pos{File: forthparser.FileRef(file), Line: 1, Col: 1}
		return nil, forthparser.NewErrorf(pos, forthparser.ErrorNoSuchFile,
			"no such file: %s", file)
	}
	in := forthparser.NewInput(forthparser.FileRef(file), string(buf))
	if err := c.compileInput(in); err != nil {
		return nil, err
	}
	return c.finish(in.Pos())
}

// CompileString compiles an in-memory source text; [include] is resolved
// against fsys, which may be nil when the program has no includes.
func CompileString(fsys fs.FS, name, source string, opts Options) (*Program, error) {
	c := newCompiler(fsys, opts)
	if err := c.compileSource("<runtime>", runtimeText(c.opts)); err != nil {
		return nil, err
	}
	if err := c.compileSource("<core>", coreText); err != nil {
		return nil, err
	}
	in := forthparser.NewInput(forthparser.FileRef(name), source)
	if err := c.compileInput(in); err != nil {
		return nil, err
	}
	return c.finish(in.Pos())
}

func (c *Compiler) finish(end forthparser.Pos) (*Program, error) {
	if c.word != nil {
		return nil, forthparser.NewErrorf(end, forthparser.ErrorUnexpectedEndOfStream,
			"end of stream inside definition of %s", c.word.Name)
	}
	if len(c.stack) != 0 {
		return nil, forthparser.NewError(end, forthparser.ErrorStackNotEmpty,
			"compile-time stack not empty at end of input")
	}
	p := &Program{Dictionary: c.dict, Items: c.items, Sections: c.opts.Sections}
	if err := p.markReachable(end); err != nil {
		return nil, err
	}
	c.log.WithFields(logrus.Fields{
		"items": len(c.items),
		"words": len(c.dict.Entries()),
	}).Debug("compilation finished")
	return p, nil
}

func (c *Compiler) compileSource(name, text string) error {
	return c.compileInput(forthparser.NewInput(forthparser.FileRef(name), text))
}

// compileInput parses one cursor to completion; the previous cursor is kept
// on the Go call stack and resumed afterwards, which is all the include
// stack there is.
func (c *Compiler) compileInput(in *forthparser.Input) error {
	prev := c.in
	c.in = in
	defer func() { c.in = prev }()

	c.log.WithField("file", in.File()).Debug("parsing")
	for {
		t, err := c.in.NextToken()
		if errors.Is(err, forthparser.ErrEndOfStream) {
			return nil
		}
		if err != nil {
			return err
		}
		if c.compiling {
			err = c.compileToken(t)
		} else {
			err = c.interpretToken(t)
		}
		if err != nil {
			return err
		}
	}
}

// nextName reads the token that must follow a defining or directive token.
func (c *Compiler) nextName(after forthparser.Token) (forthparser.Token, error) {
	t, err := c.in.NextToken()
	if errors.Is(err, forthparser.ErrEndOfStream) {
		return forthparser.Token{}, forthparser.NewErrorf(c.in.Pos(),
			forthparser.ErrorUnexpectedEndOfStream, "end of stream after %s", after.Text)
	}
	return t, err
}

func (c *Compiler) push(v stackValue) { c.stack = append(c.stack, v) }

func (c *Compiler) pop(at forthparser.Token) (stackValue, error) {
	if len(c.stack) == 0 {
		return stackValue{}, forthparser.NewErrorf(at.Pos, forthparser.ErrorStackUnderflow,
			"stack underflow at %s", at.Text)
	}
	v := c.stack[len(c.stack)-1]
	c.stack = c.stack[:len(c.stack)-1]
	return v, nil
}

func (c *Compiler) popInt(at forthparser.Token) (stackValue, error) {
	v, err := c.pop(at)
	if err != nil {
		return v, err
	}
	if v.kind != valueInt {
		return v, forthparser.NewErrorf(at.Pos, forthparser.ErrorParse,
			"%s requires a number", at.Text)
	}
	return v, nil
}

func (c *Compiler) popTarget(at forthparser.Token) (*BranchTarget, error) {
	v, err := c.pop(at)
	if err != nil {
		return nil, err
	}
	if v.kind != valueTarget {
		return nil, forthparser.NewErrorf(at.Pos, forthparser.ErrorParse,
			"%s outside of a control structure", at.Text)
	}
	return v.target, nil
}

// scanCode captures the verbatim span between a [code] token and the
// matching [end-code].
func (c *Compiler) scanCode(at forthparser.Token) (string, error) {
	c.in.MarkStart()
	for {
		t, err := c.in.NextRawToken()
		if errors.Is(err, forthparser.ErrEndOfStream) {
			return "", forthparser.NewError(at.Pos, forthparser.ErrorUnexpectedEndOfStream,
				"[code] without matching [end-code]")
		}
		if err != nil {
			return "", err
		}
		if t.Text == "[end-code]" {
			c.in.MarkEndBeforeToken()
			return c.in.Marked(), nil
		}
	}
}

// scanString captures a quoted literal. The opening quote arrives glued to
// the trigger token; the literal runs verbatim to the next token ending in
// the closing quote. Antic-mode literals may close with '* to request
// inverse video.
func (c *Compiler) scanString(t forthparser.Token, open string) (text string, inverse bool, err error) {
	closer, alt := `"`, ""
	if strings.HasSuffix(open, "'") {
		closer, alt = "'", "'*"
	}

	if body := t.Text[len(open):]; body != "" {
		if alt != "" && strings.HasSuffix(body, alt) {
			return body[:len(body)-len(alt)], true, nil
		}
		if strings.HasSuffix(body, closer) {
			return body[:len(body)-len(closer)], false, nil
		}
	}

	c.in.MarkStart()
	for {
		nt, rerr := c.in.NextRawToken()
		if errors.Is(rerr, forthparser.ErrEndOfStream) {
			return "", false, forthparser.NewError(t.Pos,
				forthparser.ErrorUnexpectedEndOfStream, "unterminated string literal")
		}
		if rerr != nil {
			return "", false, rerr
		}
		if alt != "" && strings.HasSuffix(nt.Text, alt) {
			inverse = true
			c.in.MarkEndTrimmed(len(alt))
			break
		}
		if strings.HasSuffix(nt.Text, closer) {
			c.in.MarkEndTrimmed(len(closer))
			break
		}
	}
	text = c.in.Marked()
	if body := t.Text[len(open):]; body != "" {
		text = body + text
	} else {
		// the single blank after the opening token separates it from the text
		text = strings.TrimPrefix(text, " ")
	}
	return text, inverse, nil
}
