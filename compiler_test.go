package forth65

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forth65/forth65/forthparser"
)

func testCompile(t *testing.T, source string) *Program {
	t.Helper()
	p, err := CompileString(nil, "test.f", source, Options{})
	require.NoError(t, err)
	return p
}

func testCompileErr(t *testing.T, source string) forthparser.Error {
	t.Helper()
	_, err := CompileString(nil, "test.f", source, Options{})
	require.Error(t, err)
	var perr forthparser.Error
	require.ErrorAs(t, err, &perr)
	return perr
}

func findWord(t *testing.T, p *Program, name string) *Word {
	t.Helper()
	e := p.Dictionary.Find(name)
	require.NotNil(t, e, "word %s not in dictionary", name)
	w, ok := e.(*Word)
	require.True(t, ok, "%s is not a word", name)
	return w
}

func threadTexts(w *Word) []string {
	var out []string
	for _, c := range w.Thread {
		out = append(out, c.text())
	}
	return out
}

func TestConstantPush(t *testing.T) {
	// scenario: a constant referenced from main
	p := testCompile(t, "$230 constant dladr  : main dladr ;")

	out := p.Render()
	assert.Contains(t, out, "main\n dta a(enter)\n dta a(const_dladr)\n dta a(exit)\n")
	assert.Contains(t, out, "const_dladr\n dta a(const),a(dladr)\n")
	assert.Contains(t, out, "dladr equ $230\n")

	assert.Equal(t, []string{"dladr"}, findWord(t, p, "main").ReferencedNames)
}

func TestBranching(t *testing.T) {
	p := testCompile(t, ": x 0= if 1 else 2 then ;  : main x ;")

	assert.Equal(t,
		[]string{"enter", "zero_eq", "_if", "*+8", "lit", "1", "branch", "*+4", "lit", "2", "exit"},
		threadTexts(findWord(t, p, "x")))
}

func TestCountedLoop(t *testing.T) {
	p := testCompile(t, ": l 10 0 do i loop ;  : main l ;")

	assert.Equal(t,
		[]string{"enter", "lit", "10", "lit", "0", "do", "i", "loop", "*-6", "exit"},
		threadTexts(findWord(t, p, "l")))
}

func TestLeave(t *testing.T) {
	p := testCompile(t, ": l 10 0 do i 5 = if leave then loop ;  : main l ;")

	assert.Equal(t,
		[]string{"enter", "lit", "10", "lit", "0", "do", "i", "lit", "5", "equals",
			"_if", "*+6", "unloop", "branch", "*+4", "loop", "*-22", "exit"},
		threadTexts(findWord(t, p, "l")))
}

func TestEmptyCountedLoop(t *testing.T) {
	p := testCompile(t, ": l 10 0 do loop ;  : main l ;")

	assert.Equal(t,
		[]string{"enter", "lit", "10", "lit", "0", "do", "loop", "*-4", "exit"},
		threadTexts(findWord(t, p, "l")))
}

func TestPlusLoop(t *testing.T) {
	p := testCompile(t, ": l 10 0 do 2 +loop ;  : main l ;")

	assert.Equal(t,
		[]string{"enter", "lit", "10", "lit", "0", "do", "lit", "2", "plus_loop", "*-8", "exit"},
		threadTexts(findWord(t, p, "l")))
}

func TestBeginUntil(t *testing.T) {
	p := testCompile(t, ": w begin 1 until ;  : main w ;")

	assert.Equal(t,
		[]string{"enter", "lit", "1", "until", "*-8", "exit"},
		threadTexts(findWord(t, p, "w")))
}

func TestBeginAgain(t *testing.T) {
	p := testCompile(t, ": w begin 1 again ;  : main w ;")

	assert.Equal(t,
		[]string{"enter", "lit", "1", "branch", "*-8", "exit"},
		threadTexts(findWord(t, p, "w")))
}

func TestBeginWhileRepeat(t *testing.T) {
	p := testCompile(t, ": w begin 1 while 2 repeat ;  : main w ;")

	assert.Equal(t,
		[]string{"enter", "lit", "1", "while", "*+8", "lit", "2", "branch", "*-16", "exit"},
		threadTexts(findWord(t, p, "w")))
}

func TestNestedControlFlow(t *testing.T) {
	p := testCompile(t, ": w 4 0 do i 2 = if 1 else 2 then drop loop ;  : main w ;")
	w := findWord(t, p, "w")
	for _, c := range w.Thread {
		if c.Target != nil {
			assert.True(t, c.Target.Resolved())
		}
	}
}

func TestDeadCodeElimination(t *testing.T) {
	p := testCompile(t, ": unused 1 ;  : main 0 ;")

	out := p.Render()
	assert.NotContains(t, out, "unused")
	assert.Contains(t, out, "main\n")
}

func TestStackNotEmpty(t *testing.T) {
	perr := testCompileErr(t, "1 2 : main ;")
	assert.Equal(t, forthparser.ErrorStackNotEmpty, perr.Kind)
}

func TestOpenControlMarkerIsStackNotEmpty(t *testing.T) {
	perr := testCompileErr(t, ": main begin ;")
	assert.Equal(t, forthparser.ErrorStackNotEmpty, perr.Kind)
}

func TestCompileTimeArithmetic(t *testing.T) {
	p := testCompile(t, "5 3 + 2 * constant sixteen  : main sixteen ;")
	k := p.Dictionary.Find("sixteen").(*Constant)
	assert.Equal(t, 16, k.Value)
	assert.Contains(t, p.Render(), "sixteen equ 16\n")
}

func TestCompileTimeDivisionTruncates(t *testing.T) {
	p := testCompile(t, "7 2 / constant q  -7 2 / constant nq  : main q nq ;")
	assert.Equal(t, 3, p.Dictionary.Find("q").(*Constant).Value)
	assert.Equal(t, -3, p.Dictionary.Find("nq").(*Constant).Value)
}

func TestCompileTimeDivisionByZero(t *testing.T) {
	perr := testCompileErr(t, "1 0 / constant q : main ;")
	assert.Equal(t, forthparser.ErrorParse, perr.Kind)
}

func TestCellsWord(t *testing.T) {
	p := testCompile(t, "3 cells constant six  : main six ;")
	assert.Equal(t, 6, p.Dictionary.Find("six").(*Constant).Value)
}

func TestVariableRendering(t *testing.T) {
	p := testCompile(t, "variable x  2variable y  create z  : main x y z ;")

	out := p.Render()
	assert.Contains(t, out, "var_x\n dta a(const),a(x)\n")
	assert.Contains(t, out, "x equ *\n org *+2\n")
	assert.Contains(t, out, "y equ *\n org *+4\n")
	assert.Contains(t, out, "z equ *\n")
	assert.NotContains(t, out, "z equ *\n org")
}

func TestCommaAndAllot(t *testing.T) {
	p := testCompile(t, "create tbl 5 , $a , 7 c, 0 allot  : main tbl ;")

	out := p.Render()
	assert.Contains(t, out, " dta a(5)\n")
	assert.Contains(t, out, " dta a($a)\n")
	assert.Contains(t, out, " dta 7\n")
	assert.Contains(t, out, " org *+0\n")
}

func TestCommaWithLabelValue(t *testing.T) {
	// a data cell can hold the address of another definition
	p := testCompile(t, "variable x  create tbl x ,  : main tbl ;")
	assert.Contains(t, p.Render(), " dta a(x)\n")
}

func TestStringLiterals(t *testing.T) {
	t.Run("counted ascii", func(t *testing.T) {
		p := testCompile(t, `create msg ," hi"  : main msg ;`)
		assert.Contains(t, p.Render(), " dta 2,c'hi'\n")
	})
	t.Run("uncounted ascii", func(t *testing.T) {
		p := testCompile(t, `create msg "hello"  : main msg ;`)
		assert.Contains(t, p.Render(), " dta c'hello'\n")
	})
	t.Run("counted antic", func(t *testing.T) {
		p := testCompile(t, `create msg ,' ready'  : main msg ;`)
		assert.Contains(t, p.Render(), " dta 5,d'ready'\n")
	})
	t.Run("antic inverse video", func(t *testing.T) {
		p := testCompile(t, `create msg ,' ready'*  : main msg ;`)
		assert.Contains(t, p.Render(), " dta 5,d'ready'*\n")
	})
	t.Run("multi token literal keeps inner spacing", func(t *testing.T) {
		p := testCompile(t, `create msg ," hello  world"  : main msg ;`)
		assert.Contains(t, p.Render(), " dta 12,c'hello  world'\n")
	})
	t.Run("quote escaping", func(t *testing.T) {
		p := testCompile(t, `create msg ,' it's'  : main msg ;`)
		assert.Contains(t, p.Render(), " dta 4,d'it''s'\n")
	})
	t.Run("unterminated", func(t *testing.T) {
		perr := testCompileErr(t, `create msg ," oops`)
		assert.Equal(t, forthparser.ErrorUnexpectedEndOfStream, perr.Kind)
	})
}

func TestInlineCodeWord(t *testing.T) {
	p := testCompile(t, ": beep [code]\n lda #0\n jmp next\n[end-code] ;  : main beep ;")

	out := p.Render()
	assert.Contains(t, out, "beep\n dta a(*+2)\n lda #0\n jmp next\n")
	assert.Contains(t, out, "main\n dta a(enter)\n dta a(beep)\n dta a(exit)\n")
}

func TestInterpretModeRawCode(t *testing.T) {
	p := testCompile(t, "[code]\n icl 'macros.asm'\n[end-code]  : main 0 ;")
	assert.Contains(t, p.Render(), " icl 'macros.asm'\n")
}

func TestSectionDirectives(t *testing.T) {
	src := "[text-section] init [code]\n org $2000\n[end-code] [text-section] text : main 0 ;"
	p := testCompile(t, src)

	out := p.Render()
	init := out[:len("; section init\n org $2000\n")]
	assert.Equal(t, "; section init\n org $2000\n", init)
}

func TestLabelDirective(t *testing.T) {
	p := testCompile(t, ": ++ [label] incr2 ;  : main ++ ;")

	assert.Equal(t, "incr2", findWord(t, p, "++").Label)
	assert.Equal(t, []string{"enter", "incr2", "exit"}, threadTexts(findWord(t, p, "main")))
}

func TestNameCanonicalization(t *testing.T) {
	p := testCompile(t, ": draw-line ;  : empty? ;  : main draw-line empty? ;")

	assert.Equal(t, "draw_line", findWord(t, p, "draw-line").Label)
	assert.Equal(t, "empty_is_", findWord(t, p, "empty?").Label)
}

func TestRecursiveWord(t *testing.T) {
	p := testCompile(t, ": r recursive 0= if r then ;  : main r ;")
	w := findWord(t, p, "r")
	assert.Contains(t, threadTexts(w), "r")
}

func TestSelfReferenceWithoutRecursive(t *testing.T) {
	perr := testCompileErr(t, ": r r ;  : main r ;")
	assert.Equal(t, forthparser.ErrorUnknownWord, perr.Kind)
	assert.Equal(t, 1, perr.Pos.Line)
}

func TestRedefinitionShadows(t *testing.T) {
	p := testCompile(t, ": w 1 ;  : w 2 ;  : main w ;")

	out := p.Render()
	assert.Contains(t, out, "w\n dta a(enter)\n dta a(lit)\n dta a(2)\n dta a(exit)\n")
	assert.NotContains(t, out, " dta a(1)\n")
}

func TestLiteral(t *testing.T) {
	t.Run("integer renders decimal", func(t *testing.T) {
		p := testCompile(t, "$10 : main literal ;")
		assert.Equal(t, []string{"enter", "lit", "16", "exit"}, threadTexts(findWord(t, p, "main")))
	})
	t.Run("label renders as-is", func(t *testing.T) {
		p := testCompile(t, "variable x : main [ x ] literal ;")
		assert.Equal(t, []string{"enter", "lit", "x", "exit"}, threadTexts(findWord(t, p, "main")))
	})
}

func TestLitVerbatim(t *testing.T) {
	p := testCompile(t, ": main lit counter ;")
	assert.Equal(t, []string{"enter", "lit", "counter", "exit"}, threadTexts(findWord(t, p, "main")))
}

func TestTick(t *testing.T) {
	p := testCompile(t, ": foo ;  : main ['] foo execute ;")
	assert.Equal(t, []string{"enter", "lit", "foo", "execute", "exit"},
		threadTexts(findWord(t, p, "main")))
}

func TestHexLiteralInThread(t *testing.T) {
	p := testCompile(t, ": main $230 drop ;")
	assert.Equal(t, []string{"enter", "lit", "$230", "drop", "exit"},
		threadTexts(findWord(t, p, "main")))
}

func TestUnknownWord(t *testing.T) {
	perr := testCompileErr(t, ": main bogus ;")
	assert.Equal(t, forthparser.ErrorUnknownWord, perr.Kind)
	assert.Contains(t, perr.Message, "bogus")
}

func TestStackUnderflow(t *testing.T) {
	t.Run("constant without value", func(t *testing.T) {
		perr := testCompileErr(t, "constant x : main ;")
		assert.Equal(t, forthparser.ErrorStackUnderflow, perr.Kind)
	})
	t.Run("then without if", func(t *testing.T) {
		perr := testCompileErr(t, ": main then ;")
		assert.Equal(t, forthparser.ErrorStackUnderflow, perr.Kind)
	})
	t.Run("loop without do", func(t *testing.T) {
		perr := testCompileErr(t, ": main loop ;")
		assert.Equal(t, forthparser.ErrorStackUnderflow, perr.Kind)
	})
	t.Run("leave outside do", func(t *testing.T) {
		perr := testCompileErr(t, ": main leave ;")
		assert.Equal(t, forthparser.ErrorStackUnderflow, perr.Kind)
	})
}

func TestEndOfStreamInsideDefinition(t *testing.T) {
	perr := testCompileErr(t, ": main 1")
	assert.Equal(t, forthparser.ErrorUnexpectedEndOfStream, perr.Kind)
}

func TestMissingMain(t *testing.T) {
	perr := testCompileErr(t, ": helper 1 ;")
	assert.Equal(t, forthparser.ErrorUnknownWord, perr.Kind)
	assert.Contains(t, perr.Message, "main")
}

func TestInclude(t *testing.T) {
	fsys := fstest.MapFS{
		"defs.f": &fstest.MapFile{Data: []byte("$22f constant sdmctl\n")},
	}
	p, err := CompileString(fsys, "test.f", `[include] "defs.f"  : main sdmctl ;`, Options{})
	require.NoError(t, err)
	assert.Contains(t, p.Render(), "sdmctl equ $22f\n")
}

func TestIncludeTwiceParsesTwice(t *testing.T) {
	fsys := fstest.MapFS{
		"defs.f": &fstest.MapFile{Data: []byte(": w 1 ;\n")},
	}
	src := `[include] "defs.f" [include] "defs.f" : main w ;`
	p, err := CompileString(fsys, "test.f", src, Options{})
	require.NoError(t, err)

	var defs int
	for _, e := range p.Dictionary.Entries() {
		if e.EntryName() == "w" {
			defs++
		}
	}
	assert.Equal(t, 2, defs)
}

func TestIncludeMissingFile(t *testing.T) {
	_, err := CompileString(fstest.MapFS{}, "test.f", `[include] "nope.f" : main ;`, Options{})
	var perr forthparser.Error
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, forthparser.ErrorNoSuchFile, perr.Kind)
	assert.Contains(t, perr.Message, "nope.f")
}

func TestErrorsCarryPosition(t *testing.T) {
	perr := testCompileErr(t, "\n\n  : main bogus ;")
	assert.Equal(t, forthparser.FileRef("test.f"), perr.Pos.File)
	assert.Equal(t, 3, perr.Pos.Line)
	assert.Equal(t, 10, perr.Pos.Col)
}
