package forth65

import (
	"strconv"

	"github.com/forth65/forth65/forthparser"
)

// compileToken dispatches one token inside a word definition.
func (c *Compiler) compileToken(t forthparser.Token) error {
	w := c.word
	switch t.Text {
	case ";":
		w.Append("exit")
		c.dict.Define(w)
		c.log.WithField("word", w.Name).Debug("compiled word")
		c.word = nil
		c.compiling = false
		return nil

	case "recursive":
		w.Recursive = true
		return nil

	case "[label]":
		name, err := c.nextName(t)
		if err != nil {
			return err
		}
		w.Label = name.Text
		return nil

	case "[code]":
		text, err := c.scanCode(t)
		if err != nil {
			return err
		}
		w.InlineCode = NewRawCode(text, w.Section)
		return nil

	case "begin":
		c.push(intValue(w.IP(), ""))
		return nil

	case "again", "until":
		begin, err := c.popInt(t)
		if err != nil {
			return err
		}
		if t.Text == "again" {
			w.Append("branch")
		} else {
			w.Append("until")
		}
		back := &BranchTarget{}
		w.AppendTarget(back)
		back.Update(begin.n)
		return nil

	case "if":
		w.Append("_if")
		fwd := &BranchTarget{}
		w.AppendTarget(fwd)
		c.push(stackValue{kind: valueTarget, target: fwd})
		return nil

	case "else":
		t0, err := c.popTarget(t)
		if err != nil {
			return err
		}
		w.Append("branch")
		t1 := &BranchTarget{}
		w.AppendTarget(t1)
		t0.Update(w.IP())
		c.push(stackValue{kind: valueTarget, target: t1})
		return nil

	case "then":
		t0, err := c.popTarget(t)
		if err != nil {
			return err
		}
		t0.Update(w.IP())
		return nil

	case "while":
		w.Append("while")
		fwd := &BranchTarget{}
		w.AppendTarget(fwd)
		c.push(stackValue{kind: valueTarget, target: fwd})
		return nil

	case "repeat":
		t1, err := c.popTarget(t)
		if err != nil {
			return err
		}
		begin, err := c.popInt(t)
		if err != nil {
			return err
		}
		w.Append("branch")
		back := &BranchTarget{}
		w.AppendTarget(back)
		back.Update(begin.n)
		t1.Update(w.IP())
		return nil

	case "[":
		c.compiling = false
		return nil

	case "literal":
		v, err := c.pop(t)
		if err != nil {
			return err
		}
		if v.kind == valueTarget {
			return forthparser.NewError(t.Pos, forthparser.ErrorParse,
				"literal inside an open control structure")
		}
		w.Append("lit")
		if v.kind == valueInt {
			w.Append(strconv.Itoa(v.n))
		} else {
			w.Append(v.text)
		}
		return nil

	case "do":
		w.Append("do")
		c.push(intValue(w.IP(), ""))
		c.leaves = append(c.leaves, nil)
		return nil

	case "loop", "+loop":
		begin, err := c.popInt(t)
		if err != nil {
			return err
		}
		if len(c.leaves) == 0 {
			return forthparser.NewErrorf(t.Pos, forthparser.ErrorStackUnderflow,
				"%s without do", t.Text)
		}
		if t.Text == "loop" {
			w.Append("loop")
		} else {
			w.Append("plus_loop")
		}
		back := &BranchTarget{}
		w.AppendTarget(back)
		back.Update(begin.n)
		queued := c.leaves[len(c.leaves)-1]
		c.leaves = c.leaves[:len(c.leaves)-1]
		for _, fwd := range queued {
			fwd.Update(w.IP())
		}
		return nil

	case "leave":
		if len(c.leaves) == 0 {
			return forthparser.NewError(t.Pos, forthparser.ErrorStackUnderflow,
				"leave outside of do")
		}
		w.Append("unloop")
		w.Append("branch")
		fwd := &BranchTarget{}
		w.AppendTarget(fwd)
		c.leaves[len(c.leaves)-1] = append(c.leaves[len(c.leaves)-1], fwd)
		return nil

	case "lit":
		payload, err := c.nextName(t)
		if err != nil {
			return err
		}
		w.Append("lit")
		w.Append(payload.Text)
		return nil

	case "[']":
		name, err := c.nextName(t)
		if err != nil {
			return err
		}
		entry := c.dict.Find(name.Text)
		if entry == nil {
			return forthparser.NewErrorf(name.Pos, forthparser.ErrorUnknownWord,
				"unknown word: %s", name.Text)
		}
		w.Append("lit")
		w.Append(entry.AsmLabel())
		w.ReferencedNames = append(w.ReferencedNames, name.Text)
		return nil
	}

	if w.Recursive && t.Text == w.Name {
		w.Append(w.Label)
		return nil
	}
	if entry := c.dict.Find(t.Text); entry != nil {
		w.Append(entry.CallLabel())
		w.ReferencedNames = append(w.ReferencedNames, t.Text)
		return nil
	}
	if _, ok := forthparser.ParseNumber(t.Text); ok {
		w.Append("lit")
		w.Append(t.Text)
		return nil
	}
	return forthparser.NewErrorf(t.Pos, forthparser.ErrorUnknownWord,
		"unknown word: %s", t.Text)
}
