package forth65

import (
	"fmt"
	"io/fs"
	"strconv"
	"strings"

	"github.com/forth65/forth65/forthparser"
)

// interpretToken dispatches one token in immediate mode.
func (c *Compiler) interpretToken(t forthparser.Token) error {
	switch t.Text {
	case ":":
		if c.word != nil {
			return forthparser.NewErrorf(t.Pos, forthparser.ErrorParse,
				"definition of %s is still open", c.word.Name)
		}
		name, err := c.nextName(t)
		if err != nil {
			return err
		}
		w := &Word{
			Name:    name.Text,
			Label:   forthparser.Canon(name.Text),
			Section: c.textSection,
		}
		w.Append("enter")
		c.items = append(c.items, w)
		c.word = w
		c.compiling = true
		return nil

	case "[include]":
		name, err := c.nextName(t)
		if err != nil {
			return err
		}
		return c.include(strings.ReplaceAll(name.Text, `"`, ""), t.Pos)

	case "[code]":
		text, err := c.scanCode(t)
		if err != nil {
			return err
		}
		c.items = append(c.items, NewRawCode(text, c.textSection))
		return nil

	case "[text-section]":
		name, err := c.nextName(t)
		if err != nil {
			return err
		}
		c.textSection = name.Text
		return nil

	case "[data-section]":
		name, err := c.nextName(t)
		if err != nil {
			return err
		}
		c.dataSection = name.Text
		return nil

	case "variable":
		return c.defineVariable(t, 1)
	case "2variable":
		return c.defineVariable(t, 2)
	case "create":
		return c.defineVariable(t, 0)

	case "constant":
		v, err := c.popInt(t)
		if err != nil {
			return err
		}
		name, err := c.nextName(t)
		if err != nil {
			return err
		}
		k := &Constant{
			Name:        name.Text,
			Label:       forthparser.Canon(name.Text),
			Value:       v.n,
			ValueText:   v.text,
			TextSection: c.textSection,
			DataSection: c.dataSection,
		}
		c.items = append(c.items, k)
		c.dict.Define(k)
		return nil

	case ",", "c,":
		v, err := c.pop(t)
		if err != nil {
			return err
		}
		if v.kind == valueTarget {
			return forthparser.NewErrorf(t.Pos, forthparser.ErrorParse,
				"%s inside an open control structure", t.Text)
		}
		line := " dta a(" + v.render() + ")"
		if t.Text == "c," {
			line = " dta " + v.render()
		}
		c.items = append(c.items, NewRawCode(line, c.dataSection))
		return nil

	case "allot":
		v, err := c.popInt(t)
		if err != nil {
			return err
		}
		c.items = append(c.items, NewRawCode(" org *+"+strconv.Itoa(v.n), c.dataSection))
		return nil

	case "+", "-", "*", "/":
		b, err := c.popInt(t)
		if err != nil {
			return err
		}
		a, err := c.popInt(t)
		if err != nil {
			return err
		}
		var n int
		switch t.Text {
		case "+":
			n = a.n + b.n
		case "-":
			n = a.n - b.n
		case "*":
			n = a.n * b.n
		case "/":
			if b.n == 0 {
				return forthparser.NewError(t.Pos, forthparser.ErrorParse, "division by zero")
			}
			n = a.n / b.n
		}
		c.push(intValue(n, ""))
		return nil

	case "cells":
		v, err := c.popInt(t)
		if err != nil {
			return err
		}
		c.push(intValue(2*v.n, ""))
		return nil

	case "]":
		if c.word == nil {
			return forthparser.NewError(t.Pos, forthparser.ErrorParse, "] without an open definition")
		}
		c.compiling = true
		return nil
	}

	switch {
	case strings.HasPrefix(t.Text, `,"`):
		return c.stringItem(t, `,"`, true, false)
	case strings.HasPrefix(t.Text, `,'`):
		return c.stringItem(t, `,'`, true, true)
	case strings.HasPrefix(t.Text, `"`):
		return c.stringItem(t, `"`, false, false)
	case strings.HasPrefix(t.Text, `'`):
		return c.stringItem(t, `'`, false, true)
	}

	if n, ok := forthparser.ParseNumber(t.Text); ok {
		c.push(intValue(n, t.Text))
		return nil
	}

	entry := c.dict.Find(t.Text)
	if entry == nil {
		return forthparser.NewErrorf(t.Pos, forthparser.ErrorUnknownWord,
			"unknown word: %s", t.Text)
	}
	entry.MarkUsed()
	if k, ok := entry.(*Constant); ok {
		c.push(intValue(k.Value, k.ValueText))
	} else {
		c.push(stringValue(entry.AsmLabel()))
	}
	return nil
}

func (c *Compiler) defineVariable(t forthparser.Token, sizeCells int) error {
	name, err := c.nextName(t)
	if err != nil {
		return err
	}
	v := &Variable{
		Name:        name.Text,
		Label:       forthparser.Canon(name.Text),
		SizeCells:   sizeCells,
		TextSection: c.textSection,
		DataSection: c.dataSection,
	}
	c.items = append(c.items, v)
	c.dict.Define(v)
	return nil
}

// stringItem allocates an ASCII (c'') or Antic screen-code (d'') literal in
// the current data section, with a length byte when counted.
func (c *Compiler) stringItem(t forthparser.Token, open string, counted, antic bool) error {
	text, inverse, err := c.scanString(t, open)
	if err != nil {
		return err
	}
	mode := "c"
	if antic {
		mode = "d"
	}
	suffix := ""
	if inverse {
		suffix = "*"
	}
	esc := strings.ReplaceAll(text, "'", "''")
	var line string
	if counted {
		line = fmt.Sprintf(" dta %d,%s'%s'%s", len(text), mode, esc, suffix)
	} else {
		line = fmt.Sprintf(" dta %s'%s'%s", mode, esc, suffix)
	}
	c.items = append(c.items, NewRawCode(line, c.dataSection))
	return nil
}

func (c *Compiler) include(name string, at forthparser.Pos) error {
	if c.fsys == nil {
		return forthparser.NewErrorf(at, forthparser.ErrorNoSuchFile,
			"no such file: %s", name)
	}
	buf, err := fs.ReadFile(c.fsys, name)
	if err != nil {
		return forthparser.NewErrorf(at, forthparser.ErrorNoSuchFile,
			"no such file: %s", name)
	}
	return c.compileInput(forthparser.NewInput(forthparser.FileRef(name), string(buf)))
}
