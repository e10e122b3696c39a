// Package forth65 compiles a stack-based, concatenative source language
// into 6502 assembly text. Compilation produces an ordered list of items
// (raw code blocks, constants, variables, compiled words) which render
// themselves into named output sections; dead definitions are suppressed
// by a reachability mark from `main`.
package forth65

import (
	"fmt"
	"strconv"
	"strings"
)

// Item is one output fragment. Render appends the item's text for the given
// section; an item whose section does not match, or whose used flag is not
// set, contributes nothing.
type Item interface {
	Render(sb *strings.Builder, section string)
}

// Entry is an Item that is visible in the dictionary.
type Entry interface {
	Item
	EntryName() string
	// AsmLabel is the entry's bare assembler label, pushed by interpret-mode
	// references and compiled by ['].
	AsmLabel() string
	// CallLabel is the label a thread cell uses to invoke the entry.
	CallLabel() string
	MarkUsed()
	IsUsed() bool
}

// RawCode is a verbatim assembly fragment bound to one section.
type RawCode struct {
	Text    string
	Section string
}

func NewRawCode(text, section string) *RawCode {
	return &RawCode{Text: strings.Trim(text, "\r\n"), Section: section}
}

func (r *RawCode) Render(sb *strings.Builder, section string) {
	if section != r.Section {
		return
	}
	sb.WriteString(r.Text)
	sb.WriteByte('\n')
}

// Constant is a named compile-time integer. In its data section it becomes
// an equ line; in its text section a dictionary entry that pushes the value
// at run time.
type Constant struct {
	Name        string
	Label       string
	Value       int
	ValueText   string // source spelling, kept so $-hex survives into the equ
	TextSection string
	DataSection string
	Used        bool
}

func (c *Constant) EntryName() string { return c.Name }
func (c *Constant) AsmLabel() string  { return c.Label }
func (c *Constant) CallLabel() string { return "const_" + c.Label }
func (c *Constant) MarkUsed()         { c.Used = true }
func (c *Constant) IsUsed() bool      { return c.Used }

func (c *Constant) valueText() string {
	if c.ValueText != "" {
		return c.ValueText
	}
	return strconv.Itoa(c.Value)
}

func (c *Constant) Render(sb *strings.Builder, section string) {
	if !c.Used {
		return
	}
	switch section {
	case c.TextSection:
		fmt.Fprintf(sb, "%s\n dta a(const),a(%s)\n", c.CallLabel(), c.Label)
	case c.DataSection:
		fmt.Fprintf(sb, "%s equ %s\n", c.Label, c.valueText())
	}
}

// Variable is a named cell allocation. SizeCells 0 is a bare label at the
// current program counter (`create`).
type Variable struct {
	Name        string
	Label       string
	SizeCells   int
	TextSection string
	DataSection string
	Used        bool
}

func (v *Variable) EntryName() string { return v.Name }
func (v *Variable) AsmLabel() string  { return v.Label }
func (v *Variable) CallLabel() string { return "var_" + v.Label }
func (v *Variable) MarkUsed()         { v.Used = true }
func (v *Variable) IsUsed() bool      { return v.Used }

func (v *Variable) Render(sb *strings.Builder, section string) {
	if !v.Used {
		return
	}
	switch section {
	case v.TextSection:
		fmt.Fprintf(sb, "%s\n dta a(const),a(%s)\n", v.CallLabel(), v.Label)
	case v.DataSection:
		fmt.Fprintf(sb, "%s equ *\n", v.Label)
		if v.SizeCells > 0 {
			fmt.Fprintf(sb, " org *+%d\n", 2*v.SizeCells)
		}
	}
}

// Word is a compiled definition: an indirect-threaded cell stream, or an
// inline assembly body for code words.
type Word struct {
	Name            string
	Label           string
	Section         string
	Thread          []ThreadCell
	ReferencedNames []string
	InlineCode      *RawCode
	Recursive       bool
	Used            bool
}

func (w *Word) EntryName() string { return w.Name }
func (w *Word) AsmLabel() string  { return w.Label }
func (w *Word) CallLabel() string { return w.Label }
func (w *Word) MarkUsed()         { w.Used = true }
func (w *Word) IsUsed() bool      { return w.Used }

// IP is the index the next appended cell will occupy.
func (w *Word) IP() int { return len(w.Thread) }

func (w *Word) Append(text string) {
	w.Thread = append(w.Thread, ThreadCell{Text: text})
}

// AppendTarget places a branch placeholder and anchors it at the position
// just past its own cell, which is what the resolved *+N/*-N offsets are
// relative to.
func (w *Word) AppendTarget(t *BranchTarget) {
	w.Thread = append(w.Thread, ThreadCell{Target: t})
	t.anchor = len(w.Thread)
}

func (w *Word) Render(sb *strings.Builder, section string) {
	if !w.Used || section != w.Section {
		return
	}
	sb.WriteString(w.Label)
	sb.WriteByte('\n')
	if w.InlineCode != nil {
		sb.WriteString(" dta a(*+2)\n")
		sb.WriteString(w.InlineCode.Text)
		sb.WriteByte('\n')
		return
	}
	for _, cell := range w.Thread {
		fmt.Fprintf(sb, " dta a(%s)\n", cell.text())
	}
}
