package forth65

import "fmt"

// BranchTarget is a forward- or backward-patchable cell in a word's thread.
// The same handle sits both in the thread and on the compile-time stack (or
// a leave list); Update mutates it in place. Cells are 2 bytes, so a target
// resolves to *+N or *-N with N twice the cell distance from the anchor.
//
// The anchor is set when the placeholder cell is appended (see
// Word.AppendTarget) and sits one cell past the placeholder itself; the
// runtime branch primitives compensate by entering the thread one cell after
// the fetched address.
type BranchTarget struct {
	anchor   int
	resolved string
}

func (t *BranchTarget) Update(targetIP int) {
	d := 2 * (targetIP - t.anchor)
	if d < 0 {
		t.resolved = fmt.Sprintf("*-%d", -d)
	} else {
		t.resolved = fmt.Sprintf("*+%d", d)
	}
}

func (t *BranchTarget) Resolved() bool { return t.resolved != "" }

// ThreadCell is one cell of a thread: a fixed label or payload, or a branch
// target that must be resolved before rendering.
type ThreadCell struct {
	Text   string
	Target *BranchTarget
}

func (c ThreadCell) text() string {
	if c.Target == nil {
		return c.Text
	}
	if !c.Target.Resolved() {
		panic("forth65: rendering an unresolved branch target")
	}
	return c.Target.resolved
}
