package forth65

import (
	"fmt"
	"strings"

	"github.com/forth65/forth65/forthparser"
)

// Program is the result of a successful compilation: every item in source
// order plus the dictionary, with used flags already settled.
type Program struct {
	Dictionary *Dictionary
	Items      []Item
	Sections   []string
}

// markReachable marks `main` and the transitive closure of the names its
// thread references. Definitions referenced in immediate mode are already
// marked at that point; the names referenced by such words are followed as
// well. This only ever grows the used set.
func (p *Program) markReachable(end forthparser.Pos) error {
	if p.Dictionary.Find("main") == nil {
		return forthparser.NewError(end, forthparser.ErrorUnknownWord,
			"main is not defined")
	}
	queue := []string{"main"}
	for _, e := range p.Dictionary.Entries() {
		if w, ok := e.(*Word); ok && w.IsUsed() {
			queue = append(queue, w.ReferencedNames...)
		}
	}
	visited := map[Entry]bool{}
	for len(queue) > 0 {
		name := queue[0]
		queue = queue[1:]
		entry := p.Dictionary.Find(name)
		if entry == nil || visited[entry] {
			continue
		}
		visited[entry] = true
		entry.MarkUsed()
		if w, ok := entry.(*Word); ok {
			queue = append(queue, w.ReferencedNames...)
		}
	}
	return nil
}

// Render emits the sections in order, each introduced by a `; section` line
// and separated by a blank line. Items render in the order they were
// appended during parsing; unused items contribute nothing.
func (p *Program) Render() string {
	var sb strings.Builder
	for i, section := range p.Sections {
		if i > 0 {
			sb.WriteByte('\n')
		}
		fmt.Fprintf(&sb, "; section %s\n", section)
		for _, item := range p.Items {
			item.Render(&sb, section)
		}
	}
	return sb.String()
}
