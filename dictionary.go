package forth65

// Dictionary holds named definitions, most recent first, so later
// definitions shadow earlier ones. A small alias table maps source-level
// synonyms onto the entry that implements them.
type Dictionary struct {
	entries []Entry
	aliases map[string]string
}

func NewDictionary() *Dictionary {
	return &Dictionary{
		aliases: map[string]string{
			"cells": "2*",
			"cell":  "2*",
			"not":   "0=",
		},
	}
}

// Define inserts an entry at the front of the search order.
func (d *Dictionary) Define(e Entry) {
	d.entries = append([]Entry{e}, d.entries...)
}

// Find resolves aliases and returns the most recent entry with the given
// name, or nil.
func (d *Dictionary) Find(name string) Entry {
	if target, ok := d.aliases[name]; ok {
		name = target
	}
	for _, e := range d.entries {
		if e.EntryName() == name {
			return e
		}
	}
	return nil
}

// Entries returns the search order, most recent first.
func (d *Dictionary) Entries() []Entry { return d.entries }
