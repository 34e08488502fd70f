package expr

import (
	"sort"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Table is a named normalization lookup. Keys are stored and looked up in
// NFC form with runs of whitespace collapsed to one space.
type Table struct {
	name    string
	entries map[string]string
}

// NewTable builds a table from raw key/value pairs. Later duplicates win.
func NewTable(name string, entries map[string]string) *Table {
	t := &Table{name: name, entries: make(map[string]string, len(entries))}
	for k, v := range entries {
		t.entries[NormalizeKey(k)] = v
	}
	return t
}

// Name returns the table name used in %NAME(...) calls.
func (t *Table) Name() string {
	return t.name
}

// Put adds or replaces one entry.
func (t *Table) Put(key, value string) {
	t.entries[NormalizeKey(key)] = value
}

// Lookup returns the value stored for key.
func (t *Table) Lookup(key string) (string, bool) {
	v, ok := t.entries[NormalizeKey(key)]
	return v, ok
}

// Len returns the number of entries.
func (t *Table) Len() int {
	return len(t.entries)
}

// Keys returns the normalized keys in sorted order.
func (t *Table) Keys() []string {
	keys := make([]string, 0, len(t.entries))
	for k := range t.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Tables indexes tables by name.
type Tables map[string]*Table

// Add registers t under its name.
func (ts Tables) Add(t *Table) {
	ts[t.name] = t
}

// NormalizeKey collapses whitespace runs to a single space, trims the ends
// and converts to NFC.
func NormalizeKey(key string) string {
	return norm.NFC.String(strings.Join(strings.Fields(key), " "))
}
