package models

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

var (
	// ErrDuplicateName is returned by Insert when the name is taken.
	ErrDuplicateName = errors.New("entry already exists")
	// ErrNotFound is returned when no entry has the requested name.
	ErrNotFound = errors.New("entry not found")
	// ErrInternalDuplicate is returned by Merge when the incoming entries
	// repeat a name among themselves.
	ErrInternalDuplicate = errors.New("entry is repeated in the imported set")
	// ErrCrossDuplicate is returned by Merge when an incoming entry collides
	// with one already in the collection.
	ErrCrossDuplicate = errors.New("entry already exists in the current store")
)

// NameError ties a collection error to the entry name that caused it.
type NameError struct {
	Err  error
	Name string
}

func (e *NameError) Error() string {
	return fmt.Sprintf("%s: %q", e.Err, e.Name)
}

func (e *NameError) Unwrap() error {
	return e.Err
}

// Collection is an ordered set of entries with unique names.
//
// Entries keep insertion order until SortByName is called; Merge sorts on
// success. The zero value is an empty collection.
type Collection struct {
	entries []Entry
}

// NewCollection returns a collection holding entries. It fails with
// ErrDuplicateName if two of them share a name.
func NewCollection(entries ...Entry) (*Collection, error) {
	c := &Collection{entries: make([]Entry, 0, len(entries))}
	for _, e := range entries {
		if err := c.Insert(e); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Len returns the number of entries.
func (c *Collection) Len() int {
	return len(c.entries)
}

// Entries returns a copy of the entries in their current order.
func (c *Collection) Entries() []Entry {
	return slices.Clone(c.entries)
}

// Find returns the entry with exactly this name, or nil. The pointer
// refers to the collection's own storage and is invalidated by Insert,
// Remove and Merge.
func (c *Collection) Find(name string) *Entry {
	if i := c.index(name); i >= 0 {
		return &c.entries[i]
	}
	return nil
}

// Insert appends e unless its name is already present.
func (c *Collection) Insert(e Entry) error {
	if c.index(e.Name) >= 0 {
		return &NameError{Err: ErrDuplicateName, Name: e.Name}
	}
	c.entries = append(c.entries, e)
	return nil
}

// Remove deletes and returns the entry with this name.
func (c *Collection) Remove(name string) (Entry, error) {
	i := c.index(name)
	if i < 0 {
		return Entry{}, &NameError{Err: ErrNotFound, Name: name}
	}
	removed := c.entries[i]
	c.entries = slices.Delete(c.entries, i, i+1)
	return removed, nil
}

// SortByName orders entries by name, ascending.
func (c *Collection) SortByName() {
	sortByName(c.entries)
}

// Merge adds every entry of other, or none of them. It fails with
// ErrInternalDuplicate if other repeats a name and with ErrCrossDuplicate
// if one of the collection's names appears in other. On success the
// collection is sorted by name.
func (c *Collection) Merge(other []Entry) error {
	incoming := slices.Clone(other)
	sortByName(incoming)

	for i := 1; i < len(incoming); i++ {
		if incoming[i-1].Name == incoming[i].Name {
			return &NameError{Err: ErrInternalDuplicate, Name: incoming[i].Name}
		}
	}

	names := make(map[string]struct{}, len(incoming))
	for _, e := range incoming {
		names[e.Name] = struct{}{}
	}
	for _, e := range c.entries {
		if _, ok := names[e.Name]; ok {
			return &NameError{Err: ErrCrossDuplicate, Name: e.Name}
		}
	}

	c.entries = append(c.entries, incoming...)
	c.SortByName()
	return nil
}

// Search returns the entries whose name contains query, ignoring case.
// An empty query matches everything.
func (c *Collection) Search(query string) []Entry {
	q := strings.ToLower(query)
	var out []Entry
	for _, e := range c.entries {
		if strings.Contains(strings.ToLower(e.Name), q) {
			out = append(out, e)
		}
	}
	return out
}

func (c *Collection) index(name string) int {
	return slices.IndexFunc(c.entries, func(e Entry) bool { return e.Name == name })
}

func sortByName(entries []Entry) {
	slices.SortStableFunc(entries, func(a, b Entry) int {
		return strings.Compare(a.Name, b.Name)
	})
}
