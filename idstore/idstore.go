package idstore

import "strconv"

const DefaultName = "Node"

type entry struct {
	key string
	id  string
}

// Store hands out unique identifiers for named source entities.
// Suffixes depend on the order names are first seen, so callers must
// visit the document in a fixed order.
type Store struct {
	names map[string][]entry
}

func NewStore() *Store {
	return &Store{names: make(map[string][]entry)}
}

func (s *Store) Resolve(name string, key string) string {
	if name == "" {
		name = DefaultName
	}

	entries, ok := s.names[name]
	if !ok {
		s.names[name] = []entry{{key: key, id: name}}
		return name
	}

	for _, e := range entries {
		if e.key == key {
			return e.id
		}
	}

	// the bare name is taken by the first entry, suffixes count from zero
	id := name + "_" + strconv.Itoa(len(entries)-1)
	s.names[name] = append(entries, entry{key: key, id: id})
	return id
}

// Lookup returns identifier previously assigned to (name, key) pair
func (s *Store) Lookup(name string, key string) (string, bool) {
	if name == "" {
		name = DefaultName
	}
	for _, e := range s.names[name] {
		if e.key == key {
			return e.id, true
		}
	}
	return "", false
}

func (s *Store) Len() int {
	n := 0
	for _, entries := range s.names {
		n += len(entries)
	}
	return n
}
