package symmetry

// Entry pairs a manifold name with its known symmetry records, in database
// order.
type Entry struct {
	Manifold string
	Records  []Record
}

// Store is the immutable table of known symmetries, built once at load and
// shared read-only by every consumer. Entries keep the order of the database
// file so that verification output is reproducible.
type Store struct {
	entries []Entry
	byName  map[string]int
}

// NewStore builds a store from entries. Later entries for a manifold already
// present are merged onto the earlier one.
func NewStore(entries []Entry) *Store {
	s := &Store{byName: make(map[string]int, len(entries))}
	for _, e := range entries {
		if i, ok := s.byName[e.Manifold]; ok {
			s.entries[i].Records = append(s.entries[i].Records, e.Records...)
			continue
		}
		s.byName[e.Manifold] = len(s.entries)
		s.entries = append(s.entries, e)
	}
	return s
}

// Records returns the known symmetries of the named manifold, or nil when the
// database has none. The returned slice must not be mutated.
func (s *Store) Records(manifold string) []Record {
	if s == nil {
		return nil
	}
	if i, ok := s.byName[manifold]; ok {
		return s.entries[i].Records
	}
	return nil
}

// Entries returns all entries in database order. The returned slice must not
// be mutated.
func (s *Store) Entries() []Entry {
	if s == nil {
		return nil
	}
	return s.entries
}

// Len returns the number of manifolds with at least one record.
func (s *Store) Len() int {
	if s == nil {
		return 0
	}
	return len(s.entries)
}
