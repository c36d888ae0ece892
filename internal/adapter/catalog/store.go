package catalog

import "assessrec/internal/domain"

// Store is an in-memory assessment table keyed by URL. It is read-only
// after construction; all request handling shares one instance.
type Store struct {
	byURL map[string]domain.Assessment
	order []string
}

// NewStore builds a store from the given records, dropping duplicate URLs
// (first occurrence wins, matching catalog order).
func NewStore(records []domain.Assessment) *Store {
	s := &Store{byURL: make(map[string]domain.Assessment, len(records))}
	for _, rec := range records {
		if _, exists := s.byURL[rec.URL]; exists {
			continue
		}
		s.byURL[rec.URL] = rec
		s.order = append(s.order, rec.URL)
	}
	return s
}

// Get returns the assessment stored under the given URL.
func (s *Store) Get(url string) (domain.Assessment, bool) {
	rec, ok := s.byURL[url]
	return rec, ok
}

// List returns all assessments in catalog order.
func (s *Store) List() []domain.Assessment {
	out := make([]domain.Assessment, 0, len(s.order))
	for _, url := range s.order {
		out = append(out, s.byURL[url])
	}
	return out
}

// Count returns the number of assessments.
func (s *Store) Count() int {
	return len(s.order)
}
