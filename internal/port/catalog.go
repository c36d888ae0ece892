package port

import "assessrec/internal/domain"

// Catalog is the read-only assessment table, addressable by URL.
type Catalog interface {
	// Get returns the assessment stored under the given URL.
	Get(url string) (domain.Assessment, bool)

	// List returns all assessments in catalog order.
	List() []domain.Assessment

	// Count returns the number of assessments.
	Count() int
}
