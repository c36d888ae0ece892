package domain

// TestType classifies an assessment into one of the two catalog categories.
type TestType string

const (
	// TestTypeKnowledge marks Knowledge & Skills assessments.
	TestTypeKnowledge TestType = "K"
	// TestTypePersonality marks Personality & Behavior assessments.
	TestTypePersonality TestType = "P"
)

// DisplayLabel returns the human-readable label used in API responses.
func (t TestType) DisplayLabel() string {
	if t == TestTypePersonality {
		return "Personality & Behavior"
	}
	return "Knowledge & Skills"
}

// Normalize maps any unknown value to TestTypeKnowledge.
func (t TestType) Normalize() TestType {
	if t == TestTypePersonality {
		return TestTypePersonality
	}
	return TestTypeKnowledge
}

// Assessment is one catalog entry. URL is the natural key; records are
// immutable after catalog load.
type Assessment struct {
	Name        string
	URL         string
	TestType    TestType
	Description string
	Category    string
}

// CombinedText returns the text that is embedded for the assessment.
func (a Assessment) CombinedText() string {
	return a.Name + " " + a.Category + " " + a.Description
}

// Candidate is an assessment enriched with a per-request similarity score.
type Candidate struct {
	Assessment
	SimilarityScore float64
}

// DomainLabel is the classification of a hiring query.
type DomainLabel string

const (
	DomainTechnical  DomainLabel = "technical"
	DomainBehavioral DomainLabel = "behavioral"
	DomainMixed      DomainLabel = "mixed"
)

// LabeledQuery is one row of an offline evaluation set: a hiring query and
// the URLs of the assessments known to be relevant for it.
type LabeledQuery struct {
	Query        string
	RelevantURLs []string
}
