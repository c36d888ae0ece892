package usecase

import (
	"strings"

	"assessrec/internal/domain"
)

// Technical / knowledge-oriented vocabulary: roles, technologies,
// cognitive and aptitude terms, tools.
var technicalTerms = []string{
	// Roles / functions
	"developer", "engineer", "tester", "qa", "sdet",
	"analyst", "analysts", "data scientist", "scientist",
	"programmer", "architect",
	// Skills / technologies
	"programming", "coding", "java", "python", "c++", "c#",
	"javascript", "typescript", "sql", "nosql", "database",
	"react", "angular", "node", "dotnet", ".net", "spring",
	"frontend", "front-end", "backend", "back-end",
	"full stack", "cloud", "aws", "azure", "gcp",
	"linux", "devops", "automation",
	// Cognitive / aptitude
	"cognitive", "aptitude", "numerical", "verbal",
	"reasoning", "logical", "logic", "problem solving",
	"quantitative", "statistics", "statistical",
	// Tools
	"excel", "power bi", "tableau", "sql server",
}

// Behavioral / personality-oriented vocabulary: interpersonal, leadership,
// trait and assessment-methodology terms.
var behavioralTerms = []string{
	// Interpersonal / communication
	"collaborate", "collaboration", "teamwork", "team player",
	"communication", "communicator", "presentation",
	"stakeholder", "client", "customer", "service", "support",
	"relationship", "negotiation", "influence",
	// Leadership / management
	"leadership", "leader", "manage", "management",
	"people manager", "coaching", "mentoring",
	// Traits / soft skills
	"adaptability", "flexibility", "resilience", "stress",
	"pressure", "conflict", "empathy", "trust",
	"initiative", "ownership", "proactive", "motivation",
	"drive", "values", "culture", "fit",
	// Assessment-related
	"personality", "behavior", "behavioural",
	"situational", "judgment", "sjt", "emotional", "eq",
	"work style", "competency", "competencies",
}

// ClassifyDomain labels a hiring query as technical, behavioral or mixed
// by counting vocabulary terms present in the lower-cased query. Each term
// counts once regardless of how often it appears. A label other than
// mixed requires a margin of at least two, so near-ties stay mixed.
func ClassifyDomain(query string) domain.DomainLabel {
	lower := strings.ToLower(query)

	techScore := countPresent(lower, technicalTerms)
	behavScore := countPresent(lower, behavioralTerms)

	switch {
	case techScore >= behavScore+2:
		return domain.DomainTechnical
	case behavScore >= techScore+2:
		return domain.DomainBehavioral
	default:
		return domain.DomainMixed
	}
}

func countPresent(lowerQuery string, terms []string) int {
	count := 0
	for _, term := range terms {
		if strings.Contains(lowerQuery, term) {
			count++
		}
	}
	return count
}
