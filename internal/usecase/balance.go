package usecase

import (
	"assessrec/config"
	"assessrec/internal/domain"
)

// Balancer enforces the category split between Knowledge & Skills and
// Personality & Behavior assessments. It is the only place the split is
// applied; everything upstream works in pure relevance order.
type Balancer struct {
	technicalKRatio  float64
	behavioralKRatio float64
	mixedKRatio      float64
}

// NewBalancer builds a balancer from the configured ratio table.
func NewBalancer(cfg config.BalanceConfig) *Balancer {
	return &Balancer{
		technicalKRatio:  cfg.TechnicalKRatio,
		behavioralKRatio: cfg.BehavioralKRatio,
		mixedKRatio:      cfg.MixedKRatio,
	}
}

func (b *Balancer) kRatio(label domain.DomainLabel) float64 {
	switch label {
	case domain.DomainTechnical:
		return b.technicalKRatio
	case domain.DomainBehavioral:
		return b.behavioralKRatio
	default:
		return b.mixedKRatio
	}
}

// Targets returns the per-category target counts for the domain. The two
// targets always sum exactly to finalCount: the K target is floored and
// the P target takes the remainder.
func (b *Balancer) Targets(label domain.DomainLabel, finalCount int) (kTarget, pTarget int) {
	kTarget = int(float64(finalCount) * b.kRatio(label))
	pTarget = finalCount - kTarget
	return kTarget, pTarget
}

// Balance selects up to finalCount candidates honoring the category split
// for the domain. Each category is filled from the front of its sub-list
// (relevance order); a deficit in one category is backfilled from the
// other's remaining items. Output keeps the K-then-P layout and is never
// re-sorted by score. Duplicate URLs in the input are dropped, first
// occurrence wins. Insufficient candidates shorten the result instead of
// raising an error.
func (b *Balancer) Balance(candidates []domain.Candidate, label domain.DomainLabel, finalCount int) []domain.Candidate {
	if finalCount <= 0 {
		return nil
	}

	var kList, pList []domain.Candidate
	seen := make(map[string]bool, len(candidates))
	for _, c := range candidates {
		if seen[c.URL] {
			continue
		}
		seen[c.URL] = true
		if c.TestType == domain.TestTypePersonality {
			pList = append(pList, c)
		} else {
			kList = append(kList, c)
		}
	}

	kTarget, pTarget := b.Targets(label, finalCount)

	kCount := min(kTarget, len(kList))
	pCount := min(pTarget, len(pList))

	// Backfill deficits from the other list's spare items.
	deficit := finalCount - kCount - pCount
	if deficit > 0 {
		extraK := min(deficit, len(kList)-kCount)
		kCount += extraK
		deficit -= extraK
	}
	if deficit > 0 {
		extraP := min(deficit, len(pList)-pCount)
		pCount += extraP
	}

	balanced := make([]domain.Candidate, 0, kCount+pCount)
	balanced = append(balanced, kList[:kCount]...)
	balanced = append(balanced, pList[:pCount]...)

	if len(balanced) > finalCount {
		balanced = balanced[:finalCount]
	}
	return balanced
}
