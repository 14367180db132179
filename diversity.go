package curate

import "sort"

// DiversityResult holds one representative per redundancy group plus
// category-bucketed recommendations.
type DiversityResult struct {
	// DiverseSet has exactly one entry per similarity group, ordered by
	// descending overall quality score.
	DiverseSet []ImageRecord

	// ByCategory buckets the diverse set by content category, each bucket
	// ordered by descending quality and optionally truncated to the
	// category cap. Capped-out representatives stay in DiverseSet but are
	// not recommended.
	ByCategory map[Category][]ImageRecord
}

// SelectDiverse picks the highest-quality representative from each group and
// buckets the representatives by category. categoryCap <= 0 means unlimited.
// An empty group list yields an empty result, not an error.
func SelectDiverse(groups []SimilarityGroup, categoryCap int) DiversityResult {
	if len(groups) == 0 {
		return DiversityResult{ByCategory: map[Category][]ImageRecord{}}
	}

	reps := make([]ImageRecord, 0, len(groups))
	for _, g := range groups {
		if len(g.Members) == 0 {
			continue
		}
		reps = append(reps, representative(g))
	}

	// Stable: ties keep first-occurrence order from the batch.
	sort.SliceStable(reps, func(i, j int) bool {
		return reps[i].overallScore() > reps[j].overallScore()
	})

	byCategory := make(map[Category][]ImageRecord)
	for _, rec := range reps {
		cat := rec.Content.Category
		if categoryCap > 0 && len(byCategory[cat]) >= categoryCap {
			continue
		}
		byCategory[cat] = append(byCategory[cat], rec)
	}

	return DiversityResult{DiverseSet: reps, ByCategory: byCategory}
}

// representative returns the group member with the highest quality score,
// breaking ties by higher content confidence, then by batch order (group
// members are stored in batch order, so the earliest member wins).
func representative(g SimilarityGroup) ImageRecord {
	best := g.Members[0]
	for _, m := range g.Members[1:] {
		switch {
		case m.overallScore() > best.overallScore():
			best = m
		case m.overallScore() == best.overallScore() &&
			m.Content.Confidence > best.Content.Confidence:
			best = m
		}
	}
	return best
}
