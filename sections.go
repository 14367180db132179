package curate

import "sort"

// PageSection is a role/slot on a product page to be filled with images.
type PageSection int

const (
	SectionMain PageSection = iota
	SectionDetail
	SectionLifestyle
	SectionPackaging
)

func (s PageSection) String() string {
	switch s {
	case SectionMain:
		return "main"
	case SectionDetail:
		return "detail"
	case SectionLifestyle:
		return "lifestyle"
	case SectionPackaging:
		return "packaging"
	default:
		return "unknown"
	}
}

// category returns the content category that maps exactly onto the section.
func (s PageSection) category() Category {
	switch s {
	case SectionMain:
		return CategoryMain
	case SectionDetail:
		return CategoryDetail
	case SectionLifestyle:
		return CategoryLifestyle
	case SectionPackaging:
		return CategoryPackaging
	default:
		return CategoryUnknown
	}
}

// SectionRequirement asks for Count images in one section. Slice order of
// requirements breaks priority ties between sections requesting the same
// count.
type SectionRequirement struct {
	Section     PageSection
	Count       int
	PreferLarge bool // favor candidates whose pixel area is in the batch top half
}

// SectionAssignment is the result of one allocation run. Computed once per
// request; never persisted.
type SectionAssignment struct {
	BySection  map[PageSection][]ImageRecord
	Unassigned []ImageRecord
	// Shortfalls records requested minus delivered for every section that
	// could not be filled. A shortfall is a recoverable condition, not an
	// error: the caller decides whether to backfill from Unassigned.
	Shortfalls map[PageSection]int
}

// Fixed suitability weights: category affinity dominates, then quality,
// then size preference.
const (
	affinityWeight = 0.5
	qualityWeight  = 0.35
	sizeWeight     = 0.15
)

// AllocateSections assigns diverse-set images to page sections. Each image
// lands in at most one section; sections are served in descending order of
// requested count (ties by requirement order) so large quotas get first
// pick. Never errors: zero candidates yield empty assignments with full
// shortfalls.
func AllocateSections(div DiversityResult, reqs []SectionRequirement) SectionAssignment {
	out := SectionAssignment{
		BySection:  make(map[PageSection][]ImageRecord, len(reqs)),
		Shortfalls: make(map[PageSection]int),
	}

	// Priority: larger quotas first; stable keeps declaration order on ties.
	ordered := make([]SectionRequirement, len(reqs))
	copy(ordered, reqs)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Count > ordered[j].Count
	})

	areaCutoff := medianArea(div.DiverseSet)
	assigned := make([]bool, len(div.DiverseSet))

	for _, req := range ordered {
		if req.Count <= 0 {
			continue
		}
		var picked []ImageRecord
		for len(picked) < req.Count {
			idx := bestCandidate(div.DiverseSet, assigned, req, areaCutoff)
			if idx < 0 {
				break
			}
			assigned[idx] = true
			picked = append(picked, div.DiverseSet[idx])
		}
		if len(picked) > 0 {
			out.BySection[req.Section] = picked
		}
		if len(picked) < req.Count {
			out.Shortfalls[req.Section] = req.Count - len(picked)
		}
	}

	for i, rec := range div.DiverseSet {
		if !assigned[i] {
			out.Unassigned = append(out.Unassigned, rec)
		}
	}
	return out
}

// bestCandidate returns the index of the highest-suitability unassigned
// candidate for the section, or -1 if none remain. Ties resolve to the
// earlier diverse-set position (higher quality rank).
//
// Candidates whose asserted category contradicts the section are never
// picked: a cross-category fill is the caller's backfill decision, so the
// gap is reported as a shortfall instead. Unknown-category candidates stay
// eligible everywhere.
func bestCandidate(candidates []ImageRecord, assigned []bool, req SectionRequirement, areaCutoff int) int {
	best := -1
	bestScore := 0.0
	for i, rec := range candidates {
		if assigned[i] {
			continue
		}
		if rec.Content.Category != CategoryUnknown && rec.Content.Category != req.Section.category() {
			continue
		}
		score := suitability(rec, req, areaCutoff)
		if best < 0 || score > bestScore {
			best = i
			bestScore = score
		}
	}
	return best
}

// suitability scores one (section, candidate) pair.
func suitability(rec ImageRecord, req SectionRequirement, areaCutoff int) float64 {
	affinity := 0.1
	switch rec.Content.Category {
	case req.Section.category():
		affinity = 1.0
	case CategoryUnknown:
		affinity = 0.5
	}

	size := 0.0
	if req.PreferLarge && areaCutoff > 0 && rec.pixelArea() >= areaCutoff {
		size = 1.0
	}

	return affinity*affinityWeight + rec.overallScore()*qualityWeight + size*sizeWeight
}

// medianArea returns the median pixel area over candidates with known
// dimensions, or 0 when no candidate has dimensions. Candidates at or above
// the median are "top half" for the size bonus.
func medianArea(candidates []ImageRecord) int {
	areas := make([]int, 0, len(candidates))
	for _, rec := range candidates {
		if a := rec.pixelArea(); a > 0 {
			areas = append(areas, a)
		}
	}
	if len(areas) == 0 {
		return 0
	}
	sort.Ints(areas)
	return areas[len(areas)/2]
}
