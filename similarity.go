package curate

// DefaultSimilarityThreshold is the minimum pairwise similarity for two
// images to be connected in the redundancy graph.
const DefaultSimilarityThreshold = 0.8

// dHashBits is the size of the goimagehash difference hash in bits.
const dHashBits = 64

// Similarity computes a pairwise similarity score in [0,1] between two
// records. Content features are the primary signal: category match plus
// attribute-set Jaccard overlap, damped toward the neutral 0.5 by the lower
// of the two confidences so low-confidence pairs are asserted neither
// similar nor dissimilar. When both records carry a perceptual hash, hash
// agreement acts as an independent lower bound: two visually identical
// files merge even when the analyzer disagreed about them.
func Similarity(a, b ImageRecord) float64 {
	sim := contentSimilarity(a, b)

	if a.PHash != nil && b.PHash != nil {
		if dist, err := a.PHash.Distance(b.PHash); err == nil {
			phSim := 1 - float64(dist)/dHashBits
			if phSim > sim {
				sim = phSim
			}
		}
	}

	return clamp01(sim)
}

// contentSimilarity scores the content-feature signals only.
func contentSimilarity(a, b ImageRecord) float64 {
	var sum, wsum float64

	// Category match counts only when both categories are asserted; an
	// unknown category on either side says nothing about redundancy.
	if a.Content.Category != CategoryUnknown && b.Content.Category != CategoryUnknown {
		if a.Content.Category == b.Content.Category {
			sum += 1
		}
		wsum += 1
	}

	if len(a.Content.Attributes) > 0 || len(b.Content.Attributes) > 0 {
		sum += jaccard(a.Content.Attributes, b.Content.Attributes)
		wsum += 1
	}

	if wsum == 0 {
		return 0.5 // no content evidence either way
	}

	raw := sum / wsum
	conf := min(a.Content.Confidence, b.Content.Confidence)
	return 0.5 + conf*(raw-0.5)
}

// jaccard computes |a∩b| / |a∪b| over two sorted, deduped tag slices.
func jaccard(a, b []string) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 0
	}
	inter := 0
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i] == b[j]:
			inter++
			i++
			j++
		case a[i] < b[j]:
			i++
		default:
			j++
		}
	}
	union := len(a) + len(b) - inter
	return float64(inter) / float64(union)
}

// ClusterSimilar partitions a batch into redundancy groups: connected
// components of the graph whose edges are pairs with Similarity >= threshold
// (threshold <= 0 means DefaultSimilarityThreshold). Transitively-similar
// chains merge into one group even when the chain endpoints fall below the
// threshold directly.
//
// Component membership is stable under permutation of the input; member
// order inside each group, and the order of the groups themselves, follow
// the batch order.
func ClusterSimilar(images []ImageRecord, threshold float64) []SimilarityGroup {
	if len(images) == 0 {
		return nil
	}
	if threshold <= 0 {
		threshold = DefaultSimilarityThreshold
	}

	uf := newUnionFind(len(images))
	for i := 0; i < len(images); i++ {
		for j := i + 1; j < len(images); j++ {
			if Similarity(images[i], images[j]) >= threshold {
				uf.union(i, j)
			}
		}
	}

	// Collect components preserving batch order: a group appears at the
	// position of its first member.
	order := make([]int, 0, len(images))
	members := make(map[int][]ImageRecord, len(images))
	for i, rec := range images {
		root := uf.find(i)
		if _, ok := members[root]; !ok {
			order = append(order, root)
		}
		members[root] = append(members[root], rec)
	}

	groups := make([]SimilarityGroup, 0, len(order))
	for _, root := range order {
		groups = append(groups, SimilarityGroup{Members: members[root]})
	}
	return groups
}

// unionFind is a plain disjoint-set over batch indices.
type unionFind struct {
	parent []int
}

func newUnionFind(n int) *unionFind {
	parent := make([]int, n)
	for i := range parent {
		parent[i] = i
	}
	return &unionFind{parent: parent}
}

func (u *unionFind) find(x int) int {
	for u.parent[x] != x {
		u.parent[x] = u.parent[u.parent[x]] // path halving
		x = u.parent[x]
	}
	return x
}

// union attaches the larger root to the smaller one so the representative
// index of a component never depends on merge order.
func (u *unionFind) union(a, b int) {
	ra, rb := u.find(a), u.find(b)
	if ra == rb {
		return
	}
	if ra < rb {
		u.parent[rb] = ra
	} else {
		u.parent[ra] = rb
	}
}
