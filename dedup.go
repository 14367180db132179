package curate

import (
	"log/slog"
	"sync"

	"github.com/corona10/goimagehash"
)

// DefaultDedupDistance is the maximum Hamming distance between two dHash
// values below which images are considered perceptually identical.
const DefaultDedupDistance = 10

// PerceptualFilter drops exact visual duplicates before clustering. Useful
// as a cheap prefilter when the same file is listed under several URLs; the
// clusterer still catches near-duplicates via content features. Safe for
// concurrent use; create one per batch.
type PerceptualFilter struct {
	// MaxDistance overrides DefaultDedupDistance when > 0.
	MaxDistance int

	mu     sync.Mutex
	hashes []*goimagehash.ImageHash
}

// Seen reports whether a perceptually identical hash was already recorded,
// recording the hash when it is new. A nil hash is never a duplicate
// (graceful degradation: unhashable images pass through).
func (f *PerceptualFilter) Seen(hash *goimagehash.ImageHash) bool {
	if hash == nil {
		return false
	}

	limit := f.MaxDistance
	if limit <= 0 {
		limit = DefaultDedupDistance
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	for _, h := range f.hashes {
		dist, err := hash.Distance(h)
		if err == nil && dist < limit {
			return true
		}
	}

	f.hashes = append(f.hashes, hash)
	return false
}

// Filter drops records whose hash duplicates an earlier record's, keeping
// the first occurrence and the input order. Records without a hash always
// pass.
func (f *PerceptualFilter) Filter(records []ImageRecord) []ImageRecord {
	kept := make([]ImageRecord, 0, len(records))
	for _, rec := range records {
		if f.Seen(rec.PHash) {
			slog.Debug("curate: perceptual duplicate dropped", "url", rec.ImageURL)
			continue
		}
		kept = append(kept, rec)
	}
	return kept
}
