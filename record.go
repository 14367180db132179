package curate

import "github.com/corona10/goimagehash"

// ImageRecord is the unit flowing through every pipeline stage. The URL is
// the identity key: two records with the same URL are the same image.
// Records are immutable once enrichment completes; downstream stages only
// read them.
type ImageRecord struct {
	ImageURL string
	Quality  *QualityAssessment // nil until assessed
	Content  ContentFeatures
	Width    int // 0 when unknown
	Height   int // 0 when unknown

	// PHash is the perceptual difference hash computed during enrichment,
	// nil when the image bytes were never fetched or could not be decoded.
	// Used as a supplementary similarity signal.
	PHash *goimagehash.ImageHash
}

// overallScore returns the quality score, treating an unassessed record as 0.
func (r ImageRecord) overallScore() float64 {
	if r.Quality == nil {
		return 0
	}
	return r.Quality.OverallScore
}

// pixelArea returns Width*Height, 0 when dimensions are unknown.
func (r ImageRecord) pixelArea() int {
	if r.Width <= 0 || r.Height <= 0 {
		return 0
	}
	return r.Width * r.Height
}

// SimilarityGroup is an ordered set of records judged mutually redundant.
// Groups partition their batch: every record belongs to exactly one group.
// Member order follows the original batch order.
type SimilarityGroup struct {
	Members []ImageRecord
}
