package curate

import (
	"context"
	"errors"
	"log/slog"
	"sync"
)

// ErrEmptyBatch rejects requests with no images before any processing. It is
// the only hard failure in the pipeline: everything downstream degrades into
// the result data instead (unknown categories, shortfalls).
var ErrEmptyBatch = errors.New("curate: empty image batch")

// EnrichOpts configures the parallel per-image phase.
type EnrichOpts struct {
	Weights *MetricWeights // quality weighting (nil = equal weights)

	// FetchImages downloads each image once to extract dimensions, a
	// perceptual hash, and embedded keyword metadata. Off by default:
	// the pipeline works on external signals alone.
	FetchImages bool

	// SkipContent skips the analyzer entirely. Used by quality-only
	// batches so they never burn vision-backend quota.
	SkipContent bool
}

// DiversityOpts configures AnalyzeDiversity.
type DiversityOpts struct {
	SimilarityThreshold float64 // default: DefaultSimilarityThreshold
	CategoryCap         int     // per-category recommendation cap (<= 0: unlimited)
	Weights             *MetricWeights
	FetchImages         bool
}

// MatchOpts configures MatchSections.
type MatchOpts struct {
	Requirements        []SectionRequirement
	SimilarityThreshold float64
	CategoryCap         int
	Weights             *MetricWeights
	FetchImages         bool
}

// AssessBatch scores every image's raw quality metrics, returning one
// assessment per input URL in input order.
func (cfg *Config) AssessBatch(ctx context.Context, imageURLs []string, weights *MetricWeights) ([]QualityAssessment, error) {
	records, err := cfg.EnrichBatch(ctx, imageURLs, EnrichOpts{Weights: weights, SkipContent: true})
	if err != nil {
		return nil, err
	}
	out := make([]QualityAssessment, len(records))
	for i, rec := range records {
		out[i] = *rec.Quality
	}
	return out, nil
}

// AnalyzeDiversity runs the full dedup pipeline: per-image enrichment,
// similarity clustering, and representative selection. With FetchImages set,
// perceptually identical files are dropped before clustering, so the same
// file listed under several URLs contributes one record.
func (cfg *Config) AnalyzeDiversity(ctx context.Context, imageURLs []string, opts DiversityOpts) (DiversityResult, error) {
	records, err := cfg.EnrichBatch(ctx, imageURLs, EnrichOpts{
		Weights:     opts.Weights,
		FetchImages: opts.FetchImages,
	})
	if err != nil {
		return DiversityResult{}, err
	}

	if opts.FetchImages {
		filter := &PerceptualFilter{}
		records = filter.Filter(records)
	}

	groups := ClusterSimilar(records, opts.SimilarityThreshold)
	return SelectDiverse(groups, opts.CategoryCap), nil
}

// MatchSections curates the batch and assigns the diverse set to page
// sections. Shortfalls are reported in the result, never as an error.
func (cfg *Config) MatchSections(ctx context.Context, imageURLs []string, opts MatchOpts) (SectionAssignment, error) {
	div, err := cfg.AnalyzeDiversity(ctx, imageURLs, DiversityOpts{
		SimilarityThreshold: opts.SimilarityThreshold,
		CategoryCap:         opts.CategoryCap,
		Weights:             opts.Weights,
		FetchImages:         opts.FetchImages,
	})
	if err != nil {
		return SectionAssignment{}, err
	}
	return AllocateSections(div, opts.Requirements), nil
}

// EnrichBatch runs the parallel per-image phase: quality measurement,
// content analysis (cache-first), and optional pixel enrichment. It blocks
// until every image finished (the barrier before the batch-level stages) and
// returns records in input order.
//
// Per-image external failures degrade locally (a failed analysis yields
// unknown/confidence-0 features, a failed measurement yields zero metrics),
// but batch cancellation is all-or-nothing: a cancelled context returns the
// context error and no partial records.
func (cfg *Config) EnrichBatch(ctx context.Context, imageURLs []string, opts EnrichOpts) ([]ImageRecord, error) {
	if len(imageURLs) == 0 {
		return nil, ErrEmptyBatch
	}
	cfg.defaults()

	records := make([]ImageRecord, len(imageURLs))
	sem := make(chan struct{}, cfg.MaxWorkers)
	var wg sync.WaitGroup

	for i, url := range imageURLs {
		wg.Add(1)
		go func(i int, url string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			defer func() {
				if r := recover(); r != nil {
					// Same degraded record a failed measurement produces:
					// zero metrics, unknown content. Downstream stages must
					// never see a record without an assessment.
					qa := AssessQuality(RawMetrics{}, opts.Weights)
					records[i] = ImageRecord{
						ImageURL: url,
						Quality:  &qa,
						Content:  ContentFeatures{Category: CategoryUnknown},
					}
					if cfg.OnPanic != nil {
						cfg.OnPanic("enrichBatch", r)
					}
				}
			}()

			records[i] = cfg.enrichOne(ctx, url, opts)
		}(i, url)
	}
	wg.Wait()

	// All-or-nothing per batch: no partial results after cancellation.
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return records, nil
}

// enrichOne builds the immutable record for a single image.
func (cfg *Config) enrichOne(ctx context.Context, url string, opts EnrichOpts) ImageRecord {
	rec := ImageRecord{ImageURL: url}

	rec.Quality = cfg.measureQuality(ctx, url, opts.Weights)

	var pixels pixelInfo
	if opts.FetchImages {
		pixels = cfg.enrichPixels(ctx, url)
		rec.Width, rec.Height = pixels.width, pixels.height
		rec.PHash = pixels.hash
	}

	if opts.SkipContent {
		rec.Content = ContentFeatures{Category: CategoryUnknown}
		return rec
	}

	rec.Content = cfg.describeImage(ctx, url)
	if rec.Content.Category == CategoryUnknown && rec.Content.Confidence == 0 && len(rec.Content.Attributes) == 0 {
		rec.Content = fallbackFeatures(url, pixels.keywords)
	}

	return rec
}

// measureQuality calls the external measurement routine and scores the
// result. A nil Measurer or a failed call degrades to zero metrics.
func (cfg *Config) measureQuality(ctx context.Context, url string, weights *MetricWeights) *QualityAssessment {
	var metrics RawMetrics
	if cfg.Measurer != nil {
		m, err := cfg.Measurer.Measure(ctx, url)
		if err != nil {
			slog.Warn("curate: quality measurement failed", "url", url, "error", err.Error())
		} else {
			metrics = m
		}
	}
	qa := AssessQuality(metrics, weights)
	return &qa
}

// describeImage fetches content features from the analyzer, cache-first.
// The analyzer's failure mode is fully absorbed here (via DescribeContent);
// downstream stages only ever see valid features.
func (cfg *Config) describeImage(ctx context.Context, url string) ContentFeatures {
	if cfg.Analyzer == nil {
		return ContentFeatures{Category: CategoryUnknown}
	}

	if cfg.Cache != nil {
		key := cfg.Cache.Key("content_analysis", url)
		var cached ContentAnalysis
		if cfg.Cache.Get(ctx, key, &cached) {
			return DescribeContent(&cached, nil)
		}
		res, err := cfg.Analyzer.Analyze(ctx, url)
		if err == nil && res != nil {
			cfg.Cache.Set(ctx, key, *res)
		}
		return cfg.noteAnalysis(url, DescribeContent(res, err), err)
	}

	res, err := cfg.Analyzer.Analyze(ctx, url)
	return cfg.noteAnalysis(url, DescribeContent(res, err), err)
}

func (cfg *Config) noteAnalysis(url string, features ContentFeatures, err error) ContentFeatures {
	degraded := err != nil || (features.Category == CategoryUnknown && features.Confidence == 0)
	if err != nil {
		slog.Warn("curate: content analysis degraded", "url", url, "error", err.Error())
	}
	if cfg.OnAnalysis != nil {
		cfg.OnAnalysis(url, degraded)
	}
	return features
}
