package curate

// Grade buckets an overall quality score for quick human triage.
type Grade int

const (
	GradeA Grade = iota // >= 0.85
	GradeB              // >= 0.70
	GradeC              // >= 0.55
	GradeD              // >= 0.40
	GradeF
)

func (g Grade) String() string {
	switch g {
	case GradeA:
		return "A"
	case GradeB:
		return "B"
	case GradeC:
		return "C"
	case GradeD:
		return "D"
	default:
		return "F"
	}
}

// MetricWeights weights the six raw metrics when computing the overall score.
// A zero or negative field means "default weight 1.0"; there is no way (and
// no need) to fully mute a metric.
type MetricWeights struct {
	Resolution   float64
	Sharpness    float64
	Noise        float64
	ColorQuality float64
	Lighting     float64
	Compression  float64
}

// QualityAssessment is the immutable result of scoring one image's metrics.
type QualityAssessment struct {
	Components     RawMetrics // clamped copies of the input metrics
	OverallScore   float64    // weighted mean in [0,1]
	Grade          Grade
	Recommendation string // keyed off the single lowest-scoring metric
}

// metricNames fixes the metric order so recommendations stay deterministic
// for equal-scoring metrics.
var metricNames = [6]string{
	"resolution", "sharpness", "noise", "colorQuality", "lighting", "compression",
}

// recommendations maps the weakest metric to a short remediation hint.
var recommendations = map[string]string{
	"resolution":   "increase resolution: source a larger original",
	"sharpness":    "improve sharpness: refocus or reduce motion blur",
	"noise":        "reduce noise: better lighting or lower ISO",
	"colorQuality": "improve color quality: correct white balance",
	"lighting":     "improve lighting: avoid under/overexposure",
	"compression":  "reduce compression artifacts: export at higher quality",
}

// AssessQuality combines six pre-normalized metric scores into a single
// weighted overall score and grade. Out-of-range metrics are clamped to
// [0,1]. A nil weights pointer means equal weighting.
func AssessQuality(m RawMetrics, w *MetricWeights) QualityAssessment {
	clamped := RawMetrics{
		Resolution:   clamp01(m.Resolution),
		Sharpness:    clamp01(m.Sharpness),
		Noise:        clamp01(m.Noise),
		ColorQuality: clamp01(m.ColorQuality),
		Lighting:     clamp01(m.Lighting),
		Compression:  clamp01(m.Compression),
	}

	scores := [6]float64{
		clamped.Resolution, clamped.Sharpness, clamped.Noise,
		clamped.ColorQuality, clamped.Lighting, clamped.Compression,
	}
	weights := [6]float64{1, 1, 1, 1, 1, 1}
	if w != nil {
		raw := [6]float64{
			w.Resolution, w.Sharpness, w.Noise,
			w.ColorQuality, w.Lighting, w.Compression,
		}
		for i, v := range raw {
			if v > 0 {
				weights[i] = v
			}
		}
	}

	var sum, wsum float64
	for i := range scores {
		sum += scores[i] * weights[i]
		wsum += weights[i]
	}
	overall := clamp01(sum / wsum)

	// Lowest metric drives the recommendation; ties resolve to the first in
	// the fixed metric order.
	lowest := 0
	for i := 1; i < len(scores); i++ {
		if scores[i] < scores[lowest] {
			lowest = i
		}
	}

	return QualityAssessment{
		Components:     clamped,
		OverallScore:   overall,
		Grade:          gradeFor(overall),
		Recommendation: recommendations[metricNames[lowest]],
	}
}

func gradeFor(score float64) Grade {
	switch {
	case score >= 0.85:
		return GradeA
	case score >= 0.70:
		return GradeB
	case score >= 0.55:
		return GradeC
	case score >= 0.40:
		return GradeD
	default:
		return GradeF
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
