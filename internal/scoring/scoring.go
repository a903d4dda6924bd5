// Package scoring holds the pure calculation core: the weighted evaluation
// score formula, grade banding, and the forced-choice answer rules.
package scoring

// RatedItem is the minimal view of an evaluation item the calculator needs.
type RatedItem struct {
	Weight int // percentage of the technical bucket, 0-100
	Score  int // 1-5
}

// Result carries the three derived scores and the grade band.
type Result struct {
	BehaviorScore  float64 `json:"behavior_score"`
	TechnicalScore float64 `json:"technical_score"`
	FinalScore     float64 `json:"final_score"`
	Grade          string  `json:"grade"`
}

// Final score policy: behavior counts 40%, technical 60%. Fixed, not
// configurable per call.
const (
	behaviorShare  = 0.4
	technicalShare = 0.6
)

// Compute turns the rated items into the stored scores.
//
// Behavior is the plain mean of behavioral scores. Technical is the weighted
// sum of (weight/100 * score) and is deliberately NOT renormalized by the
// total weight: an item set covering less than 100% yields a proportionally
// lower technical score. Empty inputs contribute 0; Compute never fails.
func Compute(behavioral, technical []RatedItem) Result {
	var behavior float64
	if len(behavioral) > 0 {
		sum := 0
		for _, it := range behavioral {
			sum += it.Score
		}
		behavior = float64(sum) / float64(len(behavioral))
	}

	var tech float64
	for _, it := range technical {
		tech += float64(it.Weight) / 100 * float64(it.Score)
	}

	final := behavior*behaviorShare + tech*technicalShare

	return Result{
		BehaviorScore:  behavior,
		TechnicalScore: tech,
		FinalScore:     final,
		Grade:          Grade(final),
	}
}

// Grade maps a final score to its qualitative band. Intervals are closed on
// the upper bound: exactly 3.50 still bands to Fair/Need Improvement.
func Grade(final float64) string {
	switch {
	case final <= 1.50:
		return "Poor"
	case final <= 2.50:
		return "Unsatisfactory"
	case final <= 3.50:
		return "Fair/Need Improvement"
	case final <= 4.50:
		return "Good/Meet Expectation"
	default:
		return "Very Good/Exceed Expectation"
	}
}

// ScoreFromAchievement derives a 1-5 technical score from an achievement
// percentage (actual vs target): >101 is 5, >95 is 4, >75 is 3, >50 is 2,
// anything else 1.
func ScoreFromAchievement(pct float64) int {
	switch {
	case pct > 101:
		return 5
	case pct > 95:
		return 4
	case pct > 75:
		return 3
	case pct > 50:
		return 2
	default:
		return 1
	}
}

// AnnualAverage is the plain mean of final scores over a year's evaluations,
// 0 when the set is empty.
func AnnualAverage(finalScores []float64) float64 {
	if len(finalScores) == 0 {
		return 0
	}
	sum := 0.0
	for _, s := range finalScores {
		sum += s
	}
	return sum / float64(len(finalScores))
}
