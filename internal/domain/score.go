package domain

import "math"

// Quality score weights and bounds. The four components blend to a 0-100
// base from which the open-flag penalty is subtracted.
const (
	scoreWeightModerator  = 0.4
	scoreWeightHelpful    = 0.3
	scoreWeightEngagement = 0.2
	scoreWeightBaseline   = 0.1

	scoreNeutral        = 50.0
	scoreFlagPenaltyPer = 10
	scoreFlagPenaltyMax = 50
)

// ComputeQualityScore derives the 0-100 quality score of a submission from
// its reviews, votes, view counter and open flag count. With no reviews and
// no votes the score is the neutral 50. Each missing component falls back
// to neutral rather than dragging the score down.
func ComputeQualityScore(reviews []Review, votes []Vote, viewCount, helpfulCount, openFlagCount int) int {
	if len(reviews) == 0 && len(votes) == 0 {
		return int(scoreNeutral)
	}

	avgModerator := scoreNeutral
	ratingSum, ratingCount := 0, 0
	for _, r := range reviews {
		if r.QualityRating != nil {
			ratingSum += *r.QualityRating
			ratingCount++
		}
	}
	if ratingCount > 0 {
		avgModerator = float64(ratingSum) / float64(ratingCount) * 20
	}

	helpfulRatio := scoreNeutral
	if len(votes) > 0 {
		helpful := 0
		for _, v := range votes {
			if v.IsHelpful {
				helpful++
			}
		}
		helpfulRatio = float64(helpful) / float64(len(votes)) * 100
	}

	engagement := scoreNeutral
	if viewCount > 0 {
		engagement = clampFloat(float64(helpfulCount)/float64(viewCount)*100, 0, 100)
	}

	weighted := scoreWeightModerator*avgModerator +
		scoreWeightHelpful*helpfulRatio +
		scoreWeightEngagement*engagement +
		scoreWeightBaseline*scoreNeutral

	penalty := openFlagCount * scoreFlagPenaltyPer
	if penalty > scoreFlagPenaltyMax {
		penalty = scoreFlagPenaltyMax
	}

	score := int(math.Round(weighted)) - penalty
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
