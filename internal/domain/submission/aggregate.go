package submission

import "math"

// ══════════════════════════════════════════════════════════════════════════════
// AGGREGATES
// Derived, never stored independently: each aggregate is a stateless fold
// over a ledger snapshot. Recomputing twice over the same snapshot yields
// identical results.
// ══════════════════════════════════════════════════════════════════════════════

// averagePrecision is the number of decimal places averages are rounded to.
const averagePrecision = 2

// PlayerAggregate summarizes one player's submissions.
type PlayerAggregate struct {
	// RiddlesAnswered is the number of submissions.
	RiddlesAnswered int `json:"riddlesAnswered"`

	// TotalScore is the sum of submission scores.
	TotalScore int `json:"totalScore"`

	// AverageScore is TotalScore / RiddlesAnswered rounded to two decimals,
	// 0 when the player has no submissions.
	AverageScore float64 `json:"averageScore"`
}

// RiddleAggregate summarizes all submissions for one riddle.
type RiddleAggregate struct {
	// TimesAnswered is the number of submissions.
	TimesAnswered int `json:"timesAnswered"`

	// AvgScore is the mean score, two decimals, 0 when empty.
	AvgScore float64 `json:"avgScore"`

	// AvgDistanceMeters is the mean guess distance, two decimals, 0 when empty.
	AvgDistanceMeters float64 `json:"avgDistanceMeters"`

	// AvgTimeSeconds is the mean elapsed time, two decimals, 0 when empty.
	AvgTimeSeconds float64 `json:"avgTimeSeconds"`
}

// AggregatePlayer folds a player's submissions into a PlayerAggregate.
func AggregatePlayer(subs []*Submission) PlayerAggregate {
	agg := PlayerAggregate{}
	for _, s := range subs {
		agg.RiddlesAnswered++
		agg.TotalScore += s.Score
	}
	if agg.RiddlesAnswered > 0 {
		agg.AverageScore = roundTo(float64(agg.TotalScore)/float64(agg.RiddlesAnswered), averagePrecision)
	}
	return agg
}

// AggregateRiddle folds a riddle's submissions into a RiddleAggregate.
func AggregateRiddle(subs []*Submission) RiddleAggregate {
	agg := RiddleAggregate{}
	var sumScore, sumDistance, sumTime float64
	for _, s := range subs {
		agg.TimesAnswered++
		sumScore += float64(s.Score)
		sumDistance += s.DistanceMeters
		sumTime += s.ElapsedSeconds
	}
	if agg.TimesAnswered > 0 {
		n := float64(agg.TimesAnswered)
		agg.AvgScore = roundTo(sumScore/n, averagePrecision)
		agg.AvgDistanceMeters = roundTo(sumDistance/n, averagePrecision)
		agg.AvgTimeSeconds = roundTo(sumTime/n, averagePrecision)
	}
	return agg
}

// roundTo rounds half away from zero to the given number of decimals.
func roundTo(v float64, decimals int) float64 {
	pow := math.Pow(10, float64(decimals))
	return math.Round(v*pow) / pow
}
