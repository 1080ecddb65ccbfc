package quiz

import (
	"math"
	"strings"
)

// Result is the plain data snapshot handed to report rendering and delivery.
type Result struct {
	Company             string              `json:"company,omitempty"`
	TotalScore          float64             `json:"totalScore"`
	Persona             Persona             `json:"persona"`
	CategoryScores      CategoryAverages    `json:"categoryScores"`
	Top3Weak            []Category          `json:"top3Weak"`
	RecommendationState RecommendationState `json:"recommendationState"`
	Recommendation      Recommendation      `json:"recommendation"`
	Answered            int                 `json:"answered"`
	Complete            bool                `json:"complete"`
}

// Evaluate scores answers and derives persona and recommendations. It does
// not enforce completeness; callers gate final results on AnswerSet.Complete.
func Evaluate(company string, answers AnswerSet) Result {
	averages, overall := Score(answers)
	answered := 0
	for _, q := range questions {
		if _, ok := answers[q.ID]; ok {
			answered++
		}
	}
	rec := Recommend(averages)
	return Result{
		Company:             strings.TrimSpace(company),
		TotalScore:          overall,
		Persona:             Classify(overall),
		CategoryScores:      averages,
		Top3Weak:            TopWeak(averages, DefaultWeakCount),
		RecommendationState: rec.State,
		Recommendation:      rec,
		Answered:            answered,
		Complete:            answered == len(questions),
	}
}

// DisplayScore is the overall score rounded for presentation.
func (r Result) DisplayScore() int {
	return RoundScore(r.TotalScore)
}

// RoundScore rounds half away from zero to a whole percentage.
func RoundScore(v float64) int {
	return int(math.Round(v))
}
