package quiz

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrUnknownQuestion = errors.New("unknown question")
	ErrInvalidValue    = errors.New("value is not an option of the question")
)

// AnswerSet maps question id to the selected option value.
type AnswerSet map[string]int

// Clone returns an independent copy of a.
func (a AnswerSet) Clone() AnswerSet {
	out := make(AnswerSet, len(a))
	for k, v := range a {
		out[k] = v
	}
	return out
}

// Validate rejects ids outside the catalog and values that are not one of the
// question's option values. All problems are reported, sorted by question id.
func (a AnswerSet) Validate() error {
	var problems []string
	var first error
	ids := make([]string, 0, len(a))
	for id := range a {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		q, ok := QuestionByID(id)
		if !ok {
			problems = append(problems, fmt.Sprintf("%s: unknown question", id))
			if first == nil {
				first = ErrUnknownQuestion
			}
			continue
		}
		if !q.HasValue(a[id]) {
			problems = append(problems, fmt.Sprintf("%s: %d is not an option value", id, a[id]))
			if first == nil {
				first = ErrInvalidValue
			}
		}
	}
	if len(problems) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %s", first, strings.Join(problems, "; "))
}

// Missing lists unanswered question ids in catalog order.
func (a AnswerSet) Missing() []string {
	var out []string
	for _, q := range questions {
		if _, ok := a[q.ID]; !ok {
			out = append(out, q.ID)
		}
	}
	return out
}

// Complete reports whether every catalog question has an answer.
func (a AnswerSet) Complete() bool {
	return len(a.Missing()) == 0
}

// CategoryAverages maps each category to the mean of its answered values.
type CategoryAverages map[Category]float64

// Ordered returns the averages in declaration order.
func (ca CategoryAverages) Ordered() []CategoryScore {
	out := make([]CategoryScore, 0, len(categories))
	for _, c := range categories {
		out = append(out, CategoryScore{Category: c, Score: ca[c]})
	}
	return out
}

// CategoryScore pairs a category with its average.
type CategoryScore struct {
	Category Category `json:"category"`
	Score    float64  `json:"score"`
}

// Score aggregates answers into per-category averages and the weighted
// overall score. Categories without answers average 0. Answers whose id is
// not in the catalog are ignored.
func Score(answers AnswerSet) (CategoryAverages, float64) {
	sums := make(map[Category]int, len(categories))
	counts := make(map[Category]int, len(categories))
	for _, q := range questions {
		v, ok := answers[q.ID]
		if !ok {
			continue
		}
		sums[q.Category] += v
		counts[q.Category]++
	}

	averages := make(CategoryAverages, len(categories))
	var overall float64
	for _, c := range categories {
		avg := 0.0
		if n := counts[c]; n > 0 {
			avg = float64(sums[c]) / float64(n)
		}
		averages[c] = avg
		overall += avg * Weight(c)
	}
	return averages, overall
}
