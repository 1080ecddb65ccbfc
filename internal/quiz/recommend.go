package quiz

import (
	"fmt"
	"sort"
)

// RecommendationState selects which recommendation mode applies to a result.
type RecommendationState string

const (
	StateQuickWins   RecommendationState = "quick-wins"
	StateNextHorizon RecommendationState = "next-horizon"
	StateMaintain    RecommendationState = "maintain"
)

// ParseRecommendationState validates a wire value.
func ParseRecommendationState(s string) (RecommendationState, error) {
	switch st := RecommendationState(s); st {
	case StateQuickWins, StateNextHorizon, StateMaintain:
		return st, nil
	}
	return "", fmt.Errorf("unknown recommendation state %q", s)
}

// DefaultWeakCount is the number of categories surfaced as weakest.
const DefaultWeakCount = 3

// advancedShown caps the advanced actions listed per category.
const advancedShown = 2

// WeakCategories returns the categories strictly below their threshold, in
// declaration order.
func WeakCategories(averages CategoryAverages) []Category {
	var out []Category
	for _, c := range categories {
		if averages[c] < Threshold(c) {
			out = append(out, c)
		}
	}
	return out
}

// SelectState applies the threshold table and headroom ceiling.
func SelectState(averages CategoryAverages) RecommendationState {
	if len(WeakCategories(averages)) > 0 {
		return StateQuickWins
	}
	for _, c := range categories {
		if averages[c] < HeadroomCeiling {
			return StateNextHorizon
		}
	}
	return StateMaintain
}

// TopWeak returns the n lowest-scoring categories, ascending. Equal scores
// keep declaration order.
func TopWeak(averages CategoryAverages, n int) []Category {
	if n <= 0 {
		return nil
	}
	ordered := Categories()
	sort.SliceStable(ordered, func(i, j int) bool {
		return averages[ordered[i]] < averages[ordered[j]]
	})
	if n > len(ordered) {
		n = len(ordered)
	}
	return ordered[:n]
}

// ActionGroup is the set of actions presented for one category.
type ActionGroup struct {
	Category Category `json:"category"`
	Label    string   `json:"label"`
	Score    float64  `json:"score"`
	Primary  string   `json:"primary"`
	Actions  []string `json:"actions"`
}

// Recommendation is the presentable outcome of the selector.
type Recommendation struct {
	State     RecommendationState `json:"state"`
	Headline  string              `json:"headline"`
	Groups    []ActionGroup       `json:"groups,omitempty"`
	Checklist []string            `json:"checklist,omitempty"`
}

// Recommend builds the action list for the state implied by averages.
//
// quick-wins: one group per topWeak category; Primary is the first basic
// action and Actions the full basic list.
// next-horizon: one group per category below the headroom ceiling with up to
// two advanced actions.
// maintain: the fixed checklist.
func Recommend(averages CategoryAverages) Recommendation {
	state := SelectState(averages)
	rec := Recommendation{State: state}

	switch state {
	case StateQuickWins:
		rec.Headline = "Focus on these quick wins to improve your score:"
		for _, c := range TopWeak(averages, DefaultWeakCount) {
			basic := BasicActions(c)
			rec.Groups = append(rec.Groups, ActionGroup{
				Category: c,
				Label:    c.Label(),
				Score:    averages[c],
				Primary:  basic[0],
				Actions:  basic,
			})
		}
	case StateNextHorizon:
		rec.Headline = "Your foundation is strong. Consider these advanced initiatives:"
		for _, c := range categories {
			if averages[c] >= HeadroomCeiling {
				continue
			}
			adv := AdvancedActions(c)[:advancedShown]
			rec.Groups = append(rec.Groups, ActionGroup{
				Category: c,
				Label:    c.Label(),
				Score:    averages[c],
				Primary:  adv[0],
				Actions:  adv,
			})
		}
	default:
		rec.Headline = "Excellent performance! Focus on sustaining your success:"
		rec.Checklist = MaintenanceChecklist()
	}
	return rec
}
