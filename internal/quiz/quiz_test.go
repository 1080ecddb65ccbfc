package quiz

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

func uniformAnswers(value int) AnswerSet {
	a := AnswerSet{}
	for _, q := range Questions() {
		a[q.ID] = value
	}
	return a
}

// mixedAnswers is a complete, valid answer set landing in quick-wins.
func mixedAnswers() AnswerSet {
	return AnswerSet{
		"q1": 90, "q3": 80, "q10": 85,
		"q2": 75, "q11": 80,
		"q4": 85, "q9": 80,
		"q5": 80, "q6": 60,
		"q7": 80, "q12": 100,
		"q8": 60,
	}
}

// strongAnswers clears every threshold but leaves headroom in three categories.
func strongAnswers() AnswerSet {
	return AnswerSet{
		"q1": 100, "q3": 100, "q10": 100,
		"q2": 95, "q11": 80,
		"q4": 100, "q9": 100,
		"q5": 100, "q6": 80,
		"q7": 100, "q12": 100,
		"q8": 80,
	}
}

func randomAnswers(r *rand.Rand) AnswerSet {
	a := AnswerSet{}
	for _, q := range Questions() {
		if r.Intn(4) == 0 {
			continue
		}
		a[q.ID] = q.Options[r.Intn(len(q.Options))].Value
	}
	return a
}

// ==========================
// Catalog Tests
// ==========================

func TestValidateCatalog(t *testing.T) {
	require.NoError(t, ValidateCatalog())
	assert.Equal(t, 12, QuestionCount())
}

func TestCatalog_WeightsSumToOne(t *testing.T) {
	var sum float64
	for _, c := range Categories() {
		sum += Weight(c)
	}
	assert.InDelta(t, 1.0, sum, 1e-9)
}

func TestCatalog_EveryCategoryHasQuestions(t *testing.T) {
	for _, c := range Categories() {
		assert.NotEmpty(t, QuestionsIn(c), "category %s", c)
	}
}

func TestCatalog_Tables(t *testing.T) {
	tests := []struct {
		category    Category
		weight      float64
		threshold   float64
		weightLabel string
		label       string
	}{
		{CategoryFirstTimeFix, 0.25, 86, "25%", "First-Time-Fix"},
		{CategoryRemoteTriage, 0.20, 75, "20%", "Remote Triage"},
		{CategoryParts, 0.20, 91, "20%", "Parts Availability"},
		{CategoryETA, 0.15, 80, "15%", "ETA Discipline"},
		{CategoryPlaybooks, 0.10, 80, "10%", "Playbooks"},
		{CategoryPredictive, 0.10, 80, "10%", "Predictive Monitoring"},
	}

	for _, tt := range tests {
		t.Run(string(tt.category), func(t *testing.T) {
			assert.Equal(t, tt.weight, Weight(tt.category))
			assert.Equal(t, tt.threshold, Threshold(tt.category))
			assert.Equal(t, tt.weightLabel, WeightLabel(tt.category))
			assert.Equal(t, tt.label, tt.category.Label())
			assert.Len(t, BasicActions(tt.category), 3)
			assert.Len(t, AdvancedActions(tt.category), 3)
		})
	}
}

func TestCatalog_AccessorsReturnCopies(t *testing.T) {
	actions := BasicActions(CategoryParts)
	actions[0] = "changed"
	assert.Equal(t, "Create 5 service kits for your top failure modes.", BasicActions(CategoryParts)[0])

	cats := Categories()
	cats[0] = CategoryPredictive
	assert.Equal(t, CategoryFirstTimeFix, Categories()[0])
}

func TestParseCategory(t *testing.T) {
	c, ok := ParseCategory("ETA")
	assert.True(t, ok)
	assert.Equal(t, CategoryETA, c)

	_, ok = ParseCategory("Marketing")
	assert.False(t, ok)
}

// ==========================
// Answer Set Tests
// ==========================

func TestAnswerSet_Validate(t *testing.T) {
	tests := []struct {
		name    string
		answers AnswerSet
		wantErr error
	}{
		{name: "complete valid set", answers: mixedAnswers()},
		{name: "partial valid set", answers: AnswerSet{"q1": 20, "q12": 50}},
		{name: "empty set", answers: AnswerSet{}},
		{name: "unknown id", answers: AnswerSet{"q13": 50}, wantErr: ErrUnknownQuestion},
		{name: "value not an option", answers: AnswerSet{"q12": 60}, wantErr: ErrInvalidValue},
		{name: "unknown id reported first by id order", answers: AnswerSet{"q1": 1, "a0": 1}, wantErr: ErrUnknownQuestion},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.answers.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestAnswerSet_Missing(t *testing.T) {
	a := AnswerSet{"q1": 20, "q3": 10}
	missing := a.Missing()
	assert.Len(t, missing, 10)
	assert.Equal(t, "q2", missing[0])
	assert.False(t, a.Complete())
	assert.True(t, mixedAnswers().Complete())
}

// ==========================
// Scoring Tests
// ==========================

func TestScore_ScenarioA_AllHundred(t *testing.T) {
	averages, overall := Score(uniformAnswers(100))

	for _, c := range Categories() {
		assert.Equal(t, 100.0, averages[c], "category %s", c)
	}
	assert.InDelta(t, 100.0, overall, 1e-9)
	assert.Equal(t, PersonaPredictor, Classify(overall))
	assert.Equal(t, StateMaintain, SelectState(averages))
}

func TestScore_ScenarioB_AllZero(t *testing.T) {
	averages, overall := Score(uniformAnswers(0))

	assert.Equal(t, 0.0, overall)
	assert.Equal(t, PersonaResponder, Classify(overall))
	assert.Equal(t, StateQuickWins, SelectState(averages))
	assert.Equal(t, Categories(), WeakCategories(averages))
}

func TestScore_ScenarioC_ThresholdIsInclusive(t *testing.T) {
	answers := uniformAnswers(100)
	answers["q1"] = 86
	answers["q3"] = 86
	answers["q10"] = 86

	averages, _ := Score(answers)

	assert.Equal(t, 86.0, averages[CategoryFirstTimeFix])
	assert.NotContains(t, WeakCategories(averages), CategoryFirstTimeFix)
	assert.Equal(t, StateNextHorizon, SelectState(averages))
}

func TestScore_ScenarioD_PartialAnswers(t *testing.T) {
	averages, overall := Score(AnswerSet{"q1": 90, "q2": 55})

	assert.Equal(t, 90.0, averages[CategoryFirstTimeFix])
	assert.Equal(t, 55.0, averages[CategoryRemoteTriage])
	for _, c := range []Category{CategoryParts, CategoryETA, CategoryPlaybooks, CategoryPredictive} {
		v, ok := averages[c]
		assert.True(t, ok, "category %s must be present", c)
		assert.Equal(t, 0.0, v)
	}
	assert.InDelta(t, 33.5, overall, 1e-9)
}

func TestScore_MixedAnswers(t *testing.T) {
	averages, overall := Score(mixedAnswers())

	assert.InDelta(t, 85.0, averages[CategoryFirstTimeFix], 1e-9)
	assert.InDelta(t, 77.5, averages[CategoryRemoteTriage], 1e-9)
	assert.InDelta(t, 82.5, averages[CategoryParts], 1e-9)
	assert.InDelta(t, 70.0, averages[CategoryETA], 1e-9)
	assert.InDelta(t, 90.0, averages[CategoryPlaybooks], 1e-9)
	assert.InDelta(t, 60.0, averages[CategoryPredictive], 1e-9)
	assert.InDelta(t, 78.75, overall, 1e-9)
}

func TestScore_IgnoresUnknownIDs(t *testing.T) {
	withExtra := mixedAnswers()
	withExtra["bonus"] = 100

	a1, o1 := Score(mixedAnswers())
	a2, o2 := Score(withExtra)
	assert.Equal(t, a1, a2)
	assert.Equal(t, o1, o2)
}

func TestScore_Properties(t *testing.T) {
	r := rand.New(rand.NewSource(42))

	for i := 0; i < 500; i++ {
		answers := randomAnswers(r)
		averages, overall := Score(answers)

		assert.GreaterOrEqual(t, overall, 0.0)
		assert.LessOrEqual(t, overall, 100.0)

		var weighted float64
		allHigh := true
		anyWeak := false
		for _, c := range Categories() {
			weighted += averages[c] * Weight(c)
			if averages[c] < HeadroomCeiling {
				allHigh = false
			}
			if averages[c] < Threshold(c) {
				anyWeak = true
			}
		}
		assert.InDelta(t, weighted, overall, 1e-9)

		state := SelectState(averages)
		assert.Equal(t, allHigh, state == StateMaintain, "answers %v", answers)
		assert.Equal(t, anyWeak, state == StateQuickWins, "answers %v", answers)

		again, overallAgain := Score(answers)
		assert.Equal(t, averages, again)
		assert.Equal(t, overall, overallAgain)
	}
}

// ==========================
// Persona Tests
// ==========================

func TestClassify_Boundaries(t *testing.T) {
	tests := []struct {
		score float64
		want  Persona
	}{
		{100, PersonaPredictor},
		{85, PersonaPredictor},
		{84.99, PersonaOptimizer},
		{70, PersonaOptimizer},
		{69.99, PersonaStabiliser},
		{40, PersonaStabiliser},
		{39.99, PersonaResponder},
		{0, PersonaResponder},
	}

	for _, tt := range tests {
		got := Classify(tt.score)
		assert.Equal(t, tt.want.Name, got.Name, "score %v", tt.score)
		assert.NotEmpty(t, got.Blurb)
	}
}

func TestClassify_Monotonic(t *testing.T) {
	prev := Classify(0)
	for s := 0.0; s <= 100.0; s += 0.25 {
		cur := Classify(s)
		assert.GreaterOrEqual(t, cur.Tier, prev.Tier, "score %v", s)
		prev = cur
	}
}

// ==========================
// Recommendation Tests
// ==========================

func TestTopWeak(t *testing.T) {
	averages, _ := Score(mixedAnswers())
	assert.Equal(t,
		[]Category{CategoryPredictive, CategoryETA, CategoryRemoteTriage},
		TopWeak(averages, DefaultWeakCount))
}

func TestTopWeak_TiesKeepDeclarationOrder(t *testing.T) {
	averages, _ := Score(uniformAnswers(0))
	assert.Equal(t,
		[]Category{CategoryFirstTimeFix, CategoryRemoteTriage, CategoryParts},
		TopWeak(averages, 3))

	averages[CategoryPlaybooks] = -1
	assert.Equal(t,
		[]Category{CategoryPlaybooks, CategoryFirstTimeFix, CategoryRemoteTriage},
		TopWeak(averages, 3))
}

func TestTopWeak_Bounds(t *testing.T) {
	averages, _ := Score(mixedAnswers())
	assert.Nil(t, TopWeak(averages, 0))
	assert.Len(t, TopWeak(averages, 10), 6)
}

func TestRecommend_QuickWins(t *testing.T) {
	averages, _ := Score(mixedAnswers())
	rec := Recommend(averages)

	require.Equal(t, StateQuickWins, rec.State)
	require.Len(t, rec.Groups, 3)
	assert.Equal(t, CategoryPredictive, rec.Groups[0].Category)
	assert.Equal(t, "Run a 12-week predictive pilot on one critical subsystem.", rec.Groups[0].Primary)
	assert.Len(t, rec.Groups[0].Actions, 3)
	assert.Empty(t, rec.Checklist)
}

func TestRecommend_NextHorizon(t *testing.T) {
	averages, overall := Score(strongAnswers())
	assert.InDelta(t, 94.0, overall, 1e-9)

	rec := Recommend(averages)
	require.Equal(t, StateNextHorizon, rec.State)

	var got []Category
	for _, g := range rec.Groups {
		got = append(got, g.Category)
		assert.Len(t, g.Actions, 2)
		assert.Equal(t, AdvancedActions(g.Category)[0], g.Primary)
	}
	assert.Equal(t, []Category{CategoryRemoteTriage, CategoryETA, CategoryPredictive}, got)
}

func TestRecommend_Maintain(t *testing.T) {
	answers := uniformAnswers(100)
	answers["q2"] = 95

	averages, _ := Score(answers)
	rec := Recommend(averages)

	assert.Equal(t, StateMaintain, rec.State)
	assert.Empty(t, rec.Groups)
	assert.Equal(t, MaintenanceChecklist(), rec.Checklist)
	assert.Len(t, rec.Checklist, 4)
}

func TestParseRecommendationState(t *testing.T) {
	s, err := ParseRecommendationState("next-horizon")
	require.NoError(t, err)
	assert.Equal(t, StateNextHorizon, s)

	_, err = ParseRecommendationState("later")
	assert.Error(t, err)
}

// ==========================
// Evaluate Tests
// ==========================

func TestEvaluate(t *testing.T) {
	res := Evaluate("  Acme Service  ", mixedAnswers())

	assert.Equal(t, "Acme Service", res.Company)
	assert.InDelta(t, 78.75, res.TotalScore, 1e-9)
	assert.Equal(t, 79, res.DisplayScore())
	assert.Equal(t, PersonaOptimizer, res.Persona)
	assert.Equal(t, StateQuickWins, res.RecommendationState)
	assert.Equal(t, res.RecommendationState, res.Recommendation.State)
	assert.Len(t, res.Top3Weak, 3)
	assert.True(t, res.Complete)
	assert.Equal(t, 12, res.Answered)
}

func TestEvaluate_Partial(t *testing.T) {
	res := Evaluate("", AnswerSet{"q1": 90})
	assert.False(t, res.Complete)
	assert.Equal(t, 1, res.Answered)
	assert.Len(t, res.CategoryScores, 6)
}
