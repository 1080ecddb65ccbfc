package quiz

// Option is one selectable answer. Value is a hand-curated normalized score.
type Option struct {
	Label string `json:"label"`
	Value int    `json:"value"`
}

// Question is a single multiple-choice item of the catalog.
type Question struct {
	ID       string   `json:"id"`
	Text     string   `json:"text"`
	Category Category `json:"category"`
	Options  []Option `json:"options"`
}

// HasValue reports whether v is one of the question's option values.
func (q Question) HasValue(v int) bool {
	for _, o := range q.Options {
		if o.Value == v {
			return true
		}
	}
	return false
}

// OptionLabel returns the display label for v, or "" when v is not an option value.
func (q Question) OptionLabel(v int) string {
	for _, o := range q.Options {
		if o.Value == v {
			return o.Label
		}
	}
	return ""
}

var etaOptions = []Option{
	{Label: "Never", Value: 0},
	{Label: "Sometimes", Value: 40},
	{Label: "About half", Value: 60},
	{Label: "Usually", Value: 80},
	{Label: "Always", Value: 100},
}

var questions = []Question{
	{
		ID:       "q1",
		Text:     "Solved on the first visit (First-Time-Fix, FTF) in the last 30 days?",
		Category: CategoryFirstTimeFix,
		Options: []Option{
			{Label: "≤70%", Value: 20},
			{Label: "71–80%", Value: 50},
			{Label: "81–85%", Value: 70},
			{Label: "86–90%", Value: 90},
			{Label: ">90%", Value: 100},
		},
	},
	{
		ID:       "q2",
		Text:     "% of jobs with a pre-dispatch diagnosis before sending a technician (remote triage)?",
		Category: CategoryRemoteTriage,
		Options: []Option{
			{Label: "0%", Value: 0},
			{Label: "1–25%", Value: 35},
			{Label: "26–50%", Value: 55},
			{Label: "51–75%", Value: 75},
			{Label: "76–100%", Value: 95},
		},
	},
	{
		ID:       "q3",
		Text:     "% of jobs that needed a second visit (repeat-visit rate)?",
		Category: CategoryFirstTimeFix,
		Options: []Option{
			{Label: ">30%", Value: 10},
			{Label: "21–30%", Value: 35},
			{Label: "11–20%", Value: 60},
			{Label: "6–10%", Value: 80},
			{Label: "≤5%", Value: 100},
		},
	},
	{
		ID:       "q4",
		Text:     "Critical spare parts available immediately (line fill rate)?",
		Category: CategoryParts,
		Options: []Option{
			{Label: "≤70%", Value: 20},
			{Label: "71–80%", Value: 45},
			{Label: "81–90%", Value: 70},
			{Label: "91–96%", Value: 85},
			{Label: ">96%", Value: 100},
		},
	},
	{
		ID:       "q5",
		Text:     "Was an initial estimate given within 2 hours of ticket creation (ETA)?",
		Category: CategoryETA,
		Options:  etaOptions,
	},
	{
		ID:       "q6",
		Text:     "Was a confirmed estimate sent within 24 hours (ETA)?",
		Category: CategoryETA,
		Options:  etaOptions,
	},
	{
		ID:       "q7",
		Text:     "Are step-by-step work instructions & checklists in place for your top 10 fixes (playbooks)?",
		Category: CategoryPlaybooks,
		Options: []Option{
			{Label: "0 of 10", Value: 0},
			{Label: "1–3 of 10", Value: 35},
			{Label: "4–6 of 10", Value: 60},
			{Label: "7–9 of 10", Value: 80},
			{Label: "10 of 10", Value: 100},
		},
	},
	{
		ID:       "q8",
		Text:     "Do you use predictive monitoring on critical subsystems (condition-based maintenance, CBM)?",
		Category: CategoryPredictive,
		Options: []Option{
			{Label: "No", Value: 0},
			{Label: "Pilot", Value: 40},
			{Label: "1–2 critical assets", Value: 60},
			{Label: "3–5 critical assets", Value: 80},
			{Label: "Fleet-wide criticals", Value: 100},
		},
	},
	{
		ID:       "q9",
		Text:     "% of jobs using pre-bundled service kits (parts kits)?",
		Category: CategoryParts,
		Options: []Option{
			{Label: "0%", Value: 0},
			{Label: "1–10%", Value: 30},
			{Label: "11–30%", Value: 55},
			{Label: "31–60%", Value: 80},
			{Label: ">60%", Value: 100},
		},
	},
	{
		ID:       "q10",
		Text:     "Median time to resolve from open to complete (MTTR)?",
		Category: CategoryFirstTimeFix,
		Options: []Option{
			{Label: ">14 days", Value: 10},
			{Label: "8–14 days", Value: 35},
			{Label: "3–7 days", Value: 65},
			{Label: "1–2 days", Value: 85},
			{Label: "<1 day", Value: 100},
		},
	},
	{
		ID:       "q11",
		Text:     "% of inbound issues resolved without a technician visit (remote saves)?",
		Category: CategoryRemoteTriage,
		Options: []Option{
			{Label: "0%", Value: 0},
			{Label: "1–10%", Value: 30},
			{Label: "11–25%", Value: 55},
			{Label: "26–40%", Value: 80},
			{Label: ">40%", Value: 100},
		},
	},
	{
		ID:       "q12",
		Text:     "Is serial number/model captured on more than 95% of service tickets?",
		Category: CategoryPlaybooks,
		Options: []Option{
			{Label: "No", Value: 0},
			{Label: "Partly", Value: 50},
			{Label: "Yes", Value: 100},
		},
	},
}

var questionIndex = func() map[string]int {
	idx := make(map[string]int, len(questions))
	for i, q := range questions {
		idx[q.ID] = i
	}
	return idx
}()

// Questions returns the catalog in display order. The slice is a copy; the
// option slices are shared and must not be modified.
func Questions() []Question {
	out := make([]Question, len(questions))
	copy(out, questions)
	return out
}

// QuestionCount is the number of questions a complete answer set covers.
func QuestionCount() int { return len(questions) }

// QuestionByID looks up a question by id.
func QuestionByID(id string) (Question, bool) {
	i, ok := questionIndex[id]
	if !ok {
		return Question{}, false
	}
	return questions[i], true
}

// QuestionsIn returns the questions tagged with c in display order.
func QuestionsIn(c Category) []Question {
	var out []Question
	for _, q := range questions {
		if q.Category == c {
			out = append(out, q)
		}
	}
	return out
}
