package quiz

import (
	"errors"
	"fmt"
	"strings"
)

// Step is the position of a respondent in the quiz.
type Step int

const (
	StepCompany Step = iota
	StepQuestions
	StepResults
)

func (s Step) String() string {
	switch s {
	case StepCompany:
		return "company"
	case StepQuestions:
		return "questions"
	case StepResults:
		return "results"
	}
	return fmt.Sprintf("step(%d)", int(s))
}

var (
	ErrCompanyRequired = errors.New("company name is required")
	ErrNotAnswered     = errors.New("current question has no answer")
	ErrNoQuestion      = errors.New("no question at this step")
	ErrNoTransition    = errors.New("no transition from this step")
	ErrNotFinished     = errors.New("quiz is not finished")
)

// Flow tracks one respondent's session: company name, then the twelve
// questions in order, then results. A Flow is not safe for concurrent use;
// each session owns its own.
type Flow struct {
	step    Step
	company string
	index   int
	answers AnswerSet
}

// NewFlow starts a session at the company step.
func NewFlow() *Flow {
	return &Flow{step: StepCompany, answers: AnswerSet{}}
}

func (f *Flow) Step() Step { return f.step }
func (f *Flow) Company() string { return f.company }
func (f *Flow) Index() int { return f.index }
func (f *Flow) Answers() AnswerSet { return f.answers.Clone() }

// SetCompany records the company name. Allowed only on the company step.
func (f *Flow) SetCompany(name string) error {
	if f.step != StepCompany {
		return fmt.Errorf("set company on %s step: %w", f.step, ErrNoTransition)
	}
	f.company = strings.TrimSpace(name)
	return nil
}

// Question returns the question currently shown.
func (f *Flow) Question() (Question, error) {
	if f.step != StepQuestions {
		return Question{}, ErrNoQuestion
	}
	return questions[f.index], nil
}

// Answer selects value for the current question, replacing any earlier answer.
func (f *Flow) Answer(value int) error {
	q, err := f.Question()
	if err != nil {
		return err
	}
	if !q.HasValue(value) {
		return fmt.Errorf("%s: %w", q.ID, ErrInvalidValue)
	}
	f.answers[q.ID] = value
	return nil
}

// Next moves forward. The company step requires a name; a question must be
// answered before moving on; the last question leads to results.
func (f *Flow) Next() error {
	switch f.step {
	case StepCompany:
		if f.company == "" {
			return ErrCompanyRequired
		}
		f.step = StepQuestions
		f.index = 0
		return nil
	case StepQuestions:
		if _, ok := f.answers[questions[f.index].ID]; !ok {
			return ErrNotAnswered
		}
		if f.index < len(questions)-1 {
			f.index++
			return nil
		}
		f.step = StepResults
		return nil
	}
	return ErrNoTransition
}

// Back moves one step backwards, keeping answers already given.
func (f *Flow) Back() error {
	switch f.step {
	case StepQuestions:
		if f.index > 0 {
			f.index--
			return nil
		}
		f.step = StepCompany
		return nil
	case StepResults:
		f.step = StepQuestions
		f.index = len(questions) - 1
		return nil
	}
	return ErrNoTransition
}

// Result evaluates the finished session.
func (f *Flow) Result() (Result, error) {
	if f.step != StepResults {
		return Result{}, ErrNotFinished
	}
	return Evaluate(f.company, f.answers), nil
}

// Reset discards the session and returns to the company step.
func (f *Flow) Reset() {
	*f = *NewFlow()
}
