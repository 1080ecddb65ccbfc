package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rustybadge/after-sales-quiz/internal/quiz"
	"github.com/rustybadge/after-sales-quiz/pkg/registry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	root := NewRoot()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func writeAnswers(t *testing.T, v interface{}) string {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "answers.json")
	require.NoError(t, os.WriteFile(path, data, 0644))
	return path
}

func highestAnswers() quiz.AnswerSet {
	a := quiz.AnswerSet{}
	for _, q := range quiz.Questions() {
		a[q.ID] = q.Options[len(q.Options)-1].Value
	}
	return a
}

func TestQuestionsCmd(t *testing.T) {
	out, err := run(t, "", "questions")
	require.NoError(t, err)
	assert.Contains(t, out, "First-Time-Fix (FTF, weight 25%")
	for _, q := range quiz.Questions() {
		assert.Contains(t, out, q.ID+"  ")
	}
}

func TestScoreCmd(t *testing.T) {
	path := writeAnswers(t, answersFile{Company: "Acme", Answers: highestAnswers()})

	out, err := run(t, "", "score", "--answers", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Company: Acme")
	assert.Contains(t, out, "(Predictor)")
	assert.Contains(t, out, "Recommendation (maintain)")
}

func TestScoreCmd_JSONAndCompanyOverride(t *testing.T) {
	path := writeAnswers(t, highestAnswers())

	out, err := run(t, "", "score", "--answers", path, "--company", "Beta AB", "--json")
	require.NoError(t, err)

	var result quiz.Result
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, "Beta AB", result.Company)
	assert.True(t, result.Complete)
	assert.Equal(t, quiz.StateMaintain, result.RecommendationState)
}

func TestScoreCmd_Incomplete(t *testing.T) {
	answers := highestAnswers()
	delete(answers, "q5")
	path := writeAnswers(t, answers)

	_, err := run(t, "", "score", "--answers", path)
	assert.ErrorContains(t, err, "q5")

	out, err := run(t, "", "score", "--answers", path, "--partial")
	require.NoError(t, err)
	assert.Contains(t, out, "Answered 11 of 12 questions")
}

func TestScoreCmd_InvalidValue(t *testing.T) {
	path := writeAnswers(t, quiz.AnswerSet{"q1": 3})

	_, err := run(t, "", "score", "--answers", path, "--partial")
	assert.ErrorIs(t, err, quiz.ErrInvalidValue)
}

func TestRenderCmd(t *testing.T) {
	answers := writeAnswers(t, answersFile{Company: "Acme", Answers: highestAnswers()})
	out := filepath.Join(t.TempDir(), "plan.pdf")

	stdout, err := run(t, "", "render", "--answers", answers, "--out", out, "--date", "2025-03-04")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Wrote "+out)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")))
}

func TestRenderCmd_BadDate(t *testing.T) {
	answers := writeAnswers(t, highestAnswers())

	_, err := run(t, "", "render", "--answers", answers, "--out", filepath.Join(t.TempDir(), "x.pdf"), "--date", "04/03/2025")
	assert.ErrorContains(t, err, "invalid --date")
}

func TestTakeCmd(t *testing.T) {
	// empty company is rejected, then q1 is answered, revisited and answered again
	input := []string{"", "Acme", "1", "b", "9"}
	for range quiz.Questions() {
		input = append(input, "1")
	}

	out, err := run(t, strings.Join(input, "\n")+"\n", "take")
	require.NoError(t, err)
	assert.Contains(t, out, quiz.ErrCompanyRequired.Error())
	assert.Contains(t, out, "Choose 1-5")
	assert.Contains(t, out, "[12/12]")
	assert.Contains(t, out, "Company: Acme")
	assert.Contains(t, out, "(Responder)")
}

func TestTakeCmd_QuitEarly(t *testing.T) {
	_, err := run(t, "Acme\nq\n", "take")
	assert.ErrorIs(t, err, errQuit)
}

func TestRegistryCmd(t *testing.T) {
	path := filepath.Join(t.TempDir(), "configs", "activity-registry.json")

	_, err := run(t, "", "registry", "--out", path)
	require.NoError(t, err)

	reg, err := registry.LoadRegistry(path)
	require.NoError(t, err)
	require.NoError(t, reg.Validate())
	require.Len(t, reg.Activities, 3)

	sendPlan, ok := reg.Find("send-plan")
	require.True(t, ok)
	assert.Contains(t, sendPlan.ErrorCodes, "EMAIL_SEND_FAILED")
	assert.Equal(t, 0, sendPlan.Retries)
	assert.NotEmpty(t, sendPlan.InputSchema)
}
