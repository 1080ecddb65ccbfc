package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/rustybadge/after-sales-quiz/internal/quiz"

	"github.com/spf13/cobra"
)

type answersFile struct {
	Company string         `json:"company"`
	Answers quiz.AnswerSet `json:"answers"`
}

// readAnswers accepts {"company": ..., "answers": {...}} or a bare id to
// value object.
func readAnswers(path string) (answersFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return answersFile{}, err
	}
	var f answersFile
	if err := json.Unmarshal(data, &f); err == nil && f.Answers != nil {
		return f, nil
	}
	var bare quiz.AnswerSet
	if err := json.Unmarshal(data, &bare); err != nil {
		return answersFile{}, fmt.Errorf("parse %s: %w", path, err)
	}
	return answersFile{Answers: bare}, nil
}

// evaluateFile loads and scores an answers file. --company overrides the
// file's company.
func evaluateFile(path, company string, partial bool) (quiz.Result, error) {
	f, err := readAnswers(path)
	if err != nil {
		return quiz.Result{}, err
	}
	if company != "" {
		f.Company = company
	}
	if err := f.Answers.Validate(); err != nil {
		return quiz.Result{}, err
	}
	if !partial {
		if missing := f.Answers.Missing(); len(missing) > 0 {
			return quiz.Result{}, fmt.Errorf("unanswered questions: %v (use --partial to score anyway)", missing)
		}
	}
	return quiz.Evaluate(f.Company, f.Answers), nil
}

func ScoreCmd() *cobra.Command {
	var (
		answersPath string
		company     string
		partial     bool
		asJSON      bool
	)
	cmd := &cobra.Command{
		Use:   "score",
		Short: "Score an answers file",
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := evaluateFile(answersPath, company, partial)
			if err != nil {
				return err
			}
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(result)
			}
			printResult(cmd.OutOrStdout(), result)
			return nil
		},
	}
	cmd.Flags().StringVar(&answersPath, "answers", "", "JSON answers file")
	cmd.Flags().StringVar(&company, "company", "", "Company name")
	cmd.Flags().BoolVar(&partial, "partial", false, "Score an incomplete answer set")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the result as JSON")
	_ = cmd.MarkFlagRequired("answers")
	return cmd
}

func printResult(w io.Writer, r quiz.Result) {
	if r.Company != "" {
		fmt.Fprintf(w, "Company: %s\n", r.Company)
	}
	fmt.Fprintf(w, "Overall score: %d%% (%s)\n", r.DisplayScore(), r.Persona.Name)
	fmt.Fprintf(w, "%s\n", r.Persona.Blurb)
	if !r.Complete {
		fmt.Fprintf(w, "Answered %d of %d questions\n", r.Answered, quiz.QuestionCount())
	}

	fmt.Fprintln(w, "\nCategory scores:")
	for _, cs := range r.CategoryScores.Ordered() {
		fmt.Fprintf(w, "  %-16s %4s  %3d%%\n", cs.Category.Label(), quiz.WeightLabel(cs.Category), quiz.RoundScore(cs.Score))
	}

	rec := r.Recommendation
	fmt.Fprintf(w, "\nRecommendation (%s): %s\n", rec.State, rec.Headline)
	for _, g := range rec.Groups {
		fmt.Fprintf(w, "  %s (%d%%)\n", g.Label, quiz.RoundScore(g.Score))
		for _, a := range g.Actions {
			fmt.Fprintf(w, "    - %s\n", a)
		}
	}
	for _, item := range rec.Checklist {
		fmt.Fprintf(w, "  - %s\n", item)
	}
}
