package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/rustybadge/after-sales-quiz/internal/quiz"

	"github.com/spf13/cobra"
)

func TakeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "take",
		Short: "Take the quiz interactively",
		Long:  "Answer each question by its option number. Enter b to go back, q to quit.",
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := runTake(cmd.InOrStdin(), cmd.OutOrStdout())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout())
			printResult(cmd.OutOrStdout(), result)
			return nil
		},
	}
}

var errQuit = errors.New("quiz aborted")

// runTake drives a quiz.Flow from line based input.
func runTake(in io.Reader, out io.Writer) (quiz.Result, error) {
	scanner := bufio.NewScanner(in)
	flow := quiz.NewFlow()

	readLine := func() (string, error) {
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return "", err
			}
			return "", errQuit
		}
		line := strings.TrimSpace(scanner.Text())
		if strings.EqualFold(line, "q") {
			return "", errQuit
		}
		return line, nil
	}

	for flow.Step() != quiz.StepResults {
		switch flow.Step() {
		case quiz.StepCompany:
			fmt.Fprint(out, "Company name: ")
			line, err := readLine()
			if err != nil {
				return quiz.Result{}, err
			}
			_ = flow.SetCompany(line)
			if err := flow.Next(); err != nil {
				fmt.Fprintln(out, err)
			}

		case quiz.StepQuestions:
			q, err := flow.Question()
			if err != nil {
				return quiz.Result{}, err
			}
			fmt.Fprintf(out, "\n[%d/%d] %s\n", flow.Index()+1, quiz.QuestionCount(), q.Text)
			for i, o := range q.Options {
				fmt.Fprintf(out, "  %d) %s\n", i+1, o.Label)
			}
			fmt.Fprint(out, "> ")

			line, err := readLine()
			if err != nil {
				return quiz.Result{}, err
			}
			if strings.EqualFold(line, "b") {
				if err := flow.Back(); err != nil {
					fmt.Fprintln(out, err)
				}
				continue
			}
			n, err := strconv.Atoi(line)
			if err != nil || n < 1 || n > len(q.Options) {
				fmt.Fprintf(out, "Choose 1-%d\n", len(q.Options))
				continue
			}
			if err := flow.Answer(q.Options[n-1].Value); err != nil {
				fmt.Fprintln(out, err)
				continue
			}
			if err := flow.Next(); err != nil {
				fmt.Fprintln(out, err)
			}
		}
	}
	return flow.Result()
}
