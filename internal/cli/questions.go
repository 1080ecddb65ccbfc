package cli

import (
	"fmt"
	"io"

	"github.com/rustybadge/after-sales-quiz/internal/quiz"

	"github.com/spf13/cobra"
)

func QuestionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "questions",
		Short: "Print the question catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			printCatalog(cmd.OutOrStdout())
			return nil
		},
	}
}

func printCatalog(w io.Writer) {
	for _, c := range quiz.Categories() {
		fmt.Fprintf(w, "%s (%s, weight %s, target %.0f%%)\n", c.Label(), c, quiz.WeightLabel(c), quiz.Threshold(c))
		for _, q := range quiz.QuestionsIn(c) {
			fmt.Fprintf(w, "  %s  %s\n", q.ID, q.Text)
			for _, o := range q.Options {
				fmt.Fprintf(w, "        %3d  %s\n", o.Value, o.Label)
			}
		}
	}
}
