package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/rustybadge/after-sales-quiz/internal/report"

	"github.com/spf13/cobra"
)

func RenderCmd(root *rootOptions) *cobra.Command {
	var (
		answersPath string
		company     string
		outPath     string
		date        string
		partial     bool
	)
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render the action plan PDF for an answers file",
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := evaluateFile(answersPath, company, partial)
			if err != nil {
				return err
			}

			opts := report.RenderOptions{Date: time.Now()}
			if date != "" {
				d, err := time.Parse("2006-01-02", date)
				if err != nil {
					return fmt.Errorf("invalid --date: %w", err)
				}
				opts.Date = d
			}

			brand, err := root.brand()
			if err != nil {
				return err
			}
			renderer := report.NewRenderer(brand, root.logger())
			pdf, err := renderer.Render(context.Background(), result, opts)
			if err != nil {
				return err
			}

			if outPath == "" {
				outPath = renderer.FileName(result.Company)
			}
			if err := os.WriteFile(outPath, pdf, 0644); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (%d bytes)\n", outPath, len(pdf))
			return nil
		},
	}
	cmd.Flags().StringVar(&answersPath, "answers", "", "JSON answers file")
	cmd.Flags().StringVar(&company, "company", "", "Company name")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "Output file (default humblebee-action-plan-<company>.pdf)")
	cmd.Flags().StringVar(&date, "date", "", "Report date, YYYY-MM-DD (default today)")
	cmd.Flags().BoolVar(&partial, "partial", false, "Render an incomplete answer set")
	_ = cmd.MarkFlagRequired("answers")
	return cmd
}
