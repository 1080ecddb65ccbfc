package cli

import (
	"fmt"
	"time"

	"github.com/rustybadge/after-sales-quiz/internal/common/errors"
	"github.com/rustybadge/after-sales-quiz/pkg/registry"

	sp "github.com/rustybadge/after-sales-quiz/internal/workers/communication/send-plan"
	sq "github.com/rustybadge/after-sales-quiz/internal/workers/quiz/score-quiz"
	rp "github.com/rustybadge/after-sales-quiz/internal/workers/report/render-plan"

	"github.com/spf13/cobra"
)

const registryVersion = "1.0.0"

func codes(cs ...errors.ErrorCode) []string {
	out := make([]string, len(cs))
	for i, c := range cs {
		out[i] = string(c)
	}
	return out
}

// activities describes the job workers served by quiz-server.
func activities() []registry.Activity {
	return []registry.Activity{
		{
			ID:                   sq.TaskType,
			DisplayName:          "Score Quiz",
			Description:          "Scores an answer set and derives persona and recommendations",
			Category:             "quiz",
			Version:              registryVersion,
			TaskType:             sq.TaskType,
			ImplementationStatus: "completed",
			InputSchema:          sq.GetInputSchema(),
			OutputSchema:         sq.GetOutputSchema(),
			ErrorCodes: codes(errors.ErrCodeValidationFailed, errors.ErrCodeInvalidRequest,
				errors.ErrCodeInvalidAnswers, errors.ErrCodeIncompleteAnswers),
			Timeout:   "10s",
			Workflows: []string{"after-sales-quiz"},
			Tags:      []string{"scoring"},
		},
		{
			ID:                   rp.TaskType,
			DisplayName:          "Render Action Plan",
			Description:          "Renders the action plan PDF for a quiz result",
			Category:             "report",
			Version:              registryVersion,
			TaskType:             rp.TaskType,
			ImplementationStatus: "completed",
			InputSchema:          rp.GetInputSchema(),
			OutputSchema:         rp.GetOutputSchema(),
			ErrorCodes: codes(errors.ErrCodeValidationFailed, errors.ErrCodeInvalidRequest,
				errors.ErrCodeReportRenderFailed),
			Timeout:   "30s",
			Workflows: []string{"after-sales-quiz"},
			Tags:      []string{"pdf"},
		},
		{
			ID:                   sp.TaskType,
			DisplayName:          "Send Action Plan",
			Description:          "Emails the action plan PDF to the respondent",
			Category:             "communication",
			Version:              registryVersion,
			TaskType:             sp.TaskType,
			ImplementationStatus: "completed",
			InputSchema:          sp.GetInputSchema(),
			OutputSchema:         sp.GetOutputSchema(),
			ErrorCodes: codes(errors.ErrCodeValidationFailed, errors.ErrCodeInvalidRequest,
				errors.ErrCodeMissingEmail, errors.ErrCodeMissingPDF, errors.ErrCodeInvalidEmail,
				errors.ErrCodeInvalidPDF, errors.ErrCodeRateLimited, errors.ErrCodeEmailSendFailed),
			Timeout:   "30s",
			Workflows: []string{"after-sales-quiz"},
			Tags:      []string{"email"},
		},
	}
}

func RegistryCmd() *cobra.Command {
	var outPath string
	cmd := &cobra.Command{
		Use:   "registry",
		Short: "Write the activity registry for the job workers",
		RunE: func(cmd *cobra.Command, args []string) error {
			now := time.Now()
			reg := registry.New(registryVersion, now)
			for _, a := range activities() {
				reg.Upsert(a, now)
			}
			if err := reg.Validate(); err != nil {
				return err
			}
			if err := registry.SaveRegistry(reg, outPath); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d activities to %s\n", len(reg.Activities), outPath)
			return nil
		},
	}
	cmd.Flags().StringVar(&outPath, "out", "configs/activity-registry.json", "Registry file")
	return cmd
}
