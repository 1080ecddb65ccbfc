// Package cli implements the quizctl command line.
package cli

import (
	"github.com/rustybadge/after-sales-quiz/internal/common/config"
	"github.com/rustybadge/after-sales-quiz/internal/common/logger"
	"github.com/rustybadge/after-sales-quiz/internal/report"

	"github.com/spf13/cobra"
)

func Execute() error {
	return NewRoot().Execute()
}

type rootOptions struct {
	configPath string
	verbose    bool
}

func NewRoot() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:           "quizctl",
		Short:         "After-sales maturity quiz tooling",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "Config file for report branding")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Log to stderr")

	root.AddCommand(
		QuestionsCmd(),
		ScoreCmd(),
		RenderCmd(opts),
		TakeCmd(),
		RegistryCmd(),
	)
	return root
}

func (o *rootOptions) logger() logger.Logger {
	if o.verbose {
		return logger.NewStructured("debug", "console")
	}
	return logger.NewNoOpLogger()
}

// brand reads branding from --config, or the built in defaults.
func (o *rootOptions) brand() (report.Brand, error) {
	if o.configPath == "" {
		return report.DefaultBrand(), nil
	}
	cfg, err := config.LoadFromFile(o.configPath)
	if err != nil {
		return report.Brand{}, err
	}
	return report.BrandFromConfig(cfg.Report), nil
}
