package mail

import (
	"context"
	"fmt"

	commonaws "github.com/rustybadge/after-sales-quiz/internal/common/aws"
	"github.com/rustybadge/after-sales-quiz/internal/common/config"
	"github.com/rustybadge/after-sales-quiz/internal/common/logger"
)

const (
	ProviderSES  = config.MailProviderSES
	ProviderSMTP = config.MailProviderSMTP
	ProviderLog  = config.MailProviderLog
)

// NewFromConfig builds the Mailer selected by cfg.Mail.Provider.
func NewFromConfig(ctx context.Context, cfg *config.Config, log logger.Logger) (Mailer, error) {
	switch cfg.Mail.Provider {
	case ProviderSES:
		awsCfg, err := commonaws.LoadConfig(ctx, cfg.Integrations.AWS.Region)
		if err != nil {
			return nil, err
		}
		return NewSESMailer(commonaws.NewSESClient(awsCfg), cfg.Integrations.AWS.SES.ConfigurationSet), nil
	case ProviderSMTP:
		smtpCfg := cfg.Integrations.SMTP
		return NewSMTPMailer(SMTPConfig{
			Host:     smtpCfg.Host,
			Port:     smtpCfg.Port,
			Username: smtpCfg.Username,
			Password: smtpCfg.Password,
			UseTLS:   smtpCfg.UseTLS,
		}), nil
	case ProviderLog, "":
		return NewLogMailer(logger.Component(log, "mail")), nil
	default:
		return nil, fmt.Errorf("unknown mail provider %q", cfg.Mail.Provider)
	}
}
