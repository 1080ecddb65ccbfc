package mail

import (
	"context"

	"github.com/rustybadge/after-sales-quiz/internal/common/logger"

	"github.com/google/uuid"
)

// LogMailer records messages in the log instead of delivering them. It is the
// default provider for local runs.
type LogMailer struct {
	logger logger.Logger
}

func NewLogMailer(log logger.Logger) *LogMailer {
	return &LogMailer{logger: log}
}

func (m *LogMailer) Send(ctx context.Context, msg Message) (Receipt, error) {
	if err := msg.Validate(); err != nil {
		return Receipt{}, err
	}

	attachments := make([]map[string]interface{}, 0, len(msg.Attachments))
	for _, a := range msg.Attachments {
		attachments = append(attachments, map[string]interface{}{
			"filename": a.Filename,
			"bytes":    len(a.Data),
		})
	}

	id := uuid.NewString()
	m.logger.Info("mail delivery skipped, log provider", map[string]interface{}{
		"messageId":   id,
		"from":        msg.From,
		"to":          msg.To,
		"subject":     msg.Subject,
		"attachments": attachments,
	})
	return Receipt{MessageID: id, Provider: ProviderLog}, nil
}
