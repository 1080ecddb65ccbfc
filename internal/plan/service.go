// Package plan delivers rendered action plans by email.
package plan

import (
	"context"
	"encoding/base64"
	"strings"
	"time"

	"github.com/rustybadge/after-sales-quiz/internal/common/errors"
	"github.com/rustybadge/after-sales-quiz/internal/common/logger"
	"github.com/rustybadge/after-sales-quiz/internal/common/mail"
	"github.com/rustybadge/after-sales-quiz/internal/common/metrics"
	"github.com/rustybadge/after-sales-quiz/internal/common/observability"
	"github.com/rustybadge/after-sales-quiz/internal/common/ratelimit"
	"github.com/rustybadge/after-sales-quiz/internal/common/validation"
	"github.com/rustybadge/after-sales-quiz/internal/quiz"
	"github.com/rustybadge/after-sales-quiz/internal/report"

	"go.opentelemetry.io/otel/attribute"
)

// LeadPublisher announces plan requests to the sales team.
type LeadPublisher interface {
	PublishJSON(ctx context.Context, subject string, payload interface{}, attrs map[string]string) (string, error)
}

// Options wires a Service. Limiter and Leads are optional.
type Options struct {
	Mailer        mail.Mailer
	Limiter       ratelimit.Limiter
	Leads         LeadPublisher
	Brand         report.Brand
	FromName      string
	FromEmail     string
	ReplyTo       string
	Subject       string
	Timeout       time.Duration
	Logger        logger.Logger
	Observability *observability.Observability
}

// Service validates delivery requests and hands them to a mailer.
type Service struct {
	mailer  mail.Mailer
	limiter ratelimit.Limiter
	leads   LeadPublisher
	brand   report.Brand
	from    string
	replyTo string
	subject string
	timeout time.Duration
	logger  logger.Logger
	obs     *observability.Observability
	now     func() time.Time
}

func NewService(opts Options) *Service {
	s := &Service{
		mailer:  opts.Mailer,
		limiter: opts.Limiter,
		leads:   opts.Leads,
		brand:   opts.Brand,
		from:    mail.FormatAddress(opts.FromName, opts.FromEmail),
		replyTo: opts.ReplyTo,
		subject: opts.Subject,
		timeout: opts.Timeout,
		logger:  opts.Logger,
		obs:     opts.Observability,
		now:     time.Now,
	}
	if s.limiter == nil {
		s.limiter = ratelimit.Unlimited{}
	}
	if s.logger == nil {
		s.logger = logger.NewNoOpLogger()
	}
	if s.obs == nil {
		s.obs = observability.Noop()
	}
	if s.brand.Name == "" {
		s.brand = report.DefaultBrand()
	}
	return s
}

// Validate checks req without side effects and returns the decoded PDF.
// Missing fields are reported before malformed ones.
func Validate(req Request) ([]byte, error) {
	email := strings.TrimSpace(req.Email)
	if email == "" {
		return nil, errors.NewMissingEmailError()
	}
	if strings.TrimSpace(req.PDFData) == "" {
		return nil, errors.NewMissingPDFError()
	}
	if !validation.ValidateEmail(email) {
		return nil, errors.NewInvalidEmailError(email)
	}
	pdf, err := base64.StdEncoding.DecodeString(strings.TrimSpace(req.PDFData))
	if err != nil {
		return nil, errors.NewInvalidPDFError(err)
	}
	if len(pdf) == 0 {
		return nil, errors.NewMissingPDFError()
	}
	return pdf, nil
}

// Deliver emails the plan in req to its recipient. Nothing is sent unless the
// request validates.
func (s *Service) Deliver(ctx context.Context, req Request) (*Ack, error) {
	ctx, span := s.obs.StartSpan(ctx, "plan.deliver")
	defer span.End()

	pdf, err := Validate(req)
	if err != nil {
		metrics.PlanDeliveries.WithLabelValues("rejected", "none").Inc()
		return nil, err
	}

	recipient := validation.NormalizeEmail(req.Email)
	company := strings.TrimSpace(req.Company)
	score := quiz.RoundScore(req.TotalScore)
	span.SetAttributes(
		attribute.String("plan.company", company),
		attribute.Int("plan.score", score),
	)

	decision, err := s.limiter.Allow(ctx, recipient)
	if err != nil {
		s.logger.Warn("rate limiter unavailable, admitting request", map[string]interface{}{
			"error": err,
		})
	} else if !decision.Allowed {
		metrics.PlanDeliveries.WithLabelValues("throttled", "none").Inc()
		s.logger.Warn("plan delivery throttled", map[string]interface{}{
			"recipient":  recipient,
			"retryAfter": decision.RetryAfter.String(),
		})
		return nil, errors.NewRateLimitedError(decision.RetryAfter)
	}

	body, err := report.ComposeEmail(s.brand, s.subject, report.PlanEmail{
		To:          recipient,
		Company:     company,
		TotalScore:  score,
		PersonaName: req.PersonaName,
	})
	if err != nil {
		return nil, errors.NewInternalError(err)
	}

	msg := mail.Message{
		From:    s.from,
		To:      []string{recipient},
		ReplyTo: s.replyTo,
		Subject: body.Subject,
		HTML:    body.HTML,
		Text:    body.Text,
		Attachments: []mail.Attachment{{
			Filename:    s.brand.AttachmentName(company),
			ContentType: "application/pdf",
			Data:        pdf,
		}},
	}

	sendCtx := ctx
	if s.timeout > 0 {
		var cancel context.CancelFunc
		sendCtx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	start := s.now()
	receipt, err := s.mailer.Send(sendCtx, msg)
	if err != nil {
		provider := providerOf(s.mailer)
		metrics.PlanDeliveries.WithLabelValues("failed", provider).Inc()
		span.RecordError(err)
		s.logger.Error("plan delivery failed", map[string]interface{}{
			"recipient": recipient,
			"provider":  provider,
			"error":     err,
		})
		return nil, errors.NewEmailSendFailedError(provider, err)
	}
	metrics.PlanDeliveryDuration.WithLabelValues(receipt.Provider).Observe(s.now().Sub(start).Seconds())
	metrics.PlanDeliveries.WithLabelValues("sent", receipt.Provider).Inc()

	sentAt := s.now().UTC()
	s.logger.Info("plan delivered", map[string]interface{}{
		"recipient": recipient,
		"company":   company,
		"messageId": receipt.MessageID,
		"provider":  receipt.Provider,
	})

	s.publishLead(ctx, Lead{
		Email:      recipient,
		Company:    company,
		TotalScore: score,
		Persona:    req.PersonaName,
		Timestamp:  sentAt,
	})

	return &Ack{MessageID: receipt.MessageID, Provider: receipt.Provider, SentAt: sentAt}, nil
}

// publishLead never fails the delivery; errors are logged and counted.
func (s *Service) publishLead(ctx context.Context, lead Lead) {
	if s.leads == nil {
		return
	}
	id, err := s.leads.PublishJSON(ctx, "After-Sales Quiz lead", lead, map[string]string{
		"persona": lead.Persona,
	})
	if err != nil {
		metrics.LeadAlerts.WithLabelValues("failed").Inc()
		s.logger.Warn("lead alert failed", map[string]interface{}{
			"error": errors.NewLeadAlertFailedError(err),
		})
		return
	}
	metrics.LeadAlerts.WithLabelValues("published").Inc()
	s.logger.Debug("lead alert published", map[string]interface{}{"messageId": id})
}

func providerOf(m mail.Mailer) string {
	switch m.(type) {
	case *mail.SESMailer:
		return mail.ProviderSES
	case *mail.SMTPMailer:
		return mail.ProviderSMTP
	case *mail.LogMailer:
		return mail.ProviderLog
	default:
		return "unknown"
	}
}
