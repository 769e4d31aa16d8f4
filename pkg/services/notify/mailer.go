package notify

import (
	"context"
	"embed"
	"fmt"
	htmltemplate "html/template"
	texttemplate "text/template"

	"github.com/de-tools/cost-monitor/pkg/models/domain"
	"github.com/de-tools/cost-monitor/pkg/services/config"
	"github.com/rs/zerolog"
	"github.com/wneessen/go-mail"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var (
	textTemplates = texttemplate.Must(texttemplate.ParseFS(templateFS, "templates/*.txt.tmpl"))
	htmlTemplates = htmltemplate.Must(htmltemplate.ParseFS(templateFS, "templates/*.html.tmpl"))
)

// sender delivers composed messages. *mail.Client satisfies it.
type sender interface {
	DialAndSendWithContext(ctx context.Context, messages ...*mail.Msg) error
}

type MailerOption func(*Mailer)

// WithSender replaces the SMTP client.
func WithSender(s sender) MailerOption {
	return func(m *Mailer) {
		m.sender = s
	}
}

// Mailer sends alerts and reports as multipart text and HTML mail.
type Mailer struct {
	cloud  string
	from   string
	to     []string
	sender sender
}

func NewMailer(cfg *config.Config, provider domain.ProviderType, opts ...MailerOption) (*Mailer, error) {
	if err := cfg.ValidateMail(); err != nil {
		return nil, err
	}

	m := &Mailer{
		cloud: provider.DisplayName(),
		from:  cfg.SMTP.Sender(),
		to:    cfg.Alert.EmailTo,
	}
	for _, opt := range opts {
		opt(m)
	}

	if m.sender == nil {
		client, err := mail.NewClient(cfg.SMTP.Server,
			mail.WithPort(cfg.SMTP.Port),
			mail.WithTLSPolicy(mail.TLSMandatory),
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(cfg.SMTP.Username),
			mail.WithPassword(cfg.SMTP.Password),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create mail client: %w", err)
		}
		m.sender = client
	}
	return m, nil
}

func DailySubject(cloud string, alert *domain.DailyAlert) string {
	return fmt.Sprintf("%s Cost Alert - %s Cost Exceeded Threshold", cloud, alert.Date.Format("2006-01-02"))
}

func MonthlySubject(cloud string, report *domain.MonthlyReport) string {
	return fmt.Sprintf("%s Monthly Cost Report - %s", cloud, report.Month)
}

func (m *Mailer) SendDailyAlert(ctx context.Context, alert *domain.DailyAlert) error {
	msg, err := m.compose(DailySubject(m.cloud, alert), "daily", newDailyView(m.cloud, alert))
	if err != nil {
		return err
	}
	return m.send(ctx, msg)
}

func (m *Mailer) SendMonthlyReport(ctx context.Context, report *domain.MonthlyReport) error {
	msg, err := m.compose(MonthlySubject(m.cloud, report), "monthly", newMonthlyView(m.cloud, report))
	if err != nil {
		return err
	}
	return m.send(ctx, msg)
}

func (m *Mailer) compose(subject, name string, data any) (*mail.Msg, error) {
	msg := mail.NewMsg()
	if err := msg.From(m.from); err != nil {
		return nil, fmt.Errorf("invalid sender address %q: %w", m.from, err)
	}
	if err := msg.To(m.to...); err != nil {
		return nil, fmt.Errorf("invalid recipient address: %w", err)
	}
	msg.Subject(subject)

	if err := msg.SetBodyTextTemplate(textTemplates.Lookup(name+".txt.tmpl"), data); err != nil {
		return nil, fmt.Errorf("failed to render %s text body: %w", name, err)
	}
	if err := msg.AddAlternativeHTMLTemplate(htmlTemplates.Lookup(name+".html.tmpl"), data); err != nil {
		return nil, fmt.Errorf("failed to render %s html body: %w", name, err)
	}
	return msg, nil
}

func (m *Mailer) send(ctx context.Context, msg *mail.Msg) error {
	logger := zerolog.Ctx(ctx)

	if err := m.sender.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	logger.Info().Strs("to", m.to).Msg("email sent")
	return nil
}
