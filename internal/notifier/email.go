package notifier

import (
	"fmt"
	"strings"

	"github.com/fatma123m/SmartPool/internal/config"
	"github.com/fatma123m/SmartPool/internal/models"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

// AlertSubject is the subject line of the outbound alert email.
const AlertSubject = "SmartPool - Alerte détectée"

// EmailDispatcher sends one outbound email per triggering invocation,
// aggregating every fired alert. Delivery failure is degraded, not retried;
// the alert log is persisted regardless of the outcome.
type EmailDispatcher struct {
	config *config.EmailConfig
	dialer *gomail.Dialer
	logger *zap.Logger
}

// NewEmailDispatcher creates a dispatcher over the configured SMTP relay.
func NewEmailDispatcher(cfg *config.EmailConfig, logger *zap.Logger) *EmailDispatcher {
	return &EmailDispatcher{
		config: cfg,
		dialer: gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.Username, cfg.Password),
		logger: logger,
	}
}

// DispatchAlerts composes and sends the aggregated alert message.
func (d *EmailDispatcher) DispatchAlerts(reading *models.Reading, alerts []*models.Alert) error {
	if len(alerts) == 0 {
		return nil
	}
	if d.config.To == "" || d.config.From == "" {
		return fmt.Errorf("email sender or recipient not configured")
	}

	m := gomail.NewMessage()
	m.SetHeader("From", d.config.From)
	m.SetHeader("To", d.config.To)
	m.SetHeader("Subject", AlertSubject)
	m.SetBody("text/plain", ComposeBody(reading, alerts))

	if err := d.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send alert email: %w", err)
	}

	d.logger.Info("Alert email sent",
		zap.String("to", d.config.To),
		zap.Int("alert_count", len(alerts)),
	)

	return nil
}

// Recipient returns the configured recipient address, recorded on each
// persisted alert.
func (d *EmailDispatcher) Recipient() string {
	return d.config.To
}

// ComposeBody builds the plain-text body: the alert list followed by the
// current raw values.
func ComposeBody(reading *models.Reading, alerts []*models.Alert) string {
	var b strings.Builder

	b.WriteString("Alertes :\n")
	for _, alert := range alerts {
		fmt.Fprintf(&b, "[%s] %s\n", alert.Severity, alert.Message)
	}

	b.WriteString("\nValeurs :\n")
	fmt.Fprintf(&b, "Température: %g°C\n", reading.Temperature)
	fmt.Fprintf(&b, "pH: %g\n", reading.PH)
	fmt.Fprintf(&b, "Niveau: %g\n", reading.Niveau)
	fmt.Fprintf(&b, "Pompe: %d\n", reading.Pompe)

	return b.String()
}
