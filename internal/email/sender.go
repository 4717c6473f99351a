// Package email delivers outbound mail for the CRM. Delivery is best effort;
// callers treat failures as log-worthy, never fatal.
package email

import (
	"context"

	"estate_crm_backend/platform/config"
)

// ManagerAlertEmail carries the fields rendered into a manager alert mail.
type ManagerAlertEmail struct {
	ManagerName string
	AgentName   string
	BuyerName   string
	AlertTitle  string
	Description string
	Severity    string
	LeadURL     string
}

// Sender delivers CRM emails.
type Sender interface {
	SendManagerAlert(ctx context.Context, toEmail string, data ManagerAlertEmail) error
}

// NewSender picks the configured transport. Without SMTP settings, emails are
// silently dropped so the rest of the system keeps working.
func NewSender(cfg config.EmailConfig) (Sender, error) {
	if !cfg.GetEmailEnabled() {
		return NoopSender{}, nil
	}
	return NewSMTPSender(
		cfg.GetSMTPHost(),
		cfg.GetSMTPPort(),
		cfg.GetSMTPUsername(),
		cfg.GetSMTPPassword(),
		cfg.GetEmailFromAddress(),
		cfg.GetEmailFromName(),
	), nil
}

// NoopSender discards all emails.
type NoopSender struct{}

func (NoopSender) SendManagerAlert(context.Context, string, ManagerAlertEmail) error {
	return nil
}
